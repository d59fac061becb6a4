package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	healthpdf "github.com/alnah/go-healthpdf"
	"github.com/alnah/go-healthpdf/internal/storage"
)

// renderRequest is the POST /api/htmlpdf body.
type renderRequest struct {
	Lang     string                   `json:"lang"`
	Language string                   `json:"language"`
	Report   []healthpdf.AnswerRecord `json:"report"`
	Answers  []healthpdf.AnswerRecord `json:"answers"`
	BaseURL  string                   `json:"baseUrl"`
}

func (r renderRequest) toRender() healthpdf.RenderRequest {
	lang := r.Lang
	if lang == "" {
		lang = r.Language
	}
	answers := r.Report
	if answers == nil {
		answers = r.Answers
	}
	return healthpdf.RenderRequest{Language: lang, Answers: answers, BaseURL: r.BaseURL}
}

// renderResponse is returned on success.
type renderResponse struct {
	URL         string `json:"url"`
	FileName    string `json:"fileName"`
	Size        int    `json:"size"`
	Lang        string `json:"lang"`
	GeneratedAt string `json:"generatedAt"`
	FilePath    string `json:"filePath,omitempty"`
	StorageType string `json:"storageType"`
}

func (s *Server) handleRender(c *gin.Context) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBody))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "Invalid request", "message": "request body too large"})
			return
		}
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": err.Error()})
		return
	}
	if len(body) == 0 {
		body = []byte("{}")
	}

	details, err := validateBody(body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": "malformed JSON"})
		return
	}
	if len(details) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": joinDetails(details), "details": details})
		return
	}

	var req renderRequest
	if err := json.Unmarshal(body, &req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": err.Error()})
		return
	}

	rr := req.toRender()
	if err := rr.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request", "message": err.Error()})
		return
	}

	ctx := c.Request.Context()
	doc, err := s.renderer.Render(ctx, rr)
	if err != nil {
		s.fail(c, err)
		return
	}

	now := s.now()
	fileName := healthpdf.ReportFilename(doc.Language, now)
	loc, err := s.store.Save(ctx, doc.PDF, fileName)
	if err != nil {
		s.fail(c, err)
		return
	}

	resp := renderResponse{
		URL:         loc.URL,
		FileName:    fileName,
		Size:        doc.Size(),
		Lang:        doc.Language,
		GeneratedAt: now.UTC().Format(time.RFC3339Nano),
		StorageType: loc.Backend,
	}
	if loc.Backend == storage.BackendLocal {
		resp.FilePath = loc.Path
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) fail(c *gin.Context, err error) {
	s.logger.Error("generating PDF",
		zap.Error(err), zap.String("request_id", c.GetString(requestIDKey)))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate PDF", "message": err.Error()})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
		"service":   "healthpdf",
	})
}

func (s *Server) handleRouteHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"endpoint":  "/api/htmlpdf",
		"timestamp": s.now().UTC().Format(time.RFC3339Nano),
	})
}
