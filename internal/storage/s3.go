package storage

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/alnah/go-healthpdf/internal/fileutil"
)

// DefaultURLExpiry is the presigned URL lifetime when none is configured.
const DefaultURLExpiry = time.Hour

// putter is the subset of *s3.Client used for uploads.
type putter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// presigner is the subset of *s3.PresignClient used for download URLs.
type presigner interface {
	PresignGetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Options configures an S3Store.
type S3Options struct {
	Bucket    string
	Region    string // Empty = SDK default chain
	Prefix    string // Key prefix, e.g. "reports/"
	URLExpiry time.Duration
}

// S3Store uploads PDFs to a bucket and returns presigned GET URLs.
type S3Store struct {
	client  putter
	presign presigner
	opts    S3Options
}

var _ Store = (*S3Store)(nil)

// NewS3Store loads AWS credentials from the default chain and creates a store.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	var loadOpts []func(*awsconfig.LoadOptions) error
	if opts.Region != "" {
		loadOpts = append(loadOpts, awsconfig.WithRegion(opts.Region))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}

	client := s3.NewFromConfig(cfg)
	return newS3Store(client, s3.NewPresignClient(client), opts), nil
}

func newS3Store(client putter, presign presigner, opts S3Options) *S3Store {
	if opts.URLExpiry <= 0 {
		opts.URLExpiry = DefaultURLExpiry
	}
	return &S3Store{client: client, presign: presign, opts: opts}
}

// Bucket returns the destination bucket.
func (s *S3Store) Bucket() string {
	return s.opts.Bucket
}

// Save uploads pdf and returns a presigned URL valid for URLExpiry.
func (s *S3Store) Save(ctx context.Context, pdf []byte, filename string) (Location, error) {
	if len(pdf) == 0 {
		return Location{}, ErrEmpty
	}
	if err := fileutil.ValidateFilename(filename); err != nil {
		return Location{}, err
	}

	key := path.Join(s.opts.Prefix, filename)

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.opts.Bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrUpload, err)
	}

	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.opts.Bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(s.opts.URLExpiry))
	if err != nil {
		return Location{}, fmt.Errorf("%w: %v", ErrPresign, err)
	}

	return Location{
		URL:     req.URL,
		Path:    "s3://" + s.opts.Bucket + "/" + key,
		Backend: BackendS3,
	}, nil
}
