package main

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap/zaptest"

	"github.com/alnah/go-healthpdf/internal/storage"
)

func TestServeHTTP_ShutsDownOnCancel(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- serveHTTP(ctx, &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}, ln, zaptest.NewLogger(t))
	}()

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if string(body) != "pong" {
		t.Errorf("body = %q, want pong", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("serveHTTP returned %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("serveHTTP did not return after cancel")
	}
}

func TestServeHTTP_ListenerError(t *testing.T) {
	t.Parallel()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	_ = ln.Close()

	err = serveHTTP(context.Background(), &http.Server{ReadHeaderTimeout: time.Second}, ln, zaptest.NewLogger(t))
	if err == nil {
		t.Fatal("expected error from a closed listener")
	}
}

func TestParseServeFlags(t *testing.T) {
	t.Parallel()

	f, err := parseServeFlags([]string{"--addr", "127.0.0.1:8080", "-c", "prod", "--log-level", "debug"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.addr != "127.0.0.1:8080" || f.common.config != "prod" || f.common.logLevel != "debug" {
		t.Errorf("flags = %+v", f)
	}
}

func TestStorageDescription_Local(t *testing.T) {
	t.Parallel()

	store := storage.NewLocalStore("out/pdfs")
	if got := backendName(store); got != storage.BackendLocal {
		t.Errorf("backendName() = %q, want %q", got, storage.BackendLocal)
	}
	if got := storageTarget(store); got != "out/pdfs" {
		t.Errorf("storageTarget() = %q, want out/pdfs", got)
	}
}
