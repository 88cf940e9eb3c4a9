// Package server serves the rendered timeline over HTTP.
package server

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// Renderer produces the current page HTML. The server calls it fresh
// on every request so the page always reflects the live timeline.
type Renderer func() string

// Server is the HTTP surface around the renderer.
type Server struct {
	http.Server
}

// New builds a server bound to addr serving the rendered page at /
// and a liveness check at /healthz.
func New(addr string, render Renderer) *Server {
	m := http.NewServeMux()
	m.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		io.WriteString(w, render())
	})
	m.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, "ok")
	})

	return &Server{
		Server: http.Server{
			Addr:         addr,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			Handler:      accessLogWrapper{inner: m},
		},
	}
}

// Addr formats a host/port pair for New.
func Addr(bind string, port int) string {
	return fmt.Sprintf("%s:%d", bind, port)
}

// Implements [http.Handler] to wrap each call with an access log.
type accessLogWrapper struct {
	inner http.Handler
}

func (alw accessLogWrapper) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	writer := &respCodeWriter{ResponseWriter: w}
	alw.inner.ServeHTTP(writer, r)

	slog.Info("request completed",
		"method", r.Method,
		"url", r.URL.String(),
		"duration", time.Since(start),
		"status_code", writer.code,
	)
}

type respCodeWriter struct {
	http.ResponseWriter
	code int
}

func (w *respCodeWriter) WriteHeader(code int) {
	w.code = code
	w.ResponseWriter.WriteHeader(code)
}
