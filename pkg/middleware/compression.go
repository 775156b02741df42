package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"
	"sync"
)

var gzipWriterPool = sync.Pool{
	New: func() interface{} {
		w, _ := gzip.NewWriterLevel(io.Discard, gzip.DefaultCompression)
		return w
	},
}

// gzipResponseWriter holds the status back until the first body byte, so a
// response without a body never advertises an encoding.
type gzipResponseWriter struct {
	http.ResponseWriter
	gz      *gzip.Writer
	status  int
	started bool
}

func (w *gzipResponseWriter) WriteHeader(status int) {
	if w.started || w.status != 0 {
		return
	}
	w.status = status
}

func (w *gzipResponseWriter) Write(b []byte) (int, error) {
	if len(b) == 0 {
		return 0, nil
	}
	if !w.started {
		w.started = true
		if w.status == 0 {
			w.status = http.StatusOK
		}
		w.Header().Del("Content-Length")
		w.Header().Set("Content-Encoding", "gzip")
		w.ResponseWriter.WriteHeader(w.status)
	}
	return w.gz.Write(b)
}

// finish closes the gzip stream, or sends a held-back status for an empty body
func (w *gzipResponseWriter) finish() {
	if w.started {
		_ = w.gz.Close()
		return
	}
	w.gz.Reset(io.Discard)
	if w.status != 0 {
		w.ResponseWriter.WriteHeader(w.status)
	}
}

// Gzip compresses GET responses for clients that accept it. Member and invoice
// lists are the large payloads; mutations are small and left alone.
func Gzip(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || !acceptsGzip(r) {
			next.ServeHTTP(w, r)
			return
		}

		gz := gzipWriterPool.Get().(*gzip.Writer)
		gz.Reset(w)
		gw := &gzipResponseWriter{ResponseWriter: w, gz: gz}
		// Nothing is flushed for an empty body, so a panic further in can still
		// write its own response.
		defer func() {
			gw.finish()
			gzipWriterPool.Put(gz)
		}()

		w.Header().Add("Vary", "Accept-Encoding")

		next.ServeHTTP(gw, r)
	})
}

func acceptsGzip(r *http.Request) bool {
	for _, enc := range strings.Split(r.Header.Get("Accept-Encoding"), ",") {
		name, _, _ := strings.Cut(strings.TrimSpace(enc), ";")
		if strings.EqualFold(name, "gzip") {
			return true
		}
	}
	return false
}
