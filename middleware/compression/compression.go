// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package compression

import (
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/andybalholm/brotli"

	"rivaas.dev/negotiation"
	"rivaas.dev/negotiation/logging"
	"rivaas.dev/negotiation/metrics"
)

const (
	encodingBrotli   = "br"
	encodingGzip     = "gzip"
	encodingIdentity = "identity"
)

// New returns a middleware that compresses responses in the encoding the
// client prefers among those enabled. An out-of-range compression level
// panics.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.gzipLevel < gzip.HuffmanOnly || cfg.gzipLevel > gzip.BestCompression {
		panic(fmt.Sprintf("compression: invalid gzip level %d", cfg.gzipLevel))
	}
	if cfg.brotliLevel < brotli.BestSpeed || cfg.brotliLevel > brotli.BestCompression {
		panic(fmt.Sprintf("compression: invalid brotli level %d", cfg.brotliLevel))
	}
	if cfg.logger == nil {
		cfg.logger = logging.Noop()
	}

	var offers []string
	if cfg.enableBrotli {
		offers = append(offers, encodingBrotli)
	}
	if cfg.enableGzip {
		offers = append(offers, encodingGzip)
	}
	offers = append(offers, encodingIdentity)

	n := negotiation.New(negotiation.WithRejectZeroQuality())
	brotliPool := getBrotliWriterPool(cfg.brotliLevel)
	gzipPool := getGzipWriterPool(cfg.gzipLevel)

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept-Encoding")

			if cfg.excludePaths[r.URL.Path] {
				next.ServeHTTP(w, r)
				return
			}

			encoding := cfg.chooseEncoding(r.Context(), n, strings.Join(r.Header.Values("Accept-Encoding"), ", "), offers)

			var pool *sync.Pool
			switch encoding {
			case encodingBrotli:
				pool = brotliPool
			case encodingGzip:
				pool = gzipPool
			default:
				next.ServeHTTP(w, r)
				return
			}

			cw := &compressWriter{
				ResponseWriter:      w,
				encoding:            encoding,
				pool:                pool,
				excludeContentTypes: cfg.excludeContentTypes,
			}
			next.ServeHTTP(cw, r)

			if err := cw.Close(); err != nil {
				cfg.logger.ErrorContext(r.Context(), "compression finalization failed", "error", err)
			}
		})
	}
}

// chooseEncoding returns "" when the response should go out as-is.
func (c *config) chooseEncoding(ctx context.Context, n *negotiation.Negotiator, header string, offers []string) string {
	if strings.TrimSpace(header) == "" {
		return ""
	}

	start := time.Now()
	tok, ok, err := n.BestEncoding(header, offers)
	switch {
	case err != nil:
		c.recorder.RecordOutcome(ctx, metrics.KindEncoding, metrics.OutcomeError, time.Since(start))
		c.logger.DebugContext(ctx, "ignoring malformed Accept-Encoding", "header", header, "error", err)
		return ""
	case !ok:
		c.recorder.RecordOutcome(ctx, metrics.KindEncoding, metrics.OutcomeNoMatch, time.Since(start))
		return ""
	default:
		c.recorder.RecordOutcome(ctx, metrics.KindEncoding, metrics.OutcomeMatched, time.Since(start))
		return tok.Value
	}
}

// compressWriter decides on the first WriteHeader or Write whether the
// response is compressed.
type compressWriter struct {
	http.ResponseWriter
	writer              io.WriteCloser
	pool                *sync.Pool
	encoding            string
	excludeContentTypes []string

	statusCode int
	decided    bool
	compress   bool
}

func (cw *compressWriter) WriteHeader(code int) {
	if cw.decided {
		return
	}
	cw.statusCode = code
	cw.decide()
}

func (cw *compressWriter) Write(data []byte) (int, error) {
	if !cw.decided {
		if cw.Header().Get("Content-Type") == "" {
			cw.Header().Set("Content-Type", http.DetectContentType(data))
		}
		cw.statusCode = http.StatusOK
		cw.decide()
	}
	if cw.compress {
		return cw.writer.Write(data)
	}
	return cw.ResponseWriter.Write(data)
}

// decide sends the headers, starting compression when status, content type
// and existing Content-Encoding allow it.
func (cw *compressWriter) decide() {
	cw.decided = true

	h := cw.ResponseWriter.Header()
	cw.compress = !shouldSkipStatus(cw.statusCode) &&
		h.Get("Content-Encoding") == "" &&
		!shouldSkipContentType(h.Get("Content-Type"), cw.excludeContentTypes)

	if cw.compress {
		h.Del("Content-Length")
		h.Set("Content-Encoding", cw.encoding)

		switch cw.encoding {
		case encodingBrotli:
			w := cw.pool.Get().(*brotli.Writer)
			w.Reset(cw.ResponseWriter)
			cw.writer = w
		case encodingGzip:
			w := cw.pool.Get().(*gzip.Writer)
			w.Reset(cw.ResponseWriter)
			cw.writer = w
		}
	}

	cw.ResponseWriter.WriteHeader(cw.statusCode)
}

// Flush implements http.Flusher.
func (cw *compressWriter) Flush() {
	if cw.compress {
		if f, ok := cw.writer.(interface{ Flush() error }); ok {
			_ = f.Flush()
		}
	}
	if f, ok := cw.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Unwrap returns the wrapped writer for http.ResponseController.
func (cw *compressWriter) Unwrap() http.ResponseWriter {
	return cw.ResponseWriter
}

// Close finalizes compression and returns the writer to its pool.
func (cw *compressWriter) Close() error {
	if !cw.compress || cw.writer == nil {
		return nil
	}

	err := cw.writer.Close()
	switch w := cw.writer.(type) {
	case *brotli.Writer:
		w.Reset(nil)
	case *gzip.Writer:
		w.Reset(nil)
	}
	cw.pool.Put(cw.writer)
	cw.writer = nil

	return err
}

func shouldSkipStatus(code int) bool {
	return code == http.StatusNoContent ||
		code == http.StatusNotModified ||
		code == http.StatusPartialContent
}

func shouldSkipContentType(ct string, excludes []string) bool {
	if ct == "" {
		return false
	}

	ctLower := strings.ToLower(ct)
	if strings.Contains(ctLower, "text/event-stream") ||
		strings.Contains(ctLower, "application/grpc") ||
		strings.Contains(ctLower, "application/octet-stream") {
		return true
	}

	for _, excluded := range excludes {
		if strings.Contains(ctLower, strings.ToLower(excluded)) {
			return true
		}
	}
	return false
}

var (
	gzipWriterPools   = make(map[int]*sync.Pool)
	brotliWriterPools = make(map[int]*sync.Pool)
	poolsMutex        sync.Mutex
)

// getGzipWriterPool returns the shared pool for level.
func getGzipWriterPool(level int) *sync.Pool {
	poolsMutex.Lock()
	defer poolsMutex.Unlock()

	if pool, ok := gzipWriterPools[level]; ok {
		return pool
	}
	pool := &sync.Pool{
		New: func() any {
			w, _ := gzip.NewWriterLevel(io.Discard, level)
			return w
		},
	}
	gzipWriterPools[level] = pool
	return pool
}

// getBrotliWriterPool returns the shared pool for level.
func getBrotliWriterPool(level int) *sync.Pool {
	poolsMutex.Lock()
	defer poolsMutex.Unlock()

	if pool, ok := brotliWriterPools[level]; ok {
		return pool
	}
	pool := &sync.Pool{
		New: func() any {
			return brotli.NewWriterLevel(io.Discard, level)
		},
	}
	brotliWriterPools[level] = pool
	return pool
}
