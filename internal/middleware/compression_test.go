package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDefaultCompressionConfig(t *testing.T) {
	config := DefaultCompressionConfig()

	if config.MinSize != 1024 {
		t.Errorf("Expected MinSize to be 1024, got %d", config.MinSize)
	}
	if config.Level != gzip.DefaultCompression {
		t.Errorf("Expected Level to be DefaultCompression (%d), got %d", gzip.DefaultCompression, config.Level)
	}

	for _, expected := range []string{"text/html", "text/css", "text/javascript", "application/json"} {
		found := false
		for _, ct := range config.CompressibleTypes {
			if ct == expected {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("Expected %s in CompressibleTypes", expected)
		}
	}
}

func TestCompressionMiddleware(t *testing.T) {
	tests := []struct {
		name              string
		path              string
		responseBody      string
		contentType       string
		headers           map[string]string
		level             int
		expectCompression bool
	}{
		{
			name:              "Compresses large playlist JSON",
			path:              "/api/playlist",
			responseBody:      strings.Repeat(`{"type":"video","title":"Intro"}`, 100),
			contentType:       "application/json; charset=utf-8",
			headers:           map[string]string{"Accept-Encoding": "gzip, deflate"},
			expectCompression: true,
		},
		{
			name:              "Compresses with a custom level",
			path:              "/",
			responseBody:      strings.Repeat("Hello, World! ", 200),
			contentType:       "text/html",
			headers:           map[string]string{"Accept-Encoding": "gzip"},
			level:             gzip.BestSpeed,
			expectCompression: true,
		},
		{
			name:              "Doesn't compress small responses",
			path:              "/api/conversion-status",
			responseBody:      `{"phase":"done"}`,
			contentType:       "application/json",
			headers:           map[string]string{"Accept-Encoding": "gzip"},
			expectCompression: false,
		},
		{
			name:              "Doesn't compress video",
			path:              "/api/other",
			responseBody:      strings.Repeat("data", 500),
			contentType:       "video/mp4",
			headers:           map[string]string{"Accept-Encoding": "gzip"},
			expectCompression: false,
		},
		{
			name:              "Never compresses media paths",
			path:              "/media/notes.txt",
			responseBody:      strings.Repeat("text ", 500),
			contentType:       "text/plain",
			headers:           map[string]string{"Accept-Encoding": "gzip"},
			expectCompression: false,
		},
		{
			name:              "Never compresses range requests",
			path:              "/static/app.js",
			responseBody:      strings.Repeat("var a = 1;", 200),
			contentType:       "text/javascript",
			headers:           map[string]string{"Accept-Encoding": "gzip", "Range": "bytes=0-"},
			expectCompression: false,
		},
		{
			name:              "Respects client without gzip support",
			path:              "/api/playlist",
			responseBody:      strings.Repeat("data", 500),
			contentType:       "application/json",
			expectCompression: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", tt.contentType)
				w.WriteHeader(http.StatusOK)
				w.Write([]byte(tt.responseBody))
			})

			config := DefaultCompressionConfig()
			if tt.level != 0 {
				config.Level = tt.level
			}

			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()

			Compression(config)(handler).ServeHTTP(w, req)

			if w.Code != http.StatusOK {
				t.Errorf("Expected status 200, got %d", w.Code)
			}

			isCompressed := w.Header().Get("Content-Encoding") == "gzip"
			if isCompressed != tt.expectCompression {
				t.Fatalf("Expected compression=%v, got compression=%v", tt.expectCompression, isCompressed)
			}

			body := w.Body.Bytes()
			if tt.expectCompression {
				gr, err := gzip.NewReader(bytes.NewReader(body))
				if err != nil {
					t.Fatalf("Failed to create gzip reader: %v", err)
				}
				defer gr.Close()

				body, err = io.ReadAll(gr)
				if err != nil {
					t.Fatalf("Failed to decompress: %v", err)
				}
			}
			if string(body) != tt.responseBody {
				t.Error("Body doesn't match what the handler wrote")
			}
		})
	}
}

func TestCompressionSkipsHead(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Length", "4096")
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodHead, "/api/playlist", http.NoBody)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	Compression(DefaultCompressionConfig())(handler).ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "" {
		t.Error("HEAD responses should not be compressed")
	}
	if w.Header().Get("Content-Length") != "4096" {
		t.Errorf("Content-Length should be preserved, got %q", w.Header().Get("Content-Length"))
	}
}

func TestCompressionLeavesEncodedResponses(t *testing.T) {
	body := strings.Repeat("already gzipped ", 200)

	tests := []struct {
		name    string
		path    string
		handler http.HandlerFunc
	}{
		{
			name: "handler set Content-Encoding",
			path: "/api/playlist",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Content-Encoding", "br")
				w.Write([]byte(body))
			},
		},
		{
			name: "metrics path",
			path: "/metrics",
			handler: func(w http.ResponseWriter, _ *http.Request) {
				w.Header().Set("Content-Type", "text/plain; version=0.0.4")
				w.Write([]byte(body))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.path, http.NoBody)
			req.Header.Set("Accept-Encoding", "gzip")
			w := httptest.NewRecorder()

			Compression(DefaultCompressionConfig())(tt.handler).ServeHTTP(w, req)

			if w.Header().Get("Content-Encoding") == "gzip" {
				t.Error("Response should not be gzipped again")
			}
			if w.Body.String() != body {
				t.Error("Body should pass through unchanged")
			}
		})
	}
}

func TestCompressionKeepsStatusCode(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(strings.Repeat(`{"success":false}`, 100)))
	})

	req := httptest.NewRequest(http.MethodPost, "/api/convert", http.NoBody)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	Compression(DefaultCompressionConfig())(handler).ServeHTTP(w, req)

	if w.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", w.Code)
	}
	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Error("Expected large error body to be compressed")
	}
}

func TestGzipResponseWriterBuffering(t *testing.T) {
	w := httptest.NewRecorder()
	grw := newGzipResponseWriter(w, DefaultCompressionConfig())

	smallData := []byte("small")
	n, err := grw.Write(smallData)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if n != len(smallData) {
		t.Errorf("Expected to write %d bytes, wrote %d", len(smallData), n)
	}
	if !bytes.Equal(grw.buffer, smallData) {
		t.Error("Buffer content doesn't match written data")
	}
	if w.Body.Len() != 0 {
		t.Error("Nothing should reach the client before the decision is made")
	}

	if err := grw.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if w.Body.String() != "small" {
		t.Errorf("Expected buffered data flushed uncompressed, got %q", w.Body.String())
	}
}

func TestCompressionWithMultipleWrites(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusOK)

		// Multiple small writes that together exceed MinSize
		for i := 0; i < 50; i++ {
			w.Write([]byte(strings.Repeat("Hello, World! ", 10)))
		}
	})

	req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
	req.Header.Set("Accept-Encoding", "gzip")
	w := httptest.NewRecorder()

	Compression(DefaultCompressionConfig())(handler).ServeHTTP(w, req)

	if w.Header().Get("Content-Encoding") != "gzip" {
		t.Error("Expected response to be compressed")
	}
}

func BenchmarkCompressionMiddleware(b *testing.B) {
	responseBody := strings.Repeat(`{"type":"video"}`, 200)

	handler := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(responseBody))
	})

	wrappedHandler := Compression(DefaultCompressionConfig())(handler)

	req := httptest.NewRequest(http.MethodGet, "/api/playlist", http.NoBody)
	req.Header.Set("Accept-Encoding", "gzip")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		w := httptest.NewRecorder()
		wrappedHandler.ServeHTTP(w, req)
	}
}
