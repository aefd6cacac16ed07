package middleware

import (
	"bytes"
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func gunzip(t *testing.T, body []byte) []byte {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(body))
	if err != nil {
		t.Fatalf("gzip.NewReader: %v", err)
	}
	defer zr.Close()
	plain, err := io.ReadAll(zr)
	if err != nil {
		t.Fatalf("gunzip: %v", err)
	}
	return plain
}

func TestGzipCompressionCompressesJSON(t *testing.T) {
	handler := GzipCompression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/connections", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if got := rec.Header().Get("Content-Encoding"); got != "gzip" {
		t.Fatalf("Content-Encoding = %q, want gzip", got)
	}
	if got := gunzip(t, rec.Body.Bytes()); string(got) != `{"status":"ok"}` {
		t.Errorf("decompressed body = %q", got)
	}
}

func TestGzipCompressionSkipsClientsWithoutGzip(t *testing.T) {
	handler := GzipCompression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("plain"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/connections", nil))

	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("response should not be encoded")
	}
	if rec.Body.String() != "plain" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

// The prometheus exposition handler applies its own negotiated gzip, so
// the middleware must leave /metrics alone or the body ends up encoded
// twice under a single Content-Encoding header.
func TestGzipCompressionSkipsMetricsEndpoint(t *testing.T) {
	handler := GzipCompression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Encoding", "gzip")
		zw := gzip.NewWriter(w)
		zw.Write([]byte("caretrek_http_requests_total 1"))
		zw.Close()
	}))

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	plain := gunzip(t, rec.Body.Bytes())
	if bytes.HasPrefix(plain, []byte{0x1f, 0x8b}) {
		t.Fatal("body was gzipped twice: one decode still yields a gzip stream")
	}
	if string(plain) != "caretrek_http_requests_total 1" {
		t.Errorf("decompressed body = %q", plain)
	}
}

func TestGzipCompressionSkipsWebsocketUpgrade(t *testing.T) {
	handler := GzipCompression(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("upgraded"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/ws", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	req.Header.Set("Upgrade", "websocket")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Header().Get("Content-Encoding") != "" {
		t.Error("websocket upgrade must not be wrapped")
	}
	if rec.Body.String() != "upgraded" {
		t.Errorf("body = %q", rec.Body.String())
	}
}
