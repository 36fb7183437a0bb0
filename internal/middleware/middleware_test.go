package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"churnlens/internal/infrastructure"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, nil))
}

func TestRequestID(t *testing.T) {
	t.Run("generates request ID when missing", func(t *testing.T) {
		var gotReqID, gotTraceID string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotReqID = GetReqID(r.Context())
			gotTraceID = infrastructure.GetTraceID(r.Context())
			w.WriteHeader(http.StatusOK)
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil))

		assert.NotEmpty(t, gotReqID)
		assert.Equal(t, gotReqID, gotTraceID)
		assert.Equal(t, gotReqID, rec.Header().Get("X-Request-ID"))
	})

	t.Run("honors incoming X-Request-ID", func(t *testing.T) {
		var gotReqID string
		handler := RequestID(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotReqID = GetReqID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-Request-ID", "client-supplied-id")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "client-supplied-id", gotReqID)
		assert.Equal(t, "client-supplied-id", rec.Header().Get("X-Request-ID"))
	})
}

func TestStructuredLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	handler := RequestID(StructuredLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
		w.Write([]byte("ok"))
	})))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/geo", nil))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	var started, completed map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &started))
	require.NoError(t, json.Unmarshal([]byte(lines[1]), &completed))

	assert.Equal(t, "request started", started["msg"])
	assert.Equal(t, "/api/analytics/geo", started["path"])
	assert.NotEmpty(t, started["trace_id"])

	assert.Equal(t, "request completed", completed["msg"])
	assert.Equal(t, float64(http.StatusAccepted), completed["status"])
	assert.Equal(t, float64(2), completed["bytes"])
}

func TestRecoverer(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	handler := Recoverer(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("segment table exploded")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "application/problem+json", rec.Header().Get("Content-Type"))

	var problem Problem
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
	assert.Equal(t, "/errors/internal-server-error", problem.Type)
	assert.Equal(t, http.StatusInternalServerError, problem.Status)

	assert.Contains(t, buf.String(), "panic recovered")
	assert.Contains(t, buf.String(), "segment table exploded")
}

func TestRateLimiter(t *testing.T) {
	var buf bytes.Buffer
	rl := NewRateLimiter(1, 2, newTestLogger(&buf))
	handler := rl.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	doRequest := func(remoteAddr string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/analytics/overview", nil)
		req.RemoteAddr = remoteAddr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	t.Run("burst allows then blocks", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doRequest("10.0.0.1:50001").Code)
		assert.Equal(t, http.StatusOK, doRequest("10.0.0.1:50002").Code)

		rec := doRequest("10.0.0.1:50003")
		assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.Equal(t, "60", rec.Header().Get("Retry-After"))

		var problem Problem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, "/errors/rate-limit-exceeded", problem.Type)
	})

	t.Run("buckets are per client IP", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, doRequest("10.0.0.2:50001").Code)
	})
}

func TestTimeout(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	t.Run("passes fast responses through unchanged", func(t *testing.T) {
		handler := Timeout(time.Second, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom", "kept")
			w.WriteHeader(http.StatusCreated)
			w.Write([]byte(`{"status":"success"}`))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, "kept", rec.Header().Get("X-Custom"))
		assert.JSONEq(t, `{"status":"success"}`, rec.Body.String())
	})

	t.Run("times out slow handlers", func(t *testing.T) {
		handler := Timeout(20*time.Millisecond, logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(time.Second):
			}
			w.Write([]byte("too late"))
		}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/export", nil))

		assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
		assert.NotContains(t, rec.Body.String(), "too late")

		var problem Problem
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &problem))
		assert.Equal(t, "/errors/gateway-timeout", problem.Type)
	})
}

func TestCORS(t *testing.T) {
	cors := CORS(CORSConfig{
		AllowedOrigins:   []string{"http://localhost:8080", "http://localhost:3000"},
		AllowCredentials: true,
	})
	handler := cors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	t.Run("echoes allowed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://localhost:3000")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("omits header for unknown origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Origin", "http://evil.example.com")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("answers preflight without hitting the handler", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/", nil)
		req.Header.Set("Origin", "http://localhost:8080")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "GET")
	})
}

func TestSecureHeaders(t *testing.T) {
	t.Run("default policy", func(t *testing.T) {
		sh := DefaultSecureHeaders()
		handler := sh.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
		assert.Equal(t, "DENY", rec.Header().Get("X-Frame-Options"))
		assert.Equal(t, "strict-origin-when-cross-origin", rec.Header().Get("Referrer-Policy"))
		assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "cdn.jsdelivr.net")
		assert.NotEmpty(t, rec.Header().Get("Permissions-Policy"))

		// HSTS only over TLS
		assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
	})

	t.Run("development mode relaxes CSP", func(t *testing.T) {
		sh := DefaultSecureHeaders()
		sh.DevMode = true
		handler := sh.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Contains(t, rec.Header().Get("Content-Security-Policy"), "connect-src *")
	})
}

func TestBusinessMetricsContext(t *testing.T) {
	t.Run("round-trips through the request context", func(t *testing.T) {
		metrics := &infrastructure.BusinessMetrics{}
		var got *infrastructure.BusinessMetrics

		handler := BusinessMetricsMiddleware(metrics)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = GetBusinessMetricsFromContext(r.Context())
		}))
		handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

		assert.Same(t, metrics, got)
	})

	t.Run("absent metrics yield nil", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		assert.Nil(t, GetBusinessMetricsFromContext(req.Context()))

		// RecordSystemError must tolerate a bare context
		RecordSystemError(req.Context(), "panic", "http")
	})
}

func TestProblemFromStatus(t *testing.T) {
	tests := []struct {
		status   int
		wantType string
	}{
		{http.StatusBadRequest, "/errors/bad-request"},
		{http.StatusNotFound, "/errors/not-found"},
		{http.StatusTooManyRequests, "/errors/rate-limit-exceeded"},
		{http.StatusInternalServerError, "/errors/internal-server-error"},
		{http.StatusGatewayTimeout, "/errors/gateway-timeout"},
		{http.StatusTeapot, "/errors/unknown"},
	}

	for _, tt := range tests {
		problem := ProblemFromStatus(tt.status, "detail", "trace-1")
		assert.Equal(t, tt.wantType, problem.Type, "status %d", tt.status)
		assert.Equal(t, tt.status, problem.Status)
		assert.Equal(t, "trace-1", problem.Trace)
		assert.Equal(t, http.StatusText(tt.status), problem.Title)
	}
}
