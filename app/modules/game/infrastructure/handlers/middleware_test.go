package gamehandlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"golang.org/x/time/rate"
)

func echoBody() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_, _ = w.Write(body)
	})
}

func TestIPRateLimiter(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 2)
	handler := RateLimitMiddleware(limiter)(echoBody())

	codes := make([]int, 0, 3)
	for range 3 {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)

	other := httptest.NewRequest(http.MethodPost, "/", nil)
	other.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestIPRateLimiter_SameLimiterPerIP(t *testing.T) {
	limiter := NewIPRateLimiter(rate.Limit(1), 1)
	assert.Same(t, limiter.GetLimiter("a"), limiter.GetLimiter("a"))
	assert.NotSame(t, limiter.GetLimiter("a"), limiter.GetLimiter("b"))
}

// signSlack computes the v0 signature Slack sends with each request.
func signSlack(secret, timestamp, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte("v0:" + timestamp + ":" + body))
	return "v0=" + hex.EncodeToString(mac.Sum(nil))
}

func TestSlackSignatureMiddleware(t *testing.T) {
	const secret = "8f742231b10e8888abcd99yyyzzz85a5"
	body := "command=%2Fturn&text="
	now := time.Now()
	freshTS := strconv.FormatInt(now.Unix(), 10)
	staleTS := strconv.FormatInt(now.Add(-10*time.Minute).Unix(), 10)

	tests := []struct {
		name      string
		secret    string
		timestamp string
		signature string
		wantCode  int
	}{
		{
			name:      "valid signature passes with body intact",
			secret:    secret,
			timestamp: freshTS,
			signature: signSlack(secret, freshTS, body),
			wantCode:  http.StatusOK,
		},
		{
			name:      "wrong secret",
			secret:    secret,
			timestamp: freshTS,
			signature: signSlack("other", freshTS, body),
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "stale timestamp",
			secret:    secret,
			timestamp: staleTS,
			signature: signSlack(secret, staleTS, body),
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "missing timestamp",
			secret:    secret,
			signature: signSlack(secret, "", body),
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:      "missing signature",
			secret:    secret,
			timestamp: freshTS,
			wantCode:  http.StatusUnauthorized,
		},
		{
			name:     "empty secret disables verification",
			secret:   "",
			wantCode: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := SlackSignatureMiddleware(tt.secret)(echoBody())
			req := httptest.NewRequest(http.MethodPost, "/slack/commands", strings.NewReader(body))
			if tt.timestamp != "" {
				req.Header.Set("X-Slack-Request-Timestamp", tt.timestamp)
			}
			if tt.signature != "" {
				req.Header.Set("X-Slack-Signature", tt.signature)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			if tt.wantCode == http.StatusOK {
				assert.Equal(t, body, rec.Body.String())
			}
		})
	}
}
