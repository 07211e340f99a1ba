package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"catalogue_back_end/internal/utils"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	r.POST("/submit", mw, func(c *gin.Context) { c.Status(http.StatusCreated) })
	return r
}

func post(r http.Handler) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/submit", nil)
	req.RemoteAddr = "203.0.113.7:4242"
	r.ServeHTTP(w, req)
	return w
}

func TestSubmissionRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := newRouter(SubmissionRateLimit(rdb, 2, time.Minute))

	for i := 0; i < 2; i++ {
		if w := post(r); w.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i, w.Code)
		}
	}
	w := post(r)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if w.Header().Get("Retry-After") != "60" {
		t.Fatalf("expected retry after 60s, got %q", w.Header().Get("Retry-After"))
	}

	mr.FastForward(time.Minute + time.Second)
	if w := post(r); w.Code != http.StatusCreated {
		t.Fatalf("window should have reset, got %d", w.Code)
	}
}

func TestSubmissionRateLimitSetsMissingTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := newRouter(SubmissionRateLimit(rdb, 2, time.Minute))

	if w := post(r); w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", w.Code)
	}
	if ttl := mr.TTL("submissions:203.0.113.7"); ttl != time.Minute {
		t.Fatalf("expected the window on the first request, got %v", ttl)
	}

	// compteur resté sans expiration
	mr.Set("submissions:203.0.113.7", "9")
	if w := post(r); w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	if ttl := mr.TTL("submissions:203.0.113.7"); ttl != time.Minute {
		t.Fatalf("expected the key to get a TTL, got %v", ttl)
	}
	mr.FastForward(time.Minute + time.Second)
	if w := post(r); w.Code != http.StatusCreated {
		t.Fatalf("window should have reset, got %d", w.Code)
	}
}

func TestSubmissionRateLimitFailsOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	mr.Close()

	r := newRouter(SubmissionRateLimit(rdb, 1, time.Minute))
	for i := 0; i < 3; i++ {
		if w := post(r); w.Code != http.StatusCreated {
			t.Fatalf("redis outage must not block submissions, got %d", w.Code)
		}
	}

	if w := post(newRouter(SubmissionRateLimit(nil, 1, time.Minute))); w.Code != http.StatusCreated {
		t.Fatalf("missing redis must not block submissions, got %d", w.Code)
	}
}

func TestAdminRequired(t *testing.T) {
	r := newRouter(AdminRequired("secret"))

	if w := post(r); w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}

	token, err := utils.GenerateAdminJWT("secret", time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	cases := map[string]int{
		"Bearer " + token: http.StatusCreated,
		"Token " + token:  http.StatusUnauthorized,
		"Bearer garbage":  http.StatusUnauthorized,
	}
	for header, want := range cases {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/submit", nil)
		req.Header.Set("Authorization", header)
		r.ServeHTTP(w, req)
		if w.Code != want {
			t.Errorf("%q: expected %d, got %d", header, want, w.Code)
		}
	}
}
