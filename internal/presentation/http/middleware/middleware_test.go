package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/sangkips/salon-api/internal/config"
	"github.com/sangkips/salon-api/internal/infrastructure/cache"
	infraRepo "github.com/sangkips/salon-api/internal/infrastructure/repository"
	"github.com/sangkips/salon-api/pkg/utils"
)

type stubVerifier map[string]utils.Principal

func (v stubVerifier) Verify(_ context.Context, token string) (*utils.Principal, error) {
	p, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return &p, nil
}

var tokens = stubVerifier{
	"owner":  {UserID: "u1", TenantID: "salon-a", Roles: []string{utils.RoleOwner}},
	"staff":  {UserID: "u2", TenantID: "salon-a", Roles: []string{utils.RoleStaff}},
	"admin":  {UserID: "u3", Roles: []string{utils.RoleSuperAdmin}},
	"orphan": {UserID: "u4", Roles: []string{utils.RoleManager}},
}

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path, token string, header map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/whoami", func(c *gin.Context) {
		ctxTenant, _ := infraRepo.GetTenantID(c.Request.Context())
		skip, _ := c.Request.Context().Value(infraRepo.SkipTenantScopeKey).(bool)
		c.JSON(http.StatusOK, gin.H{
			"tenant":     GetTenantID(c),
			"ctx_tenant": ctxTenant,
			"skip":       skip,
			"user":       c.GetString("user_id"),
		})
	})

	tests := []struct {
		name   string
		auth   string
		header map[string]string
		status int
		want   []string
	}{
		{name: "missing header", status: http.StatusUnauthorized},
		{name: "wrong scheme", auth: "Basic abc", status: http.StatusUnauthorized},
		{name: "unknown token", auth: "Bearer nope", status: http.StatusUnauthorized},
		{
			name:   "owner is scoped to their salon",
			auth:   "Bearer owner",
			status: http.StatusOK,
			want:   []string{`"tenant":"salon-a"`, `"ctx_tenant":"salon-a"`, `"skip":false`, `"user":"u1"`},
		},
		{
			name:   "owner cannot switch salons",
			auth:   "Bearer owner",
			header: map[string]string{TenantHeader: "salon-b"},
			status: http.StatusOK,
			want:   []string{`"tenant":"salon-a"`},
		},
		{
			name:   "super admin without tenant reads across salons",
			auth:   "Bearer admin",
			status: http.StatusOK,
			want:   []string{`"tenant":""`, `"skip":true`},
		},
		{
			name:   "super admin names a salon",
			auth:   "Bearer admin",
			header: map[string]string{TenantHeader: "salon-b"},
			status: http.StatusOK,
			want:   []string{`"tenant":"salon-b"`, `"ctx_tenant":"salon-b"`, `"skip":false`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tt.auth != "" {
				req.Header.Set("Authorization", tt.auth)
			}
			for k, v := range tt.header {
				req.Header.Set(k, v)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			if w.Code != tt.status {
				t.Fatalf("status = %d, want %d: %s", w.Code, tt.status, w.Body.String())
			}
			for _, s := range tt.want {
				if !strings.Contains(w.Body.String(), s) {
					t.Errorf("body %s missing %s", w.Body.String(), s)
				}
			}
		})
	}
}

func TestRequireTenantAndPermission(t *testing.T) {
	r := gin.New()
	r.Use(AuthMiddleware(tokens), RequireTenant())
	r.GET("/branches", RequirePermission(utils.PermBranchesRead), func(c *gin.Context) { c.Status(http.StatusOK) })
	r.POST("/branches", RequirePermission(utils.PermBranchesWrite), func(c *gin.Context) { c.Status(http.StatusCreated) })

	if w := serve(r, http.MethodGet, "/branches", "staff", nil); w.Code != http.StatusOK {
		t.Errorf("staff read = %d", w.Code)
	}
	if w := serve(r, http.MethodPost, "/branches", "staff", nil); w.Code != http.StatusForbidden {
		t.Errorf("staff write = %d, want 403", w.Code)
	}
	if w := serve(r, http.MethodPost, "/branches", "owner", nil); w.Code != http.StatusCreated {
		t.Errorf("owner write = %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/branches", "orphan", nil); w.Code != http.StatusBadRequest {
		t.Errorf("no tenant = %d, want 400", w.Code)
	}
	if w := serve(r, http.MethodGet, "/branches", "admin", nil); w.Code != http.StatusBadRequest {
		t.Errorf("admin without tenant = %d, want 400", w.Code)
	}
	if w := serve(r, http.MethodPost, "/branches", "admin", map[string]string{TenantHeader: "salon-b"}); w.Code != http.StatusCreated {
		t.Errorf("admin with tenant = %d", w.Code)
	}
}

func TestRequireRole(t *testing.T) {
	r := gin.New()
	r.Use(AuthMiddleware(tokens))
	r.GET("/owners", RequireRole(utils.RoleOwner, utils.RoleManager), func(c *gin.Context) { c.Status(http.StatusOK) })

	if w := serve(r, http.MethodGet, "/owners", "owner", nil); w.Code != http.StatusOK {
		t.Errorf("owner = %d", w.Code)
	}
	if w := serve(r, http.MethodGet, "/owners", "staff", nil); w.Code != http.StatusForbidden {
		t.Errorf("staff = %d, want 403", w.Code)
	}
}

func TestIdempotencyReplaysSuccessfulWrites(t *testing.T) {
	var calls int32
	r := gin.New()
	r.Use(AuthMiddleware(tokens), Idempotency(IdempotencyConfig{Repo: cache.NewMemoryIdempotencyRepository()}))
	r.POST("/invoices", func(c *gin.Context) {
		n := atomic.AddInt32(&calls, 1)
		c.JSON(http.StatusCreated, gin.H{"call": n})
	})
	r.POST("/fails", func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		c.JSON(http.StatusConflict, gin.H{"error": "conflict"})
	})

	key := map[string]string{IdempotencyKeyHeader: "k-1"}
	first := serve(r, http.MethodPost, "/invoices", "owner", key)
	second := serve(r, http.MethodPost, "/invoices", "owner", key)

	if first.Code != http.StatusCreated || second.Code != http.StatusCreated {
		t.Fatalf("codes = %d, %d", first.Code, second.Code)
	}
	if second.Body.String() != first.Body.String() {
		t.Errorf("replayed body %s, want %s", second.Body.String(), first.Body.String())
	}
	if second.Header().Get("X-Idempotency-Replayed") != "true" {
		t.Error("replay header missing")
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}

	// Same key, different caller
	if w := serve(r, http.MethodPost, "/invoices", "staff", key); w.Header().Get("X-Idempotency-Replayed") != "" {
		t.Error("key leaked across users")
	}

	atomic.StoreInt32(&calls, 0)
	retry := map[string]string{IdempotencyKeyHeader: "k-2"}
	serve(r, http.MethodPost, "/fails", "owner", retry)
	serve(r, http.MethodPost, "/fails", "owner", retry)
	if calls != 2 {
		t.Errorf("failed request ran %d times, want 2", calls)
	}
}

func TestIdempotencyKeysAreScopedToSalonAndEndpoint(t *testing.T) {
	var calls int32
	r := gin.New()
	r.Use(AuthMiddleware(tokens), Idempotency(IdempotencyConfig{Repo: cache.NewMemoryIdempotencyRepository()}))
	r.POST("/invoices", func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		c.JSON(http.StatusCreated, gin.H{"kind": "invoice", "tenant": GetTenantID(c)})
	})
	r.POST("/bookings", func(c *gin.Context) {
		atomic.AddInt32(&calls, 1)
		c.JSON(http.StatusCreated, gin.H{"kind": "booking"})
	})

	salonA := map[string]string{IdempotencyKeyHeader: "k-1", TenantHeader: "salon-a"}
	salonB := map[string]string{IdempotencyKeyHeader: "k-1", TenantHeader: "salon-b"}

	if w := serve(r, http.MethodPost, "/invoices", "admin", salonA); w.Code != http.StatusCreated {
		t.Fatalf("first write = %d", w.Code)
	}
	w := serve(r, http.MethodPost, "/invoices", "admin", salonB)
	if w.Header().Get("X-Idempotency-Replayed") != "" {
		t.Fatal("key replayed across salons")
	}
	if !strings.Contains(w.Body.String(), "salon-b") {
		t.Errorf("body = %s, want salon-b response", w.Body.String())
	}
	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}

	w = serve(r, http.MethodPost, "/bookings", "admin", salonA)
	if w.Code != http.StatusUnprocessableEntity {
		t.Fatalf("key reused on another endpoint = %d, want 422", w.Code)
	}
	if w.Header().Get("X-Idempotency-Replayed") != "" || strings.Contains(w.Body.String(), "invoice\"") {
		t.Errorf("invoice response replayed for booking: %s", w.Body.String())
	}
	if calls != 2 {
		t.Errorf("booking handler ran, calls = %d", calls)
	}
}

func TestRateLimiterPerTenant(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rl := NewTenantRateLimiter(ctx, RateLimiterConfig{RequestsPerSecond: 0.001, BurstSize: 2})
	r := gin.New()
	r.Use(AuthMiddleware(tokens), rl.Middleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		if w := serve(r, http.MethodGet, "/ping", "owner", nil); w.Code != http.StatusOK {
			t.Fatalf("request %d = %d", i, w.Code)
		}
	}
	w := serve(r, http.MethodGet, "/ping", "staff", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("same salon third request = %d, want 429", w.Code)
	}
	if w.Header().Get("Retry-After") == "" {
		t.Error("Retry-After missing")
	}

	if w := serve(r, http.MethodGet, "/ping", "admin", map[string]string{TenantHeader: "salon-b"}); w.Code != http.StatusOK {
		t.Errorf("other salon = %d", w.Code)
	}
	if got := rl.Stats()["active_keys"]; got != 2 {
		t.Errorf("active_keys = %v, want 2", got)
	}
}

func TestRateLimiterCleanup(t *testing.T) {
	rl := NewTenantRateLimiter(context.Background(), RateLimiterConfig{RequestsPerSecond: 1, BurstSize: 1, EntryTTL: time.Minute})
	now := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	rl.getLimiter("tenant:a")
	now = now.Add(2 * time.Minute)
	rl.getLimiter("tenant:b")
	rl.cleanup()

	if _, ok := rl.limiters["tenant:a"]; ok {
		t.Error("stale entry kept")
	}
	if _, ok := rl.limiters["tenant:b"]; !ok {
		t.Error("fresh entry dropped")
	}
}

func TestRateLimiterConfigFrom(t *testing.T) {
	got := RateLimiterConfigFrom(config.RateLimitConfig{Requests: 120, Duration: 60})
	if got.RequestsPerSecond != 2 || got.BurstSize != 120 {
		t.Errorf("got %+v", got)
	}
	if def := RateLimiterConfigFrom(config.RateLimitConfig{}); def != DefaultRateLimiterConfig() {
		t.Errorf("zero config = %+v, want defaults", def)
	}
}

func TestLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	r := gin.New()
	r.Use(LoggerMiddleware(zap.New(core)), Recovery(zap.New(core)))
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := serve(r, http.MethodGet, "/ok?x=1", "secret-token-1234", map[string]string{"X-Request-ID": "req-7"})
	if w.Header().Get("X-Request-ID") != "req-7" {
		t.Errorf("request id = %q", w.Header().Get("X-Request-ID"))
	}

	entries := logs.FilterMessage("request").All()
	if len(entries) != 1 {
		t.Fatalf("got %d request logs", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["path"] != "/ok?x=1" || fields["request_id"] != "req-7" {
		t.Errorf("fields = %v", fields)
	}
	if auth, _ := fields["authorization"].(string); strings.Contains(auth, "secret") || !strings.HasSuffix(auth, "1234") {
		t.Errorf("authorization not masked: %q", auth)
	}

	if w := serve(r, http.MethodGet, "/boom", "", nil); w.Code != http.StatusInternalServerError {
		t.Errorf("panic status = %d", w.Code)
	}
	if logs.FilterMessage("panic recovered").Len() != 1 {
		t.Error("panic not logged")
	}
	errs := logs.FilterLevelExact(zapcore.ErrorLevel).FilterMessage("request").Len()
	if errs != 1 {
		t.Errorf("5xx request logged at error level %d times, want 1", errs)
	}
}
