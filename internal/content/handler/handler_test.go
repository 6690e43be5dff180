package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vitrine_backend/internal/adapters/storage"
	"vitrine_backend/internal/content/repository"
	"vitrine_backend/internal/content/service"
	"vitrine_backend/platform/apperr"
	"vitrine_backend/platform/httpkit"
	"vitrine_backend/platform/logger"
	"vitrine_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

type testJWTConfig struct{}

func (testJWTConfig) GetJWTAccessSecret() string { return testSecret }

type stubRepo struct {
	repository.Repository
	cases []repository.CustomerCase
	faq   []repository.FAQEntry
}

func (r *stubRepo) ListFAQ(_ context.Context, publishedOnly bool) ([]repository.FAQEntry, error) {
	out := make([]repository.FAQEntry, 0, len(r.faq))
	for _, e := range r.faq {
		if publishedOnly && !e.IsPublished {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (r *stubRepo) GetCase(_ context.Context, id uuid.UUID) (repository.CustomerCase, error) {
	for _, c := range r.cases {
		if c.ID == id {
			return c, nil
		}
	}
	return repository.CustomerCase{}, apperr.NotFound("customer case not found")
}

func (r *stubRepo) GetCaseBySlug(_ context.Context, slug string) (repository.CustomerCase, error) {
	for _, c := range r.cases {
		if c.Slug == slug {
			return c, nil
		}
	}
	return repository.CustomerCase{}, apperr.NotFound("customer case not found")
}

func newEngine(repo *stubRepo) *gin.Engine {
	gin.SetMode(gin.TestMode)
	svc := service.New(repo, storage.Disabled{}, service.Buckets{PartnerLogos: "logos", CaseImages: "cases"}, validator.New(), logger.Discard())
	h := New(svc)

	cfg := testJWTConfig{}
	engine := gin.New()
	v1 := engine.Group("/api/v1")
	h.RegisterPartnerRoutes(v1.Group("/partners"), httpkit.AdminRequired(cfg))
	h.RegisterFAQRoutes(v1.Group("/faq"), httpkit.AuthOptional(cfg), httpkit.AdminRequired(cfg))
	h.RegisterCaseRoutes(v1.Group("/customer-cases"), httpkit.AuthOptional(cfg), httpkit.AdminRequired(cfg))
	return engine
}

func token(t *testing.T, admin bool) string {
	t.Helper()
	raw, err := httpkit.SignAccessToken(uuid.New(), "someone@example.com", admin, testSecret, time.Hour)
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return "Bearer " + raw
}

func do(engine *gin.Engine, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestFAQDraftsVisibleToAdminsOnly(t *testing.T) {
	repo := &stubRepo{faq: []repository.FAQEntry{
		{ID: uuid.New(), Question: "Délais ?", Answer: "Deux semaines.", IsPublished: true},
		{ID: uuid.New(), Question: "Brouillon", Answer: "…", IsPublished: false},
	}}
	engine := newEngine(repo)

	tests := []struct {
		name string
		auth string
		want int
	}{
		{name: "anonymous", auth: "", want: 1},
		{name: "non admin", auth: token(t, false), want: 1},
		{name: "admin", auth: token(t, true), want: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, http.MethodGet, "/api/v1/faq", tt.auth, "")
			if w.Code != http.StatusOK {
				t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
			}
			var body struct {
				Items []json.RawMessage `json:"items"`
			}
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if len(body.Items) != tt.want {
				t.Fatalf("expected %d entries, got %d", tt.want, len(body.Items))
			}
		})
	}
}

func TestGetCase(t *testing.T) {
	published := repository.CustomerCase{ID: uuid.New(), Title: "Boulangerie", Slug: "boulangerie", IsPublished: true}
	draft := repository.CustomerCase{ID: uuid.New(), Title: "Garage", Slug: "garage"}
	engine := newEngine(&stubRepo{cases: []repository.CustomerCase{published, draft}})

	tests := []struct {
		name string
		path string
		auth string
		want int
	}{
		{name: "published by slug", path: "/api/v1/customer-cases/boulangerie", want: http.StatusOK},
		{name: "draft hidden from public", path: "/api/v1/customer-cases/garage", want: http.StatusNotFound},
		{name: "draft visible to admin", path: "/api/v1/customer-cases/garage", auth: token(t, true), want: http.StatusOK},
		{name: "admin by id", path: "/api/v1/customer-cases/" + draft.ID.String(), auth: token(t, true), want: http.StatusOK},
		{name: "public id lookup is a slug miss", path: "/api/v1/customer-cases/" + published.ID.String(), want: http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, http.MethodGet, tt.path, tt.auth, "")
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}

func TestWritesRequireAdmin(t *testing.T) {
	engine := newEngine(&stubRepo{})
	id := uuid.NewString()

	tests := []struct {
		name   string
		method string
		path   string
		auth   string
		want   int
	}{
		{name: "create partner anonymous", method: http.MethodPost, path: "/api/v1/partners", want: http.StatusUnauthorized},
		{name: "create faq non admin", method: http.MethodPost, path: "/api/v1/faq", auth: token(t, false), want: http.StatusForbidden},
		{name: "presign case image anonymous", method: http.MethodPost, path: "/api/v1/customer-cases/" + id + "/image/presign", want: http.StatusUnauthorized},
		{name: "update case bad id", method: http.MethodPut, path: "/api/v1/customer-cases/not-a-uuid", auth: token(t, true), want: http.StatusBadRequest},
		{name: "create partner invalid json", method: http.MethodPost, path: "/api/v1/partners", auth: token(t, true), want: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(engine, tt.method, tt.path, tt.auth, "{")
			if w.Code != tt.want {
				t.Fatalf("expected %d, got %d: %s", tt.want, w.Code, w.Body.String())
			}
		})
	}
}
