package router

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/afiliados-next/internal/config"
	"github.com/afiliados-next/internal/provider"
	"github.com/afiliados-next/internal/service"

	"github.com/gin-gonic/gin"
)

func newTestContainer() *provider.Container {
	cfg := &config.Config{Server: config.ServerConfig{Mode: "debug"}}
	affiliate := service.NewAffiliateService(nil, nil, nil, time.Second)
	return &provider.Container{
		Config:             cfg,
		CaptchaService:     service.NewCaptchaService(cfg.Captcha),
		AffiliateService:   affiliate,
		FormSessionService: service.NewFormSessionService(service.NewMemoryFormSessionStore(time.Minute, 10), affiliate),
	}
}

func TestSetupRouterRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestContainer()
	r := SetupRouter(c.Config, c)

	want := map[string]bool{
		"GET /":                                 false,
		"POST /":                                false,
		"GET /healthz":                          false,
		"GET /api/v1/public/config":             false,
		"GET /api/v1/public/captcha/image":      false,
		"POST /api/v1/public/affiliates":        false,
		"POST /api/v1/public/forms":             false,
		"GET /api/v1/public/forms/:id":          false,
		"PATCH /api/v1/public/forms/:id/fields": false,
		"POST /api/v1/public/forms/:id/submit":  false,
	}
	for _, route := range r.Routes() {
		key := route.Method + " " + route.Path
		if _, ok := want[key]; ok {
			want[key] = true
		}
	}
	for key, found := range want {
		if !found {
			t.Fatalf("route %s not registered", key)
		}
	}
}

func TestHealthz(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestContainer()
	r := SetupRouter(c.Config, c)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"redis":"disabled"`) {
		t.Fatalf("unexpected health body: %s", w.Body.String())
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Fatalf("request id header should be set")
	}
}

func TestIndexPageServed(t *testing.T) {
	gin.SetMode(gin.TestMode)
	c := newTestContainer()
	r := SetupRouter(c.Config, c)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/?lang=en", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("status want 200 got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Affiliate registration") || !strings.Contains(body, `name="telefono"`) {
		t.Fatalf("unexpected page body: %s", body)
	}
}
