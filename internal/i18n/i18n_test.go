package i18n

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveLocale(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		url    string
		header map[string]string
		want   string
	}{
		{name: "default", url: "/", want: "es-MX"},
		{name: "query wins", url: "/?lang=en", header: map[string]string{"Accept-Language": "es-MX"}, want: "en-US"},
		{name: "x-locale header", url: "/", header: map[string]string{"X-Locale": "en-US"}, want: "en-US"},
		{name: "accept-language spanish variant", url: "/", header: map[string]string{"Accept-Language": "es-ES,es;q=0.9"}, want: "es-MX"},
		{name: "unsupported falls back", url: "/", header: map[string]string{"Accept-Language": "ja-JP"}, want: "es-MX"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)
			c.Request = httptest.NewRequest(http.MethodGet, tc.url, nil)
			for k, v := range tc.header {
				c.Request.Header.Set(k, v)
			}
			if got := ResolveLocale(c); got != tc.want {
				t.Fatalf("locale want %s got %s", tc.want, got)
			}
		})
	}
}

func TestTFallback(t *testing.T) {
	if got := T("en-US", "form.curp_duplicate"); got != "This CURP is already registered" {
		t.Fatalf("unexpected en-US message: %s", got)
	}
	if got := T("fr-FR", "form.curp_duplicate"); got != "La CURP ya está registrada" {
		t.Fatalf("unknown locale should use default, got %s", got)
	}
	if got := T("es-MX", "missing.key"); got != "missing.key" {
		t.Fatalf("missing key should echo key, got %s", got)
	}
}

func TestSprintf(t *testing.T) {
	got := Sprintf("en-US", "error.rate_limited", 30)
	if got != "Too many requests, try again in 30 seconds" {
		t.Fatalf("unexpected formatted message: %s", got)
	}
}

func TestMessageTablesHaveSameKeys(t *testing.T) {
	base := messages["es-MX"]
	for locale, table := range messages {
		for key := range base {
			if _, ok := table[key]; !ok {
				t.Fatalf("locale %s missing key %s", locale, key)
			}
		}
		if len(table) != len(base) {
			t.Fatalf("locale %s has %d keys, want %d", locale, len(table), len(base))
		}
	}
}
