package translator

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CollectivaT-dev/ladinobot/internal/config"
)

func testConfig(baseURL string) *config.TranslatorConfig {
	return &config.TranslatorConfig{
		Enabled:        true,
		BaseURL:        baseURL,
		Token:          "test-token",
		BotLang:        "lad",
		ModelLang:      "es",
		TimeoutSeconds: 5,
	}
}

func TestTranslateToModel(t *testing.T) {
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translation": "Hola, como estas?", "usage": 42}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	got := c.ToModel(context.Background(), "Ke haber?")

	assert.Equal(t, "Hola, como estas?", got)
	assert.Equal(t, map[string]string{
		"src":   "lad",
		"tgt":   "es",
		"text":  "Ke haber?",
		"token": "test-token",
	}, gotPayload)
}

func TestTranslateToBot(t *testing.T) {
	var gotPayload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"translation": "Ke haber?"}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	got := c.ToBot(context.Background(), "Hola, como estas?")

	assert.Equal(t, "Ke haber?", got)
	assert.Equal(t, "es", gotPayload["src"])
	assert.Equal(t, "lad", gotPayload["tgt"])
}

func TestTranslatePassThroughOnServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	assert.Equal(t, "Ke haber?", c.ToModel(context.Background(), "Ke haber?"))
}

func TestTranslatePassThroughOnMissingField(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"usage": 10}`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	assert.Equal(t, "Ke haber?", c.ToModel(context.Background(), "Ke haber?"))
}

func TestTranslatePassThroughOnBadJSON(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	assert.Equal(t, "Ke haber?", c.ToModel(context.Background(), "Ke haber?"))
}

func TestTranslatePassThroughOnUnreachableServer(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(testConfig(srv.URL))

	assert.Equal(t, "Ke haber?", c.ToModel(context.Background(), "Ke haber?"))
}

func TestTranslateDisabled(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer srv.Close()

	cfg := testConfig(srv.URL)
	cfg.Enabled = false
	c := NewClient(cfg)

	assert.Equal(t, "Ke haber?", c.ToModel(context.Background(), "Ke haber?"))
	assert.False(t, requested)
}

func TestTranslateInvalidLanguagePair(t *testing.T) {
	cfg := testConfig("http://example.invalid")
	cfg.ModelLang = "lad" // 与 bot_lang 相同
	c := NewClient(cfg)

	assert.Equal(t, "Ke haber?", c.ToModel(context.Background(), "Ke haber?"))
}

func TestTranslateEmptyText(t *testing.T) {
	requested := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requested = true
	}))
	defer srv.Close()

	c := NewClient(testConfig(srv.URL))

	assert.Equal(t, "", c.ToModel(context.Background(), ""))
	assert.False(t, requested)
}

func TestNoopTranslator(t *testing.T) {
	n := Noop{}
	assert.Equal(t, "hola", n.ToModel(context.Background(), "hola"))
	assert.Equal(t, "hola", n.ToBot(context.Background(), "hola"))
}
