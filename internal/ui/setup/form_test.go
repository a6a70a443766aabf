package setup

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/venuedesk/internal/model"
)

func TestValidateURL(t *testing.T) {
	assert.NoError(t, validateURL("https://abc.supabase.co"))
	assert.Error(t, validateURL(""))
	assert.Error(t, validateURL("localhost:3001"))
	assert.Error(t, validateURL("/api"))
}

func TestApplySupabase(t *testing.T) {
	cfg := &model.AppConfig{}
	Apply(cfg, Answers{
		Kind:    model.BackendSupabase,
		BaseURL: " https://abc.supabase.co/ ",
		AnonKey: "anon",
	})

	assert.Equal(t, model.BackendSupabase, cfg.Backend.Kind)
	assert.Equal(t, "https://abc.supabase.co", cfg.Backend.BaseURL)
	assert.Equal(t, "anon", cfg.Backend.AnonKey)
}

func TestApplyRESTClearsAnonKey(t *testing.T) {
	cfg := &model.AppConfig{Backend: model.BackendConfig{AnonKey: "stale"}}
	Apply(cfg, Answers{Kind: model.BackendREST, BaseURL: "http://localhost:3001/api"})

	assert.Empty(t, cfg.Backend.AnonKey)
	assert.Equal(t, "http://localhost:3001/api", cfg.Backend.BaseURL)
}

func TestAnswersFrom(t *testing.T) {
	cfg := &model.AppConfig{Backend: model.BackendConfig{Kind: model.BackendREST, BaseURL: "http://x"}}
	a := AnswersFrom(cfg)
	assert.Equal(t, model.BackendREST, a.Kind)
	assert.Equal(t, "http://x", a.BaseURL)
}
