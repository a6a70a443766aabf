// Package setup runs the first-run form that points venuedesk at a backend.
package setup

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/nhle/venuedesk/internal/credential"
	"github.com/nhle/venuedesk/internal/model"
)

// Answers holds the values collected by the form.
type Answers struct {
	Kind    string
	BaseURL string
	AnonKey string
	Token   string
}

// AnswersFrom pre-fills the form from an existing configuration.
func AnswersFrom(cfg *model.AppConfig) Answers {
	return Answers{
		Kind:    cfg.Backend.Kind,
		BaseURL: cfg.Backend.BaseURL,
		AnonKey: cfg.Backend.AnonKey,
	}
}

// NewForm builds the setup form bound to a.
func NewForm(a *Answers) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Backend").
				Description("Where venue records are read from").
				Options(
					huh.NewOption("REST API - the back-office JSON API", model.BackendREST),
					huh.NewOption("Supabase - PostgREST tables", model.BackendSupabase),
				).
				Value(&a.Kind),
			huh.NewInput().
				Title("Base URL").
				Description("API root or Supabase project URL").
				Placeholder("http://localhost:3001/api").
				Value(&a.BaseURL).
				Validate(validateURL),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Anon Key").
				Description("The Supabase project's public anon key").
				Value(&a.AnonKey).
				Validate(validateRequired("Anon key")),
		).WithHideFunc(func() bool {
			return a.Kind != model.BackendSupabase
		}),
		huh.NewGroup(
			huh.NewInput().
				Title("Access Token").
				Description("Stored in the system keyring; leave empty to keep the current one").
				EchoMode(huh.EchoModePassword).
				Value(&a.Token),
		),
	)
}

// Apply copies the answers onto cfg.
func Apply(cfg *model.AppConfig, a Answers) {
	cfg.Backend.Kind = a.Kind
	cfg.Backend.BaseURL = strings.TrimRight(strings.TrimSpace(a.BaseURL), "/")
	if a.Kind == model.BackendSupabase {
		cfg.Backend.AnonKey = strings.TrimSpace(a.AnonKey)
	} else {
		cfg.Backend.AnonKey = ""
	}
}

// Run shows the form, then saves the configuration to path and the token
// to the keyring.
func Run(path string, cfg *model.AppConfig) error {
	a := AnswersFrom(cfg)
	if err := NewForm(&a).Run(); err != nil {
		return fmt.Errorf("running setup form: %w", err)
	}

	Apply(cfg, a)
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := model.SaveConfig(path, cfg); err != nil {
		return err
	}
	if tok := strings.TrimSpace(a.Token); tok != "" {
		if err := credential.Set(credential.TokenKey, tok); err != nil {
			return err
		}
	}
	return nil
}

func validateRequired(fieldName string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s is required", fieldName)
		}
		return nil
	}
}

func validateURL(s string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("URL is required")
	}
	parsed, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("URL must include scheme and host (e.g., https://example.com)")
	}
	return nil
}
