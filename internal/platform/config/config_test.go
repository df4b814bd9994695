package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// minimalEnv carries just the fields validation insists on.
func minimalEnv() map[string]string {
	return map[string]string{
		"API_FIRESTORE_PROJECT_ID":  "xlov-dev",
		"API_STORAGE_ASSETS_BUCKET": "xlov-assets-dev",
	}
}

func loadIsolated(t *testing.T, env map[string]string, extra ...Option) (Config, error) {
	t.Helper()
	opts := append([]Option{WithEnvMap(env), WithoutSystemEnv(), WithEnvFile("")}, extra...)
	return Load(context.Background(), opts...)
}

func mapResolver(values map[string]string) SecretResolver {
	return SecretResolverFunc(func(_ context.Context, ref string) (string, error) {
		if v, ok := values[ref]; ok {
			return v, nil
		}
		return "", errors.New("unknown secret " + ref)
	})
}

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := loadIsolated(t, minimalEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	defaults := []struct {
		name string
		got  any
		want any
	}{
		{"server port", cfg.Server.Port, "8080"},
		{"read timeout", cfg.Server.ReadTimeout, 15 * time.Second},
		{"text model", cfg.Gemini.TextModel, defaultGeminiTextModel},
		{"image model", cfg.Gemini.ImageModel, defaultGeminiImageModel},
		{"jobs topic", cfg.Jobs.Topic, defaultJobsTopic},
		{"aggregation jobs flag", cfg.Features.EnableAggregationJobs, true},
		{"environment", cfg.Service.Environment, "local"},
	}
	for _, d := range defaults {
		if d.got != d.want {
			t.Errorf("%s = %v, want %v", d.name, d.got, d.want)
		}
	}
	if cfg.Jobs.ProjectID != "xlov-dev" {
		t.Errorf("jobs project = %s, want the firestore project", cfg.Jobs.ProjectID)
	}
}

func TestLoadHonoursExplicitEnvironment(t *testing.T) {
	env := map[string]string{
		"API_SERVER_PORT":              "9090",
		"API_SERVER_READ_TIMEOUT":      "20s",
		"API_SERVER_IDLE_TIMEOUT":      "2m",
		"API_FIRESTORE_PROJECT_ID":     "xlov-prod",
		"API_STORAGE_ASSETS_BUCKET":    "xlov-assets-prod",
		"API_GEMINI_API_KEY":           "secret://gemini/api-key",
		"API_GEMINI_TEXT_MODEL":        "gemini-custom-text",
		"API_GEMINI_IMAGE_MODEL":       "gemini-custom-image",
		"API_GEMINI_TIMEOUT":           "45s",
		"API_JOBS_PROJECT_ID":          "xlov-jobs",
		"API_JOBS_TOPIC":               "aggregate-prod",
		"API_FEATURE_AGGREGATION_JOBS": "false",
		"API_SERVICE_ENVIRONMENT":      "PROD",
		"API_SERVICE_VERSION":          "1.4.2",
		"API_SERVICE_COMMIT_SHA":       "abc1234",
	}
	resolver := mapResolver(map[string]string{"secret://gemini/api-key": "gemini-key"})

	cfg, err := loadIsolated(t, env, WithSecretResolver(resolver))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" || cfg.Server.ReadTimeout != 20*time.Second || cfg.Server.IdleTimeout != 2*time.Minute {
		t.Errorf("unexpected server config %+v", cfg.Server)
	}
	if cfg.Gemini.APIKey != "gemini-key" {
		t.Errorf("gemini key = %q, want resolved value", cfg.Gemini.APIKey)
	}
	if cfg.Gemini.TextModel != "gemini-custom-text" || cfg.Gemini.Timeout != 45*time.Second {
		t.Errorf("unexpected gemini config %+v", cfg.Gemini)
	}
	if cfg.Jobs.ProjectID != "xlov-jobs" || cfg.Jobs.Topic != "aggregate-prod" {
		t.Errorf("unexpected jobs config %+v", cfg.Jobs)
	}
	if cfg.Features.EnableAggregationJobs {
		t.Error("aggregation jobs should be disabled")
	}
	if cfg.Service.Environment != "prod" {
		t.Errorf("environment = %q, want lowercased prod", cfg.Service.Environment)
	}
	if cfg.Service.Version != "1.4.2" || cfg.Service.CommitSHA != "abc1234" {
		t.Errorf("unexpected service metadata %+v", cfg.Service)
	}
}

func TestLoadReadsDotEnvFile(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env.test")
	lines := "API_SERVER_PORT=7070\nAPI_FIRESTORE_PROJECT_ID=xlov-dot\nAPI_STORAGE_ASSETS_BUCKET=assets-dot\n"
	if err := os.WriteFile(envPath, []byte(lines), 0o644); err != nil {
		t.Fatalf("failed writing dotenv file: %v", err)
	}

	cfg, err := Load(context.Background(), WithEnvFile(envPath), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("port = %s, want 7070 from dotenv", cfg.Server.Port)
	}
	if cfg.Firestore.ProjectID != "xlov-dot" {
		t.Errorf("firestore project = %s, want xlov-dot from dotenv", cfg.Firestore.ProjectID)
	}
}

func TestLoadRejectsIncompleteConfig(t *testing.T) {
	_, err := loadIsolated(t, map[string]string{})
	var validation *ValidationError
	if !errors.As(err, &validation) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	fields := validation.Fields()
	if len(fields) == 0 {
		t.Fatal("expected at least one missing field reported")
	}
}

func TestLoadWrapsSecretResolutionFailure(t *testing.T) {
	env := minimalEnv()
	env["API_GEMINI_API_KEY"] = "secret://missing"

	_, err := loadIsolated(t, env)
	var secretErr *SecretError
	if !errors.As(err, &secretErr) {
		t.Fatalf("expected SecretError, got %v", err)
	}
	if secretErr.Ref != "secret://missing" {
		t.Errorf("secret ref = %q, want secret://missing", secretErr.Ref)
	}
}

func TestLoadReportsMissingRequiredSecrets(t *testing.T) {
	_, err := loadIsolated(t, minimalEnv(), WithRequiredSecrets("Gemini.APIKey"))
	var missing *MissingSecretsError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingSecretsError, got %v", err)
	}
	if got := missing.Names(); len(got) != 1 || got[0] != "Gemini.APIKey" {
		t.Fatalf("missing names = %v, want [Gemini.APIKey]", got)
	}
}

func TestLoadAcceptsLegacySecretScheme(t *testing.T) {
	env := minimalEnv()
	env["API_GEMINI_API_KEY"] = "sm://gemini/api-key"
	resolver := mapResolver(map[string]string{"secret://gemini/api-key": "legacy-secret"})

	cfg, err := loadIsolated(t, env, WithSecretResolver(resolver))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Gemini.APIKey != "legacy-secret" {
		t.Fatalf("gemini key = %q, want legacy-secret", cfg.Gemini.APIKey)
	}
}

func TestEnvironmentValuesPrecedence(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env.test")
	lines := "API_FIRESTORE_PROJECT_ID=dot-project\nAPI_SECRET_FALLBACK_FILE=.dot.local\n"
	if err := os.WriteFile(envPath, []byte(lines), 0o600); err != nil {
		t.Fatalf("failed writing env file: %v", err)
	}
	t.Setenv("API_FIRESTORE_PROJECT_ID", "os-project")

	values, err := EnvironmentValues(
		WithEnvFile(envPath),
		WithEnvMap(map[string]string{"API_FIRESTORE_PROJECT_ID": "override-project"}),
	)
	if err != nil {
		t.Fatalf("EnvironmentValues returned error: %v", err)
	}

	if got := values["API_FIRESTORE_PROJECT_ID"]; got != "override-project" {
		t.Errorf("explicit map should win, got %s", got)
	}
	if got := values["API_SECRET_FALLBACK_FILE"]; got != ".dot.local" {
		t.Errorf("dotenv-only key = %s, want .dot.local", got)
	}
}
