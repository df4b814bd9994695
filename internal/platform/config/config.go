// Package config loads runtime configuration from the environment, a local
// .env file, and secret:// references resolved through Secret Manager.
package config

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	defaultEnvFile      = ".env"
	defaultPort         = "8080"
	defaultReadTimeout  = 15 * time.Second
	defaultWriteTimeout = 60 * time.Second
	defaultIdleTimeout  = 120 * time.Second
	defaultEnvironment  = "local"

	defaultGeminiTextModel  = "gemini-3-flash-preview"
	defaultGeminiImageModel = "gemini-3-pro-image-preview"
	defaultGeminiTimeout    = 90 * time.Second

	defaultJobsTopic = "response-aggregation"
)

// Config captures all runtime configuration organised by concern.
type Config struct {
	Server    ServerConfig
	Firestore FirestoreConfig
	Storage   StorageConfig
	Gemini    GeminiConfig
	Jobs      JobsConfig
	Features  FeatureFlags
	Service   ServiceConfig
}

// ServerConfig configures HTTP server parameters.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// FirestoreConfig stores database parameters.
type FirestoreConfig struct {
	ProjectID    string
	EmulatorHost string
}

// StorageConfig lists bucket names used by the application.
type StorageConfig struct {
	AssetsBucket string
}

// GeminiConfig carries credentials and model selection for the generation client.
type GeminiConfig struct {
	APIKey     string
	TextModel  string
	ImageModel string
	Timeout    time.Duration
}

// JobsConfig configures the Pub/Sub aggregation publisher.
type JobsConfig struct {
	ProjectID string
	Topic     string
}

// FeatureFlags toggle optional behaviour without redeploying.
type FeatureFlags struct {
	EnableAggregationJobs bool
}

// ServiceConfig carries deployment metadata surfaced by health endpoints.
type ServiceConfig struct {
	Environment string
	Version     string
	CommitSHA   string
}

// SecretResolver resolves secret:// references to their values.
type SecretResolver interface {
	ResolveSecret(ctx context.Context, ref string) (string, error)
}

// SecretResolverFunc adapts ordinary functions to SecretResolver.
type SecretResolverFunc func(context.Context, string) (string, error)

// ResolveSecret resolves the secret using the wrapped function.
func (f SecretResolverFunc) ResolveSecret(ctx context.Context, ref string) (string, error) {
	return f(ctx, ref)
}

// ValidationError is returned when required configuration fields are missing or invalid.
type ValidationError struct {
	fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed: missing or invalid fields [%s]", strings.Join(e.fields, ", "))
}

// Fields returns a copy of the missing/invalid field list.
func (e *ValidationError) Fields() []string {
	return append([]string(nil), e.fields...)
}

// SecretError describes a failure while resolving one secret reference.
type SecretError struct {
	Ref string
	Err error
}

func (e *SecretError) Error() string {
	return fmt.Sprintf("secret resolution failed for ref %q: %v", e.Ref, e.Err)
}

// Unwrap exposes the underlying error.
func (e *SecretError) Unwrap() error { return e.Err }

// MissingSecretsError indicates required secrets resolved empty. The error
// string carries only hashed identifiers; use Names for the real ones.
type MissingSecretsError struct {
	names []string
}

func (e *MissingSecretsError) Error() string {
	if e == nil || len(e.names) == 0 {
		return "missing required secrets"
	}
	hashed := make([]string, 0, len(e.names))
	for _, name := range e.names {
		sum := sha256.Sum256([]byte(name))
		hashed = append(hashed, hex.EncodeToString(sum[:8]))
	}
	sort.Strings(hashed)
	return fmt.Sprintf("missing required secrets [%s]", strings.Join(hashed, ", "))
}

// Names returns the missing secret identifiers, sorted.
func (e *MissingSecretsError) Names() []string {
	if e == nil {
		return nil
	}
	out := append([]string(nil), e.names...)
	sort.Strings(out)
	return out
}

var errSecretResolverNotConfigured = errors.New("secret resolver not configured")

// Option customises Load behaviour.
type Option func(*loaderOptions)

type loaderOptions struct {
	envFile         string
	envMap          map[string]string
	useSystemEnv    bool
	secret          SecretResolver
	requiredSecrets []string
}

func defaultLoaderOptions() loaderOptions {
	return loaderOptions{
		envFile:      defaultEnvFile,
		useSystemEnv: true,
	}
}

// WithEnvFile overrides the .env file path used for local overrides.
func WithEnvFile(path string) Option {
	return func(o *loaderOptions) { o.envFile = path }
}

// WithEnvMap injects explicit key/value pairs that win over all other sources.
func WithEnvMap(values map[string]string) Option {
	return func(o *loaderOptions) { o.envMap = values }
}

// WithoutSystemEnv disables os.Getenv lookups; only maps and .env files apply.
func WithoutSystemEnv() Option {
	return func(o *loaderOptions) { o.useSystemEnv = false }
}

// WithSecretResolver sets the resolver used for secret:// references.
func WithSecretResolver(resolver SecretResolver) Option {
	return func(o *loaderOptions) { o.secret = resolver }
}

// WithRequiredSecrets marks secret identifiers as mandatory. Identifiers use
// the config field path, e.g. "Gemini.APIKey".
func WithRequiredSecrets(names ...string) Option {
	return func(o *loaderOptions) { o.requiredSecrets = append(o.requiredSecrets, names...) }
}

// EnvironmentValues returns the merged key/value environment applying the
// same precedence rules as Load (dotenv < OS env < explicit map). Useful for
// initialising dependencies before Load runs.
func EnvironmentValues(opts ...Option) (map[string]string, error) {
	options := defaultLoaderOptions()
	for _, opt := range opts {
		opt(&options)
	}
	source, err := newEnvSource(options)
	if err != nil {
		return nil, err
	}
	return source.merged(), nil
}

// Load assembles the configuration from defaults, the environment, and
// secret lookups, then validates it.
func Load(ctx context.Context, opts ...Option) (Config, error) {
	options := defaultLoaderOptions()
	for _, opt := range opts {
		opt(&options)
	}

	env, err := newEnvSource(options)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		Server: ServerConfig{
			Port:         env.str("API_SERVER_PORT", defaultPort),
			ReadTimeout:  env.dur("API_SERVER_READ_TIMEOUT", defaultReadTimeout),
			WriteTimeout: env.dur("API_SERVER_WRITE_TIMEOUT", defaultWriteTimeout),
			IdleTimeout:  env.dur("API_SERVER_IDLE_TIMEOUT", defaultIdleTimeout),
		},
		Firestore: FirestoreConfig{
			ProjectID:    env.str("API_FIRESTORE_PROJECT_ID", ""),
			EmulatorHost: env.str("API_FIRESTORE_EMULATOR_HOST", ""),
		},
		Storage: StorageConfig{
			AssetsBucket: env.str("API_STORAGE_ASSETS_BUCKET", ""),
		},
		Gemini: GeminiConfig{
			APIKey:     env.str("API_GEMINI_API_KEY", ""),
			TextModel:  env.str("API_GEMINI_TEXT_MODEL", defaultGeminiTextModel),
			ImageModel: env.str("API_GEMINI_IMAGE_MODEL", defaultGeminiImageModel),
			Timeout:    env.dur("API_GEMINI_TIMEOUT", defaultGeminiTimeout),
		},
		Jobs: JobsConfig{
			ProjectID: env.str("API_JOBS_PROJECT_ID", ""),
			Topic:     env.str("API_JOBS_TOPIC", defaultJobsTopic),
		},
		Features: FeatureFlags{
			EnableAggregationJobs: env.flag("API_FEATURE_AGGREGATION_JOBS", true),
		},
		Service: ServiceConfig{
			Environment: strings.ToLower(env.str("API_SERVICE_ENVIRONMENT", defaultEnvironment)),
			Version:     env.str("API_SERVICE_VERSION", ""),
			CommitSHA:   env.str("API_SERVICE_COMMIT_SHA", ""),
		},
	}

	// The aggregation publisher lives in the same project as Firestore
	// unless told otherwise.
	if cfg.Jobs.ProjectID == "" {
		cfg.Jobs.ProjectID = cfg.Firestore.ProjectID
	}

	resolved := map[string]*string{
		"Gemini.APIKey": &cfg.Gemini.APIKey,
	}
	for _, field := range resolved {
		value, err := resolveSecretValue(ctx, *field, options.secret)
		if err != nil {
			return Config{}, err
		}
		*field = value
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	var missing []string
	seen := make(map[string]struct{})
	for _, name := range options.requiredSecrets {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		field, known := resolved[name]
		if !known || strings.TrimSpace(*field) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return Config{}, &MissingSecretsError{names: missing}
	}

	return cfg, nil
}

func (cfg Config) validate() error {
	var missing []string
	if cfg.Server.Port == "" {
		missing = append(missing, "Server.Port")
	}
	if cfg.Firestore.ProjectID == "" {
		missing = append(missing, "Firestore.ProjectID")
	}
	if cfg.Storage.AssetsBucket == "" {
		missing = append(missing, "Storage.AssetsBucket")
	}
	if cfg.Gemini.TextModel == "" {
		missing = append(missing, "Gemini.TextModel")
	}
	if cfg.Gemini.ImageModel == "" {
		missing = append(missing, "Gemini.ImageModel")
	}
	if cfg.Gemini.Timeout <= 0 {
		missing = append(missing, "Gemini.Timeout")
	}
	if cfg.Features.EnableAggregationJobs && cfg.Jobs.Topic == "" {
		missing = append(missing, "Jobs.Topic")
	}
	if len(missing) > 0 {
		return &ValidationError{fields: missing}
	}
	return nil
}

// resolveSecretValue passes plain values through and resolves secret:// and
// legacy sm:// references via the configured resolver.
func resolveSecretValue(ctx context.Context, value string, resolver SecretResolver) (string, error) {
	trimmed := strings.TrimSpace(value)
	switch {
	case strings.HasPrefix(trimmed, "sm://"):
		trimmed = "secret://" + strings.TrimPrefix(trimmed, "sm://")
	case strings.HasPrefix(trimmed, "secret://"):
	default:
		return value, nil
	}

	if resolver == nil {
		return "", &SecretError{Ref: trimmed, Err: errSecretResolverNotConfigured}
	}
	secret, err := resolver.ResolveSecret(ctx, trimmed)
	if err != nil {
		return "", &SecretError{Ref: trimmed, Err: err}
	}
	return secret, nil
}
