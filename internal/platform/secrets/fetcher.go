// Package secrets resolves secret:// references against Google Secret
// Manager, with a local fallback file for development machines that have no
// Cloud credentials.
package secrets

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"sync"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"go.uber.org/zap"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	defaultFallbackPath = ".secrets.local"
	defaultVersion      = "latest"
)

// secretManagerClient is the slice of the Secret Manager API the fetcher
// needs; *secretmanager.Client satisfies it.
type secretManagerClient interface {
	AccessSecretVersion(ctx context.Context, req *secretmanagerpb.AccessSecretVersionRequest, opts ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error)
	Close() error
}

var secretManagerClientFactory = func(ctx context.Context, opts ...option.ClientOption) (*secretmanager.Client, error) {
	return secretmanager.NewClient(ctx, opts...)
}

// reference is a parsed secret:// URI. The optional query parameters are
// version (defaulting to latest) and project (overriding the fetcher's
// default project).
type reference struct {
	name    string
	version string
	project string
}

// key is the cache and fallback-file lookup key for the reference.
func (r reference) key() string {
	return "secret://" + r.name + "#" + r.version
}

func (r reference) String() string {
	return "secret://" + r.name
}

func parseReference(raw string) (reference, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return reference{}, errors.New("secrets: empty reference")
	}
	rest, found := strings.CutPrefix(trimmed, "secret://")
	if !found {
		return reference{}, fmt.Errorf("secrets: unsupported reference %q", raw)
	}

	path, query, _ := strings.Cut(rest, "?")
	name := strings.Trim(path, "/")
	if name == "" {
		return reference{}, fmt.Errorf("secrets: missing secret name in %q", raw)
	}

	ref := reference{name: name, version: defaultVersion}
	if query != "" {
		params, err := url.ParseQuery(query)
		if err != nil {
			return reference{}, fmt.Errorf("secrets: invalid reference %q: %w", raw, err)
		}
		if v := strings.TrimSpace(params.Get("version")); v != "" {
			ref.version = v
		}
		ref.project = strings.TrimSpace(params.Get("project"))
	}
	return ref, nil
}

// Fetcher resolves references through Secret Manager, caching values for the
// process lifetime and consulting the fallback file when the API is not
// reachable or not authorised.
type Fetcher struct {
	client     secretManagerClient
	ownsClient bool
	logger     *zap.Logger
	project    string

	fallbackPath string
	fallbackOnce sync.Once
	fallback     map[string]string

	mu    sync.RWMutex
	cache map[string]string
}

// Option customises Fetcher construction.
type Option func(*Fetcher, *[]option.ClientOption)

// WithLogger sets the logger used for diagnostic output.
func WithLogger(logger *zap.Logger) Option {
	return func(f *Fetcher, _ *[]option.ClientOption) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// WithDefaultProject sets the project used when a reference has no project override.
func WithDefaultProject(projectID string) Option {
	return func(f *Fetcher, _ *[]option.ClientOption) {
		f.project = strings.TrimSpace(projectID)
	}
}

// WithFallbackFile overrides the local fallback secrets file path.
func WithFallbackFile(path string) Option {
	return func(f *Fetcher, _ *[]option.ClientOption) {
		f.fallbackPath = strings.TrimSpace(path)
	}
}

// WithSecretManagerClient injects a preconfigured client, primarily for tests.
func WithSecretManagerClient(client secretManagerClient) Option {
	return func(f *Fetcher, _ *[]option.ClientOption) {
		f.client = client
	}
}

// WithClientOptions forwards Cloud client options used when dialing.
func WithClientOptions(opts ...option.ClientOption) Option {
	return func(_ *Fetcher, clientOpts *[]option.ClientOption) {
		*clientOpts = append(*clientOpts, opts...)
	}
}

// NewFetcher builds a Fetcher. A failed client dial is not fatal: the
// fetcher then serves exclusively from the fallback file.
func NewFetcher(ctx context.Context, opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		logger:       zap.NewNop(),
		fallbackPath: defaultFallbackPath,
		cache:        make(map[string]string),
	}
	var clientOpts []option.ClientOption
	for _, opt := range opts {
		opt(f, &clientOpts)
	}

	if f.client == nil {
		client, err := secretManagerClientFactory(ctx, clientOpts...)
		if err != nil {
			f.logger.Warn("secrets: secret manager client unavailable; operating in fallback mode", zap.Error(err))
		} else {
			f.client = client
			f.ownsClient = true
		}
	}
	return f, nil
}

// Close releases the Secret Manager client when the fetcher dialed it.
func (f *Fetcher) Close() error {
	if f.ownsClient && f.client != nil {
		return f.client.Close()
	}
	return nil
}

// Resolve returns the secret value for ref, consulting the cache, then
// Secret Manager, then the fallback file.
func (f *Fetcher) Resolve(ctx context.Context, raw string) (string, error) {
	ref, err := parseReference(raw)
	if err != nil {
		return "", err
	}

	f.mu.RLock()
	cached, ok := f.cache[ref.key()]
	f.mu.RUnlock()
	if ok {
		return cached, nil
	}

	project := ref.project
	if project == "" {
		project = f.project
	}

	if f.client != nil && project != "" {
		value, err := f.access(ctx, project, ref)
		if err == nil {
			f.store(ref, value)
			return value, nil
		}
		if !shouldFallBack(err) {
			return "", fmt.Errorf("secrets: fetch failed for %s: %w", ref, err)
		}
		f.logger.Debug("secrets: falling back to local secrets", zap.String("ref", ref.String()), zap.Error(err))
	}

	if value, ok := f.fromFallbackFile(ref); ok {
		f.store(ref, value)
		return value, nil
	}
	return "", fmt.Errorf("secrets: fallback value not found for %s", ref)
}

// Invalidate drops cached values for the reference, all versions.
func (f *Fetcher) Invalidate(raw string) {
	ref, err := parseReference(raw)
	if err != nil {
		return
	}
	prefix := ref.String() + "#"

	f.mu.Lock()
	for key := range f.cache {
		if strings.HasPrefix(key, prefix) {
			delete(f.cache, key)
		}
	}
	f.mu.Unlock()
}

func (f *Fetcher) store(ref reference, value string) {
	f.mu.Lock()
	f.cache[ref.key()] = value
	f.mu.Unlock()
}

func (f *Fetcher) access(ctx context.Context, project string, ref reference) (string, error) {
	name := fmt.Sprintf("projects/%s/secrets/%s/versions/%s", project, ref.name, ref.version)
	resp, err := f.client.AccessSecretVersion(ctx, &secretmanagerpb.AccessSecretVersionRequest{Name: name})
	if err != nil {
		return "", err
	}
	if resp.GetPayload() == nil {
		return "", fmt.Errorf("secret manager returned empty payload for %s", name)
	}
	return string(resp.GetPayload().GetData()), nil
}

// shouldFallBack reports whether the API error means "try the local file"
// rather than a hard failure.
func shouldFallBack(err error) bool {
	switch status.Code(err) {
	case codes.PermissionDenied, codes.Unauthenticated, codes.Unavailable, codes.DeadlineExceeded:
		return true
	}
	return false
}

func (f *Fetcher) fromFallbackFile(ref reference) (string, bool) {
	f.fallbackOnce.Do(f.loadFallbackFile)

	if value, ok := f.fallback[ref.key()]; ok {
		return value, true
	}
	value, ok := f.fallback[ref.String()]
	return value, ok
}

// loadFallbackFile parses the KEY=VALUE fallback file once. Keys may be full
// secret:// references (sm:// is accepted for older files) or bare names.
func (f *Fetcher) loadFallbackFile() {
	f.fallback = map[string]string{}
	if f.fallbackPath == "" {
		return
	}

	file, err := os.Open(f.fallbackPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			f.logger.Debug("secrets: fallback file unreadable", zap.String("path", f.fallbackPath), zap.Error(err))
		}
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rawKey, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key := strings.TrimSpace(rawKey)
		if legacy, found := strings.CutPrefix(key, "sm://"); found {
			key = "secret://" + legacy
		}
		value = strings.TrimSpace(value)

		if ref, err := parseReference(key); err == nil {
			f.fallback[ref.String()] = value
			f.fallback[ref.key()] = value
		} else if key != "" {
			f.fallback[key] = value
		}
	}
	if err := scanner.Err(); err != nil {
		f.logger.Debug("secrets: failed reading fallback file", zap.String("path", f.fallbackPath), zap.Error(err))
	}
}
