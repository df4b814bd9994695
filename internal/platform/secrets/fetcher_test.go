package secrets

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"github.com/googleapis/gax-go/v2"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type secretResponse struct {
	value string
	err   error
}

type fakeSecretClient struct {
	mu        sync.Mutex
	responses map[string]secretResponse
	calls     map[string]int
}

func newFakeSecretClient() *fakeSecretClient {
	return &fakeSecretClient{
		responses: map[string]secretResponse{},
		calls:     map[string]int{},
	}
}

func (f *fakeSecretClient) AccessSecretVersion(_ context.Context, req *secretmanagerpb.AccessSecretVersionRequest, _ ...gax.CallOption) (*secretmanagerpb.AccessSecretVersionResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[req.GetName()]++
	resp, ok := f.responses[req.GetName()]
	if !ok {
		return nil, status.Error(codes.NotFound, "not found")
	}
	if resp.err != nil {
		return nil, resp.err
	}
	return &secretmanagerpb.AccessSecretVersionResponse{
		Payload: &secretmanagerpb.SecretPayload{Data: []byte(resp.value)},
	}, nil
}

func (f *fakeSecretClient) Close() error { return nil }

func (f *fakeSecretClient) callCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func writeFallbackFile(t *testing.T, lines string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".secrets.local")
	if err := os.WriteFile(path, []byte(lines), 0o600); err != nil {
		t.Fatalf("failed writing fallback file: %v", err)
	}
	return path
}

func TestFetcherResolveCachesRemoteValue(t *testing.T) {
	ctx := context.Background()
	const resource = "projects/xlov-test/secrets/gemini_api_key/versions/latest"

	client := newFakeSecretClient()
	client.responses[resource] = secretResponse{value: "remote-secret"}

	fetcher, err := NewFetcher(ctx, WithSecretManagerClient(client), WithDefaultProject("xlov-test"))
	if err != nil {
		t.Fatalf("NewFetcher returned error: %v", err)
	}
	defer fetcher.Close()

	for i := 0; i < 2; i++ {
		got, err := fetcher.Resolve(ctx, "secret://gemini_api_key")
		if err != nil {
			t.Fatalf("Resolve call %d returned error: %v", i+1, err)
		}
		if got != "remote-secret" {
			t.Fatalf("Resolve call %d = %q, want remote-secret", i+1, got)
		}
	}
	if calls := client.callCount(resource); calls != 1 {
		t.Fatalf("expected one remote fetch, got %d", calls)
	}
}

func TestFetcherResolveUsesFallbackOnPermissionDenied(t *testing.T) {
	ctx := context.Background()
	const resource = "projects/xlov-test/secrets/gemini_api_key/versions/latest"

	client := newFakeSecretClient()
	client.responses[resource] = secretResponse{err: status.Error(codes.PermissionDenied, "denied")}
	fallback := writeFallbackFile(t, "secret://gemini_api_key=local-secret\n")

	fetcher, err := NewFetcher(ctx,
		WithSecretManagerClient(client),
		WithDefaultProject("xlov-test"),
		WithFallbackFile(fallback),
	)
	if err != nil {
		t.Fatalf("NewFetcher returned error: %v", err)
	}
	defer fetcher.Close()

	got, err := fetcher.Resolve(ctx, "secret://gemini_api_key")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "local-secret" {
		t.Fatalf("Resolve = %q, want local-secret", got)
	}
}

func TestFetcherResolveFailsHardOnNotFound(t *testing.T) {
	ctx := context.Background()

	client := newFakeSecretClient()
	fallback := writeFallbackFile(t, "secret://gemini_api_key=local-secret\n")

	fetcher, err := NewFetcher(ctx,
		WithSecretManagerClient(client),
		WithDefaultProject("xlov-test"),
		WithFallbackFile(fallback),
	)
	if err != nil {
		t.Fatalf("NewFetcher returned error: %v", err)
	}
	defer fetcher.Close()

	if _, err := fetcher.Resolve(ctx, "secret://gemini_api_key"); err == nil {
		t.Fatal("expected error for a missing secret, got nil")
	}
}

func TestFetcherResolveHonoursQueryOverrides(t *testing.T) {
	ctx := context.Background()
	const resource = "projects/other/secrets/gemini_api_key/versions/5"

	client := newFakeSecretClient()
	client.responses[resource] = secretResponse{value: "version-5"}

	fetcher, err := NewFetcher(ctx, WithSecretManagerClient(client), WithDefaultProject("xlov-test"))
	if err != nil {
		t.Fatalf("NewFetcher returned error: %v", err)
	}
	defer fetcher.Close()

	got, err := fetcher.Resolve(ctx, "secret://gemini_api_key?version=5&project=other")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "version-5" {
		t.Fatalf("Resolve = %q, want version-5", got)
	}
}

func TestFetcherInvalidateForcesRefetch(t *testing.T) {
	ctx := context.Background()
	const resource = "projects/xlov-test/secrets/gemini_api_key/versions/latest"

	client := newFakeSecretClient()
	client.responses[resource] = secretResponse{value: "remote-secret"}

	fetcher, err := NewFetcher(ctx, WithSecretManagerClient(client), WithDefaultProject("xlov-test"))
	if err != nil {
		t.Fatalf("NewFetcher returned error: %v", err)
	}
	defer fetcher.Close()

	if _, err := fetcher.Resolve(ctx, "secret://gemini_api_key"); err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	fetcher.Invalidate("secret://gemini_api_key")
	if _, err := fetcher.Resolve(ctx, "secret://gemini_api_key"); err != nil {
		t.Fatalf("Resolve after Invalidate returned error: %v", err)
	}
	if calls := client.callCount(resource); calls != 2 {
		t.Fatalf("expected refetch after invalidation, got %d calls", calls)
	}
}

func TestFetcherWithoutCredentialsServesFallback(t *testing.T) {
	ctx := context.Background()

	originalFactory := secretManagerClientFactory
	secretManagerClientFactory = func(context.Context, ...option.ClientOption) (*secretmanager.Client, error) {
		return nil, errors.New("no credentials")
	}
	t.Cleanup(func() { secretManagerClientFactory = originalFactory })

	fallback := writeFallbackFile(t, "# local development secrets\nsm://gemini_api_key=local-secret\n")

	fetcher, err := NewFetcher(ctx, WithFallbackFile(fallback))
	if err != nil {
		t.Fatalf("NewFetcher returned error: %v", err)
	}
	defer fetcher.Close()

	got, err := fetcher.Resolve(ctx, "secret://gemini_api_key")
	if err != nil {
		t.Fatalf("Resolve returned error: %v", err)
	}
	if got != "local-secret" {
		t.Fatalf("Resolve = %q, want local-secret", got)
	}
}
