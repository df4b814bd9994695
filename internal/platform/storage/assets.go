// Package storage loads member reference assets from Cloud Storage for the
// generation programs. Reference portraits change rarely, so reads are cached
// in process for the lifetime of the server.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"
	"sync"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

const defaultReferenceContentType = "image/png"

// ErrAssetNotFound is returned when the requested object does not exist.
var ErrAssetNotFound = errors.New("storage: asset not found")

// Asset is a loaded storage object with its resolved content type.
type Asset struct {
	MIMEType string
	Data     []byte
}

// BucketReader reads a single object from a fixed bucket.
type BucketReader interface {
	Read(ctx context.Context, object string) (Asset, error)
	Close() error
}

type gcsBucketReader struct {
	client *gcs.Client
	bucket string
}

// NewBucketReader opens a Cloud Storage client scoped to one bucket.
func NewBucketReader(ctx context.Context, bucket string, opts ...option.ClientOption) (BucketReader, error) {
	if strings.TrimSpace(bucket) == "" {
		return nil, errors.New("storage: bucket name is required")
	}
	client, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("storage: create client: %w", err)
	}
	return &gcsBucketReader{client: client, bucket: bucket}, nil
}

func (r *gcsBucketReader) Read(ctx context.Context, object string) (Asset, error) {
	reader, err := r.client.Bucket(r.bucket).Object(object).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcs.ErrObjectNotExist) {
			return Asset{}, fmt.Errorf("%w: %s", ErrAssetNotFound, object)
		}
		return Asset{}, fmt.Errorf("storage: open %s: %w", object, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return Asset{}, fmt.Errorf("storage: read %s: %w", object, err)
	}

	contentType := reader.Attrs.ContentType
	if contentType == "" {
		contentType = contentTypeFromName(object)
	}
	return Asset{MIMEType: contentType, Data: data}, nil
}

func (r *gcsBucketReader) Close() error {
	return r.client.Close()
}

// AssetStore caches member reference images loaded from a bucket.
type AssetStore struct {
	reader BucketReader

	mu    sync.RWMutex
	cache map[string]Asset
}

// NewAssetStore wraps a bucket reader with an in-process cache.
func NewAssetStore(reader BucketReader) (*AssetStore, error) {
	if reader == nil {
		return nil, errors.New("storage: bucket reader is required")
	}
	return &AssetStore{
		reader: reader,
		cache:  make(map[string]Asset),
	}, nil
}

// MemberReferenceImage loads the canonical reference portrait for a member.
func (s *AssetStore) MemberReferenceImage(ctx context.Context, memberID string) (Asset, error) {
	object, err := MemberReferencePath(memberID)
	if err != nil {
		return Asset{}, err
	}
	return s.load(ctx, object)
}

// Close releases the underlying bucket reader.
func (s *AssetStore) Close() error {
	return s.reader.Close()
}

func (s *AssetStore) load(ctx context.Context, object string) (Asset, error) {
	s.mu.RLock()
	cached, ok := s.cache[object]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	asset, err := s.reader.Read(ctx, object)
	if err != nil {
		return Asset{}, err
	}

	s.mu.Lock()
	s.cache[object] = asset
	s.mu.Unlock()
	return asset, nil
}

// MemberReferencePath composes the object key for a member reference portrait.
func MemberReferencePath(memberID string) (string, error) {
	id := strings.TrimSpace(memberID)
	if id == "" {
		return "", errors.New("storage: member id is required")
	}
	if strings.ContainsAny(id, "/\\") {
		return "", fmt.Errorf("storage: invalid member id %q", id)
	}
	return path.Join("members", id, "reference.png"), nil
}

func contentTypeFromName(object string) string {
	if contentType := mime.TypeByExtension(path.Ext(object)); contentType != "" {
		return contentType
	}
	return defaultReferenceContentType
}
