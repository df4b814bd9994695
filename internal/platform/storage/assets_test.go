package storage

import (
	"context"
	"errors"
	"sync"
	"testing"
)

type fakeBucketReader struct {
	mu     sync.Mutex
	assets map[string]Asset
	errs   map[string]error
	calls  map[string]int
}

func newFakeBucketReader() *fakeBucketReader {
	return &fakeBucketReader{
		assets: make(map[string]Asset),
		errs:   make(map[string]error),
		calls:  make(map[string]int),
	}
}

func (f *fakeBucketReader) Read(_ context.Context, object string) (Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls[object]++
	if err, ok := f.errs[object]; ok {
		return Asset{}, err
	}
	asset, ok := f.assets[object]
	if !ok {
		return Asset{}, ErrAssetNotFound
	}
	return asset, nil
}

func (f *fakeBucketReader) Close() error { return nil }

func (f *fakeBucketReader) callCount(object string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[object]
}

func TestMemberReferenceImageCaches(t *testing.T) {
	reader := newFakeBucketReader()
	reader.assets["members/umuti/reference.png"] = Asset{MIMEType: "image/png", Data: []byte("portrait")}

	store, err := NewAssetStore(reader)
	if err != nil {
		t.Fatalf("NewAssetStore: %v", err)
	}

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		asset, err := store.MemberReferenceImage(ctx, "umuti")
		if err != nil {
			t.Fatalf("MemberReferenceImage: %v", err)
		}
		if asset.MIMEType != "image/png" || string(asset.Data) != "portrait" {
			t.Fatalf("unexpected asset %+v", asset)
		}
	}
	if calls := reader.callCount("members/umuti/reference.png"); calls != 1 {
		t.Fatalf("expected a single bucket read, got %d", calls)
	}
}

func TestMemberReferenceImageNotFound(t *testing.T) {
	store, err := NewAssetStore(newFakeBucketReader())
	if err != nil {
		t.Fatalf("NewAssetStore: %v", err)
	}

	_, err = store.MemberReferenceImage(context.Background(), "nobody")
	if !errors.Is(err, ErrAssetNotFound) {
		t.Fatalf("expected ErrAssetNotFound, got %v", err)
	}
}

func TestMemberReferencePath(t *testing.T) {
	got, err := MemberReferencePath("rui")
	if err != nil {
		t.Fatalf("MemberReferencePath: %v", err)
	}
	if got != "members/rui/reference.png" {
		t.Fatalf("unexpected path %s", got)
	}

	if _, err := MemberReferencePath(" "); err == nil {
		t.Fatal("expected error for blank member id")
	}
	if _, err := MemberReferencePath("../etc"); err == nil {
		t.Fatal("expected error for traversal attempt")
	}
}
