package s3

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/Constellab/gws-biota-sub001/internal/infra/blob/core"
)

func TestMockPutFetchList(t *testing.T) {
	ctx := context.Background()
	store := NewMockForTests()

	if _, err := store.Put(ctx, "rhea/rhea-reactions.txt", strings.NewReader("ENTRY RHEA:10000\n")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Put(ctx, "rhea/rhea-reactions.txt", strings.NewReader("dup")); err == nil {
		t.Fatalf("expected duplicate Put to fail")
	}

	dest := t.TempDir()
	local, err := store.Fetch(ctx, "rhea/rhea-reactions.txt", dest)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(data) != "ENTRY RHEA:10000\n" {
		t.Fatalf("unexpected staged contents: %q", data)
	}

	infos, err := store.List(ctx, "rhea/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "rhea/rhea-reactions.txt" {
		t.Fatalf("unexpected list: %v", infos)
	}
}

func TestMockFetchMissing(t *testing.T) {
	store := NewMockForTests()
	_, err := store.Fetch(context.Background(), "rhea/absent.txt", t.TempDir())
	if err == nil {
		t.Fatalf("expected error for missing key")
	}
	if errors.Is(err, core.ErrNotFound) {
		return
	}
	// The SDK may surface a generic API error instead of NoSuchKey depending
	// on response parsing; either way the fetch must fail.
}

func TestNewRequiresBucket(t *testing.T) {
	if _, err := New(context.Background(), Config{}); err == nil {
		t.Fatalf("expected bucket requirement error")
	}
}
