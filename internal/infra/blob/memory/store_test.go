package memory

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/Constellab/gws-biota-sub001/internal/infra/blob/core"
)

func TestPutFetchAndList(t *testing.T) {
	ctx := context.Background()
	store := New()

	if _, err := store.Put(ctx, "brenda/brenda.txt", strings.NewReader("ID\t1.1.1.1\n")); err != nil {
		t.Fatalf("Put: %v", err)
	}
	if _, err := store.Put(ctx, "brenda/brenda.txt", strings.NewReader("dup")); err == nil {
		t.Fatalf("expected duplicate Put to fail")
	}

	dest := t.TempDir()
	local, err := store.Fetch(ctx, "brenda/brenda.txt", dest)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	data, err := os.ReadFile(local)
	if err != nil {
		t.Fatalf("read staged file: %v", err)
	}
	if string(data) != "ID\t1.1.1.1\n" {
		t.Fatalf("unexpected staged contents: %q", data)
	}

	if _, err := store.Fetch(ctx, "missing", dest); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	infos, err := store.List(ctx, "brenda/")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(infos) != 1 || infos[0].Key != "brenda/brenda.txt" {
		t.Fatalf("unexpected list: %v", infos)
	}
}
