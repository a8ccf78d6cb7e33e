package provider

import (
	"context"
	"strings"
	"testing"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/store"
)

// A zero-value key never reaches the SQL builders: without key columns the
// generated statement would have no WHERE clause and touch the whole table.
func TestWrites_RejectEmptyKey(t *testing.T) {
	p := &Provider{store: &store.Store{Dialect: store.NewDialect("sqlite")}}
	ctx := context.Background()

	err := p.DeleteEntity(ctx, "posts", schema.Key{})
	if err == nil || !strings.Contains(err.Error(), "empty key") {
		t.Fatalf("expected empty key error from delete, got %v", err)
	}

	err = p.UpdateEntity(ctx, "posts", postTypes, schema.Key{}, map[string]any{"title": "x"})
	if err == nil || !strings.Contains(err.Error(), "empty key") {
		t.Fatalf("expected empty key error from update, got %v", err)
	}

	_, err = p.Entity(ctx, "posts", postTypes, nil, schema.Key{})
	if err == nil || !strings.Contains(err.Error(), "empty key") {
		t.Fatalf("expected empty key error from get, got %v", err)
	}
}
