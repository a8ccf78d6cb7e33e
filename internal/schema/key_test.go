package schema

import "testing"

func TestNewKey_LengthMismatch(t *testing.T) {
	if _, err := NewKey([]string{"a", "b"}, []any{1}); err == nil {
		t.Fatal("expected length mismatch error")
	}
	if _, err := NewKey(nil, nil); err == nil {
		t.Fatal("expected empty key error")
	}
}

func TestNewKey_RejectsEmptyValues(t *testing.T) {
	// An empty key value cannot identify a row; letting it through would
	// strip the condition from the generated WHERE clause.
	if _, err := NewKey([]string{"id"}, []any{nil}); err == nil {
		t.Fatal("expected nil key value to be rejected")
	}
	if _, err := NewKey([]string{"id"}, []any{""}); err == nil {
		t.Fatal("expected empty string key value to be rejected")
	}
	if _, err := NewKey([]string{"column1", "column2"}, []any{int64(1), ""}); err == nil {
		t.Fatal("expected partially empty composite key to be rejected")
	}
	if _, err := NewKey([]string{"id"}, []any{int64(0)}); err != nil {
		t.Fatalf("zero is a real key value: %v", err)
	}
}

func TestKey_Lookup(t *testing.T) {
	key, err := NewKey([]string{"column1", "column2"}, []any{int64(1), "x"})
	if err != nil {
		t.Fatalf("NewKey: %v", err)
	}
	if key.Len() != 2 {
		t.Fatalf("expected len 2, got %d", key.Len())
	}
	v, ok := key.Value("column2")
	if !ok || v != "x" {
		t.Fatalf("expected x, got %v (%v)", v, ok)
	}
	if _, ok := key.Value("missing"); ok {
		t.Fatal("missing column must not resolve")
	}
}

func TestKey_Prefixed(t *testing.T) {
	key, _ := NewKey([]string{"id"}, []any{int64(7)})
	p := key.Prefixed("pk_")
	if cols := p.Columns(); cols[0] != "pk_id" {
		t.Fatalf("expected pk_id, got %s", cols[0])
	}
	if v, _ := p.Value("pk_id"); v != int64(7) {
		t.Fatalf("value lost in prefixing: %v", v)
	}
}

func TestKey_QueryValues(t *testing.T) {
	key, _ := NewKey([]string{"column1", "column2"}, []any{int64(1), "Test title"})
	q := key.QueryValues()
	if q.Get("column1") != "1" || q.Get("column2") != "Test title" {
		t.Fatalf("unexpected query values: %v", q)
	}
	if enc := q.Encode(); enc != "column1=1&column2=Test+title" {
		t.Fatalf("unexpected encoding: %s", enc)
	}
}
