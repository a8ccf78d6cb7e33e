package provider

import (
	"reflect"
	"testing"

	"github.com/parpalak/admin-yard-sub000/internal/expression"
	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/store"
)

var postTypes = []schema.ColumnType{
	{Column: "id", Type: schema.TypeInt},
	{Column: "title", Type: schema.TypeString},
	{Column: "comments", Type: schema.TypeVirtual},
}

func TestBuildSelect_Postgres(t *testing.T) {
	d := store.NewDialect("postgres")
	labels := []LabelExpr{{Column: "comments", SQL: "SELECT COUNT(*) FROM comments AS a WHERE a.post_id = entity.id"}}
	conds := []*expression.Expression{expression.NewPattern("title", "%go%", "title LIKE %s")}

	sql, args := BuildSelect(d, "posts", postTypes, labels, conds, []string{"id"}, 10, 20)

	want := "SELECT entity.id AS field_id, entity.title AS field_title, NULL AS field_comments, " +
		"(SELECT COUNT(*) FROM comments AS a WHERE a.post_id = entity.id) AS label_comments " +
		"FROM posts AS entity WHERE title LIKE $1 ORDER BY entity.id LIMIT $2 OFFSET $3"
	if sql != want {
		t.Fatalf("unexpected SQL:\n got %s\nwant %s", sql, want)
	}
	if !reflect.DeepEqual(args, []any{"%go%", 10, 20}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildSelect_SQLitePlaceholders(t *testing.T) {
	d := store.NewDialect("sqlite")
	conds := []*expression.Expression{expression.New("id", []int64{1, 2})}

	sql, args := BuildSelect(d, "posts", postTypes[:2], nil, conds, nil, 5, 0)

	want := "SELECT entity.id AS field_id, entity.title AS field_title FROM posts AS entity " +
		"WHERE id IN (?1, ?2) LIMIT ?3 OFFSET ?4"
	if sql != want {
		t.Fatalf("unexpected SQL: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{int64(1), int64(2), 5, 0}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildSelect_SkipsTrivialConditions(t *testing.T) {
	d := store.NewDialect("postgres")
	conds := []*expression.Expression{
		expression.New("title", ""),
		nil,
		expression.New("status", []string{}),
	}

	sql, args := BuildSelect(d, "posts", postTypes[:2], nil, conds, nil, 0, 0)
	if sql != "SELECT entity.id AS field_id, entity.title AS field_title FROM posts AS entity" {
		t.Fatalf("trivial conditions leaked into SQL: %s", sql)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildSelectOne_KeyEquality(t *testing.T) {
	d := store.NewDialect("postgres")
	key, _ := schema.NewKey([]string{"column1", "column2"}, []any{int64(1), "x"})

	sql, args := BuildSelectOne(d, "composite_key_table", []schema.ColumnType{
		{Column: "column1", Type: schema.TypeInt},
		{Column: "column2", Type: schema.TypeString},
	}, nil, key)

	want := "SELECT entity.column1 AS field_column1, entity.column2 AS field_column2 " +
		"FROM composite_key_table AS entity WHERE entity.column1 = $1 AND entity.column2 = $2"
	if sql != want {
		t.Fatalf("unexpected SQL: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{int64(1), "x"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildInsert_OmitsNilAndVirtual(t *testing.T) {
	d := store.NewDialect("postgres")
	sql, args := BuildInsert(d, "posts", postTypes, map[string]any{
		"title":    "Hello",
		"id":       nil,
		"comments": "never",
	}, "id")

	want := "INSERT INTO posts (title) VALUES ($1) RETURNING id"
	if sql != want {
		t.Fatalf("unexpected SQL: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{"Hello"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildInsert_SQLiteHasNoReturning(t *testing.T) {
	d := store.NewDialect("sqlite")
	sql, _ := BuildInsert(d, "posts", postTypes, map[string]any{"title": "Hello"}, "id")
	if sql != "INSERT INTO posts (title) VALUES (?1)" {
		t.Fatalf("unexpected SQL: %s", sql)
	}
}

func TestBuildInsert_AllDefaults(t *testing.T) {
	d := store.NewDialect("postgres")
	sql, args := BuildInsert(d, "posts", postTypes, map[string]any{}, "")
	if sql != "INSERT INTO posts DEFAULT VALUES" {
		t.Fatalf("unexpected SQL: %s", sql)
	}
	if len(args) != 0 {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildUpdate_KeyColumnCanBeUpdated(t *testing.T) {
	// column2 is both updated and part of the key; its parameters must not
	// collide.
	d := store.NewDialect("postgres")
	key, _ := schema.NewKey([]string{"column1", "column2"}, []any{int64(1), "old"})

	sql, args := BuildUpdate(d, "composite_key_table", []schema.ColumnType{
		{Column: "column1", Type: schema.TypeInt},
		{Column: "column2", Type: schema.TypeString},
	}, key, map[string]any{"column2": "new"})

	want := "UPDATE composite_key_table SET column2 = $1 WHERE column1 = $2 AND column2 = $3"
	if sql != want {
		t.Fatalf("unexpected SQL: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{"new", int64(1), "old"}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildUpdate_NilValueIsWritten(t *testing.T) {
	d := store.NewDialect("postgres")
	key, _ := schema.NewKey([]string{"id"}, []any{int64(5)})

	sql, args := BuildUpdate(d, "posts", postTypes, key, map[string]any{"title": nil})
	if sql != "UPDATE posts SET title = $1 WHERE id = $2" {
		t.Fatalf("unexpected SQL: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{nil, int64(5)}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBuildUpdate_EmptyDataIsNoop(t *testing.T) {
	d := store.NewDialect("postgres")
	key, _ := schema.NewKey([]string{"id"}, []any{int64(5)})
	if sql, _ := BuildUpdate(d, "posts", postTypes, key, map[string]any{}); sql != "" {
		t.Fatalf("expected empty SQL, got %s", sql)
	}
}

func TestBuildDelete(t *testing.T) {
	d := store.NewDialect("sqlite")
	key, _ := schema.NewKey([]string{"id"}, []any{int64(9)})

	sql, args := BuildDelete(d, "posts", key)
	if sql != "DELETE FROM posts WHERE id = ?1" {
		t.Fatalf("unexpected SQL: %s", sql)
	}
	if !reflect.DeepEqual(args, []any{int64(9)}) {
		t.Fatalf("unexpected args: %v", args)
	}
}

func TestBindNamed_PreservesFragmentOrder(t *testing.T) {
	pb := store.NewDialect("postgres").NewParamBuilder()
	out := bindNamed("b = :b_1 AND a = :a_1", map[string]any{"a_1": "A", "b_1": "B"}, pb)
	if out != "b = $1 AND a = $2" {
		t.Fatalf("unexpected fragment: %s", out)
	}
	if !reflect.DeepEqual(pb.Params(), []any{"B", "A"}) {
		t.Fatalf("params not in fragment order: %v", pb.Params())
	}
}
