package provider

import (
	"strings"
	"testing"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/store"
)

func TestCreateTableSQL_AutoKeyAndVirtual(t *testing.T) {
	e := schema.NewEntity("Post", schema.ActionList)
	e.Table = "posts"
	e.MustAddField(&schema.Field{Name: "id", Type: schema.TypeInt, PrimaryKey: true, Generated: true})
	e.MustAddField(&schema.Field{Name: "title", Type: schema.TypeString})
	e.MustAddField(&schema.Field{Name: "comments", Type: schema.TypeVirtual,
		Association: &schema.Association{Kind: schema.OneToMany, ForeignEntity: "Comment",
			TitleSQL: "COUNT(*)", InverseColumn: "post_id"}})

	ddl, err := CreateTableSQL(store.NewDialect("postgres"), e)
	if err != nil {
		t.Fatalf("CreateTableSQL: %v", err)
	}
	if !strings.Contains(ddl, "id BIGSERIAL PRIMARY KEY") {
		t.Fatalf("expected serial key, got:\n%s", ddl)
	}
	if strings.Contains(ddl, "comments") {
		t.Fatalf("virtual column leaked into DDL:\n%s", ddl)
	}

	ddl, err = CreateTableSQL(store.NewDialect("sqlite"), e)
	if err != nil {
		t.Fatalf("CreateTableSQL: %v", err)
	}
	if !strings.Contains(ddl, "id INTEGER PRIMARY KEY AUTOINCREMENT") {
		t.Fatalf("expected autoincrement key, got:\n%s", ddl)
	}
}

func TestCreateTableSQL_CompositeKey(t *testing.T) {
	e := schema.NewEntity("CompositeKeyTable", schema.ActionList)
	e.Table = "composite_key_table"
	e.MustAddField(&schema.Field{Name: "column1", Type: schema.TypeInt, PrimaryKey: true})
	e.MustAddField(&schema.Field{Name: "column2", Type: schema.TypeString, PrimaryKey: true})
	e.MustAddField(&schema.Field{Name: "column3", Type: schema.TypeDate, PrimaryKey: true})

	ddl, err := CreateTableSQL(store.NewDialect("postgres"), e)
	if err != nil {
		t.Fatalf("CreateTableSQL: %v", err)
	}
	if !strings.Contains(ddl, "PRIMARY KEY (column1, column2, column3)") {
		t.Fatalf("expected table-level key, got:\n%s", ddl)
	}
	if strings.Contains(ddl, "column1 BIGINT PRIMARY KEY,") {
		t.Fatalf("column-level key must not appear for composite keys:\n%s", ddl)
	}
}
