package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/store"
)

// EnsureTables creates a table for every registered entity that doesn't
// have one yet. Demo bootstrap only; production deployments manage their
// own DDL.
func EnsureTables(ctx context.Context, s *store.Store, reg *schema.Registry) error {
	for _, e := range reg.All() {
		ddl, err := CreateTableSQL(s.Dialect, e)
		if err != nil {
			return err
		}
		if _, err := s.DB.ExecContext(ctx, ddl); err != nil {
			return fmt.Errorf("create table %s: %w", e.Table, err)
		}
	}
	return nil
}

// CreateTableSQL maps an entity onto dialect DDL. Virtual fields have no
// column; a single generated int key becomes the dialect's auto column.
func CreateTableSQL(d store.Dialect, e *schema.Entity) (string, error) {
	pk := e.PrimaryKeyFields()
	var cols []string
	for _, f := range e.AllFields() {
		if f.IsVirtual() {
			continue
		}
		if f.PrimaryKey && f.Generated && f.Type == schema.TypeInt && len(pk) == 1 {
			cols = append(cols, fmt.Sprintf("%s %s", f.Name, d.AutoPrimaryKeyType()))
			continue
		}
		col := fmt.Sprintf("%s %s", f.Name, d.ColumnType(string(f.Type)))
		if f.PrimaryKey && len(pk) == 1 {
			col += " PRIMARY KEY"
		}
		cols = append(cols, col)
	}
	if len(cols) == 0 {
		return "", fmt.Errorf("entity %s has no storage columns", e.Name)
	}
	if len(pk) > 1 {
		cols = append(cols, fmt.Sprintf("PRIMARY KEY (%s)", strings.Join(pk, ", ")))
	}
	return fmt.Sprintf("CREATE TABLE IF NOT EXISTS %s (\n    %s\n)", e.Table, strings.Join(cols, ",\n    ")), nil
}
