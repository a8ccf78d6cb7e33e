// Package provider builds and executes the SQL behind the admin screens:
// list/show projections with association labels, and the write path for
// new/edit/delete. Statement identifiers (tables, columns, title
// expressions) come from the schema only, never from request input.
package provider

import (
	"context"
	"errors"
	"fmt"

	"github.com/parpalak/admin-yard-sub000/internal/expression"
	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/store"
	"github.com/parpalak/admin-yard-sub000/internal/transform"
)

// Row maps projection names (field_<col>, label_<col>) to values. Field
// values are normalized per the declared data type; label values stay as
// the database produced them.
type Row = map[string]any

type Provider struct {
	store  *store.Store
	labels *labelCache
}

func New(s *store.Store, labelTTLSeconds int) (*Provider, error) {
	cache, err := newLabelCache(labelTTLSeconds)
	if err != nil {
		return nil, fmt.Errorf("label cache: %w", err)
	}
	return &Provider{store: s, labels: cache}, nil
}

// Dialect exposes the active SQL dialect for callers that build DDL.
func (p *Provider) Dialect() store.Dialect {
	return p.store.Dialect
}

// EntityList fetches one page of rows. Conditions with trivial values are
// skipped; orderBy should normally be the primary-key columns.
func (p *Provider) EntityList(ctx context.Context, table string, types []schema.ColumnType, labels []LabelExpr,
	conds []*expression.Expression, orderBy []string, limit, offset int) ([]Row, error) {

	sqlStr, args := BuildSelect(p.store.Dialect, table, types, labels, conds, orderBy, limit, offset)
	rows, err := store.QueryRows(ctx, p.store.DB, sqlStr, args...)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", table, err)
	}

	out := make([]Row, 0, len(rows))
	for _, raw := range rows {
		row, err := normalizeRow(raw, types)
		if err != nil {
			return nil, fmt.Errorf("list %s: %w", table, err)
		}
		out = append(out, row)
	}
	return out, nil
}

// Entity fetches a single row by primary key. A missing row returns
// (nil, nil); the caller decides whether that is a NotFound condition.
func (p *Provider) Entity(ctx context.Context, table string, types []schema.ColumnType, labels []LabelExpr, key schema.Key) (Row, error) {
	if key.Len() == 0 {
		return nil, fmt.Errorf("get %s: empty key", table)
	}
	sqlStr, args := BuildSelectOne(p.store.Dialect, table, types, labels, key)
	raw, err := store.QueryRow(ctx, p.store.DB, sqlStr, args...)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", table, err)
	}
	return normalizeRow(raw, types)
}

// CreateEntity converts the normalized data to storage form, inserts, and
// returns the storage-assigned identifier of the returning column when one
// is available.
func (p *Provider) CreateEntity(ctx context.Context, table string, types []schema.ColumnType, data map[string]any, returning string) (int64, bool, error) {
	dbData, err := toDB(types, data)
	if err != nil {
		return 0, false, err
	}

	sqlStr, args := BuildInsert(p.store.Dialect, table, types, dbData, returning)

	if returning != "" && p.store.Dialect.SupportsReturning() {
		row, err := store.QueryRow(ctx, p.store.DB, sqlStr, args...)
		if err != nil {
			return 0, false, p.store.Dialect.MapError(fmt.Errorf("insert %s: %w", table, err))
		}
		id, err := transform.NormalizedFromDB(row[returning], schema.TypeInt)
		if err != nil {
			return 0, false, err
		}
		p.labels.invalidate(table)
		return id.(int64), true, nil
	}

	result, err := p.store.DB.ExecContext(ctx, sqlStr, args...)
	if err != nil {
		return 0, false, p.store.Dialect.MapError(fmt.Errorf("insert %s: %w", table, err))
	}
	p.labels.invalidate(table)
	if returning != "" {
		if id, err := result.LastInsertId(); err == nil && id > 0 {
			return id, true, nil
		}
	}
	return 0, false, nil
}

// UpdateEntity converts and updates the row identified by key. A call with
// no data is a no-op.
func (p *Provider) UpdateEntity(ctx context.Context, table string, types []schema.ColumnType, key schema.Key, data map[string]any) error {
	// A key without columns would drop the WHERE clause and touch every row.
	if key.Len() == 0 {
		return fmt.Errorf("update %s: empty key", table)
	}
	if len(data) == 0 {
		return nil
	}
	dbData, err := toDB(types, data)
	if err != nil {
		return err
	}

	sqlStr, args := BuildUpdate(p.store.Dialect, table, types, key, dbData)
	if sqlStr == "" {
		return nil
	}
	if _, err := store.Exec(ctx, p.store.DB, sqlStr, args...); err != nil {
		return p.store.Dialect.MapError(fmt.Errorf("update %s: %w", table, err))
	}
	p.labels.invalidate(table)
	return nil
}

// DeleteEntity removes the row identified by key.
func (p *Provider) DeleteEntity(ctx context.Context, table string, key schema.Key) error {
	// A key without columns would drop the WHERE clause and touch every row.
	if key.Len() == 0 {
		return fmt.Errorf("delete %s: empty key", table)
	}
	sqlStr, args := BuildDelete(p.store.Dialect, table, key)
	if _, err := store.Exec(ctx, p.store.DB, sqlStr, args...); err != nil {
		return fmt.Errorf("delete %s: %w", table, err)
	}
	p.labels.invalidate(table)
	return nil
}

// toDB converts each present column of a normalized data map to its
// storage representation. Virtual columns never reach storage.
func toDB(types []schema.ColumnType, data map[string]any) (map[string]any, error) {
	out := make(map[string]any, len(data))
	for _, ct := range types {
		if ct.Type == schema.TypeVirtual {
			continue
		}
		v, ok := data[ct.Column]
		if !ok {
			continue
		}
		converted, err := transform.DBFromNormalized(v, ct.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", ct.Column, err)
		}
		out[ct.Column] = converted
	}
	return out, nil
}

// normalizeRow converts the field_ projection values per declared type.
// Virtual columns stay nil; label_ projections pass through untouched.
func normalizeRow(raw map[string]any, types []schema.ColumnType) (Row, error) {
	row := make(Row, len(raw))
	for k, v := range raw {
		row[k] = v
	}
	for _, ct := range types {
		if ct.Type == schema.TypeVirtual {
			continue
		}
		name := "field_" + ct.Column
		v, ok := row[name]
		if !ok {
			continue
		}
		normalized, err := transform.NormalizedFromDB(v, ct.Type)
		if err != nil {
			return nil, fmt.Errorf("column %s: %w", ct.Column, err)
		}
		row[name] = normalized
	}
	return row, nil
}
