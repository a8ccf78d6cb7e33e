// Package controller dispatches panel requests to the five entity actions,
// translating query parameters into schema keys and filter expressions and
// handing view data to the renderer.
package controller

import (
	"context"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/parpalak/admin-yard-sub000/internal/expression"
	"github.com/parpalak/admin-yard-sub000/internal/form"
	"github.com/parpalak/admin-yard-sub000/internal/provider"
	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/session"
)

// DataSource is the slice of the data provider the controller depends on.
type DataSource interface {
	EntityList(ctx context.Context, table string, types []schema.ColumnType, labels []provider.LabelExpr,
		conds []*expression.Expression, orderBy []string, limit, offset int) ([]provider.Row, error)
	Entity(ctx context.Context, table string, types []schema.ColumnType, labels []provider.LabelExpr, key schema.Key) (provider.Row, error)
	CreateEntity(ctx context.Context, table string, types []schema.ColumnType, data map[string]any, returning string) (int64, bool, error)
	UpdateEntity(ctx context.Context, table string, types []schema.ColumnType, key schema.Key, data map[string]any) error
	DeleteEntity(ctx context.Context, table string, key schema.Key) error
}

type Controller struct {
	reg      *schema.Registry
	ds       DataSource
	forms    *form.Factory
	index    *form.AutocompleteIndex
	renderer Renderer
	pageSize int
}

func New(reg *schema.Registry, ds DataSource, forms *form.Factory, index *form.AutocompleteIndex,
	renderer Renderer, pageSize int) *Controller {

	if renderer == nil {
		renderer = jsonRenderer{}
	}
	if pageSize <= 0 {
		pageSize = 20
	}
	return &Controller{reg: reg, ds: ds, forms: forms, index: index, renderer: renderer, pageSize: pageSize}
}

// Handle resolves entity and action from the query string and dispatches.
// A request without an entity opens the registry's default entity; a
// request without an action opens the list.
func (ctl *Controller) Handle(c *fiber.Ctx) error {
	var e *schema.Entity
	if name := c.Query("entity"); name == "" {
		if e = ctl.reg.Default(); e == nil {
			return NewInvalidRequestError("No default entity is configured.")
		}
	} else if e = ctl.reg.Get(name); e == nil {
		return NewUnknownEntityError(name)
	}

	action := schema.Action(c.Query("action", string(schema.ActionList)))
	if !action.Valid() {
		return NewInvalidRequestError("Unknown action.")
	}
	if !e.ActionEnabled(action) {
		return NewActionNotAllowedError(e.Name, action)
	}

	post := c.Method() == fiber.MethodPost
	switch action {
	case schema.ActionList:
		if post {
			return NewMethodNotAllowedError(c.Method())
		}
		return ctl.list(c, e)
	case schema.ActionShow:
		if post {
			return NewMethodNotAllowedError(c.Method())
		}
		return ctl.show(c, e)
	case schema.ActionNew:
		if post {
			return ctl.create(c, e)
		}
		return ctl.newForm(c, e)
	case schema.ActionEdit:
		if post {
			return ctl.update(c, e)
		}
		return ctl.editForm(c, e)
	case schema.ActionDelete:
		return ctl.delete(c, e)
	}
	return NewInvalidRequestError("Unknown action.")
}

func (ctl *Controller) list(c *fiber.Ctx, e *schema.Entity) error {
	types := e.FieldDataTypes(schema.ActionList, true)
	labels, err := provider.LabelExpressions(ctl.reg, e, schema.ActionList)
	if err != nil {
		return err
	}

	conds, filters := listFilters(c, e)
	limit := e.ListLimit
	if limit <= 0 {
		limit = ctl.pageSize
	}
	offset := c.QueryInt("offset", 0)
	if offset < 0 {
		offset = 0
	}

	rows, err := ctl.ds.EntityList(c.Context(), e.Table, types, labels, conds, e.PrimaryKeyFields(), limit, offset)
	if err != nil {
		return err
	}

	views := make([]RowView, 0, len(rows))
	for _, row := range rows {
		v, err := ctl.rowView(e, schema.ActionList, row)
		if err != nil {
			return err
		}
		views = append(views, v)
	}

	return ctl.renderer.Render(c, e.Template(schema.ActionList), fiber.Map{
		"entity":  e.Name,
		"title":   e.Name,
		"header":  headerCells(e, schema.ActionList),
		"rows":    views,
		"filters": filters,
		"limit":   limit,
		"offset":  offset,
		"buttons": screenButtons(e, schema.ActionList, schema.Key{}),
		"flash":   session.PopFlash(session.FromCtx(c)),
	})
}

func (ctl *Controller) show(c *fiber.Ctx, e *schema.Entity) error {
	key, err := keyFromQuery(c, e)
	if err != nil {
		return err
	}

	types := e.FieldDataTypes(schema.ActionShow, true)
	labels, err := provider.LabelExpressions(ctl.reg, e, schema.ActionShow)
	if err != nil {
		return err
	}

	row, err := ctl.ds.Entity(c.Context(), e.Table, types, labels, key)
	if err != nil {
		return err
	}
	if row == nil {
		return NewNotFoundError(e.Name)
	}

	view, err := ctl.rowView(e, schema.ActionShow, row)
	if err != nil {
		return err
	}

	return ctl.renderer.Render(c, e.Template(schema.ActionShow), fiber.Map{
		"entity":  e.Name,
		"title":   e.Name,
		"row":     view,
		"buttons": screenButtons(e, schema.ActionShow, key),
		"flash":   session.PopFlash(session.FromCtx(c)),
	})
}

// keyFromQuery assembles the primary key from query parameters. Every key
// column must be present.
func keyFromQuery(c *fiber.Ctx, e *schema.Entity) (schema.Key, error) {
	cols := e.PrimaryKeyFields()
	values := make([]any, len(cols))
	for i, col := range cols {
		v := c.Query(col)
		if v == "" {
			return schema.Key{}, NewMissingParamError(col)
		}
		values[i] = v
	}
	return schema.NewKey(cols, values)
}

// listFilters builds one condition per filterable field that the query
// string constrains. String fields match as substrings, everything else by
// equality. Trivial values never produce a condition.
func listFilters(c *fiber.Ctx, e *schema.Entity) ([]*expression.Expression, map[string]string) {
	var conds []*expression.Expression
	applied := map[string]string{}
	for _, f := range e.AllFields() {
		if !f.Filterable || f.IsVirtual() {
			continue
		}
		v := c.Query("filter[" + f.Name + "]")
		if v == "" {
			continue
		}
		applied[f.Name] = v
		if f.Type == schema.TypeString {
			conds = append(conds, expression.NewPattern(f.Name, "%"+escapeLike(v)+"%", f.Name+` LIKE %s ESCAPE '\'`))
		} else {
			conds = append(conds, expression.New(f.Name, v))
		}
	}
	return conds, applied
}

// escapeLike neutralizes LIKE metacharacters in a user-typed filter value,
// so "100%" matches the literal string and not a prefix.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// adminURL builds a panel link from ordered query parameters.
func adminURL(entity string, action schema.Action, extra url.Values) string {
	q := url.Values{}
	q.Set("entity", entity)
	q.Set("action", string(action))
	for k, vs := range extra {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	return "?" + q.Encode()
}
