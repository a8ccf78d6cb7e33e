package controller

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/parpalak/admin-yard-sub000/internal/form"
	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/session"
	"github.com/parpalak/admin-yard-sub000/internal/store"
	"github.com/parpalak/admin-yard-sub000/internal/transform"
)

func (ctl *Controller) newForm(c *fiber.Ctx, e *schema.Entity) error {
	f, err := ctl.forms.Create(c.Context(), e, schema.ActionNew)
	if err != nil {
		return err
	}
	return ctl.renderForm(c, e, schema.ActionNew, f, nil, schema.Key{}, fiber.StatusOK)
}

func (ctl *Controller) create(c *fiber.Ctx, e *schema.Entity) error {
	f, err := ctl.forms.Create(c.Context(), e, schema.ActionNew)
	if err != nil {
		return err
	}
	f.BindPosted(postedValues(c))

	if errs := f.Validate(); len(errs) > 0 {
		return ctl.renderForm(c, e, schema.ActionNew, f, errs, schema.Key{}, fiber.StatusUnprocessableEntity)
	}
	values, err := f.Values()
	if err != nil {
		return err
	}

	// String keys generated by the application get a UUID; integer keys are
	// left to storage.
	returning := ""
	for _, name := range e.PrimaryKeyFields() {
		pk := e.Field(name)
		if !pk.Generated {
			continue
		}
		switch pk.Type {
		case schema.TypeInt:
			if len(e.PrimaryKeyFields()) == 1 {
				returning = name
			}
		case schema.TypeString:
			if v, ok := values[name]; !ok || v == nil || v == "" {
				values[name] = uuid.NewString()
			}
		}
	}

	id, hasID, err := ctl.ds.CreateEntity(c.Context(), e.Table, e.FieldDataTypes(schema.ActionNew, true), values, returning)
	if errors.Is(err, store.ErrUniqueViolation) {
		return NewConflictError("A row with the same unique value already exists.")
	}
	if err != nil {
		return err
	}

	session.SetFlash(session.FromCtx(c), fmt.Sprintf("%s created.", e.Name))
	return c.Redirect(createRedirect(e, values, id, hasID), fiber.StatusFound)
}

// createRedirect picks the screen shown after a successful insert: the edit
// screen when the new row's key is known (either storage-assigned or fully
// submitted), the list otherwise.
func createRedirect(e *schema.Entity, values map[string]any, id int64, hasID bool) string {
	pk := e.PrimaryKeyFields()
	if e.ActionEnabled(schema.ActionEdit) && len(pk) > 0 {
		if hasID && len(pk) == 1 {
			q := url.Values{}
			q.Set(pk[0], strconv.FormatInt(id, 10))
			return adminURL(e.Name, schema.ActionEdit, q)
		}
		q := url.Values{}
		complete := true
		for _, col := range pk {
			v, ok := values[col]
			if !ok || v == nil || v == "" {
				complete = false
				break
			}
			q.Set(col, formatKeyValue(v))
		}
		if complete {
			return adminURL(e.Name, schema.ActionEdit, q)
		}
	}
	return adminURL(e.Name, schema.ActionList, nil)
}

func (ctl *Controller) editForm(c *fiber.Ctx, e *schema.Entity) error {
	key, err := keyFromQuery(c, e)
	if err != nil {
		return err
	}

	types := e.FieldDataTypes(schema.ActionEdit, true)
	row, err := ctl.ds.Entity(c.Context(), e.Table, types, nil, key)
	if err != nil {
		return err
	}
	if row == nil {
		return NewNotFoundError(e.Name)
	}

	f, err := ctl.forms.Create(c.Context(), e, schema.ActionEdit)
	if err != nil {
		return err
	}
	values := map[string]any{}
	for _, ct := range types {
		if v, ok := row["field_"+ct.Column]; ok {
			values[ct.Column] = v
		}
	}
	if err := f.SetValues(values); err != nil {
		return err
	}
	return ctl.renderForm(c, e, schema.ActionEdit, f, nil, key, fiber.StatusOK)
}

func (ctl *Controller) update(c *fiber.Ctx, e *schema.Entity) error {
	key, err := keyFromQuery(c, e)
	if err != nil {
		return err
	}

	f, err := ctl.forms.Create(c.Context(), e, schema.ActionEdit)
	if err != nil {
		return err
	}
	f.BindPosted(postedValues(c))

	if errs := f.Validate(); len(errs) > 0 {
		return ctl.renderForm(c, e, schema.ActionEdit, f, errs, key, fiber.StatusUnprocessableEntity)
	}
	values, err := f.Values()
	if err != nil {
		return err
	}

	err = ctl.ds.UpdateEntity(c.Context(), e.Table, e.FieldDataTypes(schema.ActionEdit, true), key, values)
	if errors.Is(err, store.ErrUniqueViolation) {
		return NewConflictError("A row with the same unique value already exists.")
	}
	if err != nil {
		return err
	}

	// Key columns the form may have changed override the old key in the
	// redirect target.
	q := url.Values{}
	for _, col := range e.PrimaryKeyFields() {
		if v, ok := values[col]; ok && v != nil && v != "" {
			q.Set(col, formatKeyValue(v))
			continue
		}
		if v, ok := key.Value(col); ok {
			q.Set(col, formatKeyValue(v))
		}
	}

	session.SetFlash(session.FromCtx(c), fmt.Sprintf("%s saved.", e.Name))
	return c.Redirect(adminURL(e.Name, schema.ActionEdit, q), fiber.StatusFound)
}

func (ctl *Controller) delete(c *fiber.Ctx, e *schema.Entity) error {
	key, err := keyFromQuery(c, e)
	if err != nil {
		return err
	}
	if err := ctl.ds.DeleteEntity(c.Context(), e.Table, key); err != nil {
		return err
	}
	session.SetFlash(session.FromCtx(c), fmt.Sprintf("%s deleted.", e.Name))
	return c.Redirect(adminURL(e.Name, schema.ActionList, nil), fiber.StatusFound)
}

func (ctl *Controller) renderForm(c *fiber.Ctx, e *schema.Entity, action schema.Action,
	f *form.Form, errs map[string][]string, key schema.Key, status int) error {

	actionURL := adminURL(e.Name, action, nil)
	if key.Len() > 0 {
		actionURL = adminURL(e.Name, action, key.QueryValues())
	}
	c.Status(status)
	return ctl.renderer.Render(c, e.Template(action), fiber.Map{
		"entity":     e.Name,
		"title":      e.Name,
		"action":     string(action),
		"action_url": actionURL,
		"controls":   f.Controls(),
		"errors":     errs,
		"buttons":    screenButtons(e, action, key),
		"flash":      session.PopFlash(session.FromCtx(c)),
	})
}

// postedValues collects the urlencoded form body, preserving repeated keys
// for multi-value controls.
func postedValues(c *fiber.Ctx) url.Values {
	values := url.Values{}
	c.Request().PostArgs().VisitAll(func(k, v []byte) {
		values.Add(string(k), string(v))
	})
	return values
}

func formatKeyValue(v any) string {
	switch val := v.(type) {
	case time.Time:
		return val.Format(transform.TimestampLayout)
	case int64:
		return strconv.FormatInt(val, 10)
	default:
		return fmt.Sprintf("%v", val)
	}
}
