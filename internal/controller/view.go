package controller

import (
	"fmt"
	"net/url"

	"github.com/parpalak/admin-yard-sub000/internal/provider"
	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// Cell is one rendered value of a row. Association cells may carry a label
// and a link to the foreign entity; a null label leaves the cell unlinked.
type Cell struct {
	Field *schema.Field
	Value any
	Label string
	Link  string
}

// ActionLink is one navigation button.
type ActionLink struct {
	Action schema.Action
	URL    string
}

// RowView is a row prepared for rendering: its cells in field order plus
// the per-row action links.
type RowView struct {
	Key     schema.Key
	Cells   []Cell
	Actions []ActionLink
}

// HeaderCell describes one list column.
type HeaderCell struct {
	Name       string
	Label      string
	Sortable   bool
	Filterable bool
}

func headerCells(e *schema.Entity, action schema.Action) []HeaderCell {
	fields := e.Fields(action)
	out := make([]HeaderCell, 0, len(fields))
	for _, f := range fields {
		out = append(out, HeaderCell{
			Name:       f.Name,
			Label:      f.DisplayLabel(),
			Sortable:   f.Sortable,
			Filterable: f.Filterable && !f.IsVirtual(),
		})
	}
	return out
}

// rowView builds the cells of one fetched row. A projection the row lacks
// is a configuration error: the query planner and the view disagree about
// the schema.
func (ctl *Controller) rowView(e *schema.Entity, action schema.Action, row provider.Row) (RowView, error) {
	view := RowView{}

	for _, f := range e.Fields(action) {
		value, ok := row["field_"+f.Name]
		if !ok {
			return RowView{}, &schema.ConfigError{Entity: e.Name, Field: f.Name,
				Msg: "row is missing the field projection"}
		}
		cell := Cell{Field: f, Value: value}

		if f.Association != nil {
			label, ok := row["label_"+f.Name]
			if !ok {
				return RowView{}, &schema.ConfigError{Entity: e.Name, Field: f.Name,
					Msg: "row is missing the label projection"}
			}
			if label != nil {
				cell.Label = fmt.Sprintf("%v", label)
				link, err := ctl.associationLink(e, f, row)
				if err != nil {
					return RowView{}, err
				}
				cell.Link = link
			}
		}
		view.Cells = append(view.Cells, cell)
	}

	if key, ok := rowKey(e, row); ok {
		view.Key = key
		view.Actions = rowActions(e, action, key)
	}
	return view, nil
}

// associationLink points a labeled cell at the foreign entity: the foreign
// show screen for many-to-one, the foreign list filtered by the inverse
// column for one-to-many. Disabled foreign actions leave the cell unlinked.
func (ctl *Controller) associationLink(e *schema.Entity, f *schema.Field, row provider.Row) (string, error) {
	foreign, err := ctl.reg.Resolve(f.Association)
	if err != nil {
		return "", err
	}

	switch f.Association.Kind {
	case schema.ManyToOne:
		if !foreign.ActionEnabled(schema.ActionShow) {
			return "", nil
		}
		fk := row["field_"+f.Name]
		if fk == nil {
			return "", nil
		}
		foreignPK := foreign.PrimaryKeyFields()
		q := url.Values{}
		q.Set(foreignPK[0], fmt.Sprintf("%v", fk))
		return adminURL(foreign.Name, schema.ActionShow, q), nil

	case schema.OneToMany:
		if !foreign.ActionEnabled(schema.ActionList) {
			return "", nil
		}
		ownPK := e.PrimaryKeyFields()
		if len(ownPK) == 0 {
			return "", nil
		}
		pkValue := row["field_"+ownPK[0]]
		if pkValue == nil {
			return "", nil
		}
		q := url.Values{}
		q.Set("filter["+f.Association.InverseColumn+"]", fmt.Sprintf("%v", pkValue))
		return adminURL(foreign.Name, schema.ActionList, q), nil
	}
	return "", nil
}

// rowKey reads the primary key back out of a fetched row.
func rowKey(e *schema.Entity, row provider.Row) (schema.Key, bool) {
	cols := e.PrimaryKeyFields()
	if len(cols) == 0 {
		return schema.Key{}, false
	}
	values := make([]any, len(cols))
	for i, col := range cols {
		v, ok := row["field_"+col]
		if !ok || v == nil {
			return schema.Key{}, false
		}
		values[i] = v
	}
	key, err := schema.NewKey(cols, values)
	if err != nil {
		return schema.Key{}, false
	}
	return key, true
}

// rowActions lists the per-row links: the enabled actions minus the current
// one, minus new, minus list (list is a screen, not a row target).
func rowActions(e *schema.Entity, current schema.Action, key schema.Key) []ActionLink {
	var out []ActionLink
	for _, a := range e.Actions {
		if a == current || a == schema.ActionNew || a == schema.ActionList {
			continue
		}
		out = append(out, ActionLink{Action: a, URL: adminURL(e.Name, a, key.QueryValues())})
	}
	return out
}

// screenButtons lists the screen-level navigation: the enabled actions
// minus the current one and minus new; new is redundant as a self-link and
// gets its own affordance in templates. On the new screen only list
// remains, nothing else is meaningful before the row exists.
func screenButtons(e *schema.Entity, current schema.Action, key schema.Key) []ActionLink {
	var out []ActionLink
	for _, a := range e.Actions {
		if a == current || a == schema.ActionNew {
			continue
		}
		if current == schema.ActionNew && a != schema.ActionList {
			continue
		}
		extra := url.Values{}
		if a != schema.ActionList && a != schema.ActionNew {
			if key.Len() == 0 {
				continue
			}
			extra = key.QueryValues()
		}
		out = append(out, ActionLink{Action: a, URL: adminURL(e.Name, a, extra)})
	}
	return out
}
