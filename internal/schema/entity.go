package schema

// ColumnType pairs a column name with its declared data type, in field
// declaration order. Used for query planning and row transformation.
type ColumnType struct {
	Column string
	Type   DataType
}

// Entity describes one admin screen family: a table, its fields in display
// order, and the actions enabled on it. Entities are built once, added to a
// Registry, and treated as read-only afterwards; they are shared across
// concurrent requests.
type Entity struct {
	Name string
	// Table is the storage identifier. Defaults to Name.
	Table string
	// Actions enabled for this entity.
	Actions []Action
	// Default marks the entity the panel opens on. At most one per registry.
	Default bool
	// ListLimit is the page size on the list screen. Zero means the
	// configured default.
	ListLimit int
	// Templates maps actions to renderer template identifiers. Opaque here.
	Templates map[Action]string

	fields  []*Field
	byName  map[string]*Field
	pkNames []string
}

// NewEntity creates an entity with the given enabled actions.
func NewEntity(name string, actions ...Action) *Entity {
	return &Entity{
		Name:    name,
		Table:   name,
		Actions: actions,
		byName:  map[string]*Field{},
	}
}

// AddField appends a field. Adding a second field with the same name is a
// configuration error.
func (e *Entity) AddField(f *Field) error {
	if err := f.validate(e.Name); err != nil {
		return err
	}
	if _, dup := e.byName[f.Name]; dup {
		return configErr(e.Name, f.Name, "duplicate field name")
	}
	e.fields = append(e.fields, f)
	e.byName[f.Name] = f
	if f.PrimaryKey {
		e.pkNames = append(e.pkNames, f.Name)
	}
	return nil
}

// MustAddField is AddField for static schema definitions; it panics on a
// configuration error.
func (e *Entity) MustAddField(f *Field) *Entity {
	if err := e.AddField(f); err != nil {
		panic(err)
	}
	return e
}

// Field returns the field with the given name, or nil.
func (e *Entity) Field(name string) *Field {
	return e.byName[name]
}

// Fields returns the fields participating in the given action, in
// declaration order.
func (e *Entity) Fields(action Action) []*Field {
	out := make([]*Field, 0, len(e.fields))
	for _, f := range e.fields {
		if f.VisibleOn(action) {
			out = append(out, f)
		}
	}
	return out
}

// AllFields returns every field in declaration order.
func (e *Entity) AllFields() []*Field {
	return append([]*Field(nil), e.fields...)
}

// FieldDataTypes returns column/type pairs for the given action. When
// includePrimaryKey is set, primary-key columns are force-included even if
// excluded from the action, so a fetched row can always be re-identified.
func (e *Entity) FieldDataTypes(action Action, includePrimaryKey bool) []ColumnType {
	out := make([]ColumnType, 0, len(e.fields))
	seen := map[string]bool{}
	for _, f := range e.fields {
		if !f.VisibleOn(action) {
			if !includePrimaryKey || !f.PrimaryKey {
				continue
			}
		}
		out = append(out, ColumnType{Column: f.Name, Type: f.Type})
		seen[f.Name] = true
	}
	return out
}

// PrimaryKeyFields returns the ordered primary-key column names. Empty for
// entities without a primary key; such entities cannot be used on
// show/edit/delete or as one-to-many targets.
func (e *Entity) PrimaryKeyFields() []string {
	return append([]string(nil), e.pkNames...)
}

// FieldsWithForeignEntities returns fields carrying an association, used to
// compute the extra label projections.
func (e *Entity) FieldsWithForeignEntities() []*Field {
	var out []*Field
	for _, f := range e.fields {
		if f.Association != nil {
			out = append(out, f)
		}
	}
	return out
}

// ActionEnabled reports whether the action is enabled on this entity.
func (e *Entity) ActionEnabled(action Action) bool {
	for _, a := range e.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// Template returns the renderer template identifier for an action. Defaults
// to the action name.
func (e *Entity) Template(action Action) string {
	if t, ok := e.Templates[action]; ok {
		return t
	}
	return string(action)
}

func (e *Entity) validate() error {
	if e.Name == "" {
		return configErr("", "", "entity with empty name")
	}
	for _, a := range e.Actions {
		if !a.Valid() {
			return configErr(e.Name, "", "unknown action %q", a)
		}
	}
	needsKey := e.ActionEnabled(ActionShow) || e.ActionEnabled(ActionEdit) || e.ActionEnabled(ActionDelete)
	if needsKey && len(e.pkNames) == 0 {
		return configErr(e.Name, "", "actions show/edit/delete require a primary key")
	}
	return nil
}
