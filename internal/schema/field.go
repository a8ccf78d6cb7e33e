package schema

import "strings"

// Validator checks a single submitted value. Implementations live in the
// form package; the schema only carries them per field, in order.
type Validator interface {
	Validate(value any) error
}

// AssociationKind distinguishes the two association shapes a field may carry.
type AssociationKind string

const (
	// ManyToOne: the field stores a foreign key pointing at another entity.
	ManyToOne AssociationKind = "many_to_one"
	// OneToMany: a virtual field aggregating rows of another entity that
	// point back at this one.
	OneToMany AssociationKind = "one_to_many"
)

// Association attaches relation semantics to a field. ForeignEntity is a
// name resolved through the Registry at use time, never a direct pointer.
type Association struct {
	Kind          AssociationKind `yaml:"kind"`
	ForeignEntity string          `yaml:"entity"`
	// TitleSQL computes the human-readable label. For ManyToOne it is
	// evaluated against the foreign row; for OneToMany it is an aggregate
	// over the matching foreign rows.
	TitleSQL string `yaml:"title"`
	// InverseColumn is the column on the foreign entity that points back
	// here. OneToMany only.
	InverseColumn string `yaml:"inverse_column"`
}

// FieldOption is one fixed entry of a choice control's option list.
// Association fields get their options from the foreign entity instead.
type FieldOption struct {
	Value string `yaml:"value"`
	Label string `yaml:"label"`
}

// Field describes one column (or virtual value) of an entity.
type Field struct {
	Name       string           `yaml:"name"`
	Label      string           `yaml:"label"`
	Type       DataType         `yaml:"type"`
	Control    string           `yaml:"control"`
	Sortable   bool             `yaml:"sortable"`
	Filterable bool             `yaml:"filterable"`
	PrimaryKey bool             `yaml:"primary_key"`
	// Generated marks a primary key assigned by storage (serial) or by the
	// application (string keys get a UUID on insert).
	Generated bool `yaml:"generated"`
	// Actions restricts the field to a subset of actions. Nil means all.
	Actions     []Action      `yaml:"actions"`
	Options     []FieldOption `yaml:"options"`
	Association *Association  `yaml:"association"`

	Validators []Validator `yaml:"-"`
}

// DisplayLabel returns the configured label, or a human-friendly transform
// of the field name ("created_at" becomes "Created at").
func (f *Field) DisplayLabel() string {
	if f.Label != "" {
		return f.Label
	}
	return humanize(f.Name)
}

// VisibleOn reports whether the field participates in the given action.
func (f *Field) VisibleOn(action Action) bool {
	if f.Actions == nil {
		return true
	}
	for _, a := range f.Actions {
		if a == action {
			return true
		}
	}
	return false
}

// IsVirtual reports whether the field has no storage column.
func (f *Field) IsVirtual() bool {
	return f.Type == TypeVirtual
}

func (f *Field) validate(entity string) error {
	if f.Name == "" {
		return configErr(entity, "", "field with empty name")
	}
	if !f.Type.Valid() {
		return configErr(entity, f.Name, "unknown data type %q", f.Type)
	}
	for _, a := range f.Actions {
		if !a.Valid() {
			return configErr(entity, f.Name, "unknown action %q", a)
		}
	}
	if assoc := f.Association; assoc != nil {
		switch assoc.Kind {
		case ManyToOne:
			if f.IsVirtual() {
				return configErr(entity, f.Name, "many-to-one field cannot be virtual")
			}
		case OneToMany:
			if !f.IsVirtual() {
				return configErr(entity, f.Name, "one-to-many field must be virtual")
			}
			if assoc.InverseColumn == "" {
				return configErr(entity, f.Name, "one-to-many association requires an inverse column")
			}
		default:
			return configErr(entity, f.Name, "unknown association kind %q", assoc.Kind)
		}
		if assoc.ForeignEntity == "" {
			return configErr(entity, f.Name, "association requires a foreign entity name")
		}
		if assoc.TitleSQL == "" {
			return configErr(entity, f.Name, "association requires a title expression")
		}
	}
	return nil
}

func humanize(name string) string {
	s := strings.ReplaceAll(name, "_", " ")
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
