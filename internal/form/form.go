package form

import (
	"context"
	"fmt"
	"net/url"
	"sort"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// LabelSource yields key-to-label maps for association option lists. The
// data provider implements it.
type LabelSource interface {
	CachedLabels(ctx context.Context, table string, pkColumns []string, titleSQL string) (map[string]string, error)
}

// Form owns the ordered control tree for one entity/action pair. Forms are
// request-scoped.
type Form struct {
	names    []string
	controls map[string]Control
}

// Controls returns the controls in field declaration order.
func (f *Form) Controls() []Control {
	out := make([]Control, len(f.names))
	for i, n := range f.names {
		out[i] = f.controls[n]
	}
	return out
}

// Control returns the control bound to a field, or nil.
func (f *Form) Control(name string) Control {
	return f.controls[name]
}

// BindPosted distributes the submitted form data over the controls.
func (f *Form) BindPosted(values url.Values) {
	for _, n := range f.names {
		f.controls[n].BindPosted(values)
	}
}

// SetValues feeds normalized values (keyed by field name) into the
// controls. Missing keys leave the control untouched.
func (f *Form) SetValues(values map[string]any) error {
	for _, n := range f.names {
		v, ok := values[n]
		if !ok {
			continue
		}
		if err := f.controls[n].SetNormalized(v); err != nil {
			return err
		}
	}
	return nil
}

// Values produces the normalized value of every control.
func (f *Form) Values() (map[string]any, error) {
	out := make(map[string]any, len(f.names))
	for _, n := range f.names {
		v, err := f.controls[n].Normalized()
		if err != nil {
			return nil, err
		}
		out[n] = v
	}
	return out, nil
}

// Validate runs every control's validators and collects all messages per
// field. Validation never stops at the first failure, so one submission
// reports every problem at once.
func (f *Form) Validate() map[string][]string {
	errs := map[string][]string{}
	for _, n := range f.names {
		if msgs := f.controls[n].Validate(); len(msgs) > 0 {
			errs[n] = msgs
		}
	}
	return errs
}

// Factory builds forms from the schema, fetching association option lists
// through the data provider.
type Factory struct {
	reg    *schema.Registry
	labels LabelSource
	secret string
}

func NewFactory(reg *schema.Registry, labels LabelSource, autocompleteSecret string) *Factory {
	return &Factory{reg: reg, labels: labels, secret: autocompleteSecret}
}

// Create materializes the control tree for the fields visible under the
// action. Every visible field must carry a control identifier, and fields
// with a many-to-one association must map to a control with the options
// capability; both are configuration errors otherwise.
func (fc *Factory) Create(ctx context.Context, e *schema.Entity, action schema.Action) (*Form, error) {
	f := &Form{controls: map[string]Control{}}

	for _, field := range e.Fields(action) {
		if field.Control == "" {
			return nil, &schema.ConfigError{Entity: e.Name, Field: field.Name,
				Msg: fmt.Sprintf("no control configured for action %s", action)}
		}
		ctrl, err := NewControl(field.Control, field.Name)
		if err != nil {
			return nil, err
		}
		for _, v := range field.Validators {
			ctrl.AddValidator(v)
		}

		if len(field.Options) > 0 {
			oc, ok := ctrl.(OptionsControl)
			if !ok {
				return nil, &schema.ConfigError{Entity: e.Name, Field: field.Name,
					Msg: fmt.Sprintf("control %q cannot hold an option list", field.Control)}
			}
			opts := make([]Option, len(field.Options))
			for i, o := range field.Options {
				opts[i] = Option{Value: o.Value, Label: o.Label}
			}
			oc.SetOptions(opts)
		}

		if assoc := field.Association; assoc != nil && assoc.Kind == schema.ManyToOne {
			oc, ok := ctrl.(OptionsControl)
			if !ok {
				return nil, &schema.ConfigError{Entity: e.Name, Field: field.Name,
					Msg: fmt.Sprintf("control %q cannot hold an option list", field.Control)}
			}
			opts, err := fc.associationOptions(ctx, assoc)
			if err != nil {
				return nil, err
			}
			oc.SetOptions(opts)
			if ac, ok := ctrl.(*Autocomplete); ok {
				ac.SetHash(AssociationHash(fc.secret, e.Name, field.Name))
			}
		}

		f.names = append(f.names, field.Name)
		f.controls[field.Name] = ctrl
	}
	return f, nil
}

// AssociationOptions fetches the labeled option list of one many-to-one
// association, sorted by label. Shared with the autocomplete endpoint.
func (fc *Factory) AssociationOptions(ctx context.Context, ref AssocRef) ([]Option, error) {
	e := fc.reg.Get(ref.Entity)
	if e == nil {
		return nil, &schema.ConfigError{Entity: ref.Entity, Msg: "unknown entity"}
	}
	field := e.Field(ref.Field)
	if field == nil || field.Association == nil {
		return nil, &schema.ConfigError{Entity: ref.Entity, Field: ref.Field, Msg: "not an association field"}
	}
	return fc.associationOptions(ctx, field.Association)
}

func (fc *Factory) associationOptions(ctx context.Context, assoc *schema.Association) ([]Option, error) {
	foreign, err := fc.reg.Resolve(assoc)
	if err != nil {
		return nil, err
	}
	labels, err := fc.labels.CachedLabels(ctx, foreign.Table, foreign.PrimaryKeyFields(), assoc.TitleSQL)
	if err != nil {
		return nil, err
	}
	opts := make([]Option, 0, len(labels))
	for value, label := range labels {
		opts = append(opts, Option{Value: value, Label: label})
	}
	sort.Slice(opts, func(i, j int) bool {
		if opts[i].Label == opts[j].Label {
			return opts[i].Value < opts[j].Value
		}
		return opts[i].Label < opts[j].Label
	})
	return opts, nil
}
