// Package form materializes entity fields into form controls for the new
// and edit screens, binds posted data back to normalized values, and runs
// per-field validation.
package form

import (
	"fmt"
	"net/url"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// Option is one entry of an option-list control.
type Option struct {
	Value string
	Label string
}

// Control is the capability set shared by every form widget. A control
// keeps its raw submitted state (the "internal value") so garbage input
// can be echoed back in error messages even when conversion to the
// normalized value would fail.
type Control interface {
	// FieldName returns the field the control is bound to.
	FieldName() string

	// BindPosted takes the control's value out of the submitted form.
	// Absent keys are part of the contract (an unchecked checkbox is
	// simply missing), so binding itself never fails.
	BindPosted(values url.Values)

	// SetNormalized accepts a typed value. Values of the wrong type are a
	// programming error.
	SetNormalized(v any) error

	// Normalized converts the internal value to the typed value, or fails
	// when the raw input doesn't parse.
	Normalized() (any, error)

	// Validate runs the type-intrinsic checks plus all configured
	// validators against the internal value and returns every message.
	Validate() []string

	// AddValidator appends a configured validator.
	AddValidator(v schema.Validator)

	// Render produces the input markup for the widget.
	Render() string
}

// OptionsControl is the extra capability of select, radio, checkbox-group
// and autocomplete controls.
type OptionsControl interface {
	Control
	SetOptions(opts []Option)
	Options() []Option
}

// Control identifiers understood by the registry.
const (
	ControlTextInput     = "text_input"
	ControlIntInput      = "int_input"
	ControlFloatInput    = "float_input"
	ControlTextarea      = "textarea"
	ControlSelect        = "select"
	ControlRadio         = "radio"
	ControlMultiSelect   = "multi_select"
	ControlCheckboxArray = "checkbox_array"
	ControlCheckbox      = "checkbox"
	ControlDate          = "date"
	ControlDatetime      = "datetime"
	ControlColorInput    = "color_input"
	ControlEmailInput    = "email_input"
	ControlAutocomplete  = "autocomplete"
)

var controlConstructors = map[string]func(fieldName string) Control{
	ControlTextInput:     func(n string) Control { return newTextControl(n, "text") },
	ControlColorInput:    func(n string) Control { return newTextControl(n, "color") },
	ControlEmailInput:    func(n string) Control { return newTextControl(n, "email") },
	ControlIntInput:      func(n string) Control { return &IntInput{textControl: newTextControl(n, "number")} },
	ControlFloatInput:    func(n string) Control { return &FloatInput{textControl: newTextControl(n, "number")} },
	ControlTextarea:      func(n string) Control { return &Textarea{textControl: newTextControl(n, "text")} },
	ControlDate:          func(n string) Control { return &DateInput{textControl: newTextControl(n, "date")} },
	ControlDatetime:      func(n string) Control { return &DatetimeInput{textControl: newTextControl(n, "datetime-local")} },
	ControlCheckbox:      func(n string) Control { return &Checkbox{name: n} },
	ControlSelect:        func(n string) Control { return &Select{choiceControl: newChoiceControl(n)} },
	ControlRadio:         func(n string) Control { return &Radio{choiceControl: newChoiceControl(n)} },
	ControlMultiSelect:   func(n string) Control { return &MultiSelect{multiChoiceControl: newMultiChoiceControl(n)} },
	ControlCheckboxArray: func(n string) Control { return &CheckboxArray{multiChoiceControl: newMultiChoiceControl(n)} },
	ControlAutocomplete:  func(n string) Control { return &Autocomplete{choiceControl: newChoiceControl(n)} },
}

// NewControl instantiates a control by identifier. Unknown identifiers are
// a configuration error.
func NewControl(controlID, fieldName string) (Control, error) {
	ctor, ok := controlConstructors[controlID]
	if !ok {
		return nil, &schema.ConfigError{Field: fieldName, Msg: fmt.Sprintf("unknown control %q", controlID)}
	}
	return ctor(fieldName), nil
}
