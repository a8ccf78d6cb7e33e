package form

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// choiceControl is the base for single-valued option controls.
type choiceControl struct {
	name       string
	raw        string
	options    []Option
	validators []schema.Validator
}

func newChoiceControl(name string) *choiceControl {
	return &choiceControl{name: name}
}

func (c *choiceControl) FieldName() string { return c.name }

func (c *choiceControl) BindPosted(values url.Values) {
	c.raw = values.Get(c.name)
}

func (c *choiceControl) SetNormalized(v any) error {
	switch val := v.(type) {
	case nil:
		c.raw = ""
	case string:
		c.raw = val
	case int64:
		c.raw = fmt.Sprintf("%d", val)
	default:
		return fmt.Errorf("control %s: expected string, got %T", c.name, v)
	}
	return nil
}

func (c *choiceControl) Normalized() (any, error) {
	if c.raw == "" {
		return nil, nil
	}
	return c.raw, nil
}

func (c *choiceControl) SetOptions(opts []Option) {
	c.options = opts
}

func (c *choiceControl) Options() []Option {
	return c.options
}

func (c *choiceControl) AddValidator(v schema.Validator) {
	c.validators = append(c.validators, v)
}

// Validate checks option-set membership by string identity, then runs the
// configured validators. The membership check runs against the option set
// as it stands at validation time.
func (c *choiceControl) Validate() []string {
	var msgs []string
	if c.raw != "" && !c.hasOption(c.raw) {
		msgs = append(msgs, fmt.Sprintf("The value %q is not a valid choice.", c.raw))
	}
	for _, v := range c.validators {
		if err := v.Validate(c.raw); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

func (c *choiceControl) hasOption(value string) bool {
	for _, o := range c.options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func (c *choiceControl) Render() string {
	return c.renderSelect()
}

func (c *choiceControl) renderSelect() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<select name="%s"><option value=""></option>`, html.EscapeString(c.name))
	for _, o := range c.options {
		selected := ""
		if o.Value == c.raw {
			selected = " selected"
		}
		fmt.Fprintf(&sb, `<option value="%s"%s>%s</option>`,
			html.EscapeString(o.Value), selected, html.EscapeString(o.Label))
	}
	sb.WriteString("</select>")
	return sb.String()
}

// Select is a drop-down over a fixed option set.
type Select struct {
	*choiceControl
}

// Radio renders the option set as radio buttons.
type Radio struct {
	*choiceControl
}

func (c *Radio) Render() string {
	var sb strings.Builder
	for _, o := range c.options {
		checked := ""
		if o.Value == c.raw {
			checked = " checked"
		}
		fmt.Fprintf(&sb, `<label><input type="radio" name="%s" value="%s"%s> %s</label>`,
			html.EscapeString(c.name), html.EscapeString(o.Value), checked, html.EscapeString(o.Label))
	}
	return sb.String()
}

// multiChoiceControl is the base for array-valued option controls.
type multiChoiceControl struct {
	name       string
	raw        []string
	options    []Option
	validators []schema.Validator
}

func newMultiChoiceControl(name string) *multiChoiceControl {
	return &multiChoiceControl{name: name}
}

func (c *multiChoiceControl) FieldName() string { return c.name }

func (c *multiChoiceControl) BindPosted(values url.Values) {
	c.raw = values[c.name]
}

func (c *multiChoiceControl) SetNormalized(v any) error {
	switch val := v.(type) {
	case nil:
		c.raw = nil
	case []string:
		c.raw = val
	case []any:
		c.raw = make([]string, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("control %s: expected string element, got %T", c.name, item)
			}
			c.raw[i] = s
		}
	default:
		return fmt.Errorf("control %s: expected string slice, got %T", c.name, v)
	}
	return nil
}

func (c *multiChoiceControl) Normalized() (any, error) {
	return append([]string(nil), c.raw...), nil
}

func (c *multiChoiceControl) SetOptions(opts []Option) {
	c.options = opts
}

func (c *multiChoiceControl) Options() []Option {
	return c.options
}

func (c *multiChoiceControl) AddValidator(v schema.Validator) {
	c.validators = append(c.validators, v)
}

func (c *multiChoiceControl) Validate() []string {
	var msgs []string
	for _, item := range c.raw {
		if !c.hasOption(item) {
			msgs = append(msgs, fmt.Sprintf("The value %q is not a valid choice.", item))
		}
	}
	for _, v := range c.validators {
		if err := v.Validate(append([]string(nil), c.raw...)); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

func (c *multiChoiceControl) hasOption(value string) bool {
	for _, o := range c.options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func (c *multiChoiceControl) isSelected(value string) bool {
	for _, item := range c.raw {
		if item == value {
			return true
		}
	}
	return false
}

func (c *multiChoiceControl) Render() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, `<select name="%s" multiple>`, html.EscapeString(c.name))
	for _, o := range c.options {
		selected := ""
		if c.isSelected(o.Value) {
			selected = " selected"
		}
		fmt.Fprintf(&sb, `<option value="%s"%s>%s</option>`,
			html.EscapeString(o.Value), selected, html.EscapeString(o.Label))
	}
	sb.WriteString("</select>")
	return sb.String()
}

// MultiSelect is a multiple-selection list box.
type MultiSelect struct {
	*multiChoiceControl
}

// CheckboxArray renders the option set as a checkbox group.
type CheckboxArray struct {
	*multiChoiceControl
}

func (c *CheckboxArray) Render() string {
	var sb strings.Builder
	for _, o := range c.options {
		checked := ""
		if c.isSelected(o.Value) {
			checked = " checked"
		}
		fmt.Fprintf(&sb, `<label><input type="checkbox" name="%s" value="%s"%s> %s</label>`,
			html.EscapeString(c.name), html.EscapeString(o.Value), checked, html.EscapeString(o.Label))
	}
	return sb.String()
}

// Checkbox is a boolean control. HTML omits unchecked boxes from the
// submission entirely, so an absent key binds to false, never to an error.
type Checkbox struct {
	name       string
	value      bool
	validators []schema.Validator
}

func (c *Checkbox) FieldName() string { return c.name }

func (c *Checkbox) BindPosted(values url.Values) {
	c.value = values.Has(c.name)
}

func (c *Checkbox) SetNormalized(v any) error {
	switch val := v.(type) {
	case nil:
		c.value = false
	case bool:
		c.value = val
	default:
		return fmt.Errorf("control %s: expected bool, got %T", c.name, v)
	}
	return nil
}

func (c *Checkbox) Normalized() (any, error) {
	return c.value, nil
}

func (c *Checkbox) AddValidator(v schema.Validator) {
	c.validators = append(c.validators, v)
}

func (c *Checkbox) Validate() []string {
	var msgs []string
	for _, v := range c.validators {
		if err := v.Validate(c.value); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

func (c *Checkbox) Render() string {
	checked := ""
	if c.value {
		checked = " checked"
	}
	return fmt.Sprintf(`<input type="checkbox" name="%s" value="1"%s>`, html.EscapeString(c.name), checked)
}
