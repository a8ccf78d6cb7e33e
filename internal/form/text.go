package form

import (
	"fmt"
	"html"
	"net/url"
	"strconv"
	"time"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// textControl is the base for every single-string-valued widget.
type textControl struct {
	name       string
	inputType  string
	raw        string
	validators []schema.Validator
}

func newTextControl(name, inputType string) *textControl {
	return &textControl{name: name, inputType: inputType}
}

func (c *textControl) FieldName() string { return c.name }

func (c *textControl) BindPosted(values url.Values) {
	c.raw = values.Get(c.name)
}

func (c *textControl) SetNormalized(v any) error {
	switch val := v.(type) {
	case nil:
		c.raw = ""
	case string:
		c.raw = val
	default:
		return fmt.Errorf("control %s: expected string, got %T", c.name, v)
	}
	return nil
}

func (c *textControl) Normalized() (any, error) {
	return c.raw, nil
}

func (c *textControl) AddValidator(v schema.Validator) {
	c.validators = append(c.validators, v)
}

func (c *textControl) Validate() []string {
	return c.runValidators()
}

func (c *textControl) runValidators() []string {
	var msgs []string
	for _, v := range c.validators {
		if err := v.Validate(c.raw); err != nil {
			msgs = append(msgs, err.Error())
		}
	}
	return msgs
}

func (c *textControl) Render() string {
	return fmt.Sprintf(`<input type="%s" name="%s" value="%s">`,
		c.inputType, html.EscapeString(c.name), html.EscapeString(c.raw))
}

// IntInput is a numeric control normalizing to int64.
type IntInput struct {
	*textControl
}

func (c *IntInput) SetNormalized(v any) error {
	switch val := v.(type) {
	case nil:
		c.raw = ""
	case int64:
		c.raw = strconv.FormatInt(val, 10)
	case int:
		c.raw = strconv.Itoa(val)
	default:
		return fmt.Errorf("control %s: expected integer, got %T", c.name, v)
	}
	return nil
}

func (c *IntInput) Normalized() (any, error) {
	if c.raw == "" {
		return nil, nil
	}
	n, err := strconv.ParseInt(c.raw, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("control %s: %q is not an integer", c.name, c.raw)
	}
	return n, nil
}

func (c *IntInput) Validate() []string {
	var msgs []string
	if c.raw != "" {
		if _, err := strconv.ParseInt(c.raw, 10, 64); err != nil {
			msgs = append(msgs, fmt.Sprintf("The value %q is not an integer.", c.raw))
		}
	}
	return append(msgs, c.runValidators()...)
}

// FloatInput is a numeric control normalizing to float64.
type FloatInput struct {
	*textControl
}

func (c *FloatInput) SetNormalized(v any) error {
	switch val := v.(type) {
	case nil:
		c.raw = ""
	case float64:
		c.raw = strconv.FormatFloat(val, 'f', -1, 64)
	case int64:
		c.raw = strconv.FormatInt(val, 10)
	default:
		return fmt.Errorf("control %s: expected float, got %T", c.name, v)
	}
	return nil
}

func (c *FloatInput) Normalized() (any, error) {
	if c.raw == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(c.raw, 64)
	if err != nil {
		return nil, fmt.Errorf("control %s: %q is not a number", c.name, c.raw)
	}
	return f, nil
}

func (c *FloatInput) Validate() []string {
	var msgs []string
	if c.raw != "" {
		if _, err := strconv.ParseFloat(c.raw, 64); err != nil {
			msgs = append(msgs, fmt.Sprintf("The value %q is not a number.", c.raw))
		}
	}
	return append(msgs, c.runValidators()...)
}

// Textarea renders a multi-line text control.
type Textarea struct {
	*textControl
}

func (c *Textarea) Render() string {
	return fmt.Sprintf(`<textarea name="%s">%s</textarea>`,
		html.EscapeString(c.name), html.EscapeString(c.raw))
}

const dateLayout = "2006-01-02"

// DateInput keeps dates as strings, checking the format when present.
type DateInput struct {
	*textControl
}

func (c *DateInput) Validate() []string {
	var msgs []string
	if c.raw != "" {
		if _, err := time.Parse(dateLayout, c.raw); err != nil {
			msgs = append(msgs, fmt.Sprintf("The value %q is not a valid date.", c.raw))
		}
	}
	return append(msgs, c.runValidators()...)
}

// datetimeLayouts are accepted on the way in; the first one is emitted.
var datetimeLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
}

// DatetimeInput normalizes to time.Time; the empty string is nil.
type DatetimeInput struct {
	*textControl
}

func (c *DatetimeInput) SetNormalized(v any) error {
	switch val := v.(type) {
	case nil:
		c.raw = ""
	case time.Time:
		c.raw = val.Format(datetimeLayouts[0])
	default:
		return fmt.Errorf("control %s: expected time, got %T", c.name, v)
	}
	return nil
}

func (c *DatetimeInput) Normalized() (any, error) {
	if c.raw == "" {
		return nil, nil
	}
	for _, layout := range datetimeLayouts {
		if ts, err := time.Parse(layout, c.raw); err == nil {
			return ts, nil
		}
	}
	return nil, fmt.Errorf("control %s: %q is not a valid date-time", c.name, c.raw)
}

func (c *DatetimeInput) Validate() []string {
	var msgs []string
	if _, err := c.Normalized(); err != nil {
		msgs = append(msgs, fmt.Sprintf("The value %q is not a valid date-time.", c.raw))
	}
	return append(msgs, c.runValidators()...)
}
