package form

import (
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestNewControl_UnknownID(t *testing.T) {
	if _, err := NewControl("hologram", "f"); err == nil {
		t.Fatal("unknown control id must be rejected")
	}
}

func TestIntInput_ParseFailureIsValidationMessage(t *testing.T) {
	ctrl, _ := NewControl(ControlIntInput, "age")
	ctrl.BindPosted(url.Values{"age": {"abc"}})

	msgs := ctrl.Validate()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "not an integer") {
		t.Fatalf("unexpected messages: %v", msgs)
	}
	if _, err := ctrl.Normalized(); err == nil {
		t.Fatal("expected conversion error")
	}
}

func TestIntInput_EmptyIsNil(t *testing.T) {
	ctrl, _ := NewControl(ControlIntInput, "age")
	ctrl.BindPosted(url.Values{})
	v, err := ctrl.Normalized()
	if err != nil || v != nil {
		t.Fatalf("expected nil, got %v (%v)", v, err)
	}
}

func TestCheckbox_AbsentKeyIsFalse(t *testing.T) {
	ctrl, _ := NewControl(ControlCheckbox, "is_active")
	ctrl.BindPosted(url.Values{"other": {"1"}})

	v, err := ctrl.Normalized()
	if err != nil {
		t.Fatalf("Normalized: %v", err)
	}
	if v != false {
		t.Fatalf("expected false, got %v", v)
	}

	ctrl.BindPosted(url.Values{"is_active": {"1"}})
	v, _ = ctrl.Normalized()
	if v != true {
		t.Fatalf("expected true, got %v", v)
	}
}

func TestDatetime_AcceptedLayouts(t *testing.T) {
	for _, raw := range []string{"2024-05-01T12:30:00", "2024-05-01T12:30", "2024-05-01 12:30:00"} {
		ctrl, _ := NewControl(ControlDatetime, "created_at")
		ctrl.BindPosted(url.Values{"created_at": {raw}})
		v, err := ctrl.Normalized()
		if err != nil {
			t.Fatalf("layout %q rejected: %v", raw, err)
		}
		if _, ok := v.(time.Time); !ok {
			t.Fatalf("expected time.Time, got %T", v)
		}
	}

	ctrl, _ := NewControl(ControlDatetime, "created_at")
	ctrl.BindPosted(url.Values{"created_at": {"yesterday"}})
	if msgs := ctrl.Validate(); len(msgs) == 0 {
		t.Fatal("garbage date-time must be rejected")
	}
}

func TestMultiChoice_BindsRepeatedKeys(t *testing.T) {
	ctrl, _ := NewControl(ControlCheckboxArray, "tags")
	oc := ctrl.(OptionsControl)
	oc.SetOptions([]Option{{Value: "go", Label: "Go"}, {Value: "sql", Label: "SQL"}})

	ctrl.BindPosted(url.Values{"tags": {"go", "sql"}})
	if msgs := ctrl.Validate(); len(msgs) != 0 {
		t.Fatalf("valid selection rejected: %v", msgs)
	}

	ctrl.BindPosted(url.Values{"tags": {"go", "php"}})
	if msgs := ctrl.Validate(); len(msgs) != 1 || !strings.Contains(msgs[0], "php") {
		t.Fatalf("unexpected messages: %v", msgs)
	}
}

func TestTextControl_RenderEscapes(t *testing.T) {
	ctrl, _ := NewControl(ControlTextInput, "title")
	ctrl.BindPosted(url.Values{"title": {`<b>"x"</b>`}})
	out := ctrl.Render()
	if strings.Contains(out, "<b>") {
		t.Fatalf("unescaped markup in render: %s", out)
	}
}

func TestAssociationHash_Deterministic(t *testing.T) {
	a := AssociationHash("secret", "Comment", "post_id")
	if a != AssociationHash("secret", "Comment", "post_id") {
		t.Fatal("hash must be deterministic")
	}
	if len(a) != 16 {
		t.Fatalf("expected 16 hex chars, got %d", len(a))
	}
	if a == AssociationHash("other", "Comment", "post_id") {
		t.Fatal("hash must depend on the secret")
	}
	if a == AssociationHash("secret", "Comment", "author_id") {
		t.Fatal("hash must depend on the field")
	}
}

func TestExpressionRule(t *testing.T) {
	rule, err := NewExpressionRule(`value == nil || len(value) >= 3`, "Too short.")
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if err := rule.Validate("abc"); err != nil {
		t.Fatalf("abc must pass: %v", err)
	}
	if err := rule.Validate("ab"); err == nil || err.Error() != "Too short." {
		t.Fatalf("expected configured message, got %v", err)
	}

	if _, err := NewExpressionRule(`len(`, ""); err == nil {
		t.Fatal("broken rule source must fail to compile")
	}
}
