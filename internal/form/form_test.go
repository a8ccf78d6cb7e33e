package form

import (
	"context"
	"net/url"
	"strings"
	"testing"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// stubLabels serves canned option labels per table.
type stubLabels struct {
	byTable map[string]map[string]string
}

func (s stubLabels) CachedLabels(_ context.Context, table string, _ []string, _ string) (map[string]string, error) {
	return s.byTable[table], nil
}

func commentFactory(t *testing.T, labels map[string]string) (*Factory, *schema.Registry) {
	t.Helper()
	reg := schema.NewRegistry()

	post := schema.NewEntity("Post", schema.ActionList, schema.ActionShow)
	post.Table = "posts"
	post.MustAddField(&schema.Field{Name: "id", Type: schema.TypeInt, PrimaryKey: true})
	post.MustAddField(&schema.Field{Name: "title", Type: schema.TypeString})
	reg.MustAdd(post)

	comment := schema.NewEntity("Comment", schema.ActionList, schema.ActionNew, schema.ActionEdit)
	comment.Table = "comments"
	comment.MustAddField(&schema.Field{Name: "id", Type: schema.TypeInt, PrimaryKey: true,
		Actions: []schema.Action{schema.ActionList}})
	comment.MustAddField(&schema.Field{Name: "post_id", Type: schema.TypeInt, Control: ControlAutocomplete,
		Validators: []schema.Validator{Required{}},
		Association: &schema.Association{Kind: schema.ManyToOne, ForeignEntity: "Post", TitleSQL: "a.title"}})
	comment.MustAddField(&schema.Field{Name: "name", Type: schema.TypeString, Control: ControlTextInput,
		Validators: []schema.Validator{Required{}, Length{Max: 10}}})
	reg.MustAdd(comment)

	if err := reg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	fc := NewFactory(reg, stubLabels{byTable: map[string]map[string]string{"posts": labels}}, "s3cret")
	return fc, reg
}

func TestFactory_BuildsControlsWithOptions(t *testing.T) {
	fc, reg := commentFactory(t, map[string]string{"1": "First", "2": "Second"})

	f, err := fc.Create(context.Background(), reg.Get("Comment"), schema.ActionNew)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	ctrl := f.Control("post_id")
	if ctrl == nil {
		t.Fatal("post_id control missing")
	}
	ac, ok := ctrl.(*Autocomplete)
	if !ok {
		t.Fatalf("expected *Autocomplete, got %T", ctrl)
	}
	opts := ac.Options()
	if len(opts) != 2 || opts[0].Label != "First" || opts[1].Label != "Second" {
		t.Fatalf("unexpected options: %+v", opts)
	}
	if ac.hash != AssociationHash("s3cret", "Comment", "post_id") {
		t.Fatal("autocomplete hash not attached")
	}

	// The primary key is restricted to list and must not appear on the form.
	if f.Control("id") != nil {
		t.Fatal("id must not be part of the new form")
	}
}

func TestFactory_MissingControlIsConfigError(t *testing.T) {
	reg := schema.NewRegistry()
	e := schema.NewEntity("X", schema.ActionNew)
	e.MustAddField(&schema.Field{Name: "a", Type: schema.TypeString})
	reg.MustAdd(e)

	fc := NewFactory(reg, stubLabels{}, "s")
	_, err := fc.Create(context.Background(), e, schema.ActionNew)
	if _, ok := err.(*schema.ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestFactory_AssociationNeedsOptionsControl(t *testing.T) {
	reg := schema.NewRegistry()
	post := schema.NewEntity("Post", schema.ActionList)
	post.MustAddField(&schema.Field{Name: "id", Type: schema.TypeInt, PrimaryKey: true})
	reg.MustAdd(post)

	e := schema.NewEntity("Comment", schema.ActionNew)
	e.MustAddField(&schema.Field{Name: "post_id", Type: schema.TypeInt, Control: ControlTextInput,
		Association: &schema.Association{Kind: schema.ManyToOne, ForeignEntity: "Post", TitleSQL: "a.title"}})
	reg.MustAdd(e)

	fc := NewFactory(reg, stubLabels{}, "s")
	_, err := fc.Create(context.Background(), e, schema.ActionNew)
	if _, ok := err.(*schema.ConfigError); !ok {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestForm_ValidateCollectsAllMessages(t *testing.T) {
	fc, reg := commentFactory(t, map[string]string{"1": "First"})
	f, err := fc.Create(context.Background(), reg.Get("Comment"), schema.ActionNew)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.BindPosted(url.Values{
		"post_id": {"99"},                     // not in the option set
		"name":    {"this name is too long"}, // over the length cap
	})

	errs := f.Validate()
	if len(errs["post_id"]) != 1 || !strings.Contains(errs["post_id"][0], "not a valid choice") {
		t.Fatalf("unexpected post_id errors: %v", errs["post_id"])
	}
	if len(errs["name"]) != 1 || !strings.Contains(errs["name"][0], "at most 10") {
		t.Fatalf("unexpected name errors: %v", errs["name"])
	}
}

func TestForm_EmptyOptionSetRejectsEveryValue(t *testing.T) {
	// No labeled rows exist, so no foreign key can be assigned.
	fc, reg := commentFactory(t, map[string]string{})
	f, err := fc.Create(context.Background(), reg.Get("Comment"), schema.ActionNew)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.BindPosted(url.Values{"post_id": {"1"}, "name": {"Bob"}})
	errs := f.Validate()
	if len(errs["post_id"]) == 0 {
		t.Fatal("expected post_id to be rejected against an empty option set")
	}
}

func TestForm_ValuesRoundTrip(t *testing.T) {
	fc, reg := commentFactory(t, map[string]string{"1": "First"})
	f, _ := fc.Create(context.Background(), reg.Get("Comment"), schema.ActionNew)

	if err := f.SetValues(map[string]any{"post_id": int64(1), "name": "Bob"}); err != nil {
		t.Fatalf("SetValues: %v", err)
	}
	values, err := f.Values()
	if err != nil {
		t.Fatalf("Values: %v", err)
	}
	if values["post_id"] != "1" || values["name"] != "Bob" {
		t.Fatalf("unexpected values: %v", values)
	}
}

func TestStaticOptions_FromSchema(t *testing.T) {
	reg := schema.NewRegistry()
	e := schema.NewEntity("Comment", schema.ActionNew)
	e.MustAddField(&schema.Field{Name: "status", Type: schema.TypeString, Control: ControlSelect,
		Options: []schema.FieldOption{
			{Value: "approved", Label: "Approved"},
			{Value: "pending", Label: "Pending"},
		}})
	reg.MustAdd(e)

	fc := NewFactory(reg, stubLabels{}, "s")
	f, err := fc.Create(context.Background(), e, schema.ActionNew)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	f.BindPosted(url.Values{"status": {"pending"}})
	if errs := f.Validate(); len(errs) != 0 {
		t.Fatalf("pending must be accepted: %v", errs)
	}

	f.BindPosted(url.Values{"status": {"spam"}})
	if errs := f.Validate(); len(errs["status"]) == 0 {
		t.Fatal("spam must be rejected")
	}
}
