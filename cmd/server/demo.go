package main

import (
	"regexp"

	"github.com/parpalak/admin-yard-sub000/internal/form"
	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

var emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// demoRegistry defines the blog entities the demo panel manages.
func demoRegistry() (*schema.Registry, error) {
	reg := schema.NewRegistry()

	post := schema.NewEntity("Post",
		schema.ActionList, schema.ActionShow, schema.ActionNew, schema.ActionEdit, schema.ActionDelete)
	post.Table = "posts"
	post.Default = true
	post.MustAddField(&schema.Field{
		Name: "id", Type: schema.TypeInt, PrimaryKey: true, Generated: true, Sortable: true,
		Actions: []schema.Action{schema.ActionList, schema.ActionShow},
	})
	post.MustAddField(&schema.Field{
		Name: "title", Type: schema.TypeString, Control: form.ControlTextInput,
		Sortable: true, Filterable: true,
		Validators: []schema.Validator{
			form.Required{},
			form.Length{Max: 80},
		},
	})
	post.MustAddField(&schema.Field{
		Name: "text", Type: schema.TypeString, Control: form.ControlTextarea,
		Actions: []schema.Action{schema.ActionShow, schema.ActionNew, schema.ActionEdit},
	})
	post.MustAddField(&schema.Field{
		Name: "is_active", Label: "Published", Type: schema.TypeBool, Control: form.ControlCheckbox,
		Filterable: true,
	})
	post.MustAddField(&schema.Field{
		Name: "created_at", Type: schema.TypeTimestamp, Control: form.ControlDatetime, Sortable: true,
	})
	post.MustAddField(&schema.Field{
		Name: "comments", Type: schema.TypeVirtual,
		Actions: []schema.Action{schema.ActionList, schema.ActionShow},
		Association: &schema.Association{
			Kind:          schema.OneToMany,
			ForeignEntity: "Comment",
			TitleSQL:      "CAST(COUNT(*) AS TEXT)",
			InverseColumn: "post_id",
		},
	})

	comment := schema.NewEntity("Comment",
		schema.ActionList, schema.ActionShow, schema.ActionNew, schema.ActionEdit, schema.ActionDelete)
	comment.Table = "comments"
	comment.MustAddField(&schema.Field{
		Name: "id", Type: schema.TypeInt, PrimaryKey: true, Generated: true, Sortable: true,
		Actions: []schema.Action{schema.ActionList, schema.ActionShow},
	})
	comment.MustAddField(&schema.Field{
		Name: "post_id", Label: "Post", Type: schema.TypeInt, Control: form.ControlAutocomplete,
		Filterable: true,
		Validators: []schema.Validator{form.Required{}},
		Association: &schema.Association{
			Kind:          schema.ManyToOne,
			ForeignEntity: "Post",
			TitleSQL:      "a.title",
		},
	})
	comment.MustAddField(&schema.Field{
		Name: "name", Type: schema.TypeString, Control: form.ControlTextInput,
		Validators: []schema.Validator{form.Required{}, form.Length{Max: 50}},
	})
	comment.MustAddField(&schema.Field{
		Name: "email", Type: schema.TypeString, Control: form.ControlEmailInput,
		Validators: []schema.Validator{
			form.Pattern{Regexp: emailRe, Message: "Value must be a valid email address."},
		},
	})
	comment.MustAddField(&schema.Field{
		Name: "comment_text", Label: "Comment", Type: schema.TypeString, Control: form.ControlTextarea,
		Actions:    []schema.Action{schema.ActionShow, schema.ActionNew, schema.ActionEdit},
		Validators: []schema.Validator{form.Required{}},
	})
	comment.MustAddField(&schema.Field{
		Name: "status", Type: schema.TypeString, Control: form.ControlSelect,
		Filterable: true,
		Options: []schema.FieldOption{
			{Value: "approved", Label: "Approved"},
			{Value: "pending", Label: "Pending"},
			{Value: "rejected", Label: "Rejected"},
		},
	})

	tag := schema.NewEntity("Tag",
		schema.ActionList, schema.ActionShow, schema.ActionNew, schema.ActionEdit, schema.ActionDelete)
	tag.Table = "tags"
	tag.MustAddField(&schema.Field{
		Name: "id", Type: schema.TypeString, PrimaryKey: true, Generated: true,
		Actions: []schema.Action{schema.ActionList, schema.ActionShow},
	})
	tag.MustAddField(&schema.Field{
		Name: "name", Type: schema.TypeString, Control: form.ControlTextInput,
		Sortable: true, Filterable: true,
		Validators: []schema.Validator{form.Required{}, form.Length{Max: 30}},
	})
	tag.MustAddField(&schema.Field{
		Name: "color", Type: schema.TypeString, Control: form.ControlColorInput,
	})

	// Exercises composite keys: every key column is user-supplied.
	composite := schema.NewEntity("CompositeKeyTable",
		schema.ActionList, schema.ActionShow, schema.ActionNew, schema.ActionEdit, schema.ActionDelete)
	composite.Table = "composite_key_table"
	composite.MustAddField(&schema.Field{
		Name: "column1", Type: schema.TypeInt, PrimaryKey: true, Control: form.ControlIntInput,
		Validators: []schema.Validator{form.Required{}},
	})
	composite.MustAddField(&schema.Field{
		Name: "column2", Type: schema.TypeString, PrimaryKey: true, Control: form.ControlTextInput,
		Validators: []schema.Validator{form.Required{}},
	})
	composite.MustAddField(&schema.Field{
		Name: "column3", Type: schema.TypeDate, PrimaryKey: true, Control: form.ControlDate,
		Validators: []schema.Validator{form.Required{}},
	})

	for _, e := range []*schema.Entity{post, comment, tag, composite} {
		if err := reg.Add(e); err != nil {
			return nil, err
		}
	}
	if err := reg.Finalize(); err != nil {
		return nil, err
	}
	return reg, nil
}
