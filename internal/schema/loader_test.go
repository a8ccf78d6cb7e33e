package schema

import "testing"

const sampleSchema = `
entities:
  - name: Post
    table: posts
    default: true
    fields:
      - name: id
        type: int
        primary_key: true
        generated: true
        actions: [list, show]
      - name: title
        control: text_input
        filterable: true
      - name: comments
        type: virtual
        actions: [list, show]
        association:
          kind: one_to_many
          entity: Comment
          title: COUNT(*)
          inverse_column: post_id
  - name: Comment
    actions: [list, show, delete]
    fields:
      - name: id
        type: int
        primary_key: true
      - name: post_id
        type: int
        control: select
        association:
          kind: many_to_one
          entity: Post
          title: a.title
`

func TestParse_SampleSchema(t *testing.T) {
	reg := NewRegistry()
	if err := Parse([]byte(sampleSchema), reg); err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := reg.Finalize(); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	post := reg.Get("Post")
	if post == nil || post.Table != "posts" {
		t.Fatalf("Post not loaded properly: %+v", post)
	}
	if !post.Default || reg.Default() != post {
		t.Fatal("Post must be the default entity")
	}
	// Actions default to all five when omitted.
	for _, a := range []Action{ActionList, ActionShow, ActionNew, ActionEdit, ActionDelete} {
		if !post.ActionEnabled(a) {
			t.Fatalf("expected action %s enabled", a)
		}
	}

	title := post.Field("title")
	if title == nil || title.Type != TypeString {
		t.Fatalf("title must default to string type, got %+v", title)
	}
	if !title.Filterable || title.Control != "text_input" {
		t.Fatalf("title flags lost: %+v", title)
	}

	comments := post.Field("comments")
	if comments == nil || comments.Association == nil || comments.Association.Kind != OneToMany {
		t.Fatalf("comments association lost: %+v", comments)
	}
	if comments.Association.InverseColumn != "post_id" {
		t.Fatalf("inverse column lost: %+v", comments.Association)
	}

	comment := reg.Get("Comment")
	if comment.ActionEnabled(ActionEdit) {
		t.Fatal("Comment must not have edit enabled")
	}
	if comment.Field("post_id").Association.ForeignEntity != "Post" {
		t.Fatal("many-to-one association lost")
	}
}

func TestParse_RejectsBrokenSchema(t *testing.T) {
	reg := NewRegistry()
	err := Parse([]byte(`
entities:
  - name: X
    fields:
      - name: f
        type: nonsense
`), reg)
	if err == nil {
		t.Fatal("unknown data type must be rejected")
	}
}
