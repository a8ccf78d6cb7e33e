package expression

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNew_ScalarEquality(t *testing.T) {
	e := New("title", "First post")
	assert.Equal(t, "title = :title_1", e.SQL())
	assert.Equal(t, map[string]any{"title_1": "First post"}, e.Params())
}

func TestNew_SliceBecomesIn(t *testing.T) {
	e := New("status", []string{"approved", "pending"})
	assert.Equal(t, "status IN (:status_1, :status_2)", e.SQL())
	assert.Equal(t, map[string]any{
		"status_1": "approved",
		"status_2": "pending",
	}, e.Params())
}

func TestNewPattern_MultiplePlaceholders(t *testing.T) {
	e := NewPattern("year", 2024, "created_at BETWEEN %s AND %s")
	assert.Equal(t, "created_at BETWEEN :year_1 AND :year_2", e.SQL())
	assert.Equal(t, map[string]any{"year_1": 2024, "year_2": 2024}, e.Params())
}

func TestIsTrivial(t *testing.T) {
	assert.True(t, New("a", nil).IsTrivial())
	assert.True(t, New("a", "").IsTrivial())
	assert.True(t, New("a", []string{}).IsTrivial())
	assert.True(t, New("a", []any{}).IsTrivial())

	// Zero and false are real values, not the absence of a filter.
	assert.False(t, New("a", 0).IsTrivial())
	assert.False(t, New("a", false).IsTrivial())
	assert.False(t, New("a", "0").IsTrivial())
}

func TestWithNamePrefix_RenamesParamsOnly(t *testing.T) {
	e := New("id", int64(5)).WithNamePrefix("post")
	assert.Equal(t, "id = :post_id_1", e.SQL())
	assert.Equal(t, map[string]any{"post_id_1": int64(5)}, e.Params())
}

func TestWrap_SubstitutesIntoOuterPattern(t *testing.T) {
	e := New("age", 30).Wrap("NOT (%s)")
	assert.Equal(t, "NOT (age = :age_1)", e.SQL())
	assert.Equal(t, map[string]any{"age_1": 30}, e.Params())
}

func TestWrap_ThenPrefix(t *testing.T) {
	e := New("id", []int{1, 2}).Wrap("NOT (%s)").WithNamePrefix("f")
	assert.Equal(t, "NOT (id IN (:f_id_1, :f_id_2))", e.SQL())
}

func TestCompile_IsCached(t *testing.T) {
	e := New("x", 1)
	first := e.SQL()
	assert.Equal(t, first, e.SQL())
	assert.Equal(t, e.Params(), e.Params())
}
