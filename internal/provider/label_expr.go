package provider

import (
	"fmt"

	"github.com/parpalak/admin-yard-sub000/internal/schema"
)

// LabelExpressions builds the label projections for every association
// field visible on the action. Many-to-one labels come from the foreign
// row the key points at; one-to-many labels aggregate the foreign rows
// pointing back here. Composite foreign keys use only the first column.
func LabelExpressions(reg *schema.Registry, e *schema.Entity, action schema.Action) ([]LabelExpr, error) {
	var out []LabelExpr
	for _, f := range e.Fields(action) {
		assoc := f.Association
		if assoc == nil {
			continue
		}
		foreign, err := reg.Resolve(assoc)
		if err != nil {
			return nil, err
		}
		foreignPK := foreign.PrimaryKeyFields()
		if len(foreignPK) == 0 {
			return nil, fmt.Errorf("entity %s: association target %s has no primary key", e.Name, foreign.Name)
		}

		switch assoc.Kind {
		case schema.ManyToOne:
			out = append(out, LabelExpr{
				Column: f.Name,
				SQL: fmt.Sprintf("SELECT %s FROM %s AS a WHERE a.%s = %s.%s",
					assoc.TitleSQL, foreign.Table, foreignPK[0], entityAlias, f.Name),
			})
		case schema.OneToMany:
			ownPK := e.PrimaryKeyFields()
			if len(ownPK) == 0 {
				return nil, fmt.Errorf("entity %s: one-to-many field %s requires a primary key", e.Name, f.Name)
			}
			out = append(out, LabelExpr{
				Column: f.Name,
				SQL: fmt.Sprintf("SELECT %s FROM %s AS a WHERE a.%s = %s.%s",
					assoc.TitleSQL, foreign.Table, assoc.InverseColumn, entityAlias, ownPK[0]),
			})
		}
	}
	return out, nil
}
