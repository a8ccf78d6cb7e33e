package provider

import (
	"fmt"
	"strings"

	"github.com/parpalak/admin-yard-sub000/internal/expression"
	"github.com/parpalak/admin-yard-sub000/internal/schema"
	"github.com/parpalak/admin-yard-sub000/internal/store"
)

// entityAlias is the alias every generated statement gives the target
// table, so label subqueries can reference the outer row.
const entityAlias = "entity"

// LabelExpr is a computed projection producing the human-readable label of
// an association field, selected as label_<column>.
type LabelExpr struct {
	Column string
	SQL    string
}

// bindNamed rewrites the ":name" placeholders of an expression fragment
// into driver placeholders, appending the bound values in fragment order.
func bindNamed(fragment string, params map[string]any, pb store.ParamBuilder) string {
	var sb strings.Builder
	for i := 0; i < len(fragment); {
		c := fragment[i]
		if c != ':' {
			sb.WriteByte(c)
			i++
			continue
		}
		j := i + 1
		for j < len(fragment) && isParamChar(fragment[j]) {
			j++
		}
		name := fragment[i+1 : j]
		if v, ok := params[name]; ok {
			sb.WriteString(pb.Add(v))
		} else {
			sb.WriteString(fragment[i:j])
		}
		i = j
	}
	return sb.String()
}

func isParamChar(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9'
}

// whereFrom compiles the non-trivial conditions into a WHERE clause.
func whereFrom(conds []*expression.Expression, pb store.ParamBuilder) string {
	var parts []string
	for _, cond := range conds {
		if cond == nil || cond.IsTrivial() {
			continue
		}
		parts = append(parts, bindNamed(cond.SQL(), cond.Params(), pb))
	}
	if len(parts) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(parts, " AND ")
}

// projection builds the SELECT list: field_<col> for every declared column
// (virtual columns project as NULL) and label_<col> for every label
// expression.
func projection(types []schema.ColumnType, labels []LabelExpr) string {
	cols := make([]string, 0, len(types)+len(labels))
	for _, ct := range types {
		if ct.Type == schema.TypeVirtual {
			cols = append(cols, fmt.Sprintf("NULL AS field_%s", ct.Column))
			continue
		}
		cols = append(cols, fmt.Sprintf("%s.%s AS field_%s", entityAlias, ct.Column, ct.Column))
	}
	for _, le := range labels {
		cols = append(cols, fmt.Sprintf("(%s) AS label_%s", le.SQL, le.Column))
	}
	return strings.Join(cols, ", ")
}

// BuildSelect assembles the list query. Ordering over orderBy columns is
// always explicit; pagination without an ORDER BY has no defined row order.
func BuildSelect(d store.Dialect, table string, types []schema.ColumnType, labels []LabelExpr,
	conds []*expression.Expression, orderBy []string, limit, offset int) (string, []any) {

	pb := d.NewParamBuilder()
	sql := fmt.Sprintf("SELECT %s FROM %s AS %s", projection(types, labels), table, entityAlias)
	sql += whereFrom(conds, pb)

	if len(orderBy) > 0 {
		parts := make([]string, len(orderBy))
		for i, col := range orderBy {
			parts[i] = fmt.Sprintf("%s.%s", entityAlias, col)
		}
		sql += " ORDER BY " + strings.Join(parts, ", ")
	}

	if limit > 0 {
		sql += fmt.Sprintf(" LIMIT %s OFFSET %s", pb.Add(limit), pb.Add(offset))
	}

	return sql, pb.Params()
}

// BuildSelectOne assembles the single-row query restricted by primary key.
func BuildSelectOne(d store.Dialect, table string, types []schema.ColumnType, labels []LabelExpr, key schema.Key) (string, []any) {
	pb := d.NewParamBuilder()
	sql := fmt.Sprintf("SELECT %s FROM %s AS %s", projection(types, labels), table, entityAlias)
	sql += whereFrom(keyConditions(key, entityAlias+".", ""), pb)
	return sql, pb.Params()
}

// BuildInsert assembles the INSERT. Columns whose converted value is nil
// are omitted so storage defaults apply. When returning is non-empty and
// the dialect supports it, the statement yields the assigned identifier.
func BuildInsert(d store.Dialect, table string, types []schema.ColumnType, dbData map[string]any, returning string) (string, []any) {
	pb := d.NewParamBuilder()
	var cols, phs []string
	for _, ct := range types {
		if ct.Type == schema.TypeVirtual {
			continue
		}
		v, ok := dbData[ct.Column]
		if !ok || v == nil {
			continue
		}
		cols = append(cols, ct.Column)
		phs = append(phs, pb.Add(v))
	}

	var sql string
	if len(cols) == 0 {
		sql = fmt.Sprintf("INSERT INTO %s DEFAULT VALUES", table)
	} else {
		sql = fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table, strings.Join(cols, ", "), strings.Join(phs, ", "))
	}
	if returning != "" && d.SupportsReturning() {
		sql += " RETURNING " + returning
	}
	return sql, pb.Params()
}

// BuildUpdate assembles the UPDATE restricted by primary key. Key
// parameters live in a disjoint "pk_" namespace so a column can be both
// updated and part of the key.
func BuildUpdate(d store.Dialect, table string, types []schema.ColumnType, key schema.Key, dbData map[string]any) (string, []any) {
	pb := d.NewParamBuilder()
	var sets []string
	for _, ct := range types {
		if ct.Type == schema.TypeVirtual {
			continue
		}
		v, ok := dbData[ct.Column]
		if !ok {
			continue
		}
		sets = append(sets, fmt.Sprintf("%s = %s", ct.Column, pb.Add(v)))
	}
	if len(sets) == 0 {
		return "", nil
	}

	sql := fmt.Sprintf("UPDATE %s SET %s", table, strings.Join(sets, ", "))
	sql += whereFrom(keyConditions(key, "", "pk_"), pb)
	return sql, pb.Params()
}

// BuildDelete assembles the DELETE restricted by primary key.
func BuildDelete(d store.Dialect, table string, key schema.Key) (string, []any) {
	pb := d.NewParamBuilder()
	sql := fmt.Sprintf("DELETE FROM %s", table)
	sql += whereFrom(keyConditions(key, "", ""), pb)
	return sql, pb.Params()
}

// keyConditions turns a primary key into an equality-AND condition set.
// columnPrefix qualifies the column reference; namePrefix keeps the bound
// parameter names in their own namespace.
func keyConditions(key schema.Key, columnPrefix, namePrefix string) []*expression.Expression {
	cols := key.Columns()
	out := make([]*expression.Expression, 0, len(cols))
	for _, col := range cols {
		v, _ := key.Value(col)
		out = append(out, expression.NewPattern(namePrefix+col, v, columnPrefix+col+" = %s"))
	}
	return out
}
