// Package postgres translates a PostgreSQL WHERE clause into a compiled
// query, using the same pg_query_go parser the teacher's reverse/validator
// packages use to work with PostgreSQL SQL text.
package postgres

import (
	"fmt"
	"strconv"

	pg_query "github.com/pganalyze/pg_query_go/v5"

	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/query"
	"github.com/siftql/siftql/sqlfilter/internal/buildfilter"
)

// Translate parses a standalone WHERE-clause predicate (e.g.
// "age >= 18 AND status = 'active'") and returns the equivalent
// MongoDB-style query document. It works by wrapping the predicate in a
// throwaway SELECT so pg_query's parser, which only accepts full
// statements, can be reused as-is.
func Translate(whereClause string) (map[string]any, error) {
	sql := fmt.Sprintf("SELECT 1 WHERE %s", whereClause)
	tree, err := pg_query.Parse(sql)
	if err != nil {
		return nil, sifterrors.Newf(sifterrors.InvalidQuery, "postgres WHERE clause parse error: %v", err)
	}
	if len(tree.Stmts) == 0 {
		return nil, sifterrors.New(sifterrors.InvalidQuery, "empty WHERE clause")
	}
	sel := tree.Stmts[0].Stmt.GetSelectStmt()
	if sel == nil || sel.WhereClause == nil {
		return map[string]any{}, nil
	}
	return nodeToDoc(sel.WhereClause)
}

// Compile translates whereClause and compiles it with the query package's
// DefaultRegistry in one step.
func Compile(whereClause string) (*query.CompiledQuery, error) {
	doc, err := Translate(whereClause)
	if err != nil {
		return nil, err
	}
	return query.ParseAndCompile(doc)
}

func nodeToDoc(node *pg_query.Node) (map[string]any, error) {
	if be := node.GetBoolExpr(); be != nil {
		return boolExprToDoc(be)
	}
	if expr := node.GetAExpr(); expr != nil {
		return aExprToDoc(expr)
	}
	if nt := node.GetNullTest(); nt != nil {
		return nullTestToDoc(nt)
	}
	return nil, sifterrors.New(sifterrors.UnsupportedOperation, "unsupported WHERE clause expression")
}

func boolExprToDoc(be *pg_query.BoolExpr) (map[string]any, error) {
	switch be.Boolop {
	case pg_query.BoolExprType_NOT_EXPR:
		if len(be.Args) != 1 {
			return nil, sifterrors.New(sifterrors.InvalidQuery, "NOT takes exactly one operand")
		}
		inner, err := nodeToDoc(be.Args[0])
		if err != nil {
			return nil, err
		}
		return buildfilter.Not(inner), nil

	case pg_query.BoolExprType_AND_EXPR, pg_query.BoolExprType_OR_EXPR:
		docs := make([]map[string]any, len(be.Args))
		for i, arg := range be.Args {
			d, err := nodeToDoc(arg)
			if err != nil {
				return nil, err
			}
			docs[i] = d
		}
		if be.Boolop == pg_query.BoolExprType_AND_EXPR {
			return buildfilter.And(docs...), nil
		}
		return buildfilter.Or(docs...), nil
	}
	return nil, sifterrors.New(sifterrors.UnsupportedOperation, "unsupported boolean expression")
}

func aExprToDoc(expr *pg_query.A_Expr) (map[string]any, error) {
	path, err := columnPath(expr.Lexpr)
	if err != nil {
		return nil, err
	}

	switch expr.Kind {
	case pg_query.A_Expr_Kind_AEXPR_IN:
		values, err := listValues(expr.Rexpr)
		if err != nil {
			return nil, err
		}
		opName := "$in"
		if opName2, err := operatorName(expr); err == nil && opName2 == "$ne" {
			opName = "$nin"
		}
		return buildfilter.Operator(path, opName, values), nil

	case pg_query.A_Expr_Kind_AEXPR_BETWEEN, pg_query.A_Expr_Kind_AEXPR_NOT_BETWEEN:
		list := expr.Rexpr.GetList()
		if list == nil || len(list.Items) != 2 {
			return nil, sifterrors.New(sifterrors.InvalidQuery, "BETWEEN requires two bounds")
		}
		low, err := constValue(list.Items[0])
		if err != nil {
			return nil, err
		}
		high, err := constValue(list.Items[1])
		if err != nil {
			return nil, err
		}
		clause := buildfilter.Range(path, "$gte", low, "$lte", high)
		if expr.Kind == pg_query.A_Expr_Kind_AEXPR_NOT_BETWEEN {
			return buildfilter.Not(clause), nil
		}
		return clause, nil

	case pg_query.A_Expr_Kind_AEXPR_LIKE, pg_query.A_Expr_Kind_AEXPR_ILIKE:
		pattern, err := constValue(expr.Rexpr)
		if err != nil {
			return nil, err
		}
		like, ok := pattern.(string)
		if !ok {
			return nil, sifterrors.New(sifterrors.InvalidQuery, "LIKE pattern must be a string")
		}
		negate, caseInsensitive := likeFlags(expr)
		regex := likePatternToRegex(like, caseInsensitive)
		doc := map[string]any{path: map[string]any{"$regex": regex}}
		if negate {
			return buildfilter.Not(doc), nil
		}
		return doc, nil
	}

	opName, err := operatorName(expr)
	if err != nil {
		return nil, err
	}
	value, err := constValue(expr.Rexpr)
	if err != nil {
		return nil, err
	}
	return buildfilter.Operator(path, opName, value), nil
}

func nullTestToDoc(nt *pg_query.NullTest) (map[string]any, error) {
	path, err := columnPath(nt.Arg)
	if err != nil {
		return nil, err
	}
	if nt.Nulltesttype == pg_query.NullTestType_IS_NOT_NULL {
		return buildfilter.Operator(path, "$ne", nil), nil
	}
	return buildfilter.Equal(path, nil), nil
}

func operatorName(expr *pg_query.A_Expr) (string, error) {
	if len(expr.Name) == 0 {
		return "", sifterrors.New(sifterrors.InvalidQuery, "comparison missing operator")
	}
	str := expr.Name[0].GetString_()
	if str == nil {
		return "", sifterrors.New(sifterrors.InvalidQuery, "comparison missing operator")
	}
	name, ok := buildfilter.ComparisonOperator[str.Sval]
	if !ok {
		return "", sifterrors.Newf(sifterrors.UnsupportedOperation, "unsupported comparison operator %q", str.Sval)
	}
	return name, nil
}

func columnPath(node *pg_query.Node) (string, error) {
	ref := node.GetColumnRef()
	if ref == nil {
		return "", sifterrors.New(sifterrors.UnsupportedOperation, "left-hand side of comparison must be a column reference")
	}
	path := ""
	for i, f := range ref.Fields {
		str := f.GetString_()
		if str == nil {
			continue
		}
		if i > 0 {
			path += "."
		}
		path += str.Sval
	}
	return path, nil
}

func constValue(node *pg_query.Node) (any, error) {
	c := node.GetAConst()
	if c == nil {
		return nil, sifterrors.New(sifterrors.UnsupportedOperation, "right-hand side must be a literal")
	}
	switch {
	case c.GetIval() != nil:
		return float64(c.GetIval().Ival), nil
	case c.GetFval() != nil:
		n, err := strconv.ParseFloat(c.GetFval().Fval, 64)
		if err != nil {
			return nil, sifterrors.Newf(sifterrors.InvalidValue, "invalid float literal %q", c.GetFval().Fval)
		}
		return n, nil
	case c.GetSval() != nil:
		return c.GetSval().Sval, nil
	case c.GetBoolval() != nil:
		return c.GetBoolval().Boolval, nil
	case c.Isnull:
		return nil, nil
	}
	return nil, sifterrors.New(sifterrors.UnsupportedOperation, "unrecognized literal")
}

func listValues(node *pg_query.Node) ([]any, error) {
	list := node.GetList()
	if list == nil {
		return nil, sifterrors.New(sifterrors.InvalidQuery, "IN requires a list of literals")
	}
	values := make([]any, len(list.Items))
	for i, item := range list.Items {
		v, err := constValue(item)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func likeFlags(expr *pg_query.A_Expr) (negate, caseInsensitive bool) {
	if len(expr.Name) == 0 {
		return false, expr.Kind == pg_query.A_Expr_Kind_AEXPR_ILIKE
	}
	str := expr.Name[0].GetString_()
	if str == nil {
		return false, expr.Kind == pg_query.A_Expr_Kind_AEXPR_ILIKE
	}
	switch str.Sval {
	case "!~~":
		return true, false
	case "!~~*":
		return true, true
	case "~~*":
		return false, true
	default:
		return false, false
	}
}

// likePatternToRegex converts SQL LIKE wildcards (% and _) to the
// equivalent regexp syntax, prepending the inline (?i) flag for ILIKE —
// the reliable form of case-insensitive matching, since a sibling
// $options key is a no-op (see DESIGN.md's open-question resolution).
// Literal regex metacharacters in the pattern are not escaped: this is
// the conservative subset documented for the SQL adapters, not a full
// LIKE-to-regex compiler.
func likePatternToRegex(pattern string, caseInsensitive bool) string {
	out := make([]byte, 0, len(pattern)+6)
	if caseInsensitive {
		out = append(out, '(', '?', 'i', ')')
	}
	out = append(out, '^')
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '%':
			out = append(out, '.', '*')
		case '_':
			out = append(out, '.')
		default:
			out = append(out, pattern[i])
		}
	}
	out = append(out, '$')
	return string(out)
}
