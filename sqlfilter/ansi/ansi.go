// Package ansi translates a generic ANSI-flavored WHERE clause into a
// compiled query, using xwb1989/sqlparser — the dialect-agnostic SQL
// parser from the retrieval corpus — for statements that aren't
// PostgreSQL- or MySQL-specific.
package ansi

import (
	"fmt"
	"strconv"

	"github.com/xwb1989/sqlparser"

	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/query"
	"github.com/siftql/siftql/sqlfilter/internal/buildfilter"
)

// Translate parses a standalone WHERE-clause predicate and returns the
// equivalent MongoDB-style query document.
func Translate(whereClause string) (map[string]any, error) {
	sql := fmt.Sprintf("SELECT 1 FROM dual WHERE %s", whereClause)
	stmt, err := sqlparser.Parse(sql)
	if err != nil {
		return nil, sifterrors.Newf(sifterrors.InvalidQuery, "WHERE clause parse error: %v", err)
	}
	sel, ok := stmt.(*sqlparser.Select)
	if !ok || sel.Where == nil {
		return map[string]any{}, nil
	}
	return exprToDoc(sel.Where.Expr)
}

// Compile translates whereClause and compiles it with the query
// package's DefaultRegistry in one step.
func Compile(whereClause string) (*query.CompiledQuery, error) {
	doc, err := Translate(whereClause)
	if err != nil {
		return nil, err
	}
	return query.ParseAndCompile(doc)
}

func exprToDoc(expr sqlparser.Expr) (map[string]any, error) {
	switch e := expr.(type) {
	case *sqlparser.AndExpr:
		left, err := exprToDoc(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprToDoc(e.Right)
		if err != nil {
			return nil, err
		}
		return buildfilter.And(left, right), nil

	case *sqlparser.OrExpr:
		left, err := exprToDoc(e.Left)
		if err != nil {
			return nil, err
		}
		right, err := exprToDoc(e.Right)
		if err != nil {
			return nil, err
		}
		return buildfilter.Or(left, right), nil

	case *sqlparser.ParenExpr:
		return exprToDoc(e.Expr)

	case *sqlparser.ComparisonExpr:
		return comparisonToDoc(e)

	case *sqlparser.IsExpr:
		return isExprToDoc(e)

	default:
		return nil, sifterrors.Newf(sifterrors.UnsupportedOperation, "unsupported WHERE clause expression %T", expr)
	}
}

func comparisonToDoc(e *sqlparser.ComparisonExpr) (map[string]any, error) {
	path, err := columnName(e.Left)
	if err != nil {
		return nil, err
	}

	switch e.Operator {
	case sqlparser.InStr, sqlparser.NotInStr:
		values, err := tupleValues(e.Right)
		if err != nil {
			return nil, err
		}
		opName := "$in"
		if e.Operator == sqlparser.NotInStr {
			opName = "$nin"
		}
		return buildfilter.Operator(path, opName, values), nil

	case sqlparser.LikeStr, sqlparser.NotLikeStr:
		value, err := literalValue(e.Right)
		if err != nil {
			return nil, err
		}
		pattern, ok := value.(string)
		if !ok {
			return nil, sifterrors.New(sifterrors.InvalidQuery, "LIKE pattern must be a string")
		}
		doc := map[string]any{path: map[string]any{"$regex": likePatternToRegex(pattern)}}
		if e.Operator == sqlparser.NotLikeStr {
			return buildfilter.Not(doc), nil
		}
		return doc, nil
	}

	value, err := literalValue(e.Right)
	if err != nil {
		return nil, err
	}

	var opName string
	switch e.Operator {
	case sqlparser.EqualStr:
		opName = "$eq"
	case sqlparser.NotEqualStr:
		opName = "$ne"
	case sqlparser.LessThanStr:
		opName = "$lt"
	case sqlparser.LessEqualStr:
		opName = "$lte"
	case sqlparser.GreaterThanStr:
		opName = "$gt"
	case sqlparser.GreaterEqualStr:
		opName = "$gte"
	default:
		return nil, sifterrors.Newf(sifterrors.UnsupportedOperation, "unsupported comparison operator %q", e.Operator)
	}
	return buildfilter.Operator(path, opName, value), nil
}

func isExprToDoc(e *sqlparser.IsExpr) (map[string]any, error) {
	path, err := columnName(e.Expr)
	if err != nil {
		return nil, err
	}
	switch e.Operator {
	case sqlparser.IsNullStr:
		return buildfilter.Equal(path, nil), nil
	case sqlparser.IsNotNullStr:
		return buildfilter.Operator(path, "$ne", nil), nil
	default:
		return nil, sifterrors.Newf(sifterrors.UnsupportedOperation, "unsupported IS predicate %q", e.Operator)
	}
}

func columnName(expr sqlparser.Expr) (string, error) {
	col, ok := expr.(*sqlparser.ColName)
	if !ok {
		return "", sifterrors.New(sifterrors.UnsupportedOperation, "left-hand side of comparison must be a column reference")
	}
	return col.Name.String(), nil
}

func literalValue(expr sqlparser.Expr) (any, error) {
	val, ok := expr.(*sqlparser.SQLVal)
	if !ok {
		return nil, sifterrors.New(sifterrors.UnsupportedOperation, "right-hand side must be a literal")
	}
	switch val.Type {
	case sqlparser.StrVal:
		return string(val.Val), nil
	case sqlparser.IntVal:
		n, err := strconv.ParseFloat(string(val.Val), 64)
		if err != nil {
			return nil, sifterrors.Newf(sifterrors.InvalidValue, "invalid integer literal %q", val.Val)
		}
		return n, nil
	case sqlparser.FloatVal:
		n, err := strconv.ParseFloat(string(val.Val), 64)
		if err != nil {
			return nil, sifterrors.Newf(sifterrors.InvalidValue, "invalid float literal %q", val.Val)
		}
		return n, nil
	default:
		return string(val.Val), nil
	}
}

func tupleValues(expr sqlparser.Expr) ([]any, error) {
	tuple, ok := expr.(sqlparser.ValTuple)
	if !ok {
		return nil, sifterrors.New(sifterrors.InvalidQuery, "IN requires a list of literals")
	}
	values := make([]any, len(tuple))
	for i, item := range tuple {
		v, err := literalValue(item)
		if err != nil {
			return nil, err
		}
		values[i] = v
	}
	return values, nil
}

func likePatternToRegex(pattern string) string {
	out := make([]byte, 0, len(pattern)+2)
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
