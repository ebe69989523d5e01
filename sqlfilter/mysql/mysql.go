// Package mysql translates a MySQL WHERE clause into a compiled query,
// using the pingcap/tidb SQL parser the teacher's reverse package already
// depends on for MySQL syntax.
package mysql

import (
	"fmt"

	"github.com/pingcap/tidb/parser"
	"github.com/pingcap/tidb/parser/ast"
	"github.com/pingcap/tidb/parser/opcode"
	"github.com/pingcap/tidb/parser/test_driver"

	sifterrors "github.com/siftql/siftql/errors"
	"github.com/siftql/siftql/query"
	"github.com/siftql/siftql/sqlfilter/internal/buildfilter"
)

// Translate parses a standalone WHERE-clause predicate and returns the
// equivalent MongoDB-style query document.
func Translate(whereClause string) (map[string]any, error) {
	sql := fmt.Sprintf("SELECT 1 WHERE %s", whereClause)
	p := parser.New()
	stmts, _, err := p.Parse(sql, "", "")
	if err != nil {
		return nil, sifterrors.Newf(sifterrors.InvalidQuery, "mysql WHERE clause parse error: %v", err)
	}
	if len(stmts) == 0 {
		return nil, sifterrors.New(sifterrors.InvalidQuery, "empty WHERE clause")
	}
	sel, ok := stmts[0].(*ast.SelectStmt)
	if !ok || sel.Where == nil {
		return map[string]any{}, nil
	}
	return exprToDoc(sel.Where)
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

func exprToDoc(expr ast.ExprNode) (map[string]any, error) {
	switch e := expr.(type) {
	case *ast.BinaryOperationExpr:
		switch e.Op {
		case opcode.LogicAnd, opcode.LogicOr:
			left, err := exprToDoc(e.L)
			if err != nil {
				return nil, err
			}
			right, err := exprToDoc(e.R)
			if err != nil {
				return nil, err
			}
			if e.Op == opcode.LogicAnd {
				return buildfilter.And(left, right), nil
			}
			return buildfilter.Or(left, right), nil
		default:
			return comparisonToDoc(e)
		}

	case *ast.PatternInExpr:
		return inExprToDoc(e)

	case *ast.PatternLikeOrIlikeExpr:
		return likeExprToDoc(e)

	case *ast.BetweenExpr:
		return betweenExprToDoc(e)

	case *ast.IsNullExpr:
		return isNullToDoc(e)

	case *ast.ParenthesesExpr:
		return exprToDoc(e.Expr)

	default:
		return nil, sifterrors.Newf(sifterrors.UnsupportedOperation, "unsupported WHERE clause expression %T", expr)
	}
}

func comparisonToDoc(e *ast.BinaryOperationExpr) (map[string]any, error) {
	path, err := columnName(e.L)
	if err != nil {
		return nil, err
	}
	value, err := literalValue(e.R)
	if err != nil {
		return nil, err
	}

	var opName string
	switch e.Op {
	case opcode.EQ:
		opName = "$eq"
	case opcode.NE:
		opName = "$ne"
	case opcode.LT:
		opName = "$lt"
	case opcode.GT:
		opName = "$gt"
	case opcode.LE:
		opName = "$lte"
	case opcode.GE:
		opName = "$gte"
	default:
		return nil, sifterrors.Newf(sifterrors.UnsupportedOperation, "unsupported comparison operator %s", e.Op.String())
	}
	return buildfilter.Operator(path, opName, value), nil
}

func inExprToDoc(e *ast.PatternInExpr) (map[string]any, error) {
	path, err := columnName(e.Expr)
	if err != nil {
		return nil, err
	}
	values := make([]any, len(e.List))
	for i, v := range e.List {
		val, err := literalValue(v)
		if err != nil {
			return nil, err
		}
		values[i] = val
	}
	opName := "$in"
	if e.Not {
		opName = "$nin"
	}
	return buildfilter.Operator(path, opName, values), nil
}

func likeExprToDoc(e *ast.PatternLikeOrIlikeExpr) (map[string]any, error) {
	path, err := columnName(e.Expr)
	if err != nil {
		return nil, err
	}
	pattern, err := literalValue(e.Pattern)
	if err != nil {
		return nil, err
	}
	like, ok := pattern.(string)
	if !ok {
		return nil, sifterrors.New(sifterrors.InvalidQuery, "LIKE pattern must be a string")
	}
	doc := map[string]any{path: map[string]any{"$regex": likePatternToRegex(like)}}
	if e.Not {
		return buildfilter.Not(doc), nil
	}
	return doc, nil
}

func betweenExprToDoc(e *ast.BetweenExpr) (map[string]any, error) {
	path, err := columnName(e.Expr)
	if err != nil {
		return nil, err
	}
	low, err := literalValue(e.Left)
	if err != nil {
		return nil, err
	}
	high, err := literalValue(e.Right)
	if err != nil {
		return nil, err
	}
	clause := buildfilter.Range(path, "$gte", low, "$lte", high)
	if e.Not {
		return buildfilter.Not(clause), nil
	}
	return clause, nil
}

func isNullToDoc(e *ast.IsNullExpr) (map[string]any, error) {
	path, err := columnName(e.Expr)
	if err != nil {
		return nil, err
	}
	if e.Not {
		return buildfilter.Operator(path, "$ne", nil), nil
	}
	return buildfilter.Equal(path, nil), nil
}

func columnName(expr ast.ExprNode) (string, error) {
	col, ok := expr.(*ast.ColumnNameExpr)
	if !ok {
		return "", sifterrors.New(sifterrors.UnsupportedOperation, "left-hand side of comparison must be a column reference")
	}
	return col.Name.Name.O, nil
}

func literalValue(expr ast.ExprNode) (any, error) {
	val, ok := expr.(*test_driver.ValueExpr)
	if !ok {
		return nil, sifterrors.New(sifterrors.UnsupportedOperation, "right-hand side must be a literal")
	}
	d := val.Datum
	switch d.Kind() {
	case test_driver.KindInt64:
		return float64(d.GetInt64()), nil
	case test_driver.KindUint64:
		return float64(d.GetUint64()), nil
	case test_driver.KindFloat64:
		return d.GetFloat64(), nil
	case test_driver.KindString:
		return d.GetString(), nil
	case test_driver.KindBytes:
		return string(d.GetBytes()), nil
	case test_driver.KindNull:
		return nil, nil
	default:
		return fmt.Sprintf("%v", d.GetValue()), nil
	}
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
