package main

import (
	"fmt"

	"firmwarebc/internal/astnode"
	"firmwarebc/internal/namespace"
)

// constantFoldEvaluator is the explorer's ArgumentEvaluator: it resolves
// literal data objects and Add/Subtract of literals (including nested
// Add/Subtract over further literals), which covers the common
// OperationRegion(..., Offset, Length) shape where the offset is written
// as simple arithmetic rather than a single literal. Anything else --
// a Store into a Local, a method invocation, a reference to another named
// object -- is the real execution engine's job, not this browser's, so it
// is reported as a plain error, which the loader returns to its caller
// unchanged.
func constantFoldEvaluator(expr astnode.Term, ns *namespace.Namespace) (int64, error) {
	switch v := expr.(type) {
	case *astnode.Data:
		return foldData(v)
	case *astnode.Expr:
		return foldExpr(v, ns)
	default:
		return 0, fmt.Errorf("amlexplore: cannot constant-fold %T at offset %d", expr, expr.Offset())
	}
}

func foldData(d *astnode.Data) (int64, error) {
	switch d.Kind {
	case astnode.DataZero:
		return 0, nil
	case astnode.DataOne:
		return 1, nil
	case astnode.DataByte, astnode.DataWord, astnode.DataDWord, astnode.DataQWord:
		return int64(d.Int), nil
	default:
		return 0, fmt.Errorf("amlexplore: cannot constant-fold non-integer Data at offset %d", d.Offset())
	}
}

func foldExpr(e *astnode.Expr, ns *namespace.Namespace) (int64, error) {
	if e.Op != astnode.OpAdd && e.Op != astnode.OpSubtract {
		return 0, fmt.Errorf("amlexplore: cannot constant-fold operator %v at offset %d", e.Op, e.Offset())
	}
	if len(e.Operands) != 2 {
		return 0, fmt.Errorf("amlexplore: Add/Subtract with %d operands at offset %d", len(e.Operands), e.Offset())
	}
	lhs, err := constantFoldEvaluator(e.Operands[0], ns)
	if err != nil {
		return 0, err
	}
	rhs, err := constantFoldEvaluator(e.Operands[1], ns)
	if err != nil {
		return 0, err
	}
	if e.Op == astnode.OpAdd {
		return lhs + rhs, nil
	}
	return lhs - rhs, nil
}
