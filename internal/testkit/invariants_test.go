package testkit

import (
	"strings"
	"testing"

	"mirror/internal/hir"
	"mirror/internal/mirror"
	"mirror/internal/types"
)

const u32 types.TypeID = 7

func body(value *mirror.Expr) *mirror.Body {
	return &mirror.Body{
		Name:   "f",
		Params: []mirror.Param{{Local: 1, Name: "x", Type: u32}},
		Result: u32,
		Value:  value,
	}
}

func varExpr(local hir.LocalID, name string) *mirror.Expr {
	return &mirror.Expr{Kind: mirror.ExprVar, Type: u32, Data: mirror.VarExpr{Local: local, Name: name}}
}

func TestCheckBody(t *testing.T) {
	let := &mirror.Pattern{Kind: mirror.PatBinding, Type: u32, Local: 2, Name: "y"}
	blk := &mirror.Block{
		Stmts: []*mirror.Stmt{{Kind: mirror.StmtLet, Pattern: let, Init: varExpr(1, "x")}},
		Tail:  varExpr(2, "y"),
		Drops: []mirror.Drop{{Local: 2, Name: "y", Type: u32}},
	}
	ok := body(&mirror.Expr{Kind: mirror.ExprBlock, Type: u32, Data: mirror.BlockExpr{Block: blk}})

	tests := []struct {
		name string
		body *mirror.Body
		want string
	}{
		{"valid", ok, ""},
		{"unbound variable", body(varExpr(9, "z")), "used before it is bound"},
		{"untyped", body(&mirror.Expr{Kind: mirror.ExprVar, Data: mirror.VarExpr{Local: 1}}), "has no type"},
		{"checked in unchecked unit", body(&mirror.Expr{
			Kind: mirror.ExprBinary, Type: u32,
			Data: mirror.BinaryExpr{Op: hir.OpAdd, LHS: varExpr(1, "x"), RHS: varExpr(1, "x"), Checked: true},
		}), "unchecked unit"},
		{"call of a variable", body(&mirror.Expr{
			Kind: mirror.ExprCall, Type: u32,
			Data: mirror.CallExpr{Fn: varExpr(1, "x")},
		}), "not a literal"},
		{"foreign drop", &mirror.Body{
			Name:  "g",
			Value: varExpr(1, "x"),
			Drops: []mirror.Drop{{Local: 1, Name: "x"}},
		}, "not a parameter"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckBody(tt.body)
			if tt.want == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error = %v, want %q", err, tt.want)
			}
		})
	}
}
