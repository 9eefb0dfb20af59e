package ast_test

import (
	"testing"

	"github.com/udoprog/st/ast"
	"github.com/udoprog/st/parser"
)

func TestInspect(t *testing.T) {
	file, err := parser.ParseFile(`
fn main() {
	fn nested() { foo!(1) }
	if a { 1 + 2 } else { bar!() }
}
`)
	if err != nil {
		t.Fatal(err)
	}
	fn := file.Items[0].(*ast.ItemFn)

	var items, macros, binaries int
	ast.Inspect(&fn.Body, func(node ast.Node) bool {
		switch node.(type) {
		case ast.Item:
			items++
			return false
		case *ast.ExprMacroCall:
			macros++
		case *ast.ExprBinary:
			binaries++
		}
		return true
	})
	if items != 1 {
		t.Fatalf("got %v", items)
	}
	// the macro inside the nested function is not visited
	if macros != 1 {
		t.Fatalf("got %v", macros)
	}
	if binaries != 1 {
		t.Fatalf("got %v", binaries)
	}
}
