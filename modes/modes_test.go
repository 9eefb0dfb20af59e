package modes

import (
	"testing"

	"github.com/reusee/dscope"
)

func TestForProduction(t *testing.T) {
	dscope.New(ForProduction()).Call(func(
		test *testing.T,
		mode Mode,
	) {
		if mode != ModeProduction || test != nil {
			t.Fatalf("got %v", mode)
		}
	})
}

func TestForTest(t *testing.T) {
	dscope.New(ForTest(t)).Call(func(
		test *testing.T,
		mode Mode,
	) {
		if mode != ModeDevelopment || test != t {
			t.Fatalf("got %v", mode)
		}
		if mode.String() != "development" {
			t.Fatalf("got %v", mode)
		}
	})
}
