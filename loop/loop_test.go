package loop_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	gossa "golang.org/x/tools/go/ssa"

	"github.com/loopperf/loopperf/loop"
	"github.com/loopperf/loopperf/ssa/build"
)

// buildFunc builds SSA IR for src and returns the function called name.
func buildFunc(t *testing.T, src, name string) *gossa.Function {
	t.Helper()
	info, err := build.FromReader(strings.NewReader(src)).Default().Build()
	require.NoError(t, err, "cannot build SSA")
	fn := info.FindFunc(name)
	require.NotNil(t, fn, "function %s not found", name)
	return fn
}

func TestForestSimpleLoop(t *testing.T) {
	src := `package main
	var total int
	func count(n int) {
		for i := 0; i < n; i++ {
			total = total + i
		}
	}
	func main() { count(10) }`

	fn := buildFunc(t, src, "count")
	forest := loop.Forest(fn)
	require.Len(t, forest, 1)

	l := forest[0]
	require.Empty(t, l.Children)
	require.NotNil(t, l.Header())
	require.True(t, l.Contains(l.Header()))
	require.Len(t, l.Latches(), 1)
	require.True(t, l.IsSimplifyForm())
	require.NotNil(t, l.Preheader())
	require.False(t, l.Contains(l.Preheader()))

	phi := l.CanonicalInductionVariable()
	require.NotNil(t, phi, "loop must have a canonical induction variable")
	incr := l.Increment(phi)
	require.NotNil(t, incr, "induction variable must have an update edge")
	_, ok := incr.(*gossa.BinOp)
	require.True(t, ok, "update must be a binary operation, got %T", incr)
}

func TestForestNestedLoop(t *testing.T) {
	src := `package main
	var total int
	func grid(n int) {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				total = total + i*j
			}
		}
	}
	func main() { grid(4) }`

	fn := buildFunc(t, src, "grid")
	forest := loop.Forest(fn)
	require.Len(t, forest, 1, "only the outer loop is a root")

	outer := forest[0]
	require.Len(t, outer.Children, 1)
	inner := outer.Children[0]
	require.Same(t, outer, inner.Parent)
	require.True(t, outer.Contains(inner.Header()), "inner loop lives inside the outer body")
	require.True(t, len(outer.Blocks()) > len(inner.Blocks()))
	require.True(t, inner.IsSimplifyForm())
	require.True(t, outer.IsSimplifyForm())
}

func TestForestNoLoop(t *testing.T) {
	src := `package main
	func flat(n int) int {
		if n > 0 {
			return n
		}
		return -n
	}
	func main() { flat(1) }`

	fn := buildFunc(t, src, "flat")
	require.Empty(t, loop.Forest(fn))
}

func TestFingerprintIdempotent(t *testing.T) {
	src := `package main
	var total int
	func count(n int) {
		for i := 0; i < n; i++ {
			total = total + i
		}
	}
	func main() { count(10) }`

	fn := buildFunc(t, src, "count")
	first := loop.Forest(fn)
	second := loop.Forest(fn)
	require.Len(t, first, 1)
	require.Len(t, second, 1)

	fp := first[0].Fingerprint()
	require.Equal(t, fp, first[0].Fingerprint(), "fingerprint must be deterministic")
	require.Equal(t, fp, second[0].Fingerprint(), "fingerprint must be re-derivable")
	require.Contains(t, fp, "<header>")
	require.Contains(t, fp, "<latch>")
	require.Contains(t, fp, "<exiting>")
}

func TestInfiniteLoopHasNoInductionVariable(t *testing.T) {
	src := `package main
	var total int
	func spin() {
		for {
			total++
		}
	}
	func main() { spin() }`

	fn := buildFunc(t, src, "spin")
	forest := loop.Forest(fn)
	require.Len(t, forest, 1)
	require.Nil(t, forest[0].CanonicalInductionVariable())
}

func TestIncrementFromCallIsNotBinOp(t *testing.T) {
	src := `package main
	var total int
	func next(i int) int { return i + 2 }
	func skip(n int) {
		for i := 0; i < n; i = next(i) {
			total = total + i
		}
	}
	func main() { skip(10) }`

	fn := buildFunc(t, src, "skip")
	forest := loop.Forest(fn)
	require.Len(t, forest, 1)

	l := forest[0]
	phi := l.CanonicalInductionVariable()
	require.NotNil(t, phi)
	incr := l.Increment(phi)
	require.NotNil(t, incr)
	_, ok := incr.(*gossa.BinOp)
	require.False(t, ok, "call result must not count as an arithmetic update")
}
