package perf_test

import (
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	gossa "golang.org/x/tools/go/ssa"

	"github.com/loopperf/loopperf/loop"
	"github.com/loopperf/loopperf/perf"
	"github.com/loopperf/loopperf/ssa"
	"github.com/loopperf/loopperf/ssa/build"
)

// buildInfo builds SSA IR for src. Build chdirs to the temp dir for
// reader sources, so restore the working directory for later tests that
// read relative paths such as testdata fixtures.
func buildInfo(t *testing.T, src string) *ssa.Info {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	t.Cleanup(func() { os.Chdir(wd) })
	info, err := build.FromReader(strings.NewReader(src)).Default().Build()
	require.NoError(t, err, "cannot build SSA")
	return info
}

// buildFunc builds SSA IR for src and returns the function called name.
func buildFunc(t *testing.T, src, name string) *gossa.Function {
	t.Helper()
	fn := buildInfo(t, src).FindFunc(name)
	require.NotNil(t, fn, "function %s not found", name)
	return fn
}

// onlyLoop returns the single loop of fn.
func onlyLoop(t *testing.T, fn *gossa.Function) *loop.Loop {
	t.Helper()
	forest := loop.Forest(fn)
	require.Len(t, forest, 1)
	return forest[0]
}

func TestPerforableSimpleLoop(t *testing.T) {
	src := `package main
	var total int
	func count(n int) {
		for i := 0; i < n; i++ {
			total = total + i
		}
	}
	func main() { count(10) }`

	a := perf.NewAnalyser(nil)
	require.True(t, a.Perforable(onlyLoop(t, buildFunc(t, src, "count"))))
}

func TestOptOutByFunctionName(t *testing.T) {
	src := `package main
	var total int
	func count_NO_PERF(n int) {
		for i := 0; i < n; i++ {
			total = total + i
		}
	}
	func main() { count_NO_PERF(10) }`

	a := perf.NewAnalyser(nil)
	require.False(t, a.Perforable(onlyLoop(t, buildFunc(t, src, "count_NO_PERF"))),
		"functions named with %s opt out of perforation", perf.OptOut)
}

func TestNoInductionVariableRejected(t *testing.T) {
	src := `package main
	var total int
	func spin() {
		for {
			total++
		}
	}
	func main() { spin() }`

	a := perf.NewAnalyser(nil)
	require.False(t, a.Perforable(onlyLoop(t, buildFunc(t, src, "spin"))))
}

func TestNonArithmeticUpdateRejected(t *testing.T) {
	src := `package main
	var total int
	func next(i int) int { return i + 2 }
	func skip(n int) {
		for i := 0; i < n; i = next(i) {
			total = total + i
		}
	}
	func main() { skip(10) }`

	a := perf.NewAnalyser(nil)
	require.False(t, a.Perforable(onlyLoop(t, buildFunc(t, src, "skip"))),
		"a call-produced update is not a rewritable step")
}

func TestRangeOverMapRejected(t *testing.T) {
	src := `package main
	var total int
	func sum(m map[int]int) {
		for k := range m {
			total = total + k
		}
	}
	func main() { sum(map[int]int{1: 1}) }`

	a := perf.NewAnalyser(nil)
	for _, l := range loop.Forest(buildFunc(t, src, "sum")) {
		require.False(t, a.Perforable(l))
	}
}
