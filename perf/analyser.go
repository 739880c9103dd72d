package perf

import (
	"strings"

	"github.com/loopperf/loopperf/loop"
	"golang.org/x/tools/go/ssa"
)

// OptOut is the opt-out convention: any function whose name contains this
// substring is excluded from both passes.
const OptOut = "NO_PERF"

// Analyser decides whether a loop is a safe perforation candidate.
type Analyser struct {
	*Logger
}

func NewAnalyser(l *Logger) *Analyser {
	if l == nil {
		l = NopLogger()
	}
	return &Analyser{Logger: l}
}

// Perforable reports whether l is structurally eligible for perforation.
// The checks short-circuit in order:
//
//  1. the enclosing function has not opted out via NO_PERF,
//  2. the loop is in simplify form,
//  3. a canonical induction variable exists at the header,
//  4. an incoming value of the variable also uses it (the update edge),
//  5. that update is a binary arithmetic operation.
//
// The predicate has no side effect beyond the NO_PERF diagnostic and derives
// everything from the current loop structure, so both passes can re-run it
// and agree.
func (a *Analyser) Perforable(l *loop.Loop) bool {
	fn := l.Func()
	if strings.Contains(fn.Name(), OptOut) {
		a.Infof("%s Skipping loop in function: %s", a.Module(), fn.Name())
		return false
	}

	// The mutation logic assumes the canonical shape.
	if !l.IsSimplifyForm() {
		return false
	}

	phi := l.CanonicalInductionVariable()
	if phi == nil {
		return false
	}

	incr := l.Increment(phi)
	if incr == nil {
		return false
	}

	// Call results, loads, parameters etc. are not rewritable steps.
	if _, ok := incr.(*ssa.BinOp); !ok {
		return false
	}

	return true
}
