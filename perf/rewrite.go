package perf

import (
	"go/constant"

	"github.com/loopperf/loopperf/loop"
	"golang.org/x/tools/go/ssa"
)

// Rewriter is the mutation pass. It is constructed with the rate table read
// from its configured path; a missing file leaves the table empty, in which
// case every perforable loop receives the identity rate 1 (a harmless
// pipeline smoke test).
type Rewriter struct {
	rates    Catalog
	analyser *Analyser

	*Logger
}

// NewRewriter returns a Rewriter with the rate table loaded from path.
// Malformed table content is a fatal error for the invocation.
func NewRewriter(path string, l *Logger) (*Rewriter, error) {
	if l == nil {
		l = NopLogger()
	}
	if path == "" {
		path = DefaultRatesPath
	}
	rates, err := Load(path)
	if err != nil {
		return nil, err
	}
	return &Rewriter{
		rates:    rates,
		analyser: NewAnalyser(l),
		Logger:   l,
	}, nil
}

// RunOnFunction rewrites fn's loops bottom-up and reports whether any loop
// changed.
func (r *Rewriter) RunOnFunction(fn *ssa.Function) bool {
	if len(fn.Blocks) == 0 {
		return false
	}
	changed := false
	for _, l := range loop.Forest(fn) {
		if r.rewriteBottomUp(l) {
			changed = true
		}
	}
	return changed
}

// rewriteBottomUp visits children before their parent. Independent loops do
// not affect each other, but an inner increment must be rewritten before the
// outer loop's blocks are revisited.
func (r *Rewriter) rewriteBottomUp(l *loop.Loop) bool {
	changed := false
	for _, sub := range l.Children {
		if r.rewriteBottomUp(sub) {
			changed = true
		}
	}
	if r.RunOnLoop(l) {
		changed = true
	}
	return changed
}

// RunOnLoop perforates l if the rate table names it, replacing the first
// non-induction-variable operand of the increment operation with a constant
// equal to the looked-up rate. Loops absent from the table are skipped
// unchanged. Reports whether the loop changed.
func (r *Rewriter) RunOnLoop(l *loop.Loop) bool {
	fn := l.Func()

	rate := 1
	if r.rates.Empty() {
		// No rate table: identity-rewrite every loop the discovery pass
		// would have catalogued.
		if !r.analyser.Perforable(l) {
			return false
		}
	} else {
		entry, ok := r.rates.Lookup(ModuleOf(fn), FuncKey(fn), l.Fingerprint())
		if !ok {
			return false
		}
		if entry.Assigned {
			rate = entry.Value
		}
	}

	// Re-derive the induction variable and its increment. The table only
	// names loops the discovery pass proved eligible, so both exist as long
	// as the IR is unchanged between the passes.
	phi := l.CanonicalInductionVariable()
	incr := l.Increment(phi).(*ssa.BinOp)

	if incr.X != phi {
		old := incr.X.Name()
		incr.X = rateConst(rate, incr.X)
		r.Infof("%s Changing [%s] to [%s]!", r.Module(), old, incr.X.Name())
		return true
	}
	if incr.Y != phi {
		old := incr.Y.Name()
		incr.Y = rateConst(rate, incr.Y)
		r.Infof("%s Changing [%s] to [%s]!", r.Module(), old, incr.Y.Name())
		return true
	}

	// Both operands are the induction variable itself; nothing to replace.
	return false
}

// rateConst builds a signed integer constant carrying rate, typed like the
// operand it replaces.
func rateConst(rate int, old ssa.Value) *ssa.Const {
	return ssa.NewConst(constant.MakeInt64(int64(rate)), old.Type())
}
