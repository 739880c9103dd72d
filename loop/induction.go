package loop

import (
	"golang.org/x/tools/go/ssa"
)

// CanonicalInductionVariable returns the loop's canonical induction variable:
// the first header φ-node merging exactly one value from outside the loop
// (the initial value) and one from inside (the per-iteration update).
// Returns nil if the header has no such φ-node.
func (l *Loop) CanonicalInductionVariable() *ssa.Phi {
	var inside, outside int
	for _, pred := range l.header.Preds {
		if l.Contains(pred) {
			inside++
		} else {
			outside++
		}
	}
	if inside != 1 || outside != 1 {
		return nil
	}
	for _, instr := range l.header.Instrs {
		phi, ok := instr.(*ssa.Phi)
		if !ok {
			break // φ-nodes lead the block.
		}
		if len(phi.Edges) == 2 {
			return phi
		}
	}
	return nil
}

// Increment returns the incoming value of phi that is simultaneously a user
// of phi, i.e. the value that both reads and updates the induction variable
// each iteration. The first such edge found is the canonical one; returns nil
// when there is none.
func (l *Loop) Increment(phi *ssa.Phi) ssa.Value {
	refs := phi.Referrers()
	if refs == nil {
		return nil
	}
	for _, edge := range phi.Edges {
		for _, user := range *refs {
			if v, ok := user.(ssa.Value); ok && v == edge {
				return edge
			}
		}
	}
	return nil
}
