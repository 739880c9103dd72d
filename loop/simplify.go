package loop

import (
	"golang.org/x/tools/go/ssa"
)

// Preheader returns the sole out-of-loop predecessor of the header, or nil if
// the header has zero or several predecessors outside the loop.
func (l *Loop) Preheader() *ssa.BasicBlock {
	var pre *ssa.BasicBlock
	for _, p := range l.header.Preds {
		if l.Contains(p) {
			continue
		}
		if pre != nil {
			return nil
		}
		pre = p
	}
	return pre
}

// IsSimplifyForm reports whether the loop is in the canonical shape the
// rewrite logic assumes: a single preheader, a single latch, and dedicated
// exit blocks.
func (l *Loop) IsSimplifyForm() bool {
	if l.Preheader() == nil {
		return false
	}
	if len(l.latches) != 1 {
		return false
	}
	return l.hasDedicatedExits()
}

// hasDedicatedExits reports whether every exit block (an out-of-loop
// successor of a member block) is reached only from inside the loop.
func (l *Loop) hasDedicatedExits() bool {
	for _, b := range l.blocks {
		for _, succ := range b.Succs {
			if l.Contains(succ) {
				continue
			}
			for _, p := range succ.Preds {
				if !l.Contains(p) {
					return false
				}
			}
		}
	}
	return true
}
