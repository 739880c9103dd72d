package loop

import (
	"sort"

	"golang.org/x/tools/go/ssa"
)

// Loop is a natural loop of an SSA function.
type Loop struct {
	Parent   *Loop   // Enclosing loop, nil for a top-level loop.
	Children []*Loop // Loops nested immediately inside this loop.

	fn      *ssa.Function
	header  *ssa.BasicBlock
	latches []*ssa.BasicBlock
	blocks  []*ssa.BasicBlock // Member blocks ordered by index.
	members map[*ssa.BasicBlock]bool
	exiting map[*ssa.BasicBlock]bool
}

// Func returns the function the loop belongs to.
func (l *Loop) Func() *ssa.Function { return l.fn }

// Header returns the loop header, the unique block dominating all members.
func (l *Loop) Header() *ssa.BasicBlock { return l.header }

// Blocks returns the member blocks in ascending block index order.
// The returned slice is shared, callers must not modify it.
func (l *Loop) Blocks() []*ssa.BasicBlock { return l.blocks }

// Latches returns the sources of the loop's back edges.
func (l *Loop) Latches() []*ssa.BasicBlock { return l.latches }

// Contains reports whether b is a member block of the loop.
func (l *Loop) Contains(b *ssa.BasicBlock) bool { return l.members[b] }

// IsLatch reports whether b is a source of a back edge to the header.
func (l *Loop) IsLatch(b *ssa.BasicBlock) bool {
	for _, latch := range l.latches {
		if latch == b {
			return true
		}
	}
	return false
}

// IsExiting reports whether b is a member block with a successor outside the
// loop.
func (l *Loop) IsExiting(b *ssa.BasicBlock) bool { return l.exiting[b] }

// Forest returns the top-level loops of fn, with nested loops attached as
// children. The result is deterministic for a fixed function body: headers
// and member blocks are ordered by block index.
func Forest(fn *ssa.Function) []*Loop {
	if len(fn.Blocks) == 0 {
		return nil
	}

	// A back edge b→h exists where h dominates b. Group latches by header as
	// a natural loop may have several back edges.
	latchesOf := make(map[*ssa.BasicBlock][]*ssa.BasicBlock)
	var headers []*ssa.BasicBlock
	for _, b := range fn.Blocks {
		for _, succ := range b.Succs {
			if succ == fn.Recover {
				continue // Recover edges distort the loop topology.
			}
			if succ.Dominates(b) {
				if _, seen := latchesOf[succ]; !seen {
					headers = append(headers, succ)
				}
				latchesOf[succ] = append(latchesOf[succ], b)
			}
		}
	}
	sort.Slice(headers, func(i, j int) bool { return headers[i].Index < headers[j].Index })

	var loops []*Loop
	for _, h := range headers {
		l := &Loop{
			fn:      fn,
			header:  h,
			latches: latchesOf[h],
			members: make(map[*ssa.BasicBlock]bool),
			exiting: make(map[*ssa.BasicBlock]bool),
		}
		l.grow()
		loops = append(loops, l)
	}

	return nest(loops)
}

// grow populates the loop body: the header, the latches, and every block that
// reaches a latch without passing through the header.
func (l *Loop) grow() {
	l.members[l.header] = true
	worklist := make([]*ssa.BasicBlock, 0, len(l.latches))
	for _, latch := range l.latches {
		if !l.members[latch] {
			l.members[latch] = true
			worklist = append(worklist, latch)
		}
	}
	for len(worklist) > 0 {
		b := worklist[len(worklist)-1]
		worklist = worklist[:len(worklist)-1]
		for _, pred := range b.Preds {
			if !l.members[pred] {
				l.members[pred] = true
				worklist = append(worklist, pred)
			}
		}
	}

	for b := range l.members {
		l.blocks = append(l.blocks, b)
		for _, succ := range b.Succs {
			if !l.members[succ] {
				l.exiting[b] = true
				break
			}
		}
	}
	sort.Slice(l.blocks, func(i, j int) bool { return l.blocks[i].Index < l.blocks[j].Index })
}

// nest links each loop to its innermost enclosing loop and returns the roots.
func nest(loops []*Loop) []*Loop {
	var roots []*Loop
	for _, child := range loops {
		var parent *Loop
		for _, candidate := range loops {
			if candidate == child || !candidate.members[child.header] {
				continue
			}
			if parent == nil || len(candidate.members) < len(parent.members) {
				parent = candidate
			}
		}
		if parent != nil {
			child.Parent = parent
			parent.Children = append(parent.Children, child)
		} else {
			roots = append(roots, child)
		}
	}
	return roots
}
