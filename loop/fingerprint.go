package loop

import (
	"bytes"
	"fmt"
)

// Fingerprint returns the structural identity of the loop: the comma-joined
// list of member block indices in block order, each tagged with <header>,
// <latch> and/or <exiting> as applicable. The string is stable as long as the
// loop's block set and structural roles are unchanged; it is a structural
// identity, not a content hash, so renumbering blocks between two builds of
// the same function changes it.
func (l *Loop) Fingerprint() string {
	var buf bytes.Buffer
	for i, b := range l.blocks {
		if i > 0 {
			buf.WriteByte(',')
		}
		fmt.Fprintf(&buf, "%%%d", b.Index)
		if b == l.header {
			buf.WriteString("<header>")
		}
		if l.IsLatch(b) {
			buf.WriteString("<latch>")
		}
		if l.IsExiting(b) {
			buf.WriteString("<exiting>")
		}
	}
	return buf.String()
}
