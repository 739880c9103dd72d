package ssa

import (
	"io"
)

// WriteTo writes the source functions of the Program to w in human readable
// SSA IR instruction format. This is the output surface of the rewrite pass:
// after mutation the perforated increments appear in the printed IR.
func (info *Info) WriteTo(w io.Writer) (int64, error) {
	var n int64
	for _, fn := range info.SourceFuncs() {
		written, err := fn.WriteTo(w)
		if err != nil {
			return n, err
		}
		n += written
	}
	return n, nil
}
