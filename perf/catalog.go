package perf

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"golang.org/x/tools/go/ssa"
)

// DefaultCatalogPath is where the discovery pass writes the loop catalog.
const DefaultCatalogPath = "loop-info.json"

// DefaultRatesPath is where the rewrite pass reads the rate table from.
const DefaultRatesPath = "loop-rates.json"

// Rate is a catalog leaf: either a perforation rate assigned by an external
// rate-assignment step, or the empty placeholder written by the discovery
// pass. It marshals to a bare integer when assigned and to {} otherwise.
type Rate struct {
	Value    int
	Assigned bool
}

// Placeholder is the unassigned leaf recorded by the discovery pass.
var Placeholder = Rate{}

func (r Rate) MarshalJSON() ([]byte, error) {
	if !r.Assigned {
		return []byte("{}"), nil
	}
	return json.Marshal(r.Value)
}

func (r *Rate) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var placeholder map[string]json.RawMessage
		if err := json.Unmarshal(trimmed, &placeholder); err != nil || len(placeholder) != 0 {
			return errors.Errorf("catalog: leaf %s is neither {} nor an integer", data)
		}
		*r = Rate{}
		return nil
	}
	var v int
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return errors.Wrapf(err, "catalog: leaf %s is neither {} nor an integer", data)
	}
	*r = Rate{Value: v, Assigned: true}
	return nil
}

// Catalog is the three-level mapping connecting the two passes:
// module name → function name → loop fingerprint → rate-or-placeholder.
type Catalog map[string]map[string]map[string]Rate

func NewCatalog() Catalog { return make(Catalog) }

// Empty reports whether the catalog has no entries at all.
func (c Catalog) Empty() bool { return len(c) == 0 }

// Add inserts an entry, creating the intermediate levels as needed.
func (c Catalog) Add(module, function, fingerprint string, r Rate) {
	fns, ok := c[module]
	if !ok {
		fns = make(map[string]map[string]Rate)
		c[module] = fns
	}
	loops, ok := fns[function]
	if !ok {
		loops = make(map[string]Rate)
		fns[function] = loops
	}
	loops[fingerprint] = r
}

// Lookup returns the entry for (module, function, fingerprint), if present.
func (c Catalog) Lookup(module, function, fingerprint string) (Rate, bool) {
	fns, ok := c[module]
	if !ok {
		return Rate{}, false
	}
	loops, ok := fns[function]
	if !ok {
		return Rate{}, false
	}
	r, ok := loops[fingerprint]
	return r, ok
}

// Load reads a catalog from path. A missing file is not an error: the passes
// treat it as "no rates assigned yet" and return an empty catalog. Malformed
// content is an error and aborts the pass invocation.
func Load(path string) (Catalog, error) {
	b, err := ioutil.ReadFile(path)
	if os.IsNotExist(err) {
		return NewCatalog(), nil
	}
	if err != nil {
		return nil, errors.Wrapf(err, "catalog: cannot read %s", path)
	}
	c := NewCatalog()
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, errors.Wrapf(err, "catalog: malformed %s", path)
	}
	return c, nil
}

// WriteTo writes the catalog to w as indented JSON. Map keys are emitted in
// sorted order so the output is deterministic, and HTML escaping is off so
// the <header>/<latch>/<exiting> fingerprint tags stay readable.
func (c Catalog) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(c); err != nil {
		return 0, errors.Wrap(err, "catalog: cannot marshal")
	}
	n, err := w.Write(buf.Bytes())
	return int64(n), err
}

// Save writes the catalog to path, replacing any previous content.
func (c Catalog) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "catalog: cannot create %s", path)
	}
	defer f.Close()
	if _, err := c.WriteTo(f); err != nil {
		return errors.Wrapf(err, "catalog: cannot write %s", path)
	}
	return nil
}

// ModuleOf returns the catalog module key for fn: its package path.
func ModuleOf(fn *ssa.Function) string {
	if fn.Pkg == nil {
		return ""
	}
	return fn.Pkg.Pkg.Path()
}

// FuncKey returns the catalog function key for fn: its name relative to the
// defining package, which distinguishes methods from plain functions.
func FuncKey(fn *ssa.Function) string {
	if fn.Pkg == nil {
		return fn.String()
	}
	return fn.RelString(fn.Pkg.Pkg)
}
