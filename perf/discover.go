package perf

import (
	"github.com/loopperf/loopperf/loop"
	"golang.org/x/tools/go/ssa"
)

// Discovery is the catalog-producing pass. It scans every loop of every
// function it is run on, records the perforable ones in the catalog, and
// persists the catalog exactly once when Close is called at pass teardown.
// The pass never mutates the IR.
type Discovery struct {
	catalog  Catalog
	analyser *Analyser
	path     string

	*Logger
}

// NewDiscovery returns a Discovery pass writing its catalog to path on Close.
func NewDiscovery(path string, l *Logger) *Discovery {
	if l == nil {
		l = NopLogger()
	}
	if path == "" {
		path = DefaultCatalogPath
	}
	return &Discovery{
		catalog:  NewCatalog(),
		analyser: NewAnalyser(l),
		path:     path,
		Logger:   l,
	}
}

// RunOnFunction visits every loop in fn's loop forest and records the
// perforable ones under (module, function, fingerprint). It always reports
// no change.
func (d *Discovery) RunOnFunction(fn *ssa.Function) bool {
	if len(fn.Blocks) == 0 {
		return false
	}
	numLoops := 0
	for _, l := range loop.Forest(fn) {
		d.visit(fn, l, &numLoops)
	}
	if numLoops > 0 {
		d.Debugf("%s %s: %d perforable loop(s)", d.Module(), FuncKey(fn), numLoops)
	}
	return false
}

// visit records l if perforable, then descends into sub-loops regardless:
// an ineligible parent does not prune its children.
func (d *Discovery) visit(fn *ssa.Function, l *loop.Loop, numLoops *int) {
	if d.analyser.Perforable(l) {
		*numLoops++
		d.catalog.Add(ModuleOf(fn), FuncKey(fn), l.Fingerprint(), Placeholder)
	}
	for _, sub := range l.Children {
		d.visit(fn, sub, numLoops)
	}
}

// Catalog returns the catalog accumulated so far.
func (d *Discovery) Catalog() Catalog { return d.catalog }

// Close writes the accumulated catalog to the configured path. Call once at
// pass teardown so multiple functions processed by one invocation end up in a
// single consistent file.
func (d *Discovery) Close() error {
	return d.catalog.Save(d.path)
}
