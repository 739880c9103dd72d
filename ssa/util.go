package ssa

import (
	"sort"

	"golang.org/x/tools/go/ssa"
	"golang.org/x/tools/go/ssa/ssautil"
)

// SourceFuncs returns the functions defined in the initial (command line)
// packages of the build, including methods and anonymous functions, but not
// functions of dependency packages. The result is in source position order so
// repeated invocations see the functions in the same order.
func (info *Info) SourceFuncs() []*ssa.Function {
	initial := make(map[*ssa.Package]bool)
	for _, pkgInfo := range info.LProg.InitialPackages() {
		if pkg := info.Prog.Package(pkgInfo.Pkg); pkg != nil {
			initial[pkg] = true
		}
	}
	var fns []*ssa.Function
	for fn := range ssautil.AllFunctions(info.Prog) {
		if fn.Pkg != nil && initial[fn.Pkg] {
			fns = append(fns, fn)
		}
	}
	sort.Slice(fns, func(i, j int) bool {
		if fns[i].Pos() != fns[j].Pos() {
			return fns[i].Pos() < fns[j].Pos()
		}
		return fns[i].String() < fns[j].String()
	})
	return fns
}

// FindFunc returns the source function called name, or nil if there is none.
// Methods are matched by their package-relative string, e.g. "(T).step".
func (info *Info) FindFunc(name string) *ssa.Function {
	for _, fn := range info.SourceFuncs() {
		if fn.Name() == name {
			return fn
		}
		if fn.Pkg != nil && fn.RelString(fn.Pkg.Pkg) == name {
			return fn
		}
	}
	return nil
}
