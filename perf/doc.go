// Package perf implements loop perforation over SSA IR as two coordinated,
// file-mediated passes.
//
// The Discovery pass scans every loop of the functions it is run on, decides
// eligibility with the Analyser, and writes a catalog of perforable loops
// keyed by module name, function name and loop fingerprint. An external
// rate-assignment step replaces the catalog's placeholder leaves with integer
// rates. The Rewriter pass loads the resulting rate table and, for each loop
// it still recognises by fingerprint, replaces the increment step of the
// loop's induction variable with the assigned rate, trading accuracy for
// fewer executed iterations.
//
// The two passes share no in-memory state and may run in separate process
// invocations; the catalog file is their only channel.
package perf
