// Package loop finds natural loops in SSA functions.
//
// A natural loop is identified by a back edge, i.e. an edge from a block to a
// block that dominates it. The dominated block is the loop header, the source
// of the back edge is a latch, and the loop body is every block that can reach
// a latch without passing through the header. Loops nest, so the loops of a
// function form a forest.
//
// The package also answers the structural questions the perforation passes
// ask of a loop: whether it is in simplify form, which header φ-node is its
// canonical induction variable, which value updates that variable each
// iteration, and the loop's fingerprint used as its cross-pass identity.
package loop
