// Package task defines the immutable task model: a Definition describes a
// named unit of work together with its declared dependencies, followups and
// checks; a Call binds a Definition to a concrete set of resolved arguments.
//
// Definitions never change after construction. All ordering that applies to a
// single run is carried by graph nodes, never written back into a
// Definition's own lists, so the same Definition can participate in any
// number of sessions without accumulating constraints.
package task
