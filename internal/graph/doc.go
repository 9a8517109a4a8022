// Package graph builds and orders the invocation DAG for one session. It
// expands an ordered list of explicitly requested calls into a deduplicated
// graph of invocation nodes connected by must-run-before edges, then yields a
// topological execution order with first-discovery tie-breaking.
package graph
