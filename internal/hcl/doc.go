// Package hcl loads task definitions from HCL taskfiles. It parses `task`
// blocks, translates them into immutable task definitions with shell command
// bodies, and returns a populated registry. The engine core never touches
// task source; this package is its only parser.
package hcl
