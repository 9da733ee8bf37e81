// Package golang extracts module requirements from go.mod.
//
// Both single-line and block require directives are read; versions are
// reported as written. Requirements marked "// indirect" are reported as
// development dependencies, since nothing in the module imports them
// directly. go.sum is recognized but contributes nothing: it records
// checksums, not requirements.
//
// Imports are read with tree-sitter; standard-library paths (no dot in the
// first element) are dropped and the rest are reduced to a module root.
package golang
