// Package rust extracts crate dependencies from Cargo.toml and Cargo.lock.
//
// Cargo.toml covers [dependencies], [dev-dependencies], [build-dependencies],
// [workspace.dependencies], and every [target.<cfg>.*] variant of those.
// Dev and build dependencies are reported as development. Cargo.lock lists
// every locked package with its exact version.
//
// Imports come from `use` and `extern crate` items, reduced to the crate
// name; std, core, alloc, and path-relative roots are dropped.
package rust
