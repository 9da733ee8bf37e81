// Package javascript extracts npm dependencies from package.json,
// package-lock.json (lockfile v1 through v3), and yarn.lock (classic and
// berry).
//
// package.json constraints are normalized with [deps.NormalizeVersion];
// devDependencies are development, while dependencies, peerDependencies,
// and optionalDependencies are production. Lockfiles report resolved
// versions verbatim and keep every resolved copy of a package.
//
// Imports are read with tree-sitter (ES modules, re-exports, require, and
// dynamic import) and reduced to package names, keeping the scope of
// scoped packages.
package javascript
