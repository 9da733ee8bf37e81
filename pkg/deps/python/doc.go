// Package python extracts Python dependencies from requirements files,
// pyproject.toml (PEP 621 and Poetry), Pipfile, Pipfile.lock, poetry.lock,
// setup.py, and setup.cfg.
//
// Lockfiles (poetry.lock, Pipfile.lock) report pinned versions verbatim.
// Declarative manifests report [deps.NormalizeVersion] of each constraint.
// Development dependencies are Poetry dev-dependencies and non-main groups,
// PEP 621 optional groups with development names, PEP 735 dependency
// groups, Pipfile dev-packages, and extras/tests requirements in setup files.
//
// Imports are read with tree-sitter and reduced to top-level module names.
package python
