// Package deps extracts declared dependencies from repository manifests.
//
// # Overview
//
// A repository can mix ecosystems: a Python service next to a JavaScript
// frontend next to a Go CLI. Each ecosystem lives in its own subpackage and
// implements [ManifestParser]; [Registry] maps exact manifest file names to
// parsers, and [Collector] walks a directory tree and runs every recognized
// manifest through its parser.
//
// # Dependencies
//
// Every parser returns [Dependency] values:
//
//   - Name: the package name as the manifest spells it
//   - Version: a single version, or "" when the manifest gives a range
//   - Dev: development, test, build, or provided-only dependency
//   - Source: the manifest path that declared it
//
// Lockfiles report pinned versions verbatim. Declarative manifests report
// [NormalizeVersion] of the constraint, so "^1.2.3" becomes "1.2.3" and
// ">=1,<2" becomes "".
//
// # Fault Tolerance
//
// Parsing never fails. A malformed or unreadable manifest yields an empty
// list and a warning through the configured logger; see [SafeParse]. The
// same holds for import extraction.
//
// # Determinism
//
// Map-shaped manifest sections are emitted in sorted key order, list-shaped
// sections in document order, and [Collector.Collect] concatenates results
// in sorted manifest path order regardless of how many workers parsed them.
// Parsers never de-duplicate; use [Dedupe] when presenting a list.
//
// # Supported Ecosystems
//
//   - [python]: requirements.txt, pyproject.toml, Pipfile, Pipfile.lock, poetry.lock, setup.py, setup.cfg
//   - [javascript]: package.json, package-lock.json, yarn.lock
//   - [rust]: Cargo.toml, Cargo.lock
//   - [java]: pom.xml, build.gradle, build.gradle.kts
//   - [golang]: go.mod, go.sum
//   - [ruby]: Gemfile, Gemfile.lock
//   - [php]: composer.json, composer.lock
//
// [python]: github.com/matzehuels/repoinsight/pkg/deps/python
// [javascript]: github.com/matzehuels/repoinsight/pkg/deps/javascript
// [rust]: github.com/matzehuels/repoinsight/pkg/deps/rust
// [java]: github.com/matzehuels/repoinsight/pkg/deps/java
// [golang]: github.com/matzehuels/repoinsight/pkg/deps/golang
// [ruby]: github.com/matzehuels/repoinsight/pkg/deps/ruby
// [php]: github.com/matzehuels/repoinsight/pkg/deps/php
package deps
