// Package ruby extracts gem dependencies from Gemfile and Gemfile.lock.
//
// Gemfile versions come from a single version argument normalized with
// [deps.NormalizeVersion]; gems with several constraint arguments have no
// single version. Gems inside a development or test group block, or with a
// matching group: option, are development. Gemfile.lock reports every gem
// in the GEM specs section with its locked version.
//
// Imports come from require statements; require_relative and standard
// library requires are dropped.
package ruby
