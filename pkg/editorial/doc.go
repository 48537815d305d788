// Package editorial provides the content-authoring core of a CMS backend:
// an immutable Content aggregate with validated mutators, a four-state
// lifecycle with a legality predicate, role-based authorization policy, and a
// command service that composes them against a pluggable repository.
//
// Repository implementations (memory, Postgres) live under subpackages. The
// HTTP surface under api/ and the configuration loader under config/ are thin
// collaborators; all business rules live in this package.
//
// Every mutation of a Content value yields a fresh instance; callers never
// observe in-place changes. All failures are returned as values built from the
// sentinel errors in errors.go and are safe to test with errors.Is.
package editorial
