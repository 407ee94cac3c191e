// Package service contains the application use cases. It sits between the
// HTTP handlers in internal/api and the repositories defined in
// internal/store, applying domain rules before anything is persisted.
//
// Subpackage auth issues and verifies the bearer tokens that identify a
// caller.
//
// Services receive their dependencies through constructor injection and
// depend only on the store interfaces, never on a concrete backend.
package service
