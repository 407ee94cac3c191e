// Package memory provides an in-process implementation of store.UserStore.
// It backs the server when database.driver is "memory" and is used by the
// HTTP end-to-end tests. Data does not survive a restart.
package memory
