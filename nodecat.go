// Package nodecat maintains a local, freshness-bounded mirror of a remote
// automation node-type catalog, validates node-type references against it
// with fuzzy-match suggestions on miss, and shrinks large structured
// responses to fit a fixed output budget.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., sqlite/, http/) or function
// (registry/, budget/).
package nodecat
