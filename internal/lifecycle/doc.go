// Package lifecycle owns the authoritative applicant collection and the
// operations that move records through the application status machine.
//
// The store is an explicit service object: in-memory, keyed by applicant
// id, mutated under a single write lock. Every other part of the portal
// (interview controller, admin console, dashboard endpoints) is a client
// of this package. Reads hand out deep copies, so a caller can never
// observe a half-applied update or mutate store-owned state; a session
// reading its own applicant after a write always sees the written value.
//
// State is volatile by design — the portal keeps records only for the
// lifetime of the process.
package lifecycle
