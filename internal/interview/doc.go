// Package interview drives one applicant's conversational interview as an
// explicit finite-state machine, decoupled from any rendering.
//
// A session accepts free-text turns, calls the generation collaborator at
// most once per turn with no pipelining, classifies sentinel control
// replies, and enforces the anti-cheat paste policy. Progress advances by
// a fixed step per accepted turn; reaching 100 short-circuits straight to
// the completion path, so a session always terminates in a bounded number
// of turns. Completion scores the transcript and advances the lifecycle
// store to INTERVIEW_COMPLETED with the results attached.
package interview
