// Package view maps an authenticated identity and a requested page to
// the single screen the portal should present. The dispatch is a pure
// function so the precedence rules are testable in isolation from any
// transport or rendering concern.
package view
