// Package applicant defines the internship applicant record and the rules
// that govern it.
//
// The package is dependency-free domain code: the application status
// transition graph, the proposal sub-state machine, and the registration
// date-range rule all live here so they can be exercised without any
// store or transport attached.
package applicant
