// Package triage turns the raw alert collection into an actionable,
// distance-ranked view for a given observer location. It performs no I/O
// and never fails; incomplete location data degrades to a partial order.
package triage
