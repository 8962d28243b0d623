// Package costing computes quotation landed cost, taxes, selling margin and the
// post-approval actual-vs-quoted reconciliation.
//
// Every function here is a pure computation over in-memory values: no I/O, no
// locking, no hidden state. Callers may recompute on every edit. Malformed
// numeric input (negative amounts, non-finite floats) is defaulted to zero
// instead of being reported, since a half-filled form is the common case.
package costing
