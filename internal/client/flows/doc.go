// Package flows holds the two interactive use cases of the client: submitting
// a leave request and reviewing the team's requests.
//
// Each flow validates its input before touching the repository and refuses
// re-entry while a call is in flight (common.ErrBusy). Failures leave the
// flow's state as it was, so the user can correct and retry.
package flows
