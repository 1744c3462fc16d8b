// Package services defines the error taxonomy shared by the scan pipeline
// and the context annotations used to correlate log output.
//
// Errors fall into three tiers: validation errors (bad arguments, caught
// before any external call), external tool errors (recoverable, carrying a
// safe user-facing message plus a diagnostic detail string), and unavailable
// errors (a missing runtime dependency such as the OCR engine, which should
// abort the run rather than be retried per call).
package services
