package ocr

// OutcomeStatus classifies what happened to a single region of a single
// frame.
type OutcomeStatus string

const (
	// OutcomeAccepted means the region produced a detection meeting the
	// confidence threshold.
	OutcomeAccepted OutcomeStatus = "accepted"
	// OutcomeSkipped means the region was passed over without consulting the
	// engine result: out of frame bounds, empty crop, no usable text, or
	// confidence below threshold.
	OutcomeSkipped OutcomeStatus = "skipped"
	// OutcomeFailed means the engine call itself failed.
	OutcomeFailed OutcomeStatus = "failed"
)

// Outcome is the tagged per-region result, making skip-versus-fail semantics
// inspectable instead of being inferred from error handling.
type Outcome struct {
	Status    OutcomeStatus
	Detection *Detection
	Reason    string
	Err       error
}

func accepted(det Detection) Outcome {
	return Outcome{Status: OutcomeAccepted, Detection: &det}
}

func skipped(reason string) Outcome {
	return Outcome{Status: OutcomeSkipped, Reason: reason}
}

func failed(err error) Outcome {
	return Outcome{Status: OutcomeFailed, Err: err}
}
