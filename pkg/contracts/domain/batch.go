package domain

// OutcomeStatus is the terminal state of one input in a batch
type OutcomeStatus string

const (
	OutcomeProcessed OutcomeStatus = "processed"
	OutcomeSkipped   OutcomeStatus = "skipped"
)

// FileOutcome records what happened to one input of a batch.
type FileOutcome struct {
	Name    string        `json:"name"`
	Status  OutcomeStatus `json:"status"`
	Records int           `json:"records"`
	Kind    string        `json:"kind,omitempty"`   // error type when skipped
	Reason  string        `json:"reason,omitempty"` // error message when skipped
}

// BatchResult is the accumulated output of a batch run plus per-input outcomes
// in input order.
type BatchResult struct {
	Table    *OutputTable  `json:"-"`
	Outcomes []FileOutcome `json:"outcomes"`
}

// Processed returns the outcomes of inputs that contributed records
func (b *BatchResult) Processed() []FileOutcome {
	return b.filter(OutcomeProcessed)
}

// Skipped returns the outcomes of inputs that were excluded from the output
func (b *BatchResult) Skipped() []FileOutcome {
	return b.filter(OutcomeSkipped)
}

func (b *BatchResult) filter(status OutcomeStatus) []FileOutcome {
	if b == nil {
		return nil
	}
	var out []FileOutcome
	for _, o := range b.Outcomes {
		if o.Status == status {
			out = append(out, o)
		}
	}
	return out
}
