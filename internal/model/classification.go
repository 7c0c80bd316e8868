package model

// ClassificationStatus is the lifecycle tag of a document's classification.
type ClassificationStatus string

const (
	// StatusPending means no classification attempt has completed yet.
	StatusPending ClassificationStatus = "pending"
	// StatusCompleted means the external classifier returned a verdict.
	StatusCompleted ClassificationStatus = "completed"
	// StatusFailed means an attempt was made and failed. Distinct from pending
	// so readers can tell "not yet classified" from "attempted and failed".
	StatusFailed ClassificationStatus = "failed"
)

// Classification is the typed classification outcome stored on a document.
// Exactly one shape is valid per status:
//   - pending:   Categories, ImportantTerms and FailureReason are empty
//   - completed: Categories is non-empty and ordered (first label is the
//     primary one), ImportantTerms may be empty
//   - failed:    FailureReason carries the human-readable cause
//
// Presentation fallbacks such as "Not Classified Yet" are never stored here.
type Classification struct {
	Status         ClassificationStatus `json:"status"`
	Categories     []string             `json:"categories,omitempty"`
	ImportantTerms []string             `json:"importantTerms,omitempty"`
	FailureReason  string               `json:"error,omitempty"`
}

// Pending returns the zero classification state for newly created documents.
func Pending() Classification {
	return Classification{Status: StatusPending}
}

// Completed builds a successful classification outcome.
func Completed(categories, importantTerms []string) Classification {
	return Classification{
		Status:         StatusCompleted,
		Categories:     categories,
		ImportantTerms: importantTerms,
	}
}

// Failed builds an explicit failure marker.
func Failed(reason string) Classification {
	return Classification{Status: StatusFailed, FailureReason: reason}
}

// PrimaryCategory returns the first category label of a completed
// classification, or "" when there is none.
func (c Classification) PrimaryCategory() string {
	if c.Status != StatusCompleted || len(c.Categories) == 0 {
		return ""
	}
	return c.Categories[0]
}
