package constants

// DocStatus is the canonical outcome for rows in document_outcome.
type DocStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusOK      DocStatus = "OK"      // record produced
	DocStatusSkipped DocStatus = "SKIPPED" // unsupported extension
	DocStatusFailed  DocStatus = "FAILED"  // adaptation failed, no record
)
