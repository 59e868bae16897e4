package models

// WarningCode categorizes warnings by subsystem.
// W1xxx = ingestion, W2xxx = coverage.
type WarningCode string

const (
	WarnInvalidBar      WarningCode = "W1001" // bar failed validation and was dropped
	WarnDuplicateBar    WarningCode = "W1002" // same key twice in one batch, last one kept
	WarnSkippedCSVRow   WarningCode = "W1003" // CSV row could not be parsed
	WarnInvalidRecord   WarningCode = "W1004" // security or exchange row failed validation
	WarnNoCoverage      WarningCode = "W2001" // security has no price history yet
	WarnCoverageRebuilt WarningCode = "W2002" // update_dt/check_dt were reset by a rebuild
)

// Warning represents a non-fatal issue encountered during processing.
type Warning struct {
	Code    WarningCode `json:"code"`
	Message string      `json:"message"`
}
