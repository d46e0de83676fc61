package domain

// ImportFailure records one rejected import row. Row numbers are 1-indexed
// over the data rows, excluding the header.
type ImportFailure struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}

// ImportSummary is the outcome of a best-effort bulk import: the number of
// products actually persisted plus every per-row failure. A malformed row
// never aborts the rows around it.
type ImportSummary struct {
	Persisted int             `json:"imported"`
	Failures  []ImportFailure `json:"failures,omitempty"`
}
