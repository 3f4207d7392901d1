package leads

// Lead is one raw listing row pulled from the source table, before any
// normalization or host classification.
type Lead struct {
	Company   string `json:"company"`
	Role      string `json:"role"`
	Location  string `json:"location"`
	ApplyURL  string `json:"apply_url"`
	SourceURL string `json:"source_url"`
}
