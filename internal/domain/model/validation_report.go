package model

// ValidationReport describes how a raw payload compares to the expected feature set.
type ValidationReport struct {
	TypeIssues     map[string]string `json:"type_issues"`
	SampleValues   *Payload          `json:"sample_values"`
	ReceivedFields []string          `json:"received_fields"`
	MissingFields  []string          `json:"missing_fields"`
	ExtraFields    []string          `json:"extra_fields"`
	FieldCount     int               `json:"field_count"`
	IsValid        bool              `json:"is_valid"`
}
