package core

import (
	"encoding/json"
	"io"
)

// MarshalAssessment pretty-prints an assessment as JSON for humans or
// pipelines.
func MarshalAssessment(w io.Writer, a Assessment) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(a)
}

// UnmarshalAssessment decodes assessment JSON, useful for ingestion tests.
func UnmarshalAssessment(r io.Reader) (Assessment, error) {
	var a Assessment
	if err := json.NewDecoder(r).Decode(&a); err != nil {
		return Assessment{}, err
	}
	return a, nil
}
