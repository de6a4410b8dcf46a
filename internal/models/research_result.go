package models

// ResearchResult is the parent run state once a workflow has finished.
// Exactly one of the output fields is expected to be set.
type ResearchResult struct {
	RunID    string   `json:"runId"`
	Question string   `json:"question"`
	Category Category `json:"category"`

	GeneralResponse  string `json:"subgraph1_response,omitempty"`
	AcademicResponse string `json:"subgraph2_response,omitempty"`
	ProductResponse  string `json:"subgraph3_response,omitempty"`
	GenericResponse  string `json:"generic_response,omitempty"`
}

// SetOutput stores a workflow's response under that category's field.
func (r *ResearchResult) SetOutput(c Category, response string) {
	switch c {
	case CategoryGeneral:
		r.GeneralResponse = response
	case CategoryAcademic:
		r.AcademicResponse = response
	case CategoryProduct:
		r.ProductResponse = response
	case CategoryGeneric:
		r.GenericResponse = response
	}
}
