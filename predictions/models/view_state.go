package models

import "time"

// ViewState is everything one page view shows: the current result list,
// whether a prediction is in flight, and the last error message.
type ViewState struct {
	Results   []DoctorRecommendation `json:"results"`
	Loading   bool                   `json:"loading"`
	Error     string                 `json:"error,omitempty"`
	UpdatedAt time.Time              `json:"updated_at"`
}

// HasResults reports whether the result list is non-empty.
func (s ViewState) HasResults() bool {
	return len(s.Results) > 0
}

// StatePayload is the JSON shape of a page view's state on the wire.
type StatePayload struct {
	Results []DoctorRecommendation `json:"results"`
	Loading bool                   `json:"loading"`
	Error   *string                `json:"error"`
}

// Payload converts the state, using [] for no results and null for no error.
func (s ViewState) Payload() StatePayload {
	p := StatePayload{Results: s.Results, Loading: s.Loading}
	if p.Results == nil {
		p.Results = []DoctorRecommendation{}
	}
	if s.Error != "" {
		msg := s.Error
		p.Error = &msg
	}
	return p
}
