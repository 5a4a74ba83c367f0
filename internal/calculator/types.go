package calculator

// EvaluateRequest is the JSON body for POST /calculator/evaluate and
// POST /calculator/sessions/{id}/evaluate. Settings only apply to the
// one-shot endpoint.
type EvaluateRequest struct {
	Equation *string       `json:"equation"`
	Settings *SettingsPatch `json:"settings,omitempty"`
}

// EvaluateResponse is the JSON response for both evaluate endpoints.
type EvaluateResponse struct {
	SessionID      string  `json:"session_id,omitempty"`
	Equation       string  `json:"equation"`
	Result         float64 `json:"result"`
	Formatted      string  `json:"formatted"`
	IntegerPart    float64 `json:"integer_part"`
	FractionalPart float64 `json:"fractional_part"`
}

// FacultyResponse is the JSON response for GET /calculator/faculty/{n}.
type FacultyResponse struct {
	N      int `json:"n"`
	Result int `json:"result"`
}

// CreateSessionRequest is the optional JSON body for POST /calculator/sessions.
type CreateSessionRequest struct {
	Settings SettingsPatch `json:"settings"`
}

// SessionResponse describes a stored session.
type SessionResponse struct {
	ID             string   `json:"id"`
	Settings       Settings `json:"settings"`
	CurrentResult  float64  `json:"current_result"`
	IntegerPart    float64  `json:"integer_part"`
	FractionalPart float64  `json:"fractional_part"`
	LastResult     string   `json:"last_result,omitempty"`
}

// HistoryResponse lists a session's calculations, most recent first.
type HistoryResponse struct {
	ID      string        `json:"id"`
	History []Calculation `json:"history"`
}
