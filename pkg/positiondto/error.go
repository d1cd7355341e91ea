package positiondto

// Error is the body of every non-2xx API response.
type Error struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Code != "" {
		return e.Code
	}
	return "position setup error"
}

const (
	CodeBadRequest   = "bad_request"
	CodeInvalidFEN   = "invalid_fen"
	CodeNotFound     = "not_found"
	CodeSessionLimit = "session_limit"
	CodeUnavailable  = "unavailable"
	CodeInternal     = "internal"
)
