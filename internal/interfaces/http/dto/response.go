package dto

// ErrorResponse is returned for requests rejected before reaching a
// submission workflow, such as payload validation failures.
type ErrorResponse struct {
	Success string `json:"success"`
	Message string `json:"message"`
}

// NewErrorResponse builds a failed response in the same wire shape as a
// workflow ServiceResult.
func NewErrorResponse(message string) ErrorResponse {
	return ErrorResponse{Success: "0", Message: message}
}
