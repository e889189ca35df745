package relay

// Success flag values on the wire. The upstream Zucchetti integration expects
// the literal strings "1" and "0", not booleans.
const (
	SuccessYes = "1"
	SuccessNo  = "0"
)

// ServiceResult is the only externally visible outcome of a submission
// workflow. Workflows always return one, never an error.
type ServiceResult struct {
	Success string `json:"success"`
	Message string `json:"message,omitempty"`
}

// OK returns a successful result with the given message.
func OK(message string) ServiceResult {
	return ServiceResult{Success: SuccessYes, Message: message}
}

// Fail returns a failed result with the given message.
func Fail(message string) ServiceResult {
	return ServiceResult{Success: SuccessNo, Message: message}
}
