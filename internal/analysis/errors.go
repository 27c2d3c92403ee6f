package analysis

import "fmt"

// APICallError represents an error calling the LLM
type APICallError struct {
	Message string
	Cause   error
}

func (e *APICallError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("API call failed: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("API call failed: %s", e.Message)
}

func (e *APICallError) Unwrap() error {
	return e.Cause
}

// ParseError represents an error parsing the model's analysis
type ParseError struct {
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("failed to parse analysis result: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("failed to parse analysis result: %s", e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}
