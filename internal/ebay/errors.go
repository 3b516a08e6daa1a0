package ebay

import "fmt"

// AuthError indicates missing or malformed credentials. Callers should
// fall back to demo mode rather than retry.
type AuthError struct {
	Reason string
}

func (e *AuthError) Error() string {
	return "ebay auth: " + e.Reason
}

// NetworkError indicates a transport failure or a non-2xx response from
// the eBay API. Body holds a truncated response snippet; the client
// secret never appears in it.
type NetworkError struct {
	Status int
	Body   string
	Err    error
}

func (e *NetworkError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ebay network: %v", e.Err)
	}
	return fmt.Sprintf("ebay network: status %d: %s", e.Status, e.Body)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError indicates a 2xx response whose body lacks the expected
// fields. Not retried.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("ebay parse: %s: %v", e.Reason, e.Err)
	}
	return "ebay parse: " + e.Reason
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
