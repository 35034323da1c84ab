package client

import "fmt"

// NetworkError means the request never produced a response: DNS, refused
// connection, timeout, cancelled context or a truncated body.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: network error: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ParseError means a response arrived but its body could not be decoded.
type ParseError struct {
	Op     string
	Status int
	Err    error
}

func (e *ParseError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s: parse error (HTTP %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s: parse error: %v", e.Op, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
