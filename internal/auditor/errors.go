package auditor

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAPIKey means no API key was configured for the selected provider.
	ErrMissingAPIKey = errors.New("api key is not set")
	// ErrEmptyInput means the note text was empty after trimming whitespace.
	ErrEmptyInput = errors.New("note text is empty")
	// ErrEmptyResponse means the remote answered 2xx but carried no message content.
	ErrEmptyResponse = errors.New("no message content in response")
	// ErrParse means the remote answered 2xx with a body that was not valid JSON.
	ErrParse = errors.New("malformed response body")
)

// RemoteError is a non-2xx answer from the completion endpoint. The body is
// kept verbatim for the diagnostic log; it never contains the API key.
type RemoteError struct {
	Status int
	Body   string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote returned status %d: %s", e.Status, e.Body)
}
