package artifactory

import "fmt"

// maxBodyInError caps how much of a response body lands in an error.
const maxBodyInError = 2048

// TransportError wraps a request that never produced an HTTP status:
// DNS, connection, TLS failures and timeouts.
type TransportError struct {
	Method string
	URL    string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Method, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// UploadRejectedError is returned when the store refuses a PUT.
type UploadRejectedError struct {
	Status int
	Body   string
}

func (e *UploadRejectedError) Error() string {
	return fmt.Sprintf("upload rejected with status %d: %s", e.Status, e.Body)
}

// QueryFailedError is returned when the AQL endpoint answers with a failure.
type QueryFailedError struct {
	Status int
	Body   string
}

func (e *QueryFailedError) Error() string {
	return fmt.Sprintf("query failed with status %d: %s", e.Status, e.Body)
}

// DownloadFailedError is returned when a GET answers with a failure.
type DownloadFailedError struct {
	Status int
	URL    string
}

func (e *DownloadFailedError) Error() string {
	return fmt.Sprintf("download of %s failed with status %d", e.URL, e.Status)
}

// IsFailure is the single status policy of the client: >= 400 fails.
func IsFailure(status int) bool {
	return status >= 400
}
