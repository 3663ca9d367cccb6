package embedding

import "fmt"

// HTTPError is returned for any non-2xx answer from the inference service.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("embedding: http %d", e.StatusCode)
	}
	return fmt.Sprintf("embedding: http %d: %s", e.StatusCode, e.Body)
}

// HTTPStatus exposes the status code to retry classification.
func (e *HTTPError) HTTPStatus() int { return e.StatusCode }
