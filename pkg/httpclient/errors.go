package httpclient

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/utafrali/DermCareGo/pkg/errors"
)

// DownstreamError mirrors the error body shape returned by the catalog
// provider, e.g. {"message": "Product with id '999' not found"}.
type DownstreamError struct {
	Message string `json:"message"`
}

// ParseResponseError reads the body of a non-2xx HTTP response and
// translates it into an AppError. Structured message bodies are preserved;
// anything else falls back to the raw body. The response body is fully
// consumed and closed.
func ParseResponseError(resp *http.Response, serviceName string) error {
	defer func() { _ = resp.Body.Close() }()

	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB limit
	if err != nil {
		return fmt.Errorf("%s returned status %d (failed to read body: %w)", serviceName, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var downstream DownstreamError
	if json.Unmarshal(bodyBytes, &downstream) == nil && downstream.Message != "" {
		message = downstream.Message
	}

	qualifiedMsg := fmt.Sprintf("%s: %s", serviceName, message)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.NotFoundMsg(qualifiedMsg)
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.Unauthorized(qualifiedMsg)
	case resp.StatusCode == http.StatusServiceUnavailable:
		return apperrors.ServiceUnavailable(qualifiedMsg)
	case resp.StatusCode >= 500:
		return fmt.Errorf("%s server error (%d): %s", serviceName, resp.StatusCode, message)
	case IsClientError(resp.StatusCode):
		return apperrors.InvalidInput(qualifiedMsg)
	default:
		return fmt.Errorf("%s returned status %d: %s", serviceName, resp.StatusCode, message)
	}
}

// IsClientError returns true if the HTTP status code is a 4xx client error.
func IsClientError(status int) bool {
	return status >= 400 && status < 500
}
