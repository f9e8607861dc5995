package llm

import (
	"errors"
	"fmt"
)

// Sentinel errors for the provider failure modes. Callers check them with
// errors.Is; adapters wrap them in *ProviderError with transport detail.
var (
	// ErrAuthFailure indicates the credential was rejected by the provider.
	ErrAuthFailure = errors.New("llm: authentication failed")

	// ErrNetworkFailure indicates the provider could not be reached or the
	// connection failed mid-call.
	ErrNetworkFailure = errors.New("llm: network failure")

	// ErrRateLimited indicates the provider's rate limit was exceeded.
	ErrRateLimited = errors.New("llm: rate limited")

	// ErrInvalidResponse indicates the provider answered but the response
	// could not be decoded into a text payload.
	ErrInvalidResponse = errors.New("llm: invalid response")

	// ErrUnavailable indicates the adapter could not be constructed, e.g.
	// a missing credential or a client that failed to initialize.
	ErrUnavailable = errors.New("llm: provider unavailable")

	// ErrEmptyInput indicates a blank resume or job description was passed
	// to Tailor. Raised before any network call is made.
	ErrEmptyInput = errors.New("llm: empty input")
)

// ProviderError carries transport detail about a failed provider call.
// It wraps one of the sentinel errors above.
type ProviderError struct {
	Provider   ProviderKind
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %q error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %q error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// statusToSentinel maps an HTTP status code from a provider API onto the
// error taxonomy. Shared by the adapters that speak HTTP directly and the
// SDK-based adapters that expose status codes on their error types.
func statusToSentinel(status int) error {
	switch {
	case status == 401 || status == 403:
		return ErrAuthFailure
	case status == 429:
		return ErrRateLimited
	case status >= 500:
		return ErrNetworkFailure
	default:
		return ErrInvalidResponse
	}
}
