package dedge

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorKind classifies a batch failure so the screening pipeline can decide
// what to tell the user. Anything not recognized is generic.
type ErrorKind int

const (
	// KindGeneric covers transport failures and unrecognized API errors.
	KindGeneric ErrorKind = iota

	// KindAddressValidation means the service rejected one or more addresses
	// in the batch.
	KindAddressValidation

	// KindRateLimit means the daily request quota is exhausted.
	KindRateLimit
)

func (k ErrorKind) String() string {
	switch k {
	case KindAddressValidation:
		return "address_validation"
	case KindRateLimit:
		return "rate_limit"
	default:
		return "generic"
	}
}

// APIError is a non-2xx response from the analytics API. Detail carries the
// service's human-readable reason and drives classification.
type APIError struct {
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("dedge API error: status %d", e.StatusCode)
	}
	return fmt.Sprintf("dedge API error: status %d: %s", e.StatusCode, e.Detail)
}

// Classify maps an error-detail string from the API to an ErrorKind.
func Classify(detail string) ErrorKind {
	d := strings.ToLower(detail)
	switch {
	case strings.Contains(d, "invalid") && strings.Contains(d, "address"):
		return KindAddressValidation
	case strings.Contains(d, "rate limit") || strings.Contains(d, "daily limit"):
		return KindRateLimit
	default:
		return KindGeneric
	}
}

// ClassifyErr classifies any error from the client. API errors classify by
// their detail field; everything else (network, decode) is generic.
func ClassifyErr(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return Classify(apiErr.Detail)
	}
	return KindGeneric
}
