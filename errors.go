package tips

import (
	"fmt"
	"net/http"
)

// TransportFailure is a network error or a non-2xx answer from the tip service
type TransportFailure struct {
	Endpoint   string
	StatusCode int
	Err        error
}

func (e *TransportFailure) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Endpoint, e.Err)
	}
	return fmt.Sprintf("%s: HTTP %d %s", e.Endpoint, e.StatusCode, http.StatusText(e.StatusCode))
}

func (e *TransportFailure) Unwrap() error { return e.Err }

// ListingRejection is a well-formed listing payload carrying an Erro or Info envelope
type ListingRejection struct {
	Kind    string // "Erro" or "Info"
	Message string
}

func (e *ListingRejection) Error() string {
	if e.Message == "" {
		return e.Kind
	}
	return e.Kind + ": " + e.Message
}

// AnalysisRejection is a non-2xx answer from the analysis endpoint
type AnalysisRejection struct {
	StatusCode int
	Status     string
}

func (e *AnalysisRejection) Error() string {
	if e.Status != "" {
		return "analysis rejected: " + e.Status
	}
	return fmt.Sprintf("analysis rejected: HTTP %d", e.StatusCode)
}
