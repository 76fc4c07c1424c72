package jsonapi

import (
	"testing"
)

func TestErrorConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        Error
		wantStatus int
		wantCode   string
		wantDetail string
	}{
		{"bad request", ErrBadRequest("malformed body"), 400, "bad_request", "malformed body"},
		{"not found", ErrNotFound("application"), 404, "not_found", "The requested application was not found"},
		{"not found with id", ErrNotFoundWithID("application", "prime"), 404, "not_found", "The application with ID 'prime' was not found"},
		{"method not allowed", ErrMethodNotAllowed("DELETE"), 405, "method_not_allowed", "The DELETE method is not allowed for this resource"},
		{"rate limited default", ErrRateLimited(""), 429, "rate_limit_exceeded", "Rate limit exceeded"},
		{"internal default", ErrInternal(""), 500, "internal_error", "An internal error occurred"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.StatusCode(); got != tt.wantStatus {
				t.Errorf("StatusCode() = %d, want %d", got, tt.wantStatus)
			}
			if tt.err.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", tt.err.Code, tt.wantCode)
			}
			if tt.err.Detail != tt.wantDetail {
				t.Errorf("Detail = %q, want %q", tt.err.Detail, tt.wantDetail)
			}
		})
	}
}

func TestErrorSource(t *testing.T) {
	base := ErrBadRequest("devices must be a number or string")

	withPointer := base.WithPointer("/devices")
	if withPointer.Source == nil || withPointer.Source.Pointer != "/devices" {
		t.Errorf("Source = %+v", withPointer.Source)
	}
	if base.Source != nil {
		t.Error("WithPointer must not modify the receiver")
	}
}

func TestStatusCode_Invalid(t *testing.T) {
	if got := (Error{Status: "abc"}).StatusCode(); got != 0 {
		t.Errorf("StatusCode() = %d, want 0", got)
	}
}
