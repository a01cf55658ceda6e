package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestToDomainError(t *testing.T) {
	notFound := NewNotFound("ticket", map[string]any{"id": "T0001"})

	wrapped := fmt.Errorf("loading: %w", notFound)
	domainErr := ToDomainError(wrapped)
	if domainErr.Code != "NOT_FOUND" || domainErr.HTTPStatus != http.StatusNotFound {
		t.Fatalf("domainErr = %+v", domainErr)
	}

	plain := ToDomainError(errors.New("boom"))
	if plain.Code != "INTERNAL_ERROR" || plain.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("plain = %+v", plain)
	}

	if ToDomainError(nil) != nil {
		t.Fatal("nil error mapped to a DomainError")
	}
}

func TestIsNotFound(t *testing.T) {
	if !IsNotFound(NewNotFound("client", nil)) {
		t.Error("NewNotFound not recognized")
	}
	if IsNotFound(NewValidationError("bad", nil)) {
		t.Error("validation error recognized as not found")
	}
	if IsNotFound(nil) {
		t.Error("nil recognized as not found")
	}
}

func TestTransportFailureWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewTransportFailure("readSheet", cause)

	domainErr := ToDomainError(err)
	if domainErr.Code != "TRANSPORT_FAILURE" || domainErr.HTTPStatus != http.StatusBadGateway {
		t.Fatalf("domainErr = %+v", domainErr)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause not reachable through Unwrap")
	}
}
