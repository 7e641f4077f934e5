package errors

import (
	stdErrors "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestWrapPreservesCause(t *testing.T) {
	cause := stdErrors.New("connection refused")
	err := Wrap(CodeTransport, cause, "fetch cart")

	if err.Code() != CodeTransport {
		t.Fatalf("unexpected code %s", err.Code())
	}
	if !stdErrors.Is(err, cause) {
		t.Fatal("wrapped error should unwrap to its cause")
	}
}

func TestAsFindsTypedErrorInChain(t *testing.T) {
	inner := New(CodePartialFailure, "order not recorded")
	outer := fmt.Errorf("checkout: %w", inner)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error in chain")
	}
	if typed.Code() != CodePartialFailure {
		t.Fatalf("unexpected code %s", typed.Code())
	}
}

func TestMetadataForUnknownCodeFallsBack(t *testing.T) {
	meta := MetadataFor(Code("NO_SUCH_CODE"))
	if meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unexpected status %d", meta.HTTPStatus)
	}
}

func TestTransportIsRetryableBackendIsNot(t *testing.T) {
	if !MetadataFor(CodeTransport).Retryable {
		t.Fatal("transport errors must be retryable")
	}
	if MetadataFor(CodeBackend).Retryable {
		t.Fatal("backend errors must not be retryable")
	}
}

func TestIsCode(t *testing.T) {
	err := New(CodeValidation, "amount must be positive")
	if !IsCode(err, CodeValidation) {
		t.Fatal("expected validation code")
	}
	if IsCode(err, CodeGateway) {
		t.Fatal("unexpected gateway code")
	}
	if IsCode(nil, CodeValidation) {
		t.Fatal("nil error has no code")
	}
}
