package errors

import (
	"errors"
	"testing"
)

func TestAppErrorMessage(t *testing.T) {
	err := NewPreconditionError("deployer balance too low", map[string]interface{}{
		"required": "0.00401",
		"balance":  "0",
	})

	if !IsType(err, PreconditionError) {
		t.Fatalf("expected precondition error, got %s", err.Type)
	}
	want := "PRECONDITION_ERROR: deployer balance too low"
	if err.Error() != want {
		t.Errorf("unexpected message: %q", err.Error())
	}
}

func TestAppErrorWrapsCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewFundingError("transfer rejected", cause, nil)

	if !errors.Is(err, cause) {
		t.Error("expected wrapped cause to be reachable via errors.Is")
	}
	if IsType(err, DeploymentError) {
		t.Error("funding error should not match deployment type")
	}
}

func TestIsTypeOnPlainError(t *testing.T) {
	if IsType(errors.New("plain"), InternalError) {
		t.Error("plain errors must not match any AppError type")
	}
}
