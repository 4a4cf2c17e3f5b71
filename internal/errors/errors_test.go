package errors

import (
	stderrors "errors"
	"testing"
)

func TestInvalidInputErrorMessage(t *testing.T) {
	err := InvalidInput("find_all_duplicates", stderrors.New("min_node_count must be >= 0"))
	if err.Kind != KindInvalidInput {
		t.Fatalf("Kind = %s, want %s", err.Kind, KindInvalidInput)
	}
	if err.Error() == "" {
		t.Fatalf("Error() returned an empty string")
	}
}

func TestPersistenceErrorIncludesFilePath(t *testing.T) {
	err := Persistence("index.save", "/var/astograph/index", stderrors.New("disk full"))
	msg := err.Error()
	if msg == "" {
		t.Fatalf("Error() returned an empty string")
	}
	if err.FilePath != "/var/astograph/index" {
		t.Fatalf("FilePath = %q, want /var/astograph/index", err.FilePath)
	}
}

func TestErrorUnwrap(t *testing.T) {
	underlying := stderrors.New("boom")
	err := InvalidInput("op", underlying)
	if stderrors.Unwrap(err) != underlying {
		t.Fatalf("Unwrap() did not return the underlying error")
	}
	if !stderrors.Is(err, underlying) {
		t.Fatalf("errors.Is(err, underlying) = false, want true")
	}
}

func TestErrorAs(t *testing.T) {
	var wrapped error = InvalidInput("op", stderrors.New("bad input"))
	var target *Error
	if !stderrors.As(wrapped, &target) {
		t.Fatalf("errors.As failed to unwrap to *Error")
	}
	if target.Kind != KindInvalidInput {
		t.Fatalf("target.Kind = %s, want %s", target.Kind, KindInvalidInput)
	}
}
