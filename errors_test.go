package tkb

import (
	"errors"
	"testing"
)

func TestIsNotFound(t *testing.T) {
	err := errors.New("some error")
	if IsNotFound(err) {
		t.Log("custom error type NotFound is wrongly recognized")
		t.Fail()
	}

	err = NewNotFound("no paper with id %q", "P1")
	if !IsNotFound(err) {
		t.Log("custom error type NotFound is not recognized")
		t.Fail()
	}
}

func TestErrorMessage(t *testing.T) {
	err := &APIError{Status: 500, Message: "training in progress"}
	if ErrorMessage(err) != "training in progress" {
		t.Errorf("unexpected message %q", ErrorMessage(err))
	}

	if ErrorMessage(errors.New("boom")) != "boom" {
		t.Errorf("plain errors should keep their text")
	}
}
