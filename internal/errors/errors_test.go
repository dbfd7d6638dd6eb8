package errors

import (
	e "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	err := e.New("some error")
	if IsNotFound(err) {
		t.Log("custom error type NotFound is wrongly recognized")
		t.Fail()
	}

	err = asNotFound(err)
	if !IsNotFound(err) {
		t.Log("custom error type NotFound is not recognized")
		t.Fail()
	}

	err = fmt.Errorf("fetch paper: %w", err)
	if !IsNotFound(err) {
		t.Log("wrapped NotFound is not recognized")
		t.Fail()
	}

	if !IsNotFound(&APIError{Status: http.StatusNotFound, Message: "no such paper"}) {
		t.Log("API error with status 404 is not recognized as NotFound")
		t.Fail()
	}
}

func TestFromResponse(t *testing.T) {
	res := &http.Response{StatusCode: http.StatusBadRequest}

	err := FromResponse(res, []byte(`{"message": " extractor is not trained "}`))
	apiErr, ok := AsAPIError(err)
	assert.True(t, ok)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "extractor is not trained", apiErr.Message)
	assert.Equal(t, "extractor is not trained", Message(Wrap(err, "create layer")))

	// no JSON body falls back on the status text
	err = FromResponse(&http.Response{StatusCode: http.StatusBadGateway}, []byte("<html>"))
	assert.Equal(t, "Bad Gateway", Message(err))

	assert.NoError(t, FromResponse(&http.Response{StatusCode: http.StatusCreated}, nil))
}

func TestMissingParam(t *testing.T) {
	var err error = &MissingParamError{Resource: "layer", Param: "paperId"}
	assert.True(t, IsMissingParam(Wrap(err, "list")))
	assert.Contains(t, err.Error(), "paperId")
	assert.False(t, IsMissingParam(e.New("other")))
}
