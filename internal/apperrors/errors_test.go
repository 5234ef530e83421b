package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
	}{
		{Validation("bad input"), http.StatusBadRequest},
		{Conflict("already taken"), http.StatusBadRequest},
		{NotFound("missing"), http.StatusNotFound},
		{Auth("who are you"), http.StatusUnauthorized},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.status, HTTPStatus(tc.err), "for %v", tc.err)
	}
}

func TestCodeOfWrappedError(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NotFound("land not found"))
	assert.Equal(t, CodeNotFound, CodeOf(err))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestCodeOfPlainError(t *testing.T) {
	assert.Equal(t, CodeUnexpected, CodeOf(errors.New("boom")))
}
