package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindAndCodeSurviveWrapping(t *testing.T) {
	base := NotAuthorized(CodeNotEnrolled, "not enrolled")
	wrapped := fmt.Errorf("starting attempt: %w", base)

	assert.Equal(t, KindNotAuthorized, KindOf(wrapped))
	assert.Equal(t, CodeNotEnrolled, CodeOf(wrapped))
}

func TestUntypedErrorsAreInternal(t *testing.T) {
	err := errors.New("disk on fire")
	assert.Equal(t, KindInternal, KindOf(err))
	assert.Empty(t, CodeOf(err))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(err))
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{NotFound(CodeQuizUnavailable, "gone"), http.StatusNotFound},
		{NotAuthorized(CodeNotEnrolled, "no"), http.StatusForbidden},
		{InvalidState(CodeAttemptExpired, "late"), http.StatusBadRequest},
		{Conflict(CodeAttemptInFlight, "racing"), http.StatusConflict},
		{Internal("boom", errors.New("cause")), http.StatusInternalServerError},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, HTTPStatus(c.err), c.err.Error())
	}
}

func TestErrorMessageIncludesCause(t *testing.T) {
	cause := errors.New("connection refused")
	err := Internal("failed to load quiz", cause)
	assert.Equal(t, "failed to load quiz: connection refused", err.Error())
	assert.ErrorIs(t, err, cause)
}
