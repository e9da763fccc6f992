package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{InvalidErr("bad", nil), http.StatusBadRequest},
		{UnauthorizedErr("login"), http.StatusUnauthorized},
		{NotFoundErr("nope"), http.StatusNotFound},
		{ConflictErr("busy"), http.StatusConflict},
		{UnavailableErr("down"), http.StatusServiceUnavailable},
		{PaymentFailedErr("card", nil), http.StatusBadGateway},
		{fmt.Errorf("wrapped: %w", ForbiddenErr("no")), http.StatusForbidden},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, HTTPStatus(tt.err), tt.err.Error())
	}
}

func TestWrapKeepsAppError(t *testing.T) {
	orig := ConflictErr("busy")
	assert.Same(t, orig, Wrap(fmt.Errorf("ctx: %w", orig)))

	w := Wrap(errors.New("db down"))
	assert.Equal(t, Internal, w.Kind)
	assert.Equal(t, genericMsg, PublicMessage(w))
	assert.Nil(t, Wrap(nil))
}
