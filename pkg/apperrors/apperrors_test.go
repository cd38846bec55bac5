package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", NotFound("goal not found"), http.StatusNotFound},
		{"forbidden", Forbidden("no access"), http.StatusForbidden},
		{"invalid input", InvalidInput("bad ID"), http.StatusBadRequest},
		{"conflict maps to 400", Conflict("already accepted"), http.StatusBadRequest},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"nil", nil, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, HTTPStatus(tt.err))
		})
	}
}

func TestKindSurvivesWrapping(t *testing.T) {
	err := fmt.Errorf("handling request: %w", NotFound("invitation not found"))

	assert.True(t, IsKind(err, KindNotFound))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(err))
}

func TestMessageFormatting(t *testing.T) {
	err := Conflict("invitation is already %s", "accepted")
	assert.Equal(t, "invitation is already accepted", err.Error())
}
