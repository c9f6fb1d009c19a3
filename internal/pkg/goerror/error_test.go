package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestError(t *testing.T) {
	t.Run("Server", func(t *testing.T) {
		cause := errors.New("entropy source failed")
		err := NewServer(cause)

		var gerr *Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, http.StatusInternalServerError, gerr.StatusCode())
		assert.Equal(t, "Internal server error", gerr.Msg())
		assert.ErrorIs(t, err, cause)
	})

	t.Run("InvalidInputFields", func(t *testing.T) {
		err := NewInvalidInput(nil, "identifier", "identifier is required")

		var gerr *Error
		require.ErrorAs(t, err, &gerr)
		assert.Equal(t, http.StatusUnprocessableEntity, gerr.StatusCode())
		assert.Equal(t, map[string]string{"identifier": "identifier is required"}, gerr.Fields())
	})

	t.Run("InvalidInputOddPairs", func(t *testing.T) {
		var gerr *Error
		require.ErrorAs(t, NewInvalidInput(nil, "identifier"), &gerr)
		assert.Equal(t, http.StatusBadRequest, gerr.StatusCode())
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		var gerr *Error
		require.ErrorAs(t, NewInvalidFormat("bad json"), &gerr)
		assert.Equal(t, "bad json", gerr.Error())
		assert.Equal(t, TypeValidation, gerr.Type())
	})

	t.Run("Unavailable", func(t *testing.T) {
		var gerr *Error
		require.ErrorAs(t, NewBusiness("debug endpoints are disabled", CodeUnavailable), &gerr)
		assert.Equal(t, http.StatusServiceUnavailable, gerr.StatusCode())
		assert.Equal(t, "ERROR_CODE_UNAVAILABLE", gerr.Code().String())
	})
}
