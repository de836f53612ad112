package httpserver

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/dmitrijs2005/cloudygo/internal/common"
	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{common.ErrInvalidInput, http.StatusBadRequest},
		{common.ErrorAlreadyExists, http.StatusBadRequest},
		{common.ErrIntegrity, http.StatusBadRequest},
		{fmt.Errorf("consume: %w", common.ErrTokenNotFound), http.StatusBadRequest},
		{common.ErrorUnauthorized, http.StatusUnauthorized},
		{common.ErrInvalidCredential, http.StatusUnauthorized},
		{common.ErrEmailNotVerified, http.StatusForbidden},
		{common.ErrorNotFound, http.StatusNotFound},
		{common.ErrConfiguration, http.StatusInternalServerError},
		{errors.New("db error: broken pipe"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		got, msg := statusFor(tt.err)
		assert.Equal(t, tt.want, got, "statusFor(%v)", tt.err)
		assert.NotEmpty(t, msg)
		if got == http.StatusInternalServerError {
			assert.Equal(t, "Internal error", msg, "server errors must not leak detail")
		}
	}
}
