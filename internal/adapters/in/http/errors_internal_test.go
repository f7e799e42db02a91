package http

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"orderflow/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{errs.NewValueIsInvalidError("x"), http.StatusBadRequest},
		{errs.NewValueIsRequiredError("x"), http.StatusBadRequest},
		{errs.NewValueIsOutOfRangeError("x", 0, 1, 5), http.StatusBadRequest},
		{errs.NewTokenExpiredError(time.Hour, time.Minute), http.StatusBadRequest},
		{errs.NewAccessDeniedError("order", "bob"), http.StatusForbidden},
		{errs.NewObjectNotFoundError("order", "1"), http.StatusNotFound},
		{errs.NewStateConflictError("cancel", "delivered"), http.StatusConflict},
		{errs.NewConcurrentModificationError("order", "1"), http.StatusConflict},
		{errs.NewTooManyAttemptsError("verify:order:1"), http.StatusTooManyRequests},
		{fmt.Errorf("wrapped: %w", errs.NewObjectNotFoundError("order", "1")), http.StatusNotFound},
		{errors.Join(errs.NewValueIsRequiredError("a"), errs.NewValueIsInvalidError("b")), http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
