package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, CodeSuccess},
		{"no result sentinel", ErrNoAvailableResult, CodeNoAvailableResult},
		{"wrapped no result", fmt.Errorf("retrieving 7: %w", ErrNoAvailableResult), CodeNoAvailableResult},
		{"invalid subscription", ErrInvalidSubscription, CodeFail},
		{"app error keeps code", New(ErrNoAvailableResult, CodeNoAvailableResult, "doc 3"), CodeNoAvailableResult},
		{"wrapped app error", fmt.Errorf("start: %w", Newf(ErrInvalidSubscription, CodeFail, "query %d", 1)), CodeFail},
		{"unknown", fmt.Errorf("boom"), CodeFail},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestAppErrorUnwrap(t *testing.T) {
	err := Newf(ErrInvalidSubscription, CodeFail, "query %d has no keywords", 4)
	assert.True(t, Is(err, ErrInvalidSubscription))
	assert.Equal(t, "invalid subscription: query 4 has no keywords", err.Error())

	var appErr *AppError
	assert.True(t, As(fmt.Errorf("outer: %w", err), &appErr))
	assert.Equal(t, CodeFail, appErr.Code)
}

func TestCodeString(t *testing.T) {
	assert.Equal(t, "EC_SUCCESS", CodeSuccess.String())
	assert.Equal(t, "EC_NO_AVAIL_RES", CodeNoAvailableResult.String())
	assert.Equal(t, "EC_FAIL", CodeFail.String())
	assert.Equal(t, "Code(9)", Code(9).String())
}
