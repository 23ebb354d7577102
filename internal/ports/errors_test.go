package ports

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyStatus(t *testing.T) {
	tests := []struct {
		code int
		want error
	}{
		{429, ErrRateLimited},
		{418, ErrBanned},
		{400, ErrInvalidRequest},
		{401, ErrUnauthorized},
		{403, ErrForbidden},
		{404, ErrNotFound},
		{500, ErrServerError},
		{502, ErrUnknown},
		{503, ErrUnknown},
		{409, ErrUnknown},
	}
	for _, tt := range tests {
		assert.ErrorIs(t, ClassifyStatus(tt.code), tt.want, "status %d", tt.code)
	}
}

func TestDataFetchError_Unwrap(t *testing.T) {
	cause := errors.New("boom")
	err := error(&DataFetchError{
		Op:         "GetTicker24h",
		Kind:       KindHTTP,
		Class:      ErrRateLimited,
		StatusCode: 429,
		Err:        cause,
	})

	assert.ErrorIs(t, err, ErrRateLimited)
	assert.ErrorIs(t, err, cause)
	assert.NotErrorIs(t, err, ErrBanned)
	assert.Contains(t, err.Error(), "GetTicker24h")
	assert.Contains(t, err.Error(), "429")

	var fetchErr *DataFetchError
	assert.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, KindHTTP, fetchErr.Kind)
}
