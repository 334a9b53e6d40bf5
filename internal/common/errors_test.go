package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinels_AreDistinct(t *testing.T) {
	all := []error{
		ErrorNotFound,
		ErrValidation,
		ErrUnknownAccount,
		ErrInvalidCredential,
		ErrEmailAlreadyUsed,
		ErrNotAuthenticated,
		ErrDirectoryUnavailable,
		ErrInvalidToken,
	}
	for i, a := range all {
		for j, b := range all {
			if i != j {
				assert.False(t, errors.Is(a, b), "%v must not match %v", a, b)
			}
		}
	}
}

func TestSentinels_SurviveWrapping(t *testing.T) {
	err := fmt.Errorf("%w: status 503", ErrDirectoryUnavailable)
	assert.ErrorIs(t, err, ErrDirectoryUnavailable)
	assert.Contains(t, err.Error(), "status 503")
}
