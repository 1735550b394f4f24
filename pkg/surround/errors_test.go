package surround_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agbru/surround/pkg/surround"
)

func TestCompositionError(t *testing.T) {
	err := surround.NewCompositionError("pre-filter %d must not be nil", 2)

	var compErr surround.CompositionError
	require.ErrorAs(t, err, &compErr)
	assert.Equal(t, "pre-filter 2 must not be nil", err.Error())
}

func TestStageErrorUnwrap(t *testing.T) {
	cause := errors.New("short read")
	err := &surround.StageError{Stage: "parse", Cause: cause}

	assert.Contains(t, err.Error(), "parse")
	assert.Contains(t, err.Error(), "short read")
	assert.ErrorIs(t, err, cause)
}

func TestFrozenStateError(t *testing.T) {
	err := surround.FrozenStateError{Field: "score"}
	assert.Contains(t, err.Error(), "score")
	assert.Contains(t, err.Error(), "frozen")
}
