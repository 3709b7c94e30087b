package adaptererrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestExitCodeMapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("boom")

	cases := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitOK},
		{"invalid input", NewInvalidInputError(cause), ExitInvalidInput},
		{"unknown resource type", NewUnknownResourceTypeError("Nope/Missing", nil), ExitUnknownResource},
		{"unsupported operation", NewUnsupportedOperationError("GoTest/ReadOnly", "Set"), ExitUnknownResource},
		{"resource operation failed", NewResourceOperationError("GoTest/Get", "Get", cause), ExitOperationFailed},
		{"encoding failed", NewEncodingError(cause), ExitOperationFailed},
		{"untyped", cause, ExitOperationFailed},
		{"wrapped invalid input", fmt.Errorf("context: %w", NewInvalidInputError(cause)), ExitInvalidInput},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.want, ExitCode(tc.err))
		})
	}
}

func TestErrorsUnwrapCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("root cause")

	for _, err := range []error{
		NewInvalidInputError(cause),
		NewResourceOperationError("GoTest/Get", "Get", cause),
		NewEncodingError(cause),
	} {
		require.ErrorIs(t, err, cause)
	}
}

func TestErrorsMatchByType(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, NewInvalidInputError(nil), &InvalidInputError{})
	require.ErrorIs(t, NewUnsupportedOperationError("A/B", "Set"), &UnsupportedOperationError{})
	require.NotErrorIs(t, NewInvalidInputError(nil), &EncodingError{})
}

func TestUnknownResourceTypeErrorListsKnownTypes(t *testing.T) {
	t.Parallel()

	err := NewUnknownResourceTypeError("Nope/Missing", []string{"Zeta/Type", "Alpha/Type"})
	require.Contains(t, err.Error(), "Nope/Missing")
	require.Contains(t, err.Error(), "Alpha/Type, Zeta/Type")
}
