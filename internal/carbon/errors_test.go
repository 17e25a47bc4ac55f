package carbon

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		message  string
	}{
		{
			name:     "validation",
			err:      NewValidationError("time_min", "non-positive process time"),
			sentinel: ErrValidation,
			message:  "time_min: non-positive process time",
		},
		{
			name:     "validation without field",
			err:      NewValidationError("", "batch is empty"),
			sentinel: ErrValidation,
			message:  "batch is empty",
		},
		{
			name:     "not found",
			err:      &NotFoundError{Kind: KindMachine, ID: "cnc_9"},
			sentinel: ErrNotFound,
			message:  `machine "cnc_9" not found`,
		},
		{
			name:     "forbidden",
			err:      &ForbiddenError{Kind: KindMaterial, ID: "mat_4140", Reason: "built-in profiles are read-only"},
			sentinel: ErrForbidden,
			message:  `material "mat_4140": built-in profiles are read-only`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.EqualError(t, tt.err, tt.message)
			assert.ErrorIs(t, tt.err, tt.sentinel)
			assert.ErrorIs(t, fmt.Errorf("wrapped: %w", tt.err), tt.sentinel)

			for _, other := range []error{ErrValidation, ErrNotFound, ErrForbidden} {
				if !errors.Is(other, tt.sentinel) {
					assert.NotErrorIs(t, tt.err, other)
				}
			}
		})
	}
}
