package domain_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/aretw0/stateworks/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregateError_UnwrapsEverySentinel(t *testing.T) {
	err := fmt.Errorf("loading: %w", &domain.AggregateError{Errors: []error{
		&domain.ConfigurationError{State: "a", Reason: "x", Err: domain.ErrMissingState},
		&domain.ConfigurationError{Reason: "y", Err: domain.ErrUnknownSignal},
	}})

	assert.ErrorIs(t, err, domain.ErrMissingState)
	assert.ErrorIs(t, err, domain.ErrUnknownSignal)
	assert.NotErrorIs(t, err, domain.ErrShadowedTransition)
	assert.Len(t, domain.ConfigurationErrors(err), 2)
	assert.Contains(t, err.Error(), "2 configuration errors")

	var cfg *domain.ConfigurationError
	require.True(t, errors.As(err, &cfg))
	assert.Equal(t, domain.StateID("a"), cfg.State)
}

func TestConfigurationError_Message(t *testing.T) {
	err := &domain.ConfigurationError{State: "idle", Reason: "bad", Err: domain.ErrUnknownSignal}
	assert.Equal(t, `state "idle": unknown signal: bad`, err.Error())

	single := &domain.AggregateError{Errors: []error{err}}
	assert.Equal(t, err.Error(), single.Error())
	assert.Nil(t, domain.ConfigurationErrors(errors.New("plain")))
}

func TestCascadeLimitError(t *testing.T) {
	err := &domain.CascadeLimitError{Limit: 2, Path: []domain.StateID{"a", "b", "a"}}
	assert.ErrorIs(t, err, domain.ErrCascadeLimit)
	assert.Contains(t, err.Error(), "a -> b -> a")
}

func TestActionError(t *testing.T) {
	cause := errors.New("disk full")
	err := &domain.ActionError{Action: "save", State: "busy", Phase: domain.PhaseEntry, Err: cause}
	assert.ErrorIs(t, err, cause)
	assert.Equal(t, `action "save" (entry in state "busy") failed: disk full`, err.Error())
}
