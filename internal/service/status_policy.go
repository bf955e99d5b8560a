package service

import (
	"errors"
	"fmt"

	"burns-farm-shop/internal/domain"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// TransitionPolicy decides which order status changes are allowed
type TransitionPolicy interface {
	Allow(from, to domain.OrderStatus) error
}

// Policy names accepted in configuration
const (
	PolicyUnrestricted = "unrestricted"
	PolicyForwardOnly  = "forward-only"
)

// NewTransitionPolicy returns the policy registered under name
func NewTransitionPolicy(name string) (TransitionPolicy, error) {
	switch name {
	case "", PolicyUnrestricted:
		return UnrestrictedPolicy{}, nil
	case PolicyForwardOnly:
		return ForwardOnlyPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown status policy %q", name)
}

// UnrestrictedPolicy allows any status to follow any other
type UnrestrictedPolicy struct{}

func (UnrestrictedPolicy) Allow(_, to domain.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	return nil
}

// ForwardOnlyPolicy allows pending→confirmed→preparing→ready→delivered one step at a time,
// cancellation from any non-terminal status, and nothing out of delivered or cancelled.
type ForwardOnlyPolicy struct{}

var nextStatus = map[domain.OrderStatus]domain.OrderStatus{
	domain.StatusPending:   domain.StatusConfirmed,
	domain.StatusConfirmed: domain.StatusPreparing,
	domain.StatusPreparing: domain.StatusReady,
	domain.StatusReady:     domain.StatusDelivered,
}

func (ForwardOnlyPolicy) Allow(from, to domain.OrderStatus) error {
	if !to.Valid() {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidTransition, to)
	}
	if from == to {
		return nil
	}
	if from.Terminal() {
		return fmt.Errorf("%w: order is already %s", ErrInvalidTransition, from)
	}
	if to == domain.StatusCancelled || nextStatus[from] == to {
		return nil
	}
	return fmt.Errorf("%w: %s cannot follow %s", ErrInvalidTransition, to, from)
}
