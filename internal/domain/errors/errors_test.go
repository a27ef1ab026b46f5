package errors

import (
	stderrors "errors"
	"strings"
	"testing"

	"github.com/kmeans4/phenofarm/internal/domain/model"
)

func TestInvalidTransitionErrorMessage(t *testing.T) {
	err := NewInvalidTransition(model.OrderStatusPending, model.OrderStatusDelivered)
	msg := err.Error()
	if !strings.Contains(msg, "PENDING") || !strings.Contains(msg, "DELIVERED") {
		t.Fatalf("expected transition endpoints in message, got %q", msg)
	}
	if !strings.Contains(msg, "CONFIRMED") {
		t.Fatalf("expected allowed set in message, got %q", msg)
	}
}

func TestInvalidTransitionErrorUnwrap(t *testing.T) {
	err := NewInvalidTransition(model.OrderStatusShipped, model.OrderStatusPending)
	if !stderrors.Is(err, ErrInvalidTransition) {
		t.Fatal("expected errors.Is to match the sentinel")
	}

	var transition *InvalidTransitionError
	if !stderrors.As(err, &transition) {
		t.Fatal("expected errors.As to recover the typed error")
	}
	if transition.From != model.OrderStatusShipped || transition.To != model.OrderStatusPending {
		t.Fatalf("unexpected endpoints %s -> %s", transition.From, transition.To)
	}
}

func TestNewInvalidTransitionFillsAllowedSet(t *testing.T) {
	err := NewInvalidTransition(model.OrderStatusConfirmed, model.OrderStatusDelivered)
	want := model.AllowedNext(model.OrderStatusConfirmed)
	if len(err.Allowed) != len(want) {
		t.Fatalf("expected %d allowed states, got %d", len(want), len(err.Allowed))
	}
	for i := range want {
		if err.Allowed[i] != want[i] {
			t.Fatalf("allowed[%d]: expected %s, got %s", i, want[i], err.Allowed[i])
		}
	}
}
