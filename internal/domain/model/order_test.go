package model

import (
	"reflect"
	"testing"
)

func TestCanTransitionTable(t *testing.T) {
	cases := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		ok   bool
	}{
		{"pending to confirmed", OrderStatusPending, OrderStatusConfirmed, true},
		{"pending to cancelled", OrderStatusPending, OrderStatusCancelled, true},
		{"pending skips to shipped", OrderStatusPending, OrderStatusShipped, false},
		{"confirmed to processing", OrderStatusConfirmed, OrderStatusProcessing, true},
		{"confirmed to cancelled", OrderStatusConfirmed, OrderStatusCancelled, true},
		{"confirmed skips to delivered", OrderStatusConfirmed, OrderStatusDelivered, false},
		{"processing to shipped", OrderStatusProcessing, OrderStatusShipped, true},
		{"processing to cancelled", OrderStatusProcessing, OrderStatusCancelled, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"shipped cannot cancel", OrderStatusShipped, OrderStatusCancelled, false},
		{"delivered is terminal", OrderStatusDelivered, OrderStatusCancelled, false},
		{"cancelled is terminal", OrderStatusCancelled, OrderStatusPending, false},
		{"no backward moves", OrderStatusShipped, OrderStatusProcessing, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanTransition(tc.from, tc.to); got != tc.ok {
				t.Fatalf("CanTransition(%s, %s) = %v, want %v", tc.from, tc.to, got, tc.ok)
			}
		})
	}
}

func TestValidOrderStatus(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		if !ValidOrderStatus(s) {
			t.Fatalf("expected %s to be valid", s)
		}
	}
	if ValidOrderStatus("REFUNDED") {
		t.Fatalf("unknown status accepted")
	}
	if ValidOrderStatus("") {
		t.Fatalf("empty status accepted")
	}
}

func TestAllowedNext(t *testing.T) {
	got := AllowedNext(OrderStatusPending)
	want := []OrderStatus{OrderStatusConfirmed, OrderStatusCancelled}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AllowedNext(PENDING) = %v, want %v", got, want)
	}
	if allowed := AllowedNext(OrderStatusDelivered); len(allowed) != 0 {
		t.Fatalf("expected no successors for DELIVERED, got %v", allowed)
	}
}

func TestCancellable(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing} {
		if !Cancellable(s) {
			t.Fatalf("expected %s to be cancellable", s)
		}
	}
	for _, s := range []OrderStatus{OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled} {
		if Cancellable(s) {
			t.Fatalf("expected %s to not be cancellable", s)
		}
	}
}

func TestTerminal(t *testing.T) {
	if !Terminal(OrderStatusDelivered) || !Terminal(OrderStatusCancelled) {
		t.Fatalf("expected DELIVERED and CANCELLED to be terminal")
	}
	if Terminal(OrderStatusShipped) {
		t.Fatalf("SHIPPED must accept a further transition")
	}
}

func TestTaxFor(t *testing.T) {
	cases := []struct {
		subtotal int
		bps      int
		want     int
	}{
		{2000, 600, 120},
		{0, 600, 0},
		{999, 600, 59},
		{100, 0, 0},
		{1, 600, 0},
	}
	for _, tc := range cases {
		if got := TaxFor(tc.subtotal, tc.bps); got != tc.want {
			t.Fatalf("TaxFor(%d, %d) = %d, want %d", tc.subtotal, tc.bps, got, tc.want)
		}
	}
}
