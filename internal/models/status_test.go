package models

import "testing"

func TestOrderStatus_Next(t *testing.T) {
	cases := []struct {
		name   string
		from   OrderStatus
		action OrderAction
		want   OrderStatus
		ok     bool
	}{
		{"confirm from created", OrderStatusCreated, ActionConfirm, OrderStatusInProgress, true},
		{"confirm from in_progress", OrderStatusInProgress, ActionConfirm, OrderStatusInProgress, false},
		{"ready from in_progress", OrderStatusInProgress, ActionMarkReady, OrderStatusReady, true},
		{"ready from created", OrderStatusCreated, ActionMarkReady, OrderStatusCreated, false},
		{"complete from ready", OrderStatusReady, ActionComplete, OrderStatusCompleted, true},
		{"complete from in_progress", OrderStatusInProgress, ActionComplete, OrderStatusInProgress, false},
		{"complete from created", OrderStatusCreated, ActionComplete, OrderStatusCreated, false},
		{"cancel from created", OrderStatusCreated, ActionCancel, OrderStatusCanceled, true},
		{"cancel from in_progress", OrderStatusInProgress, ActionCancel, OrderStatusCanceled, true},
		{"cancel from ready", OrderStatusReady, ActionCancel, OrderStatusCanceled, true},
		{"cancel from shipped", OrderStatusShipped, ActionCancel, OrderStatusCanceled, true},
		{"cancel from completed", OrderStatusCompleted, ActionCancel, OrderStatusCompleted, false},
		{"cancel from canceled", OrderStatusCanceled, ActionCancel, OrderStatusCanceled, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.from.Next(tc.action)
			if ok != tc.ok || got != tc.want {
				t.Fatalf("Next(%s, %s) = (%v, %v), want (%v, %v)", tc.from, tc.action, got, ok, tc.want, tc.ok)
			}
		})
	}
}

func TestOrderStatus_NoActionProducesShipped(t *testing.T) {
	for action, table := range transitions {
		for from, to := range table {
			if to == OrderStatusShipped {
				t.Fatalf("action %s from %s produces SHIPPED", action, from)
			}
		}
	}
}

func TestOrderStatus_Valid(t *testing.T) {
	valid := []OrderStatus{
		OrderStatusCreated, OrderStatusInProgress, OrderStatusReady,
		OrderStatusShipped, OrderStatusCompleted, OrderStatusCanceled,
	}
	for _, s := range valid {
		if !s.Valid() {
			t.Fatalf("%d expected valid", s)
		}
	}
	// значение 1 зарезервировано и не является статусом
	if OrderStatus(1).Valid() {
		t.Fatal("status 1 must be invalid")
	}
	if OrderStatus(7).Valid() {
		t.Fatal("status 7 must be invalid")
	}
	if got := OrderStatus(1).String(); got != "UNKNOWN" {
		t.Fatalf("String(1) = %q", got)
	}
}

func TestOrderStatus_Terminal(t *testing.T) {
	if !OrderStatusCompleted.Terminal() || !OrderStatusCanceled.Terminal() {
		t.Fatal("COMPLETED and CANCELED must be terminal")
	}
	for _, s := range []OrderStatus{OrderStatusCreated, OrderStatusInProgress, OrderStatusReady, OrderStatusShipped} {
		if s.Terminal() {
			t.Fatalf("%s must not be terminal", s)
		}
	}
}

func TestOrderStatus_AcceptsPayments(t *testing.T) {
	for _, s := range []OrderStatus{OrderStatusCreated, OrderStatusInProgress, OrderStatusReady, OrderStatusShipped} {
		if !s.AcceptsPayments() {
			t.Fatalf("%s must accept payments", s)
		}
	}
	for _, s := range []OrderStatus{OrderStatusCompleted, OrderStatusCanceled} {
		if s.AcceptsPayments() {
			t.Fatalf("%s must not accept payments", s)
		}
	}
	if OrderStatus(1).AcceptsPayments() {
		t.Fatal("invalid status must not accept payments")
	}
}

func TestOrderStatus_AllowsUsageEdits(t *testing.T) {
	if !OrderStatusInProgress.AllowsUsageEdits() {
		t.Fatal("IN_PROGRESS must allow usage edits")
	}
	for _, s := range []OrderStatus{OrderStatusCreated, OrderStatusReady, OrderStatusShipped, OrderStatusCompleted, OrderStatusCanceled} {
		if s.AllowsUsageEdits() {
			t.Fatalf("%s must not allow usage edits", s)
		}
	}
}
