package collab_test

import (
	"errors"
	"testing"
	"time"

	"deal_evaluation/pkg/core/collab"
	"deal_evaluation/pkg/core/finance"
)

func TestNewInvitation(t *testing.T) {
	inv, err := collab.NewInvitation("mike@partners.example", collab.RoleInvestor, []string{"deal-1", "deal-2"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if inv.Status != collab.InvitePending {
		t.Errorf("new invitations start pending, got %s", inv.Status)
	}
	if len(inv.DealIDs) != 2 {
		t.Errorf("expected 2 deal grants, got %d", len(inv.DealIDs))
	}
}

func TestNewInvitation_Invalid(t *testing.T) {
	cases := []struct {
		name  string
		email string
		role  collab.Role
		deals []string
	}{
		{"bad email", "not-an-email", collab.RoleLender, []string{"deal-1"}},
		{"unknown role", "a@b.example", "tenant", []string{"deal-1"}},
		{"no deals", "a@b.example", collab.RoleBroker, nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := collab.NewInvitation(tc.email, tc.role, tc.deals); !errors.Is(err, finance.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestNewMessage(t *testing.T) {
	msg, err := collab.NewMessage("deal-1", "Sarah Kim", "Contract review complete.")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if msg.ID == "" || msg.SentAt.IsZero() {
		t.Errorf("message should be stamped, got %+v", msg)
	}

	if _, err := collab.NewMessage("deal-1", "Sarah Kim", "   "); !errors.Is(err, finance.ErrInvalidInput) {
		t.Errorf("blank body should be rejected, got %v", err)
	}
}

func TestSortNewestFirst(t *testing.T) {
	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	msgs := []*collab.Message{
		{ID: "m1", Body: "Initial walkthrough notes.", SentAt: base},
		{ID: "m2", Body: "Contract review complete.", SentAt: base.Add(2 * time.Hour)},
		{ID: "m3", Body: "Lender term sheet attached.", SentAt: base.Add(time.Hour)},
	}

	collab.SortNewestFirst(msgs)

	want := []string{"m2", "m3", "m1"}
	for i, id := range want {
		if msgs[i].ID != id {
			t.Fatalf("thread position %d: expected %s, got %s", i, id, msgs[i].ID)
		}
	}
}
