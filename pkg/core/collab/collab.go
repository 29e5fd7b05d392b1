// Package collab models deal collaboration: partners, invitations and
// per-deal message threads.
package collab

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"deal_evaluation/pkg/core/finance"
)

// Role is a partner's function on a deal.
type Role string

const (
	RoleInvestor   Role = "investor"
	RoleLender     Role = "lender"
	RoleBroker     Role = "broker"
	RoleAttorney   Role = "attorney"
	RoleAccountant Role = "accountant"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleInvestor, RoleLender, RoleBroker, RoleAttorney, RoleAccountant:
		return true
	}
	return false
}

// Partner is an external collaborator.
type Partner struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// InviteStatus tracks an invitation's lifecycle.
type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteRevoked  InviteStatus = "revoked"
)

// Invitation grants a partner access to specific deals.
type Invitation struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Role      Role         `json:"role"`
	DealIDs   []string     `json:"deal_ids"`
	Status    InviteStatus `json:"status"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewInvitation validates and creates a pending invitation.
func NewInvitation(email string, role Role, dealIDs []string) (*Invitation, error) {
	email = strings.TrimSpace(email)
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("%w: invalid partner email %q", finance.ErrInvalidInput, email)
	}
	if !ValidRole(role) {
		return nil, fmt.Errorf("%w: unknown partner role %q", finance.ErrInvalidInput, role)
	}
	if len(dealIDs) == 0 {
		return nil, fmt.Errorf("%w: invitation must grant access to at least one deal", finance.ErrInvalidInput)
	}

	return &Invitation{
		ID:        uuid.NewString(),
		Email:     email,
		Role:      role,
		DealIDs:   dealIDs,
		Status:    InvitePending,
		CreatedAt: time.Now().UTC(),
	}, nil
}

// Message is one entry in a deal's discussion thread.
type Message struct {
	ID     string    `json:"id"`
	DealID string    `json:"deal_id"`
	Sender string    `json:"sender"`
	Body   string    `json:"body"`
	SentAt time.Time `json:"sent_at"`
}

// NewMessage validates and creates a message.
func NewMessage(dealID, sender, body string) (*Message, error) {
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%w: message body required", finance.ErrInvalidInput)
	}
	if sender == "" {
		return nil, fmt.Errorf("%w: message sender required", finance.ErrInvalidInput)
	}
	return &Message{
		ID:     uuid.NewString(),
		DealID: dealID,
		Sender: sender,
		Body:   body,
		SentAt: time.Now().UTC(),
	}, nil
}

// SortNewestFirst orders a thread for display, most recent message
// first, regardless of what order the backing store returned.
func SortNewestFirst(msgs []*Message) {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].SentAt.After(msgs[j].SentAt)
	})
}
