package domain

import "time"

type TeamInvite struct {
	ID         string
	TeamID     string
	Email      string // lower-cased; only this address may accept
	Role       TeamRole
	TokenHash  string
	InvitedBy  string
	ExpiresAt  time.Time
	AcceptedBy string     // empty until accepted
	AcceptedAt *time.Time // nil until accepted
	CreatedAt  time.Time
}

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteExpired  InviteStatus = "expired"
)

// Status reports the invite state at now. Acceptance wins over expiry.
func (i TeamInvite) Status(now time.Time) InviteStatus {
	switch {
	case i.AcceptedAt != nil:
		return InviteAccepted
	case !now.Before(i.ExpiresAt):
		return InviteExpired
	default:
		return InvitePending
	}
}
