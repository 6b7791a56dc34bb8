package domain_test

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/stretchr/testify/require"
)

func TestInviteStatus(t *testing.T) {
	now := time.Date(2026, 3, 4, 12, 0, 0, 0, time.UTC)
	inv := domain.TeamInvite{ExpiresAt: now.Add(time.Hour)}

	require.Equal(t, domain.InvitePending, inv.Status(now))
	require.Equal(t, domain.InviteExpired, inv.Status(now.Add(time.Hour)))

	accepted := now
	inv.AcceptedAt = &accepted
	require.Equal(t, domain.InviteAccepted, inv.Status(now.Add(2*time.Hour)))
}

func TestWeekStartOf(t *testing.T) {
	cases := map[string]struct {
		in   time.Time
		want time.Time
	}{
		"wednesday": {time.Date(2026, 3, 4, 15, 30, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		"monday":    {time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		"sunday":    {time.Date(2026, 3, 8, 23, 59, 0, 0, time.UTC), time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)},
		"other tz": {
			time.Date(2026, 3, 9, 8, 0, 0, 0, time.FixedZone("AEDT", 11*3600)), // Sunday 21:00 UTC
			time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			require.Equal(t, tc.want, domain.WeekStartOf(tc.in))
		})
	}
}

func TestProviderScope(t *testing.T) {
	require.True(t, domain.ProviderGitHub.TeamScoped())
	require.True(t, domain.ProviderJira.TeamScoped())
	require.False(t, domain.ProviderNylas.TeamScoped())
	require.False(t, domain.Provider("gitlab").Valid())
	require.True(t, domain.RoleAdmin.Valid())
	require.False(t, domain.TeamRole("owner").Valid())
}
