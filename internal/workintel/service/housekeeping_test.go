package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/workintel/internal/workintel/domain"
	"github.com/aussiebroadwan/workintel/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingRunOnce(t *testing.T) {
	e := newTestEnv(t)
	e.auth.SessionTTL = time.Hour
	e.invites.TTL = time.Hour

	ann := e.signup("ann@example.com")
	team := e.team(ann)
	_, err := e.invites.CreateInvite(e.ctx, ann.ID, team.ID, "ben@example.com", domain.RoleMember)
	require.NoError(t, err)

	cache := NewBriefCache(time.Minute)
	cache.Put(ann.ID+"|UTC", domain.Brief{UserID: ann.ID}, e.clock())

	hk := NewHousekeepingService(e.st, cache, slogx.Discard(), time.Hour)
	hk.Clock = e.clock

	res := hk.RunOnce(e.ctx)
	require.Equal(t, CleanupResult{}, res, "nothing has expired yet")

	e.advance(2 * time.Hour)
	res = hk.RunOnce(e.ctx)
	require.EqualValues(t, 1, res.Sessions)
	require.EqualValues(t, 1, res.Invites)
	require.Equal(t, 1, res.Briefs)
	require.Zero(t, cache.Len())
}

func TestHousekeepingStartStop(t *testing.T) {
	e := newTestEnv(t)
	hk := NewHousekeepingService(e.st, nil, slogx.Discard(), 0)
	require.Equal(t, time.Hour, hk.Interval)

	hk.Start()
	hk.Stop()
}
