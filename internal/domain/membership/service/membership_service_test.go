package service

import (
	"context"
	"errors"
	"redcable_club/internal/domain/membership/model"
	profileModel "redcable_club/internal/domain/profile/model"
	"redcable_club/pkg/metrics"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProfileReader is a mock of ProfileReader
type MockProfileReader struct {
	mock.Mock
}

func (m *MockProfileReader) GetByID(ctx context.Context, id string) (*profileModel.Profile, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*profileModel.Profile), args.Error(1)
}

// MockStatsRepository is a mock of StatsRepository
type MockStatsRepository struct {
	mock.Mock
}

func (m *MockStatsRepository) CountByTier(ctx context.Context) ([]model.TierCount, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TierCount), args.Error(1)
}

func newTestService() (MembershipService, *MockProfileReader, *MockStatsRepository, *prometheus.Registry) {
	reg := prometheus.NewRegistry()
	profiles := new(MockProfileReader)
	stats := new(MockStatsRepository)
	return NewMembershipService(profiles, stats, metrics.NewMetricsCollector(reg)), profiles, stats, reg
}

func TestTiers(t *testing.T) {
	svc, _, _, _ := newTestService()
	tiers := svc.Tiers()
	require.Len(t, tiers, 4)
	assert.Equal(t, model.TierExplorer, tiers[0].Name)
	assert.Equal(t, model.TierSupreme, tiers[3].Name)
}

func TestClassify(t *testing.T) {
	svc, _, _, reg := newTestService()

	status := svc.Classify(5000)
	assert.Equal(t, model.TierElite, status.Tier.Name)
	require.NotNil(t, status.NextTier)
	assert.Equal(t, model.TierSupreme, status.NextTier.Name)
	assert.Equal(t, 5000, status.PointsToNextTier)

	svc.Classify(6000)
	svc.Classify(12000)

	count, err := testutil.GatherAndCount(reg, "membership_classifications_total")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestStatusForProfile(t *testing.T) {
	ctx := context.Background()

	t.Run("Status is derived from profile points", func(t *testing.T) {
		svc, profiles, _, _ := newTestService()
		p, _ := profileModel.NewProfile("Alex Chen", 10000, 0)
		profiles.On("GetByID", ctx, "p-1").Return(p, nil)

		status, err := svc.StatusForProfile(ctx, "p-1")
		require.NoError(t, err)
		assert.Equal(t, model.TierSupreme, status.Tier.Name)
		assert.Nil(t, status.NextTier)
		assert.Equal(t, 1.0, status.Progress)
	})

	t.Run("Profile error is returned", func(t *testing.T) {
		svc, profiles, _, _ := newTestService()
		boom := errors.New("not found")
		profiles.On("GetByID", ctx, "p-1").Return(nil, boom)

		_, err := svc.StatusForProfile(ctx, "p-1")
		assert.ErrorIs(t, err, boom)
	})
}

func TestStats(t *testing.T) {
	ctx := context.Background()
	svc, _, stats, _ := newTestService()
	want := []model.TierCount{{Tier: model.TierExplorer, Count: 2}}
	stats.On("CountByTier", ctx).Return(want, nil)

	got, err := svc.Stats(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
