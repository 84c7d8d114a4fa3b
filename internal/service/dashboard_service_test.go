package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/antelcha/itsm-playground/internal/domain"
	"github.com/antelcha/itsm-playground/internal/repository"
	apperrors "github.com/antelcha/itsm-playground/pkg/util"
)

func newDashboardFixture() (*DashboardService, *fakeDashboardRepo) {
	repo := &fakeDashboardRepo{
		overview: repository.Overview{Total: 10, Open: 7, Closed: 3},
		counts: map[domain.ClassificationKind][]repository.LabelCount{
			domain.KindStatus: {
				{Label: "Open", Count: 7},
				{Label: "Closed", Count: 3},
			},
			domain.KindPriority: {
				{Label: "High", Count: 4},
				{Label: "Low", Count: 6},
			},
			domain.KindCategory: {
				{Label: "Hardware", Count: 10},
			},
		},
	}
	return NewDashboardService(repo, nil, 0, nil), repo
}

func TestOverviewPartitionsTotal(t *testing.T) {
	svc, _ := newDashboardFixture()

	overview, err := svc.Overview(context.Background(), agent1)
	require.NoError(t, err)
	assert.Equal(t, overview.Total, overview.Open+overview.Closed)
}

func TestDashboardRoleGate(t *testing.T) {
	svc, repo := newDashboardFixture()
	ctx := context.Background()

	_, err := svc.Overview(ctx, userU1)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	_, err = svc.Metrics(ctx, userU1)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)

	assert.Zero(t, repo.calls, "forbidden requests never reach the store")

	_, err = svc.Overview(ctx, admin1)
	require.NoError(t, err)
}

func TestDashboardGateFailsClosedForUnknownRole(t *testing.T) {
	svc, _ := newDashboardFixture()

	ghost := domain.Principal{ID: "g", Role: domain.Role("superuser")}
	_, err := svc.Metrics(context.Background(), ghost)
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", apperrors.ToDomainError(err).Code)
}

func TestMetricsCollectsAllKinds(t *testing.T) {
	svc, _ := newDashboardFixture()

	metrics, err := svc.Metrics(context.Background(), agent1)
	require.NoError(t, err)
	assert.Len(t, metrics.ByStatus, 2)
	assert.Len(t, metrics.ByPriority, 2)
	assert.Len(t, metrics.ByCategory, 1)
	assert.Equal(t, "Open", metrics.ByStatus[0].Label)
}

func TestDashboardWithoutCacheHitsStoreEveryTime(t *testing.T) {
	svc, repo := newDashboardFixture()
	ctx := context.Background()

	_, err := svc.Overview(ctx, admin1)
	require.NoError(t, err)
	_, err = svc.Overview(ctx, admin1)
	require.NoError(t, err)
	assert.Equal(t, 2, repo.calls)
}
