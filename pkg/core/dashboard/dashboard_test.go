package dashboard_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "samaajseva/pkg/common/errors"
	"samaajseva/pkg/common/testdb"
	"samaajseva/pkg/core/dashboard"
	"samaajseva/pkg/core/need/model"
	needdao "samaajseva/pkg/core/need/repository/dao/impl"
	needservice "samaajseva/pkg/core/need/service"
	usermodel "samaajseva/pkg/core/user/model"
	userdao "samaajseva/pkg/core/user/repository/dao/impl"
)

func TestSummarizeNGO(t *testing.T) {
	needs := []model.Need{
		{QuantityCommitted: 0},
		{QuantityCommitted: 15},
		{QuantityCommitted: 70, Status: model.StatusFulfilled},
	}
	want := dashboard.NGOMetrics{
		TotalRequests:     3,
		OpenRequests:      2,
		CompletedRequests: 1,
		ByPriority:        dashboard.PriorityCounts{High: 1, Medium: 1, Low: 1},
	}
	if diff := cmp.Diff(want, dashboard.SummarizeNGO(needs)); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestSummarizeDonor(t *testing.T) {
	commitments := []model.Commitment{{NeedID: "a", Quantity: 2}, {NeedID: "b", Quantity: 1}}
	committed := []model.Need{{ID: "a"}, {ID: "b", Status: model.StatusFulfilled}}
	open := []model.Need{{ID: "a", QuantityCommitted: 2}, {ID: "c", QuantityCommitted: 30}}

	got := dashboard.SummarizeDonor(commitments, committed, open)
	want := dashboard.DonorMetrics{
		CommittedNeeds:     2,
		QuantityPledged:    3,
		CommittedOpen:      1,
		CommittedFulfilled: 1,
		OpenHighPriority:   1,
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("(-want +got):\n%s", diff)
	}
}

func TestServiceReports(t *testing.T) {
	db := testdb.Open(t)
	ctx := context.Background()
	users := userdao.NewGormUserRepository(db)
	needRepo := needdao.NewGormNeedRepository(db)
	needs := needservice.NewNeedService(needRepo, needservice.Options{FulfillmentThreshold: 50, TitleLocale: "en"})
	svc := dashboard.NewService(users, needRepo)

	ngo := usermodel.User{Name: "N", Email: "n@x.com", PasswordHash: "h", Role: usermodel.RoleNGO}
	donor := usermodel.User{Name: "D", Email: "d@x.com", PasswordHash: "h", Role: usermodel.RoleDonor}
	require.NoError(t, users.CreateUser(ctx, &ngo))
	require.NoError(t, users.CreateUser(ctx, &donor))

	need, err := needs.PostNeed(ctx, needservice.PostNeedInput{
		Title: "Water", Domain: "Food", State: "Delhi", District: "South", ResourceType: "Funds",
	}, ngo.ID)
	require.NoError(t, err)
	_, err = needs.CommitToNeed(ctx, need.ID, donor.ID, 3)
	require.NoError(t, err)

	report, err := svc.NGO(ctx, ngo.ID)
	require.NoError(t, err)
	metrics := report.Metrics.(dashboard.NGOMetrics)
	assert.Equal(t, 1, metrics.TotalRequests)
	assert.Equal(t, 1, metrics.ByPriority.High)
	assert.Nil(t, metrics.FundsRaised)
	assert.Contains(t, report.NotImplemented, "fundsRaised")

	report, err = svc.Donor(ctx, donor.ID)
	require.NoError(t, err)
	donorMetrics := report.Metrics.(dashboard.DonorMetrics)
	assert.Equal(t, 1, donorMetrics.CommittedNeeds)
	assert.Equal(t, 3, donorMetrics.QuantityPledged)

	report, err = svc.Volunteer(ctx, donor.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"totalHours", "upcomingProjects"}, report.NotImplemented)

	_, err = svc.NGO(ctx, 4242)
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
