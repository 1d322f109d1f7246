package report

import (
	"context"
	"errors"
	"testing"

	"gramroute/internal/config"
	domainReport "gramroute/internal/domain/report"
	"gramroute/internal/events"
	"gramroute/internal/mocks"
	appErrors "gramroute/pkg/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	svc       *Service
	reports   *mocks.MockReportRepository
	publisher *mocks.MockPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	ctrl := gomock.NewController(t)
	reports := mocks.NewMockReportRepository(ctrl)
	publisher := mocks.NewMockPublisher(ctrl)
	cfg := &config.Config{Reports: config.ReportsConfig{ScorePerResolved: 10}}

	return &fixture{
		svc:       NewService(reports, publisher, cfg),
		reports:   reports,
		publisher: publisher,
	}
}

func requireAppError(t *testing.T, err error, code string) *appErrors.AppError {
	t.Helper()
	var appErr *appErrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestSubmit(t *testing.T) {
	ctx := context.Background()
	userID := uuid.New()

	t.Run("stores pending report owned by caller", func(t *testing.T) {
		f := newFixture(t)
		lat, lng := 12.97, 77.59
		file := `C:\photos\pothole.jpg`

		f.reports.EXPECT().Create(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, r *domainReport.Report) error {
			assert.Equal(t, userID, r.UserID)
			assert.Equal(t, domainReport.StatusPending, r.Status)
			assert.Equal(t, "Pothole", r.Title)
			assert.Equal(t, domainReport.CategoryRoad, r.Category)
			require.NotNil(t, r.FileName)
			assert.Equal(t, "pothole.jpg", *r.FileName)
			r.ID = uuid.New()
			return nil
		})
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e events.Event) error {
			assert.Equal(t, events.TypeReportCreated, e.Type)
			assert.Equal(t, userID, e.UserID)
			return nil
		})

		resp, err := f.svc.Submit(ctx, userID, &SubmitReportRequest{
			Title:       "  Pothole ",
			Description: "Deep hole near the school",
			Category:    "Road",
			Latitude:    &lat,
			Longitude:   &lng,
			FileName:    &file,
		})
		require.NoError(t, err)
		assert.Equal(t, "pending", resp.Status)
		assert.Equal(t, "road", resp.Category)
	})

	t.Run("missing fields persist nothing", func(t *testing.T) {
		cases := []*SubmitReportRequest{
			{Title: "", Description: "d", Category: "road"},
			{Title: "t", Description: "   ", Category: "road"},
			{Title: "t", Description: "d", Category: ""},
		}
		for _, req := range cases {
			f := newFixture(t)
			_, err := f.svc.Submit(ctx, userID, req)
			appErr := requireAppError(t, err, appErrors.CodeValidation)
			assert.Equal(t, MsgRequiredFields, appErr.Message)
		}
	})

	t.Run("unknown category", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.Submit(ctx, userID, &SubmitReportRequest{Title: "t", Description: "d", Category: "river"})
		appErr := requireAppError(t, err, appErrors.CodeValidation)
		assert.Equal(t, "category is invalid", appErr.Message)
	})

	t.Run("latitude out of range", func(t *testing.T) {
		f := newFixture(t)
		lat := 91.0
		_, err := f.svc.Submit(ctx, userID, &SubmitReportRequest{Title: "t", Description: "d", Category: "road", Latitude: &lat})
		appErr := requireAppError(t, err, appErrors.CodeValidation)
		assert.Equal(t, "latitude is out of range", appErr.Message)
	})

	t.Run("publish failure does not fail the request", func(t *testing.T) {
		f := newFixture(t)
		f.reports.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(errors.New("broker down"))

		_, err := f.svc.Submit(ctx, userID, &SubmitReportRequest{Title: "t", Description: "d", Category: "waste"})
		assert.NoError(t, err)
	})

	t.Run("repository failure", func(t *testing.T) {
		f := newFixture(t)
		boom := errors.New("insert failed")
		f.reports.EXPECT().Create(gomock.Any(), gomock.Any()).Return(boom)

		_, err := f.svc.Submit(ctx, userID, &SubmitReportRequest{Title: "t", Description: "d", Category: "waste"})
		assert.ErrorIs(t, err, boom)
	})
}

func TestListMine(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	userID := uuid.New()

	f.reports.EXPECT().ListByUser(gomock.Any(), userID).Return(nil, nil)
	reports, err := f.svc.ListMine(ctx, userID)
	require.NoError(t, err)
	assert.NotNil(t, reports)
	assert.Empty(t, reports)

	first := &domainReport.Report{ID: uuid.New(), UserID: userID, Status: domainReport.StatusPending}
	second := &domainReport.Report{ID: uuid.New(), UserID: userID, Status: domainReport.StatusResolved}
	f.reports.EXPECT().ListByUser(gomock.Any(), userID).Return([]*domainReport.Report{first, second}, nil)

	reports, err = f.svc.ListMine(ctx, userID)
	require.NoError(t, err)
	require.Len(t, reports, 2)
	assert.Equal(t, first.ID, reports[0].ID)
	assert.Equal(t, second.ID, reports[1].ID)
}

func TestListAll(t *testing.T) {
	ctx := context.Background()

	t.Run("includes owner", func(t *testing.T) {
		f := newFixture(t)
		r := &domainReport.Report{
			ID:     uuid.New(),
			Status: domainReport.StatusPending,
			Owner:  &domainReport.Owner{Username: "alice", Email: "alice@example.com"},
		}
		f.reports.EXPECT().ListAll(gomock.Any(), &domainReport.Filter{}).Return([]*domainReport.Report{r}, nil)

		reports, err := f.svc.ListAll(ctx, "")
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Equal(t, "alice", reports[0].Username)
		assert.Equal(t, "alice@example.com", reports[0].Email)
	})

	t.Run("status filter", func(t *testing.T) {
		f := newFixture(t)
		f.reports.EXPECT().ListAll(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, filter *domainReport.Filter) ([]*domainReport.Report, error) {
			require.NotNil(t, filter.Status)
			assert.Equal(t, domainReport.StatusInProgress, *filter.Status)
			return nil, nil
		})

		reports, err := f.svc.ListAll(ctx, "In-Progress")
		require.NoError(t, err)
		assert.NotNil(t, reports)
	})

	t.Run("invalid status filter", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.ListAll(ctx, "closed")
		requireAppError(t, err, appErrors.CodeInvalidStatus)
	})
}

func TestGet(t *testing.T) {
	ctx := context.Background()
	owner := uuid.New()
	r := &domainReport.Report{ID: uuid.New(), UserID: owner, Status: domainReport.StatusPending}

	t.Run("owner", func(t *testing.T) {
		f := newFixture(t)
		f.reports.EXPECT().GetByID(gomock.Any(), r.ID).Return(r, nil)
		resp, err := f.svc.Get(ctx, r.ID, owner, false)
		require.NoError(t, err)
		assert.Equal(t, r.ID, resp.ID)
	})

	t.Run("admin", func(t *testing.T) {
		f := newFixture(t)
		f.reports.EXPECT().GetByID(gomock.Any(), r.ID).Return(r, nil)
		_, err := f.svc.Get(ctx, r.ID, uuid.New(), true)
		require.NoError(t, err)
	})

	t.Run("stranger", func(t *testing.T) {
		f := newFixture(t)
		f.reports.EXPECT().GetByID(gomock.Any(), r.ID).Return(r, nil)
		_, err := f.svc.Get(ctx, r.ID, uuid.New(), false)
		assert.ErrorIs(t, err, appErrors.ErrInsufficientPermissions)
	})

	t.Run("not found", func(t *testing.T) {
		f := newFixture(t)
		f.reports.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, domainReport.ErrReportNotFound)
		_, err := f.svc.Get(ctx, uuid.New(), owner, true)
		assert.ErrorIs(t, err, domainReport.ErrReportNotFound)
	})
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()

	t.Run("resolve awards score and publishes", func(t *testing.T) {
		f := newFixture(t)
		current := &domainReport.Report{ID: uuid.New(), UserID: uuid.New(), Status: domainReport.StatusInProgress}
		resolved := *current
		resolved.Status = domainReport.StatusResolved

		f.reports.EXPECT().GetByID(gomock.Any(), current.ID).Return(current, nil)
		f.reports.EXPECT().
			TransitionStatus(gomock.Any(), current.ID, domainReport.StatusInProgress, domainReport.StatusResolved, 10).
			Return(&resolved, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, e events.Event) error {
			assert.Equal(t, events.TypeReportStatusChanged, e.Type)
			require.NotNil(t, e.PreviousStatus)
			assert.Equal(t, domainReport.StatusInProgress, *e.PreviousStatus)
			assert.Equal(t, domainReport.StatusResolved, e.Status)
			return nil
		})

		resp, err := f.svc.UpdateStatus(ctx, current.ID, &UpdateStatusRequest{Status: "resolved"})
		require.NoError(t, err)
		assert.Equal(t, "resolved", resp.Status)
	})

	t.Run("start work awards nothing", func(t *testing.T) {
		f := newFixture(t)
		current := &domainReport.Report{ID: uuid.New(), Status: domainReport.StatusPending}
		next := *current
		next.Status = domainReport.StatusInProgress

		f.reports.EXPECT().GetByID(gomock.Any(), current.ID).Return(current, nil)
		f.reports.EXPECT().
			TransitionStatus(gomock.Any(), current.ID, domainReport.StatusPending, domainReport.StatusInProgress, 0).
			Return(&next, nil)
		f.publisher.EXPECT().Publish(gomock.Any(), gomock.Any()).Return(nil)

		_, err := f.svc.UpdateStatus(ctx, current.ID, &UpdateStatusRequest{Status: "in-progress"})
		require.NoError(t, err)
	})

	t.Run("skipping a step", func(t *testing.T) {
		f := newFixture(t)
		current := &domainReport.Report{ID: uuid.New(), Status: domainReport.StatusPending}
		f.reports.EXPECT().GetByID(gomock.Any(), current.ID).Return(current, nil)

		_, err := f.svc.UpdateStatus(ctx, current.ID, &UpdateStatusRequest{Status: "resolved"})
		requireAppError(t, err, appErrors.CodeInvalidTransition)
		assert.ErrorIs(t, err, domainReport.ErrInvalidStatusTransition)
	})

	t.Run("unknown status", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.svc.UpdateStatus(ctx, uuid.New(), &UpdateStatusRequest{Status: "closed"})
		requireAppError(t, err, appErrors.CodeInvalidStatus)
	})

	t.Run("unknown report", func(t *testing.T) {
		f := newFixture(t)
		f.reports.EXPECT().GetByID(gomock.Any(), gomock.Any()).Return(nil, domainReport.ErrReportNotFound)

		_, err := f.svc.UpdateStatus(ctx, uuid.New(), &UpdateStatusRequest{Status: "in-progress"})
		assert.ErrorIs(t, err, domainReport.ErrReportNotFound)
	})

	t.Run("concurrent change", func(t *testing.T) {
		f := newFixture(t)
		current := &domainReport.Report{ID: uuid.New(), Status: domainReport.StatusPending}
		f.reports.EXPECT().GetByID(gomock.Any(), current.ID).Return(current, nil)
		f.reports.EXPECT().TransitionStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, domainReport.ErrStatusChanged)

		_, err := f.svc.UpdateStatus(ctx, current.ID, &UpdateStatusRequest{Status: "in-progress"})
		assert.ErrorIs(t, err, domainReport.ErrStatusChanged)
	})
}
