package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/comitanigiacomo/kanso-report/internal/core/domain"
	"github.com/comitanigiacomo/kanso-report/internal/core/services"
)

type MockSource struct {
	mock.Mock
}

func (m *MockSource) Fetch(ctx context.Context, id string) (*domain.Register, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Register), args.Error(1)
}

type MockCachingSource struct {
	MockSource
}

func (m *MockCachingSource) Invalidate(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordReport(report *domain.Report) { m.Called(report) }
func (m *MockRecorder) RecordFailure(stage string)         { m.Called(stage) }

func TestReportService_Build(t *testing.T) {
	ctx := context.Background()
	sourceID := "mem:scenario"

	t.Run("Success: Scored variant computes every table", func(t *testing.T) {
		source := new(MockSource)
		recorder := new(MockRecorder)
		source.On("Fetch", ctx, sourceID).Return(scenarioRegister(), nil)
		recorder.On("RecordReport", mock.AnythingOfType("*domain.Report")).Return()

		svc := services.NewReportService(source, nil, recorder, quietLogger())
		report, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: julyThird, Variant: domain.VariantScored})

		require.NoError(t, err)
		assert.NotEmpty(t, report.RunID)
		assert.Equal(t, domain.VariantScored, report.Variant)
		assert.Equal(t, julyThird, report.Snapshot)
		assert.Len(t, report.Categories, 8)
		assert.Equal(t, 3, report.Frequency.Days)
		require.NotNil(t, report.Score)
		assert.Len(t, report.Score.Scores, 3)

		source.AssertExpectations(t)
		recorder.AssertExpectations(t)
	})

	t.Run("Success: Classic variant has nine categories and no score", func(t *testing.T) {
		source := new(MockSource)
		source.On("Fetch", ctx, sourceID).Return(scenarioRegister(), nil)

		svc := services.NewReportService(source, nil, nil, quietLogger())
		report, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: julyThird, Variant: domain.VariantClassic})

		require.NoError(t, err)
		assert.Nil(t, report.Score)
		assert.Len(t, report.Groups.Categories, 9)
		rewards, _ := report.Groups.Row("Recompensas")
		assert.False(t, rewards[0].Valid)
	})

	t.Run("Fail: Custom order provider with zero weight mass", func(t *testing.T) {
		source := new(MockSource)
		source.On("Fetch", ctx, sourceID).Return(scenarioRegister(), nil)

		orders := func(domain.Variant) (domain.CategoryOrder, error) {
			return domain.NewCategoryOrder([]domain.Category{
				{Name: "Sueño", Weight: 1},
				{Name: "Vicios", Weight: -1, Invert: true},
			}, 0)
		}

		svc := services.NewReportService(source, orders, nil, quietLogger())
		_, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: julyThird})

		assert.ErrorIs(t, err, domain.ErrInvalidWeights, "weight mass plus adjustment is zero")
	})

	t.Run("Fail: Source error propagates and nothing is reported", func(t *testing.T) {
		source := new(MockSource)
		recorder := new(MockRecorder)
		fetchErr := errors.Join(domain.ErrSourceUnavailable, errors.New("connection reset"))
		source.On("Fetch", ctx, sourceID).Return(nil, fetchErr)
		recorder.On("RecordFailure", "fetch").Return()

		svc := services.NewReportService(source, nil, recorder, quietLogger())
		report, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: julyThird})

		assert.ErrorIs(t, err, domain.ErrSourceUnavailable)
		assert.Nil(t, report)
		recorder.AssertExpectations(t)
		recorder.AssertNotCalled(t, "RecordReport", mock.Anything)
	})

	t.Run("Fail: Empty window aborts the run", func(t *testing.T) {
		source := new(MockSource)
		source.On("Fetch", ctx, sourceID).Return(scenarioRegister(), nil)

		svc := services.NewReportService(source, nil, nil, quietLogger())
		_, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC)})

		assert.ErrorIs(t, err, domain.ErrEmptyWindow)
		assert.Contains(t, err.Error(), "frequency")
	})

	t.Run("Fail: Format mismatch aborts the run", func(t *testing.T) {
		reg := scenarioRegister()
		reg.DayLabels[0] = "lunes"
		source := new(MockSource)
		source.On("Fetch", ctx, sourceID).Return(reg, nil)

		svc := services.NewReportService(source, nil, nil, quietLogger())
		_, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: julyThird})

		assert.ErrorIs(t, err, domain.ErrFormatMismatch)
	})

	t.Run("Success: Refresh invalidates a caching source before fetching", func(t *testing.T) {
		source := new(MockCachingSource)
		source.On("Invalidate", ctx, sourceID).Return(nil).Once()
		source.On("Fetch", ctx, sourceID).Return(scenarioRegister(), nil).Once()

		svc := services.NewReportService(source, nil, nil, quietLogger())
		_, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: julyThird, Refresh: true})

		require.NoError(t, err)
		source.AssertExpectations(t)
	})

	t.Run("Success: Failed invalidation still fetches", func(t *testing.T) {
		source := new(MockCachingSource)
		source.On("Invalidate", ctx, sourceID).Return(errors.New("redis down")).Once()
		source.On("Fetch", ctx, sourceID).Return(scenarioRegister(), nil).Once()

		svc := services.NewReportService(source, nil, nil, quietLogger())
		report, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: julyThird, Refresh: true})

		require.NoError(t, err)
		assert.NotNil(t, report)
		source.AssertExpectations(t)
	})

	t.Run("Success: Cached register is kept without refresh", func(t *testing.T) {
		source := new(MockCachingSource)
		source.On("Fetch", ctx, sourceID).Return(scenarioRegister(), nil).Once()

		svc := services.NewReportService(source, nil, nil, quietLogger())
		_, err := svc.Build(ctx, domain.ReportInput{SourceID: sourceID, Snapshot: julyThird})

		require.NoError(t, err)
		source.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
	})
}
