package viewer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/FACorreiaa/sanchari/internal/app/domain/planner"
	"github.com/FACorreiaa/sanchari/internal/app/models"
)

type MockPlanner struct {
	mock.Mock
}

func (m *MockPlanner) GenerateFromPreferences(ctx context.Context, req models.GenerationRequest) (*models.Itinerary, error) {
	args := m.Called(ctx, req)
	if it := args.Get(0); it != nil {
		return it.(*models.Itinerary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanner) GenerateFromImage(ctx context.Context, photoDataURI string) (*models.Itinerary, error) {
	args := m.Called(ctx, photoDataURI)
	if it := args.Get(0); it != nil {
		return it.(*models.Itinerary), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *MockPlanner) AdjustForConditions(ctx context.Context, itinerary models.Itinerary, adj planner.AdjustmentRequest) (*models.Itinerary, error) {
	args := m.Called(ctx, itinerary, adj)
	if it := args.Get(0); it != nil {
		return it.(*models.Itinerary), args.Error(1)
	}
	return nil, args.Error(1)
}

type MockSaver struct {
	mock.Mock
}

func (m *MockSaver) SaveIfNew(ctx context.Context, userID uuid.UUID, itinerary models.Itinerary) (*models.SavedItinerary, bool, error) {
	args := m.Called(ctx, userID, itinerary)
	if rec := args.Get(0); rec != nil {
		return rec.(*models.SavedItinerary), args.Bool(1), args.Error(2)
	}
	return nil, args.Bool(1), args.Error(2)
}

func unsortedItinerary() *models.Itinerary {
	return &models.Itinerary{
		Title:   "Goa Getaway",
		Summary: "Beaches and churches.",
		DailyPlans: []models.DailyPlan{
			{Day: 2, Title: "Old Goa", Activities: []models.Activity{{Time: "9:00 AM", Description: "Basilica"}}},
			{Day: 1, Title: "Beaches", Activities: []models.Activity{{Time: "10:00 AM", Description: "Swim"}}},
		},
	}
}

func newTestService(p *MockPlanner, saver *MockSaver) *ServiceImpl {
	return NewViewerService(p, saver, zap.NewNop())
}

func TestGenerateFromPreferencesFlow(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)
	userID := uuid.New()
	savedID := uuid.New()

	req := models.GenerationRequest{Destination: "Goa, India", StartDate: "2026-10-01", EndDate: "2026-10-03"}
	p.On("GenerateFromPreferences", mock.Anything, req).Return(unsortedItinerary(), nil)
	saver.On("SaveIfNew", mock.Anything, userID, mock.Anything).
		Return(&models.SavedItinerary{ID: savedID, UserID: userID, Title: "Goa Getaway"}, true, nil)

	result, err := svc.Generate(context.Background(), &userID, req)
	require.NoError(t, err)

	assert.Equal(t, 1, result.Itinerary.DailyPlans[0].Day)
	assert.Equal(t, 2, result.Itinerary.DailyPlans[1].Day)
	assert.True(t, result.Saved)
	require.NotNil(t, result.SavedID)
	assert.Equal(t, savedID, *result.SavedID)
	p.AssertNotCalled(t, "GenerateFromImage", mock.Anything, mock.Anything)
	p.AssertExpectations(t)
	saver.AssertExpectations(t)
}

func TestGeneratePhotoSelectsImageFlow(t *testing.T) {
	p := new(MockPlanner)
	svc := newTestService(p, new(MockSaver))

	req := models.GenerationRequest{PhotoDataURI: "data:image/jpeg;base64,aGVsbG8="}
	p.On("GenerateFromImage", mock.Anything, req.PhotoDataURI).Return(unsortedItinerary(), nil)

	result, err := svc.Generate(context.Background(), nil, req)
	require.NoError(t, err)
	assert.False(t, result.Saved)
	p.AssertNotCalled(t, "GenerateFromPreferences", mock.Anything, mock.Anything)
	p.AssertExpectations(t)
}

func TestGenerateAnonymousSkipsSave(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)

	req := models.GenerationRequest{Destination: "Goa, India"}
	p.On("GenerateFromPreferences", mock.Anything, req).Return(unsortedItinerary(), nil)

	result, err := svc.Generate(context.Background(), nil, req)
	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Empty(t, result.SaveWarning)
	saver.AssertNotCalled(t, "SaveIfNew", mock.Anything, mock.Anything, mock.Anything)
}

func TestGenerateFailurePropagates(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)
	userID := uuid.New()

	req := models.GenerationRequest{Destination: "Goa, India"}
	p.On("GenerateFromPreferences", mock.Anything, req).Return(nil, models.ErrGenerationFailed)

	_, err := svc.Generate(context.Background(), &userID, req)
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
	saver.AssertNotCalled(t, "SaveIfNew", mock.Anything, mock.Anything, mock.Anything)
}

func TestAutoSaveDuplicateCountsAsSaved(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)
	userID := uuid.New()

	saver.On("SaveIfNew", mock.Anything, userID, mock.Anything).Return(nil, false, nil)

	result, err := svc.Display(context.Background(), &userID, *unsortedItinerary())
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Nil(t, result.SavedID)
}

func TestAutoSavePermissionFailureDoesNotFailView(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)
	userID := uuid.New()

	permErr := &models.PermissionError{Path: "itineraries", Operation: "insert", Cause: errors.New("denied")}
	saver.On("SaveIfNew", mock.Anything, userID, mock.Anything).Return(nil, false, permErr)

	result, err := svc.Display(context.Background(), &userID, *unsortedItinerary())
	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Equal(t, "you do not have permission to save itineraries", result.SaveWarning)
	assert.Equal(t, "Goa Getaway", result.Itinerary.Title)
}

func TestAutoSaveStoreFailureDoesNotFailView(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)
	userID := uuid.New()

	saver.On("SaveIfNew", mock.Anything, userID, mock.Anything).Return(nil, false, errors.New("connection refused"))

	result, err := svc.Display(context.Background(), &userID, *unsortedItinerary())
	require.NoError(t, err)
	assert.False(t, result.Saved)
	assert.Equal(t, "itinerary could not be saved", result.SaveWarning)
}

func TestDisplayRejectsEmptyItinerary(t *testing.T) {
	svc := newTestService(new(MockPlanner), new(MockSaver))
	userID := uuid.New()

	_, err := svc.Display(context.Background(), &userID, models.Itinerary{})
	assert.ErrorIs(t, err, models.ErrBadRequest)
}

func TestDisplayRejectsInvalidItinerary(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)
	userID := uuid.New()

	it := *unsortedItinerary()
	it.DailyPlans = append(it.DailyPlans, models.DailyPlan{
		Day: 1, Title: "Beaches again", Activities: []models.Activity{{Time: "Evening", Description: "Sunset"}},
	})

	_, err := svc.Display(context.Background(), &userID, it)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrValidation)
	saver.AssertNotCalled(t, "SaveIfNew", mock.Anything, mock.Anything, mock.Anything)
}

func TestDisplaySortsSavedPlans(t *testing.T) {
	svc := newTestService(new(MockPlanner), new(MockSaver))

	result, err := svc.Display(context.Background(), nil, *unsortedItinerary())
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, []int{result.Itinerary.DailyPlans[0].Day, result.Itinerary.DailyPlans[1].Day})
}

func TestAdjustSavesAdjustedPlan(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)
	userID := uuid.New()
	savedID := uuid.New()

	original := *unsortedItinerary()
	adj := planner.AdjustmentRequest{WeatherConditions: "heavy rain"}
	adjusted := unsortedItinerary()
	adjusted.Summary = "Indoor plan for a rainy spell."

	p.On("AdjustForConditions", mock.Anything, original, adj).Return(adjusted, nil)
	saver.On("SaveIfNew", mock.Anything, userID, mock.MatchedBy(func(it models.Itinerary) bool {
		return it.Summary == "Indoor plan for a rainy spell."
	})).Return(&models.SavedItinerary{ID: savedID}, true, nil)

	result, err := svc.Adjust(context.Background(), &userID, original, adj)
	require.NoError(t, err)
	assert.True(t, result.Saved)
	assert.Equal(t, "Indoor plan for a rainy spell.", result.Itinerary.Summary)
	p.AssertExpectations(t)
	saver.AssertExpectations(t)
}

func TestAdjustFailureKeepsNothingSaved(t *testing.T) {
	p := new(MockPlanner)
	saver := new(MockSaver)
	svc := newTestService(p, saver)
	userID := uuid.New()

	original := *unsortedItinerary()
	adj := planner.AdjustmentRequest{Delays: "train cancelled"}
	p.On("AdjustForConditions", mock.Anything, original, adj).Return(nil, models.ErrGenerationFailed)

	_, err := svc.Adjust(context.Background(), &userID, original, adj)
	assert.ErrorIs(t, err, models.ErrGenerationFailed)
	saver.AssertNotCalled(t, "SaveIfNew", mock.Anything, mock.Anything, mock.Anything)
}
