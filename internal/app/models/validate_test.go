package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validRequest() GenerationRequest {
	return GenerationRequest{
		Destination:      "Goa, India",
		StartingLocation: "Bangalore, India",
		TravelStyle:      StyleComfortable,
		StartDate:        "2025-01-10",
		EndDate:          "2025-01-12",
		Interests:        []string{"foodie"},
		Moods:            []string{},
		Languages:        []string{"english"},
	}
}

func TestGenerationRequestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*GenerationRequest)
		wantField string
	}{
		{
			name:   "valid destination-only request",
			mutate: func(r *GenerationRequest) {},
		},
		{
			name: "valid photo-only request",
			mutate: func(r *GenerationRequest) {
				r.Destination = ""
				r.PhotoDataURI = "data:image/jpeg;base64,Zm9v"
			},
		},
		{
			name: "neither destination nor photo",
			mutate: func(r *GenerationRequest) {
				r.Destination = ""
				r.PhotoDataURI = ""
			},
			wantField: "destination",
		},
		{
			name: "end date before start date",
			mutate: func(r *GenerationRequest) {
				r.EndDate = "2025-01-09"
			},
			wantField: "endDate",
		},
		{
			name: "end date equal to start date is a one-day trip",
			mutate: func(r *GenerationRequest) {
				r.EndDate = r.StartDate
			},
		},
		{
			name: "no interests and no moods",
			mutate: func(r *GenerationRequest) {
				r.Interests = nil
				r.Moods = nil
			},
			wantField: "interests",
		},
		{
			name: "moods alone satisfy the vibe guard",
			mutate: func(r *GenerationRequest) {
				r.Interests = nil
				r.Moods = []string{"calm"}
			},
		},
		{
			name: "no languages",
			mutate: func(r *GenerationRequest) {
				r.Languages = nil
			},
			wantField: "languages",
		},
		{
			name: "short starting location",
			mutate: func(r *GenerationRequest) {
				r.StartingLocation = "Go"
			},
			wantField: "startingLocation",
		},
		{
			name: "unknown travel style",
			mutate: func(r *GenerationRequest) {
				r.TravelStyle = "opulent"
			},
			wantField: "travelStyle",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := validRequest()
			tc.mutate(&req)
			err := req.Validate()
			if tc.wantField == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			fieldErrs, ok := err.(FieldErrors)
			assert.True(t, ok, "expected FieldErrors, got %T", err)
			assert.True(t, fieldErrs.Has(tc.wantField), "expected error on field %q, got %v", tc.wantField, err)
		})
	}
}

func TestNumberOfDays(t *testing.T) {
	req := validRequest()
	assert.Equal(t, 3, req.NumberOfDays())

	req.EndDate = req.StartDate
	assert.Equal(t, 1, req.NumberOfDays())

	req.EndDate = "not-a-date"
	assert.Equal(t, 0, req.NumberOfDays())
}

func TestItineraryValidate(t *testing.T) {
	loc := Location{Name: "Baga Beach", Lat: 15.55, Lng: 73.75, Description: "Beach morning", Day: 1}
	valid := Itinerary{
		Title:         "Goa Getaway",
		Summary:       "Three laid-back days on the coast.",
		EstimatedCost: 30000,
		DailyPlans: []DailyPlan{
			{Day: 1, Title: "Beaches", Activities: []Activity{
				{Time: "Morning", Description: "Swim at Baga", Location: &loc},
				{Time: "Evening", Description: "Check into hotel"},
			}},
		},
		Locations: []Location{loc},
	}
	assert.NoError(t, valid.Validate())

	t.Run("location missing from plans", func(t *testing.T) {
		it := valid
		it.Locations = append([]Location{}, loc, Location{Name: "Phantom Fort", Lat: 1, Lng: 2, Description: "x", Day: 1})
		assert.Error(t, it.Validate())
	})

	t.Run("duplicate (name, day) pair", func(t *testing.T) {
		it := valid
		it.Locations = []Location{loc, loc}
		assert.Error(t, it.Validate())
	})

	t.Run("duplicate day numbers", func(t *testing.T) {
		it := valid
		it.DailyPlans = append(it.DailyPlans, DailyPlan{Day: 1, Title: "Again"})
		assert.Error(t, it.Validate())
	})

	t.Run("missing day reported alongside other errors", func(t *testing.T) {
		it := valid
		it.Title = ""
		it.DailyPlans = []DailyPlan{{Day: 2, Title: "Late start"}}
		it.Locations = nil

		var fieldErrs FieldErrors
		require.ErrorAs(t, it.Validate(), &fieldErrs)
		assert.True(t, fieldErrs.Has("title"))
		assert.True(t, fieldErrs.Has("dailyPlans"))
	})

	t.Run("every gap in the day sequence is reported", func(t *testing.T) {
		it := valid
		it.DailyPlans = []DailyPlan{{Day: 3, Title: "Forts"}, {Day: 5, Title: "Markets"}}
		it.Locations = nil

		var fieldErrs FieldErrors
		require.ErrorAs(t, it.Validate(), &fieldErrs)
		var gaps int
		for _, fe := range fieldErrs {
			if fe.Field == "dailyPlans" {
				gaps++
			}
		}
		assert.Equal(t, 2, gaps)
	})

	t.Run("incomplete activity location", func(t *testing.T) {
		it := valid
		bad := loc
		bad.Lat = 0
		it.DailyPlans = []DailyPlan{{Day: 1, Title: "Beaches", Activities: []Activity{{Time: "Morning", Description: "Swim", Location: &bad}}}}
		it.Locations = nil
		assert.Error(t, it.Validate())
	})
}

func TestSortDays(t *testing.T) {
	it := &Itinerary{DailyPlans: []DailyPlan{{Day: 3}, {Day: 1}, {Day: 2}}}
	it.SortDays()
	assert.Equal(t, []int{1, 2, 3}, []int{it.DailyPlans[0].Day, it.DailyPlans[1].Day, it.DailyPlans[2].Day})
}
