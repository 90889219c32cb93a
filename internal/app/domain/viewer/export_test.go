package viewer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

func sampleItinerary() models.Itinerary {
	return models.Itinerary{
		Title:         "Goa Getaway",
		Summary:       "Three relaxed days on the coast.",
		EstimatedCost: 250000,
		DailyPlans: []models.DailyPlan{
			{
				Day:   1,
				Title: "Beaches",
				Activities: []models.Activity{
					{Time: "10:00 AM", Description: "Swim and sunbathe", Location: &models.Location{
						Name: "Palolem Beach", Lat: 15.01, Lng: 74.02, Description: "Crescent beach", Day: 1,
					}},
					{Time: "7:00 PM", Description: "Check into the hotel"},
				},
			},
			{
				Day:   2,
				Title: "Old Goa",
				Activities: []models.Activity{
					{Time: "9:00 AM", Description: "Visit the basilica", Location: &models.Location{
						Name: "Basilica of Bom Jesus", Lat: 15.5, Lng: 73.9, Description: "Baroque church", Day: 2,
					}},
				},
			},
		},
	}
}

func TestItineraryText(t *testing.T) {
	text := ItineraryText(sampleItinerary(), "")

	assert.True(t, strings.HasPrefix(text, "Trip: Goa Getaway\n\nSummary: Three relaxed days on the coast.\n\n"))
	assert.Contains(t, text, "Estimated Cost: ₹2,50,000\n\n")
	assert.Contains(t, text, "Day 1: Beaches\n- 10:00 AM: Swim and sunbathe at Palolem Beach\n- 7:00 PM: Check into the hotel\n")
	assert.Contains(t, text, "Day 2: Old Goa\n- 9:00 AM: Visit the basilica at Basilica of Bom Jesus\n")
	assert.NotContains(t, text, "interactive itinerary online")
}

func TestItineraryTextShareLink(t *testing.T) {
	text := ItineraryText(sampleItinerary(), "https://sanchari.example/itinerary/42")
	assert.True(t, strings.HasSuffix(text, "View your full interactive itinerary online:\nhttps://sanchari.example/itinerary/42"))
}

func TestItineraryTextOmitsZeroCost(t *testing.T) {
	it := sampleItinerary()
	it.EstimatedCost = 0
	assert.NotContains(t, ItineraryText(it, ""), "Estimated Cost")
}

func TestFormatINR(t *testing.T) {
	tests := []struct {
		amount float64
		want   string
	}{
		{950, "950"},
		{50000, "50,000"},
		{250000, "2,50,000"},
		{1234567, "12,34,567"},
		{1999.5, "1,999.5"},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, formatINR(tc.amount))
	}
}

func TestItineraryPDF(t *testing.T) {
	data, err := ItineraryPDF(sampleItinerary())
	require.NoError(t, err)
	require.NotEmpty(t, data)
	assert.True(t, strings.HasPrefix(string(data[:5]), "%PDF-"))
}
