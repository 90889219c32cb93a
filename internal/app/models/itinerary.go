package models

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// TravelStyle is the budget tier a trip is planned around.
type TravelStyle string

const (
	StyleBudget      TravelStyle = "budget"
	StyleComfortable TravelStyle = "comfortable"
	StyleLuxury      TravelStyle = "luxury"
)

// ValidTravelStyles lists the accepted travel styles in display order.
var ValidTravelStyles = []TravelStyle{StyleBudget, StyleComfortable, StyleLuxury}

// Location is a geocoded point tied to a specific day of the trip.
type Location struct {
	Name        string  `json:"name"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description string  `json:"description"`
	Day         int     `json:"day"`
}

// Complete reports whether every field required for a map marker is present.
// Zero coordinates are treated as placeholders, matching the lenient policy
// of the location extractor.
func (l Location) Complete() bool {
	return l.Name != "" && l.Lat != 0 && l.Lng != 0 && l.Description != "" && l.Day != 0
}

// Activity is a single timed action within a day. Location is only set when
// the activity happens at a specific, real-world place; generic activities
// ("check into hotel") carry no location.
type Activity struct {
	Time        string    `json:"time"`
	Description string    `json:"description"`
	Location    *Location `json:"location,omitempty"`
}

// DailyPlan is one day's titled list of activities. Day numbers are 1-based
// and contiguous across the trip.
type DailyPlan struct {
	Day        int        `json:"day"`
	Title      string     `json:"title"`
	Activities []Activity `json:"activities"`
}

// Itinerary is the full generated or saved trip plan. Locations is the
// deduplicated flat list of every geocoded activity location, recomputed
// deterministically from DailyPlans rather than trusted from the model.
type Itinerary struct {
	Title            string      `json:"title"`
	Summary          string      `json:"summary"`
	Destination      string      `json:"destination,omitempty"`
	EstimatedCost    float64     `json:"estimatedCost"`
	DailyPlans       []DailyPlan `json:"dailyPlans"`
	Locations        []Location  `json:"locations"`
	UserID           string      `json:"userId,omitempty"`
	CreatedAt        string      `json:"createdAt,omitempty"`
	StartingLocation string      `json:"startingLocation,omitempty"`
}

// SortDays orders the daily plans ascending by day number. Callers re-sort
// defensively after every generation, adjustment or load.
func (it *Itinerary) SortDays() {
	if it == nil {
		return
	}
	sort.SliceStable(it.DailyPlans, func(i, j int) bool {
		return it.DailyPlans[i].Day < it.DailyPlans[j].Day
	})
}

// GenerationRequest carries the wizard's collected trip parameters to the
// prompt flows. Dates are serialized as 2006-01-02. Exactly one of
// Destination or PhotoDataURI must be set; the wizard enforces this.
type GenerationRequest struct {
	Destination      string      `json:"destination"`
	StartingLocation string      `json:"startingLocation"`
	TravelStyle      TravelStyle `json:"travelStyle"`
	StartDate        string      `json:"startDate"`
	EndDate          string      `json:"endDate"`
	Interests        []string    `json:"interests"`
	Moods            []string    `json:"moods"`
	Languages        []string    `json:"languages"`
	PhotoDataURI     string      `json:"photoDataUri,omitempty"`
}

// DateLayout is the wire format for wizard dates.
const DateLayout = "2006-01-02"

// NumberOfDays computes the inclusive trip length; a trip whose end date
// equals its start date is one day long. Returns 0 when either date is
// missing or malformed.
func (r GenerationRequest) NumberOfDays() int {
	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return 0
	}
	end, err := time.Parse(DateLayout, r.EndDate)
	if err != nil {
		return 0
	}
	if end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours()/24) + 1
}

// SavedItinerary is the persisted record wrapping a full itinerary payload
// under the owning user. CreatedAt is server-stamped on insert.
type SavedItinerary struct {
	ID          uuid.UUID `json:"id"`
	UserID      uuid.UUID `json:"userId"`
	Title       string    `json:"title"`
	Destination string    `json:"destination"`
	CreatedAt   time.Time `json:"createdAt"`
	Itinerary   Itinerary `json:"itineraryData"`
}
