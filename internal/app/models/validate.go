package models

import (
	"fmt"
	"time"
)

// Canonical option sets offered by the planner wizard. Validation accepts any
// non-empty value for interests and moods (the model copes with free text),
// but languages and travel styles are constrained to these lists.
var (
	KnownInterests = []string{"cultural_heritage", "adventure", "foodie", "nightlife", "relaxation", "nature"}
	KnownMoods     = []string{"calm", "inspired", "exhilarated", "connected", "social", "spontaneous"}
	KnownLanguages = []string{"english", "hindi", "bengali", "telugu", "marathi", "tamil", "urdu", "gujarati", "kannada", "malayalam"}
)

func validStyle(s TravelStyle) bool {
	for _, v := range ValidTravelStyles {
		if s == v {
			return true
		}
	}
	return false
}

func knownLanguage(lang string) bool {
	for _, l := range KnownLanguages {
		if lang == l {
			return true
		}
	}
	return false
}

// ValidateDestination checks the Destination-or-Photo step: either a real
// destination or an inspirational photo must be present, never hard-required
// both. The error is attributed to the destination field, mirroring how the
// form highlights it.
func (r GenerationRequest) ValidateDestination() FieldErrors {
	var errs FieldErrors
	if r.Destination == "" && r.PhotoDataURI == "" {
		errs = append(errs, FieldError{Field: "destination", Message: "Please either enter a destination or upload a photo."})
	}
	return errs
}

// ValidateStartingLocation checks the starting-point step.
func (r GenerationRequest) ValidateStartingLocation() FieldErrors {
	var errs FieldErrors
	if len(r.StartingLocation) < 3 {
		errs = append(errs, FieldError{Field: "startingLocation", Message: "Starting location must be at least 3 characters long."})
	}
	return errs
}

// ValidateDates checks the date-range step. An end date equal to the start
// date is a valid one-day trip.
func (r GenerationRequest) ValidateDates() FieldErrors {
	var errs FieldErrors
	start, startErr := time.Parse(DateLayout, r.StartDate)
	if startErr != nil {
		errs = append(errs, FieldError{Field: "startDate", Message: "A start date is required."})
	}
	end, endErr := time.Parse(DateLayout, r.EndDate)
	if endErr != nil {
		errs = append(errs, FieldError{Field: "endDate", Message: "An end date is required."})
	}
	if startErr == nil && endErr == nil && end.Before(start) {
		errs = append(errs, FieldError{Field: "endDate", Message: "End date cannot be before the start date."})
	}
	return errs
}

// ValidateStyle checks the travel-style step.
func (r GenerationRequest) ValidateStyle() FieldErrors {
	var errs FieldErrors
	if !validStyle(r.TravelStyle) {
		errs = append(errs, FieldError{Field: "travelStyle", Message: "Please pick a travel style."})
	}
	return errs
}

// ValidateVibes checks the vibe-selection step: at least one interest or one
// mood must be chosen.
func (r GenerationRequest) ValidateVibes() FieldErrors {
	var errs FieldErrors
	if len(r.Interests) == 0 && len(r.Moods) == 0 {
		errs = append(errs, FieldError{Field: "interests", Message: "You have to select at least one vibe for your trip."})
	}
	return errs
}

// ValidateLanguages checks the language-selection step.
func (r GenerationRequest) ValidateLanguages() FieldErrors {
	var errs FieldErrors
	if len(r.Languages) == 0 {
		errs = append(errs, FieldError{Field: "languages", Message: "Please select at least one language."})
		return errs
	}
	for _, lang := range r.Languages {
		if !knownLanguage(lang) {
			errs = append(errs, FieldError{Field: "languages", Message: fmt.Sprintf("Unknown language %q.", lang)})
		}
	}
	return errs
}

// Validate runs every step refinement over the whole request. The wizard
// calls the per-step validators on `next`; this is the terminal guard before
// submission and the boundary check on anything arriving over the wire.
func (r GenerationRequest) Validate() error {
	var errs FieldErrors
	errs = append(errs, r.ValidateDestination()...)
	errs = append(errs, r.ValidateStartingLocation()...)
	errs = append(errs, r.ValidateDates()...)
	errs = append(errs, r.ValidateStyle()...)
	errs = append(errs, r.ValidateVibes()...)
	errs = append(errs, r.ValidateLanguages()...)
	return errs.OrNil()
}

// Validate checks an itinerary against the full schema: required fields,
// contiguous sorted day numbers, complete locations on activities that carry
// one, and a locations list that is exactly the set of unique (name, day)
// pairs drawn from the daily plans.
func (it *Itinerary) Validate() error {
	var errs FieldErrors
	if it == nil {
		return FieldErrors{{Field: "itinerary", Message: "missing itinerary"}}
	}
	if it.Title == "" {
		errs = append(errs, FieldError{Field: "title", Message: "title is required"})
	}
	if it.Summary == "" {
		errs = append(errs, FieldError{Field: "summary", Message: "summary is required"})
	}
	if it.EstimatedCost < 0 {
		errs = append(errs, FieldError{Field: "estimatedCost", Message: "estimated cost cannot be negative"})
	}
	if len(it.DailyPlans) == 0 {
		errs = append(errs, FieldError{Field: "dailyPlans", Message: "at least one daily plan is required"})
	}

	seenDays := make(map[int]bool, len(it.DailyPlans))
	for i, plan := range it.DailyPlans {
		field := fmt.Sprintf("dailyPlans[%d]", i)
		if plan.Day < 1 {
			errs = append(errs, FieldError{Field: field + ".day", Message: "day numbers are 1-based"})
			continue
		}
		if seenDays[plan.Day] {
			errs = append(errs, FieldError{Field: field + ".day", Message: fmt.Sprintf("duplicate day %d", plan.Day)})
		}
		seenDays[plan.Day] = true
		for j, act := range plan.Activities {
			if act.Location != nil && !act.Location.Complete() {
				errs = append(errs, FieldError{
					Field:   fmt.Sprintf("%s.activities[%d].location", field, j),
					Message: "location must carry name, coordinates, description and day",
				})
			}
		}
	}
	for d := 1; d <= len(it.DailyPlans); d++ {
		if !seenDays[d] {
			errs = append(errs, FieldError{Field: "dailyPlans", Message: fmt.Sprintf("day %d is missing; days must be contiguous", d)})
		}
	}

	// The flat list must be derivable from the plans: no entry may name a
	// (name, day) pair absent from every activity, and no pair may repeat.
	type key struct {
		name string
		day  int
	}
	inPlans := make(map[key]bool)
	for _, plan := range it.DailyPlans {
		for _, act := range plan.Activities {
			if act.Location != nil {
				inPlans[key{act.Location.Name, act.Location.Day}] = true
			}
		}
	}
	seenLocs := make(map[key]bool, len(it.Locations))
	for i, loc := range it.Locations {
		field := fmt.Sprintf("locations[%d]", i)
		if !loc.Complete() {
			errs = append(errs, FieldError{Field: field, Message: "incomplete location entry"})
			continue
		}
		k := key{loc.Name, loc.Day}
		if seenLocs[k] {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("duplicate location %q on day %d", loc.Name, loc.Day)})
		}
		seenLocs[k] = true
		if !inPlans[k] {
			errs = append(errs, FieldError{Field: field, Message: fmt.Sprintf("location %q on day %d does not appear in any daily plan", loc.Name, loc.Day)})
		}
	}

	return errs.OrNil()
}
