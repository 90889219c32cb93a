// Package wizard drives the multi-step trip planning form. The wizard is a
// small state machine: each step validates its own fields before the user can
// advance, going back never validates, and submit re-checks everything before
// handing the request off to the viewer.
package wizard

import (
	"time"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

// Step identifies a wizard screen. Steps advance strictly in order.
type Step int

const (
	StepDestination Step = iota + 1
	StepStartingLocation
	StepDates
	StepStyle
	StepVibe
	StepLanguage
	StepSummary
)

const firstStep = StepDestination
const lastStep = StepSummary

var stepNames = map[Step]string{
	StepDestination:      "destination",
	StepStartingLocation: "startingLocation",
	StepDates:            "dates",
	StepStyle:            "travelStyle",
	StepVibe:             "vibe",
	StepLanguage:         "language",
	StepSummary:          "summary",
}

func (s Step) String() string {
	if name, ok := stepNames[s]; ok {
		return name
	}
	return "unknown"
}

// State is the wizard's whole progress, serialized into the session between
// requests.
type State struct {
	Step    Step                     `json:"step"`
	Request models.GenerationRequest `json:"request"`
}

// NewState starts a fresh wizard at the destination step.
func NewState() State {
	return State{Step: firstStep}
}

// validateStep runs the guard for one step. The summary step has no fields of
// its own.
func validateStep(step Step, req models.GenerationRequest) models.FieldErrors {
	switch step {
	case StepDestination:
		return req.ValidateDestination()
	case StepStartingLocation:
		return req.ValidateStartingLocation()
	case StepDates:
		return req.ValidateDates()
	case StepStyle:
		return req.ValidateStyle()
	case StepVibe:
		return req.ValidateVibes()
	case StepLanguage:
		return req.ValidateLanguages()
	default:
		return nil
	}
}

// Apply merges a step's submitted fields into the state. Only the fields
// belonging to the current step are touched, so a stale submission cannot
// clobber later answers.
func (s *State) Apply(update models.GenerationRequest) {
	switch s.Step {
	case StepDestination:
		// Destination and photo are mutually exclusive; setting one clears
		// the other.
		if update.PhotoDataURI != "" {
			s.Request.PhotoDataURI = update.PhotoDataURI
			s.Request.Destination = ""
		} else {
			s.Request.Destination = update.Destination
			s.Request.PhotoDataURI = ""
		}
	case StepStartingLocation:
		s.Request.StartingLocation = update.StartingLocation
	case StepDates:
		s.Request.StartDate = update.StartDate
		s.Request.EndDate = update.EndDate
	case StepStyle:
		s.Request.TravelStyle = update.TravelStyle
	case StepVibe:
		s.Request.Interests = update.Interests
		s.Request.Moods = update.Moods
	case StepLanguage:
		s.Request.Languages = update.Languages
	}
}

// Next validates the current step and advances on success.
func (s *State) Next() models.FieldErrors {
	if errs := validateStep(s.Step, s.Request); len(errs) > 0 {
		return errs
	}
	if s.Step < lastStep {
		s.Step++
	}
	return nil
}

// Back moves to the previous step without validating; answers are kept.
func (s *State) Back() {
	if s.Step > firstStep {
		s.Step--
	}
}

// Submit re-validates the whole request, normalizes the dates to the wire
// format and returns the finished request. The caller owns the handoff and
// the reset.
func (s *State) Submit() (models.GenerationRequest, error) {
	req := s.Request
	normalizeDates(&req)
	if err := req.Validate(); err != nil {
		return models.GenerationRequest{}, err
	}
	return req, nil
}

// normalizeDates re-parses and re-formats the dates so any parseable input
// leaves as 2006-01-02 exactly. Unparseable values are left for validation to
// report.
func normalizeDates(req *models.GenerationRequest) {
	if t, err := time.Parse(models.DateLayout, req.StartDate); err == nil {
		req.StartDate = t.Format(models.DateLayout)
	}
	if t, err := time.Parse(models.DateLayout, req.EndDate); err == nil {
		req.EndDate = t.Format(models.DateLayout)
	}
}
