package planner

import "github.com/FACorreiaa/sanchari/internal/app/models"

// ExtractLocations rebuilds the flat map-marker list from the daily plans.
// The model is never trusted for this list: candidates are visited in
// day-major, activity order, deduplicated on the (name, day) pair, and
// dropped when any marker field is missing. First occurrence wins.
func ExtractLocations(plans []models.DailyPlan) []models.Location {
	type key struct {
		name string
		day  int
	}
	seen := make(map[key]struct{})
	locations := make([]models.Location, 0)

	for _, plan := range plans {
		for _, activity := range plan.Activities {
			if activity.Location == nil {
				continue
			}
			loc := *activity.Location
			k := key{name: loc.Name, day: loc.Day}
			if _, ok := seen[k]; ok {
				continue
			}
			if !loc.Complete() {
				continue
			}
			seen[k] = struct{}{}
			locations = append(locations, loc)
		}
	}
	return locations
}
