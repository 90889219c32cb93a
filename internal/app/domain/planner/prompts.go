package planner

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/FACorreiaa/sanchari/internal/app/models"
)

// imageTripDays is the fixed trip length for photo-inspired itineraries.
const imageTripDays = 5

var titleCaser = cases.Title(language.English)

// joinTitled renders a slice of option values as a comma-separated,
// title-cased list for prompt interpolation.
func joinTitled(values []string) string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, titleCaser.String(v))
	}
	return strings.Join(out, ", ")
}

func buildGenerationPrompt(req models.GenerationRequest, numberOfDays int) string {
	travelDates := fmt.Sprintf("%s to %s", req.StartDate, req.EndDate)

	return fmt.Sprintf(`You are an expert AI travel planner.

Generate a personalized, realistic, and well-structured travel itinerary based on the following user input.

**Your output must be a single, valid JSON object that strictly conforms to the provided output schema. The entire output, including all titles, summaries, and descriptions, MUST be in the primary language specified in the 'Preferred Languages' section below.**

### User Preferences:
- Destination: %s
- Travel Dates: %s
- Travel Style: %s
- User Interests: %s
- Preferred Moods: %s
- Starting Location: %s
- Preferred Languages: %s

### Requirements:
1.  **Create a day-by-day itinerary** for exactly %d days that includes:
    - Places to visit (with short descriptions and precise location data including name, lat, lng, and day number).
    - Recommended food/local experiences.
    - Travel routes or logistics between stops.
    - Optional evening activities.
2.  **Omit Location for Generic Activities**: For generic activities like "Check into your hotel" or "Enjoy a relaxing evening," you MUST OMIT the 'location' field for that activity.
3.  **Ensure the itinerary fits the budget and travel style**.
4.  **Mention approximate travel times** where useful.
5.  **Keep it local, realistic, and culturally authentic**.
6.  Provide an **'estimatedCost' in Indian Rupees (INR)** for the entire trip. This cost should be a reasonable approximation based on the selected travel style, the destination, and the number of days.
7.  Return the result as a **valid JSON object** that conforms to the schema.
`,
		req.Destination,
		travelDates,
		titleCaser.String(string(req.TravelStyle)),
		joinTitled(req.Interests),
		joinTitled(req.Moods),
		req.StartingLocation,
		joinTitled(req.Languages),
		numberOfDays,
	)
}

func buildImagePrompt() string {
	return fmt.Sprintf(`You are an expert AI travel planner who creates itineraries based on images.

A user has uploaded a photo. Your task is to generate a personalized, realistic, and well-structured travel itinerary inspired by the contents and mood of this image.

**Your output must be a single, valid JSON object that strictly conforms to the provided output schema. The entire output, including all titles, summaries, and descriptions, MUST be in English.**

### Requirements:
1.  **Analyze the Image**: Determine the key elements, environment, and mood (e.g., "sunny beach," "historic temple," "mountainous landscape," "vibrant city nightlife").
2.  **Create an Itinerary**: Generate a day-by-day itinerary for %d days that is thematically consistent with the image.
    - Suggest a realistic **'destination'** that matches the image.
    - Create a **'title'** for the trip that reflects the image's inspiration.
    - Include places to visit, recommended food, local experiences, and logistics.
3.  **Omit Location for Generic Activities**: For generic activities like "Check into your hotel" or "Enjoy a relaxing evening," you MUST OMIT the 'location' field for that activity.
4.  **Provide an 'estimatedCost'** in Indian Rupees (INR) for the entire trip, assuming a "Comfortable" travel style.
5.  **Return the result as a valid JSON object** that conforms to the schema.
`, imageTripDays)
}

func buildAdjustmentPrompt(itineraryJSON string, adj AdjustmentRequest) string {
	var b strings.Builder
	b.WriteString(`You are a personalized trip adjustment expert. Your task is to take an existing travel itinerary and modify it based on real-time conditions provided by the user (e.g., weather, delays).

**Crucially, you must return a complete, valid JSON object that represents the *entire* updated itinerary, strictly conforming to the provided output schema. Do not just return the changes; return the full, revised plan.**

The user may provide one or more of the following conditions. Use the information available to make intelligent adjustments. If a piece of information isn't provided (e.g., no delays), you don't need to account for it.

Here is the original itinerary:
`)
	b.WriteString(itineraryJSON)
	b.WriteString("\n\nHere are the real-time conditions to consider:\n")
	if adj.WeatherConditions != "" {
		fmt.Fprintf(&b, "- Weather: %s\n", adj.WeatherConditions)
	}
	if adj.CurrentLocation != "" {
		fmt.Fprintf(&b, "- Current Location: %s\n", adj.CurrentLocation)
	}
	if adj.Delays != "" {
		fmt.Fprintf(&b, "- Delays: %s\n", adj.Delays)
	}
	b.WriteString(`
Based on these conditions, regenerate the itinerary. For example, if it's raining, replace an outdoor activity with a suitable indoor alternative. If there's a delay, shift the timeline of subsequent activities.

Remember to provide accurate names and coordinates for any new locations you add. The response must be a single, complete JSON object of the entire adjusted trip plan.`)
	return b.String()
}
