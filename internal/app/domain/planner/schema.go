package planner

import "google.golang.org/genai"

// Response schemas handed to Gemini so structured output mode returns JSON we
// can unmarshal directly. The generation flows use the content schema, which
// deliberately has no top-level locations array: that list is rebuilt from the
// daily plans after parsing.

var locationSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"name":        {Type: genai.TypeString, Description: "Name of the location or activity."},
		"lat":         {Type: genai.TypeNumber, Description: "The latitude of the location."},
		"lng":         {Type: genai.TypeNumber, Description: "The longitude of the location."},
		"description": {Type: genai.TypeString, Description: "A short description of the activity at this location."},
		"day":         {Type: genai.TypeInteger, Description: "The day number in the itinerary."},
	},
	Required: []string{"name", "lat", "lng", "description", "day"},
}

var activitySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"time":        {Type: genai.TypeString, Description: "e.g., Morning, Afternoon, Evening, 9:00 AM"},
		"description": {Type: genai.TypeString, Description: "A description of the activity."},
		"location":    locationSchema,
	},
	Required: []string{"time", "description"},
}

var dailyPlanSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"day":        {Type: genai.TypeInteger, Description: "The day number of the itinerary."},
		"title":      {Type: genai.TypeString, Description: "A short title for the day's plan."},
		"activities": {Type: genai.TypeArray, Items: activitySchema},
	},
	Required: []string{"day", "title", "activities"},
}

// itineraryContentSchema is the generation-flow output: everything except the
// flat locations list.
var itineraryContentSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":         {Type: genai.TypeString, Description: "A creative and descriptive title for the overall trip."},
		"summary":       {Type: genai.TypeString, Description: "A brief, engaging summary of the trip plan."},
		"estimatedCost": {Type: genai.TypeNumber, Description: "An estimated total cost for the trip in Indian Rupees (INR)."},
		"destination":   {Type: genai.TypeString, Description: "The destination of the trip."},
		"dailyPlans":    {Type: genai.TypeArray, Items: dailyPlanSchema},
	},
	Required: []string{"title", "summary", "estimatedCost", "dailyPlans"},
}

// fullItinerarySchema is used by the adjustment flow, which must return the
// entire revised plan in one shot.
var fullItinerarySchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"title":         {Type: genai.TypeString, Description: "A creative and descriptive title for the overall trip."},
		"summary":       {Type: genai.TypeString, Description: "A brief, engaging summary of the trip plan."},
		"estimatedCost": {Type: genai.TypeNumber, Description: "An estimated total cost for the trip in Indian Rupees (INR)."},
		"dailyPlans":    {Type: genai.TypeArray, Items: dailyPlanSchema},
		"locations":     {Type: genai.TypeArray, Items: locationSchema},
	},
	Required: []string{"title", "summary", "estimatedCost", "dailyPlans", "locations"},
}
