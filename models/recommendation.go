package models

import "time"

// RecommendationSource records which path produced a recommendation.
type RecommendationSource string

const (
	SourceSuggestions RecommendationSource = "suggestions"
	SourceDay         RecommendationSource = "day"
	SourceWeekly      RecommendationSource = "weekly"
	SourceDefault     RecommendationSource = "default"
)

// RecommendationRequest asks for times worth offering to the customer.
type RecommendationRequest struct {
	CompanyID       int    `json:"id_empresa" binding:"required"`
	Date            string `json:"date,omitempty"` // empty means today/tomorrow suggestions
	Time            string `json:"time,omitempty"`
	DurationMinutes int    `json:"duration_minutes"`
	Slots           int    `json:"slots"`
	SchedulingFlags
}

// SuggestedSlot is one candidate start time from the booking service.
type SuggestedSlot struct {
	DayLabel  string     `json:"day_label"` // "Today", "Tomorrow" or "Friday 2025-03-14"
	Time      string     `json:"time"`      // "10:00 AM"
	Available bool       `json:"available"`
	StartsAt  *time.Time `json:"starts_at,omitempty"`
}

// Recommendation is produced fresh for every call.
type Recommendation struct {
	Slots   []SuggestedSlot      `json:"slots,omitempty"`
	Message string               `json:"message,omitempty"`
	Total   int                  `json:"total"`
	Text    string               `json:"text"`
	Source  RecommendationSource `json:"source"`
}
