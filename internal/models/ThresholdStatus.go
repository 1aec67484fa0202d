package models

import "time"

const DateLayout = "2006-01-02"

// ThresholdStatus is the persisted record of the last day the contribution
// goal was reached and the goal value that was reached on that day.
type ThresholdStatus struct {
	MetDate *string `json:"threshold_met_date"`
	MetGoal *uint32 `json:"threshold_met_goal"`
}

func NewMetStatus(day time.Time, goal uint32) ThresholdStatus {
	date := day.Format(DateLayout)
	return ThresholdStatus{
		MetDate: &date,
		MetGoal: &goal,
	}
}

func (s ThresholdStatus) IsEmpty() bool {
	return s.MetDate == nil && s.MetGoal == nil
}

// MetFor reports whether the status still satisfies goal on the calendar day
// of today. A status recorded before today, or against a lower goal, is stale.
// Dates after today are accepted as met.
func (s ThresholdStatus) MetFor(today time.Time, goal uint32) bool {
	if s.MetDate == nil || s.MetGoal == nil {
		return false
	}
	metDay, err := time.ParseInLocation(DateLayout, *s.MetDate, today.Location())
	if err != nil {
		return false
	}
	y, m, d := today.Date()
	if metDay.Before(time.Date(y, m, d, 0, 0, 0, 0, today.Location())) {
		return false
	}
	return *s.MetGoal >= goal
}
