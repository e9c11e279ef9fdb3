package models

import "time"

// LogDateLayout renders dates like "5 Jan 25".
const LogDateLayout = "2 Jan 06"

// Action is the literal written to the action column of the logs sheet.
type Action string

const (
	ActionAdded    Action = "Added"
	ActionReturned Action = "Returned"
)

// LogEntry is one append-only row of the logs sheet.
type LogEntry struct {
	Date   string `json:"date"`
	Action Action `json:"action"`
	BikeID int    `json:"bike_id"`
	Brand  string `json:"brand"`
	// User is the new rider for Added and the previous rider for Returned.
	User string `json:"user"`
}

// NewLogEntry stamps an entry with t formatted as LogDateLayout.
func NewLogEntry(t time.Time, action Action, bikeID int, brand, user string) LogEntry {
	return LogEntry{
		Date:   t.Format(LogDateLayout),
		Action: action,
		BikeID: bikeID,
		Brand:  brand,
		User:   user,
	}
}

// Values returns the entry as a sheet row: date, action, bike id, brand, user.
func (e LogEntry) Values() []interface{} {
	return []interface{}{e.Date, string(e.Action), e.BikeID, e.Brand, e.User}
}

// Transition describes a completed status update.
type Transition struct {
	BikeID         int    `json:"bike_id"`
	Brand          string `json:"brand"`
	Action         Action `json:"action"`
	PreviousStatus Status `json:"previous_status"`
	Status         Status `json:"status"`
	PreviousUser   string `json:"previous_user"`
	User           string `json:"user"`
	// Logged is false when the audit row could not be appended.
	Logged bool `json:"logged"`
}
