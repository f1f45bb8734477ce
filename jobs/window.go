package jobs

import "reaction-ledger/models"

// DefaultDayOffset is how many days back the reconciliation window sits.
// Two days, not one: kept as in the deployed bot until the owner decides otherwise.
const DefaultDayOffset = 2

// TargetDate returns the calendar date offset days before today.
func TargetDate(today models.Date, offset int) models.Date {
	return today.AddDays(-offset)
}

// Due returns the records posted on target, preserving order.
func Due(records []models.MessageRecord, target models.Date) []models.MessageRecord {
	var due []models.MessageRecord
	for _, rec := range records {
		if rec.PostDate == target {
			due = append(due, rec)
		}
	}
	return due
}
