package model

import "time"

// Visit is a dated clinical encounter, keyed by a numeric date within a
// patient. Recording against an existing date merges into it (same-day
// visits collapse); visits are never deleted on their own.
type Visit struct {
	Date          int64     `json:"date"`
	Medications   []string  `json:"medications"`
	Diagnoses     []string  `json:"diagnoses"`
	TreatmentPlan []string  `json:"treatment_plan"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type RecordVisitRequest struct {
	Date          int64    `json:"date" binding:"required"`
	Medications   []string `json:"medications"`
	Diagnoses     []string `json:"diagnoses"`
	TreatmentPlan []string `json:"treatment_plan"`
}
