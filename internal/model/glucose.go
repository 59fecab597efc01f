package model

import (
	"time"

	"github.com/google/uuid"
)

// GlucoseSteps is the fixed ordered set of daily measurement
// checkpoints. The cycle position matters, not the calendar day.
var GlucoseSteps = [6]string{
	"before_breakfast",
	"after_breakfast",
	"before_lunch",
	"after_lunch",
	"before_dinner",
	"after_dinner",
}

// GlucoseStepIndex returns the position of a step label, or -1.
func GlucoseStepIndex(step string) int {
	for i, s := range GlucoseSteps {
		if s == step {
			return i
		}
	}
	return -1
}

// NextGlucoseStep cycles to the step after the given index, in fixed
// order regardless of calendar gaps.
func NextGlucoseStep(lastIndex int) (int, string) {
	next := (lastIndex + 1) % len(GlucoseSteps)
	return next, GlucoseSteps[next]
}

// GlucoseReading is one daily measurement. At most one reading exists
// per user per UTC calendar date, and readings are append-only.
type GlucoseReading struct {
	ID        uuid.UUID `db:"id" json:"id"`
	UserID    uuid.UUID `db:"user_id" json:"user_id"`
	Date      time.Time `db:"date" json:"date"`
	StepIndex int       `db:"step_index" json:"step_index"`
	Step      string    `db:"step" json:"step"`
	Value     float64   `db:"value" json:"value"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

type CreateGlucoseRequest struct {
	Date      string  `json:"date" binding:"required,datetime=2006-01-02"`
	StepIndex int     `json:"step_index" binding:"min=0,max=5"`
	Step      string  `json:"step" binding:"required,glucosestep"`
	Value     float64 `json:"value" binding:"required,gt=0"`
}

type GlucoseFilter struct {
	Pagination
	From string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To   string `form:"to" binding:"omitempty,datetime=2006-01-02"`
}

// GlucoseTodayResponse backs the client-side one-per-day lock.
type GlucoseTodayResponse struct {
	Exists   bool            `json:"exists"`
	Reading  *GlucoseReading `json:"reading,omitempty"`
	NextStep string          `json:"next_step"`
}
