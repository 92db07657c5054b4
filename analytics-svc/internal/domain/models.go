package domain

import "github.com/nazarkrivolesov/kitchen-2.0/apperr"

type Period string

const (
	PeriodToday Period = "today"
	PeriodAll   Period = "all"

	DefaultTopLimit = 10
	MaxTopLimit     = 50
)

// OrderStatuses lists every bucket of the status breakdown, so a summary
// reports zero for statuses no order has reached yet.
var OrderStatuses = []string{"new", "cooking", "delivery", "completed", "cancelled"}

func (p Period) Valid() bool {
	return p == PeriodToday || p == PeriodAll
}

// DishStat is one row of the popularity ranking. Quantity counts portions,
// not orders.
type DishStat struct {
	Rank     int    `json:"rank"`
	DishID   string `json:"dish_id"`
	Name     string `json:"name"`
	Quantity int64  `json:"quantity"`
}

type Summary struct {
	Date         string           `json:"date"`
	Revenue      int64            `json:"revenue"`
	Orders       int64            `json:"orders"`
	AverageOrder int64            `json:"average_order"`
	Statuses     map[string]int64 `json:"statuses"`
}

type TopQuery struct {
	Period Period
	Limit  int
}

// Normalize fills the defaults and validates the query.
func (q *TopQuery) Normalize() error {
	if q.Period == "" {
		q.Period = PeriodToday
	}
	if q.Limit == 0 {
		q.Limit = DefaultTopLimit
	}

	v := &apperr.ValidationError{}
	if !q.Period.Valid() {
		v.Add("period", "must be one of today, all")
	}
	if q.Limit < 1 || q.Limit > MaxTopLimit {
		v.Add("limit", "must be between 1 and 50")
	}
	return v.OrNil()
}
