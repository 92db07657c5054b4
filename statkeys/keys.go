// Package statkeys names the Redis keys agg-svc writes and analytics-svc
// reads.
package statkeys

import "time"

const (
	DateLayout = "2006-01-02"

	AllTimeDishes = "analytics:dishes:alltime"
	DishNames     = "analytics:dishes:names"
	StatusCounts  = "analytics:orders:status"
)

func Day(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// DailyDishes is a sorted set of dish id -> portions ordered that day.
func DailyDishes(day string) string {
	return "analytics:dishes:daily:" + day
}

func Revenue(day string) string {
	return "analytics:revenue:" + day
}

func Orders(day string) string {
	return "analytics:orders:" + day
}

// Processed marks an event as applied so a redelivered message is skipped.
func Processed(eventID string) string {
	return "analytics:processed:" + eventID
}
