package models

import "time"

// DailyAggregate holds per-user activity counters for one calendar day.
// A row is created lazily on the first event of the day.
type DailyAggregate struct {
	UserID           int64  `json:"user_id" db:"user_id"`
	Day              string `json:"day" db:"day"`
	WordsSaved       int    `json:"words_saved" db:"words_saved"`
	WordsReviewed    int    `json:"words_reviewed" db:"words_reviewed"`
	QuizzesCompleted int    `json:"quizzes_completed" db:"quizzes_completed"`
}

// DayOf formats t as the aggregate day key (YYYY-MM-DD, UTC).
func DayOf(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}
