package progress

import (
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
)

// DailyRollup is the completion summary of one calendar day.
type DailyRollup struct {
	Date           string `json:"date"`
	CompletedCount int    `json:"completedCount"`
	TotalCount     int    `json:"totalCount"`
	Percentage     int    `json:"percentage"`
}

// WeekDay is a DailyRollup labelled with its short weekday name.
type WeekDay struct {
	Date           string `json:"date"`
	Day            string `json:"day"`
	CompletedCount int    `json:"completedCount"`
	TotalCount     int    `json:"totalCount"`
	Percentage     int    `json:"percentage"`
}

// Percentage returns round-half-up(100*completed/total), or 0 when total is 0.
func Percentage(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	if completed >= total {
		return 100
	}
	return (200*completed + total) / (2 * total)
}

func newRollup(date string, completed, total int) DailyRollup {
	return DailyRollup{
		Date:           date,
		CompletedCount: completed,
		TotalCount:     total,
		Percentage:     Percentage(completed, total),
	}
}

// ComputeDailyRollup counts the tasks due within day and how many of them are completed.
// Tasks without a due date are ignored.
func ComputeDailyRollup(day Day, tasks []models.Task) DailyRollup {
	var completed, total int
	for _, t := range tasks {
		if t.DueDate == nil || !day.Contains(*t.DueDate) {
			continue
		}
		total++
		if t.Completed {
			completed++
		}
	}
	return newRollup(day.Key(), completed, total)
}

// ComputeRollups buckets tasks by due day in a single pass and returns one rollup per
// requested day, in the order given. Days with no tasks yield zero rollups.
func ComputeRollups(days []Day, tasks []models.Task) []DailyRollup {
	if len(days) == 0 {
		return nil
	}
	loc := days[0].Start.Location()

	type counts struct{ completed, total int }
	byDay := make(map[string]counts, len(days))
	for _, t := range tasks {
		if t.DueDate == nil {
			continue
		}
		key := DayOf(*t.DueDate, loc).Key()
		c := byDay[key]
		c.total++
		if t.Completed {
			c.completed++
		}
		byDay[key] = c
	}

	out := make([]DailyRollup, len(days))
	for i, d := range days {
		c := byDay[d.Key()]
		out[i] = newRollup(d.Key(), c.completed, c.total)
	}
	return out
}

func toWeekDay(r DailyRollup, date time.Time) WeekDay {
	return WeekDay{
		Date:           r.Date,
		Day:            date.Weekday().String()[:3],
		CompletedCount: r.CompletedCount,
		TotalCount:     r.TotalCount,
		Percentage:     r.Percentage,
	}
}
