package progress

// CalendarEntry is one heatmap cell.
type CalendarEntry struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
	Level int    `json:"level"`
}

// Level buckets a day's completion ratio into heatmap intensity 0..4.
// Breakpoints are 25/50/70/90 percent on the unrounded ratio, lower bounds inclusive.
func Level(completed, total int) int {
	if total <= 0 || completed <= 0 {
		return 0
	}
	scaled := completed * 100
	switch {
	case scaled >= 90*total:
		return 4
	case scaled >= 70*total:
		return 3
	case scaled >= 50*total:
		return 2
	case scaled >= 25*total:
		return 1
	default:
		return 0
	}
}

// ToCalendarEntry converts a rollup into its heatmap cell.
func ToCalendarEntry(r DailyRollup) CalendarEntry {
	return CalendarEntry{
		Date:  r.Date,
		Count: r.CompletedCount,
		Level: Level(r.CompletedCount, r.TotalCount),
	}
}
