package progress

import (
	"sort"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
)

// AffectedDays lists the dates whose rollups change when a task goes from before to after.
// before is nil for a create and after is nil for a delete. The result is sorted and
// contains each date once; an edit touching neither due date nor completion yields nothing.
func AffectedDays(before, after *models.Task, loc *time.Location) []string {
	set := make(map[string]struct{}, 4)
	add := func(ts *time.Time) {
		if ts != nil {
			set[DayOf(*ts, loc).Key()] = struct{}{}
		}
	}

	switch {
	case before == nil && after == nil:
		return nil
	case before == nil:
		add(after.DueDate)
		add(after.CompletedAt)
	case after == nil:
		add(before.DueDate)
		add(before.CompletedAt)
	default:
		dueChanged := !sameDay(before.DueDate, after.DueDate, loc)
		completionChanged := before.Completed != after.Completed ||
			!sameDay(before.CompletedAt, after.CompletedAt, loc)
		if !dueChanged && !completionChanged {
			return nil
		}
		add(before.DueDate)
		add(after.DueDate)
		if completionChanged {
			add(before.CompletedAt)
			add(after.CompletedAt)
		}
	}

	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sameDay(a, b *time.Time, loc *time.Location) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return DayOf(*a, loc).Key() == DayOf(*b, loc).Key()
}
