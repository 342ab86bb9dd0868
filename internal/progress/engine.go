package progress

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/models"
)

// DefaultCalendarDays is the heatmap window used when the caller gives none.
const DefaultCalendarDays = 365

// TaskStore is the read side of task persistence the engine depends on.
// Ranges are half-open: [start, end).
type TaskStore interface {
	ListTasksDueInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Task, error)
	ListTasksCompletedInRange(ctx context.Context, userID string, start, end time.Time) ([]models.Task, error)
}

// RollupCache stores derived rollups per (user, date). Entries are last-writer-wins.
type RollupCache interface {
	GetMany(ctx context.Context, userID string, dates []string) (map[string]DailyRollup, error)
	Put(ctx context.Context, userID string, rollups []DailyRollup) error
	Invalidate(ctx context.Context, userID string, dates []string) error
}

// Notifier is told which of a user's dates were invalidated.
type Notifier interface {
	ProgressInvalidated(userID string, dates []string)
}

// Options configures an Engine.
type Options struct {
	Location        *time.Location
	WeekStart       time.Weekday
	MaxCalendarDays int
	Cache           RollupCache
	Notifier        Notifier
	Logger          *slog.Logger
	Clock           func() time.Time
}

// Engine computes daily, weekly and calendar progress from a TaskStore.
type Engine struct {
	store    TaskStore
	cache    RollupCache
	notifier Notifier
	log      *slog.Logger
	loc      *time.Location
	weekDay  time.Weekday
	maxDays  int
	clock    func() time.Time

	// gens counts invalidations per user. A read only keeps what it computed
	// if no invalidation for that user happened in between.
	mu   sync.Mutex
	gens map[string]uint64
}

// NewEngine builds an Engine. A nil Cache disables caching.
func NewEngine(store TaskStore, opts Options) *Engine {
	e := &Engine{
		store:    store,
		cache:    opts.Cache,
		notifier: opts.Notifier,
		log:      opts.Logger,
		loc:      opts.Location,
		weekDay:  opts.WeekStart,
		maxDays:  opts.MaxCalendarDays,
		clock:    opts.Clock,
		gens:     make(map[string]uint64),
	}
	if e.loc == nil {
		e.loc = time.UTC
	}
	if e.maxDays <= 0 {
		e.maxDays = 10 * DefaultCalendarDays
	}
	if e.clock == nil {
		e.clock = time.Now
	}
	if e.log == nil {
		e.log = slog.New(slog.DiscardHandler)
	}
	return e
}

// Now returns the engine clock's current time in the reference timezone.
func (e *Engine) Now() time.Time {
	return e.clock().In(e.loc)
}

// Location returns the reference timezone used for day boundaries.
func (e *Engine) Location() *time.Location {
	return e.loc
}

// Daily returns the rollup of the day containing t.
func (e *Engine) Daily(ctx context.Context, userID string, t time.Time) (DailyRollup, error) {
	rollups, err := e.rollups(ctx, userID, []Day{DayOf(t, e.loc)})
	if err != nil {
		return DailyRollup{}, err
	}
	return rollups[0], nil
}

// Weekly returns the seven days of the week containing today, starting at the configured week start.
func (e *Engine) Weekly(ctx context.Context, userID string, today time.Time) ([]WeekDay, error) {
	start := WeekStart(today, e.weekDay, e.loc)
	days := make([]Day, 7)
	for i := range days {
		days[i] = start.AddDays(i)
	}

	rollups, err := e.rollups(ctx, userID, days)
	if err != nil {
		return nil, err
	}

	out := make([]WeekDay, len(days))
	for i, r := range rollups {
		out[i] = toWeekDay(r, days[i].Start)
	}
	return out, nil
}

// Calendar returns one heatmap entry per day for the window of n days ending at end.
func (e *Engine) Calendar(ctx context.Context, userID string, end time.Time, n int) ([]CalendarEntry, error) {
	if err := e.validateWindow(n); err != nil {
		return nil, err
	}

	rollups, err := e.rollups(ctx, userID, DaysEndingAt(end, n, e.loc))
	if err != nil {
		return nil, err
	}

	out := make([]CalendarEntry, len(rollups))
	for i, r := range rollups {
		out[i] = ToCalendarEntry(r)
	}
	return out, nil
}

// Dashboard is the aggregate shown on the home screen.
type Dashboard struct {
	// CompletedToday lists tasks whose completedAt falls today, whatever their due day.
	CompletedToday []models.Task `json:"completedToday"`
	// CompletedCount and TotalToday are today's rollup: tasks due today, and how many
	// of those are done. CompletedCount can therefore differ from len(CompletedToday).
	CompletedCount int       `json:"completedCount"`
	TotalToday     int       `json:"totalToday"`
	WeekStats      []WeekDay `json:"weekStats"`
	// Summary describes CompletedToday.
	Summary string `json:"summary"`
}

// Dashboard assembles today's numbers, the current week and the summary sentence.
// Counts follow the due-day rollup; completedToday and the summary list what was
// actually finished today regardless of due date.
func (e *Engine) Dashboard(ctx context.Context, userID string, now time.Time) (Dashboard, error) {
	today := DayOf(now, e.loc)

	completed, err := e.store.ListTasksCompletedInRange(ctx, userID, today.Start, today.End)
	if err != nil {
		return Dashboard{}, fmt.Errorf("list completed tasks: %w", err)
	}
	if completed == nil {
		completed = []models.Task{}
	}

	week, err := e.Weekly(ctx, userID, now)
	if err != nil {
		return Dashboard{}, err
	}

	var todayRollup WeekDay
	for _, d := range week {
		if d.Date == today.Key() {
			todayRollup = d
			break
		}
	}

	return Dashboard{
		CompletedToday: completed,
		CompletedCount: todayRollup.CompletedCount,
		TotalToday:     todayRollup.TotalCount,
		WeekStats:      week,
		Summary:        Summary(completed),
	}, nil
}

// Streak describes runs of consecutive days with at least one completed task.
type Streak struct {
	Current int `json:"current"`
	Longest int `json:"longest"`
	Window  int `json:"window"`
}

// Streak computes streaks over the n-day window ending today. An empty today does not
// break the current streak, since the day is not over yet.
func (e *Engine) Streak(ctx context.Context, userID string, today time.Time, n int) (Streak, error) {
	entries, err := e.Calendar(ctx, userID, today, n)
	if err != nil {
		return Streak{}, err
	}

	s := Streak{Window: n}
	run := 0
	for _, entry := range entries {
		if entry.Count > 0 {
			run++
			if run > s.Longest {
				s.Longest = run
			}
			continue
		}
		run = 0
	}

	i := len(entries) - 1
	if i >= 0 && entries[i].Count == 0 {
		i--
	}
	for ; i >= 0 && entries[i].Count > 0; i-- {
		s.Current++
	}
	return s, nil
}

// Invalidate drops cached rollups for dates and notifies listeners.
func (e *Engine) Invalidate(ctx context.Context, userID string, dates []string) error {
	if len(dates) == 0 {
		return nil
	}
	// Bump before dropping entries so an in-flight read either sees the new
	// generation or has already written what the drop below removes.
	e.bump(userID)
	if e.cache != nil {
		if err := e.cache.Invalidate(ctx, userID, dates); err != nil {
			return fmt.Errorf("invalidate rollups: %w", err)
		}
	}
	if e.notifier != nil {
		e.notifier.ProgressInvalidated(userID, dates)
	}
	e.log.Debug("rollups invalidated", "user_id", userID, "dates", dates)
	return nil
}

// Rebuild recomputes the n days ending at end from tasks, ignoring the cache, and stores the result.
func (e *Engine) Rebuild(ctx context.Context, userID string, end time.Time, n int) ([]DailyRollup, error) {
	if err := e.validateWindow(n); err != nil {
		return nil, err
	}
	days := DaysEndingAt(end, n, e.loc)
	gen := e.generation(userID)
	rollups, err := e.compute(ctx, userID, days)
	if err != nil {
		return nil, err
	}
	if err := e.putFresh(ctx, userID, gen, rollups); err != nil {
		return nil, fmt.Errorf("store rollups: %w", err)
	}
	return rollups, nil
}

func (e *Engine) generation(userID string) uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gens[userID]
}

func (e *Engine) bump(userID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gens[userID]++
}

// putFresh caches rollups computed while the user's generation was gen. Results are
// dropped when an invalidation raced the computation, and evicted again when one
// raced the write itself.
func (e *Engine) putFresh(ctx context.Context, userID string, gen uint64, rollups []DailyRollup) error {
	if e.cache == nil || len(rollups) == 0 {
		return nil
	}
	if e.generation(userID) != gen {
		e.log.Debug("discarding rollups computed before an invalidation", "user_id", userID)
		return nil
	}
	if err := e.cache.Put(ctx, userID, rollups); err != nil {
		return err
	}
	if e.generation(userID) == gen {
		return nil
	}
	dates := make([]string, len(rollups))
	for i, r := range rollups {
		dates[i] = r.Date
	}
	return e.cache.Invalidate(ctx, userID, dates)
}

func (e *Engine) validateWindow(n int) error {
	if n < 1 || n > e.maxDays {
		return fmt.Errorf("%w: days must be between 1 and %d, got %d", ErrInvalidArgument, e.maxDays, n)
	}
	return nil
}

// rollups serves days from the cache where possible and computes the rest from one
// TaskStore query spanning the missing days.
func (e *Engine) rollups(ctx context.Context, userID string, days []Day) ([]DailyRollup, error) {
	if e.cache == nil {
		return e.compute(ctx, userID, days)
	}

	gen := e.generation(userID)
	keys := make([]string, len(days))
	for i, d := range days {
		keys[i] = d.Key()
	}
	cached, err := e.cache.GetMany(ctx, userID, keys)
	if err != nil {
		e.log.Warn("rollup cache read failed", "user_id", userID, "error", err)
		cached = nil
	}

	var missing []Day
	for _, d := range days {
		if _, ok := cached[d.Key()]; !ok {
			missing = append(missing, d)
		}
	}

	if len(missing) > 0 {
		fresh, err := e.compute(ctx, userID, missing)
		if err != nil {
			return nil, err
		}
		if err := e.putFresh(ctx, userID, gen, fresh); err != nil {
			e.log.Warn("rollup cache write failed", "user_id", userID, "error", err)
		}
		if cached == nil {
			cached = make(map[string]DailyRollup, len(fresh))
		}
		for _, r := range fresh {
			cached[r.Date] = r
		}
	}

	out := make([]DailyRollup, len(days))
	for i, d := range days {
		out[i] = cached[d.Key()]
	}
	return out, nil
}

func (e *Engine) compute(ctx context.Context, userID string, days []Day) ([]DailyRollup, error) {
	if len(days) == 0 {
		return nil, nil
	}
	start, end := days[0].Start, days[len(days)-1].End
	for _, d := range days {
		if d.Start.Before(start) {
			start = d.Start
		}
		if d.End.After(end) {
			end = d.End
		}
	}

	tasks, err := e.store.ListTasksDueInRange(ctx, userID, start, end)
	if err != nil {
		return nil, fmt.Errorf("list tasks due: %w", err)
	}
	return ComputeRollups(days, tasks), nil
}
