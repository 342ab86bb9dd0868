package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/auth"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/config"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/database"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/handlers"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/logging"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/progress"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/realtime"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/routes"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/scheduler"
	"github.com/FANGxPC/C2C-Hackathon-sub000/internal/store"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// App holds the wired services of one server process.
type App struct {
	Config  config.Config
	Log     *slog.Logger
	DB      *gorm.DB
	Tasks   *store.TaskStore
	Users   *store.UserStore
	Rollups *store.RollupStore
	Memory  *progress.MemoryCache
	Engine  *progress.Engine
	Hub     *realtime.Hub
	Tokens  *auth.TokenManager
	Handler *handlers.Handler
	Router  *gin.Engine
	Clock   func() time.Time

	location  *time.Location
	weekStart time.Weekday
}

// Open connects to the configured database and wires everything on top of it.
func Open(cfg config.Config, log *slog.Logger) (*App, error) {
	db, err := database.Open(cfg.DB.Path, logging.GormLevel(cfg.LogLevel))
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		return nil, err
	}
	return New(cfg, db, log)
}

// New wires stores, the progress engine and the HTTP layer over an open database.
func New(cfg config.Config, db *gorm.DB, log *slog.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}
	loc, err := cfg.Tracker.Location()
	if err != nil {
		return nil, err
	}
	weekStart, err := cfg.Tracker.FirstWeekday()
	if err != nil {
		return nil, err
	}

	a := &App{
		Config:  cfg,
		Log:     log,
		DB:      db,
		Tasks:   store.NewTaskStore(db),
		Users:   store.NewUserStore(db),
		Rollups: store.NewRollupStore(db, cfg.Cache.TTL),
		Hub:     realtime.NewHub(log.With("component", "hub")),
		Tokens:  auth.NewTokenManager(cfg.JWT),
		Clock:   time.Now,

		location:  loc,
		weekStart: weekStart,
	}

	var rollupCache progress.RollupCache
	switch cfg.Cache.Backend {
	case "memory":
		a.Memory = progress.NewMemoryCache(cfg.Cache.TTL, a.Clock)
		rollupCache = a.Memory
	case "database":
		rollupCache = a.Rollups
	case "none":
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Cache.Backend)
	}

	a.Engine = progress.NewEngine(a.Tasks, progress.Options{
		Location:        loc,
		WeekStart:       weekStart,
		MaxCalendarDays: cfg.Tracker.CalendarMaxDays,
		Cache:           rollupCache,
		Notifier:        a.Hub,
		Logger:          log.With("component", "progress"),
		Clock:           a.Clock,
	})

	a.Handler = handlers.New(handlers.Deps{
		Tasks:  a.Tasks,
		Users:  a.Users,
		Engine: a.Engine,
		Hub:    a.Hub,
		Tokens: a.Tokens,
		Log:    log,
	})
	a.Router = routes.SetupRoutes(a.Handler, a.Tokens, log.With("component", "http"))
	return a, nil
}

// Scheduler builds the maintenance scheduler for the configured cache backend.
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	s := scheduler.New(a.location, time.Minute, a.Log.With("component", "scheduler"))

	if a.Memory != nil {
		if _, err := s.Schedule("purge_cache", a.Config.Jobs.PurgeSchedule, scheduler.PurgeCache(a.Memory, a.Log)); err != nil {
			return nil, err
		}
	}
	prune := scheduler.PruneRollups(a.Rollups, a.Config.Jobs.RetentionDays, a.Clock, a.location, a.Log)
	if _, err := s.Schedule("prune_rollups", a.Config.Jobs.PurgeSchedule, prune); err != nil {
		return nil, err
	}
	return s, nil
}

// Rebuild recomputes and stores the last days rollups of every listed user, or all users when none are given.
func (a *App) Rebuild(ctx context.Context, userIDs []string, days int) (int, error) {
	if len(userIDs) == 0 {
		ids, err := a.Users.ListIDs(ctx)
		if err != nil {
			return 0, err
		}
		userIDs = ids
	}

	// Rebuilt rows always go to the persistent table so they outlive this process.
	if a.Config.Cache.Backend != "database" {
		a.Log.Warn("rebuilding stored rollups while the server reads from another cache backend", "backend", a.Config.Cache.Backend)
	}
	engine := progress.NewEngine(a.Tasks, progress.Options{
		Location:        a.location,
		WeekStart:       a.weekStart,
		MaxCalendarDays: a.Config.Tracker.CalendarMaxDays,
		Cache:           a.Rollups,
		Logger:          a.Log.With("component", "rebuild"),
		Clock:           a.Clock,
	})

	now := engine.Now()
	for _, id := range userIDs {
		rollups, err := engine.Rebuild(ctx, id, now, days)
		if err != nil {
			return 0, fmt.Errorf("rebuild %s: %w", id, err)
		}
		a.Log.Info("rebuilt rollups", "user_id", id, "days", len(rollups))
	}
	return len(userIDs), nil
}

// Prune deletes stored rollups outside the retention window.
func (a *App) Prune(ctx context.Context) (int64, error) {
	cutoff := scheduler.RetentionCutoff(a.Clock(), a.Config.Jobs.RetentionDays, a.location)
	return a.Rollups.PruneBefore(ctx, cutoff)
}

// Close releases the database connection pool.
func (a *App) Close() error {
	sqlDB, err := a.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
