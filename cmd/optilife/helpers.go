package optilife

import (
	"database/sql"
	"fmt"
	"io"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/ADILE66/OptilifeAI-sub001/internal/app"
	"github.com/ADILE66/OptilifeAI-sub001/internal/badge"
	"github.com/ADILE66/OptilifeAI-sub001/internal/config"
	"github.com/ADILE66/OptilifeAI-sub001/internal/db"
	"github.com/ADILE66/OptilifeAI-sub001/internal/logs"
	"github.com/ADILE66/OptilifeAI-sub001/internal/model"
	"github.com/ADILE66/OptilifeAI-sub001/internal/service"
	"github.com/ADILE66/OptilifeAI-sub001/internal/storage"
)

// session is everything a command needs once config, database and the
// active user have been resolved.
type session struct {
	cfg     *config.Config
	log     *zap.Logger
	db      *sql.DB
	dbPath  string
	store   storage.Store
	tracker *service.Tracker
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath, true)
	}
	path, err := app.DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return config.Load(path, false)
}

func resolveDBPath(cfg *config.Config) (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	if cfg != nil && cfg.Storage.Path != "" {
		return cfg.Storage.Path, nil
	}
	return app.DefaultDBPath()
}

func openDB(path string) (*sql.DB, error) {
	if err := app.EnsureDBDir(path); err != nil {
		return nil, err
	}
	sqldb, err := db.Open(path)
	if err != nil {
		return nil, err
	}
	if err := db.ApplyMigrations(sqldb); err != nil {
		sqldb.Close()
		return nil, err
	}
	return sqldb, nil
}

func withDB(run func(*sql.DB) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := resolveDBPath(cfg)
	if err != nil {
		return err
	}
	sqldb, err := openDB(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()
	return run(sqldb)
}

// resolveUser picks --user, then identity.user from config, then the
// persisted active user.
func resolveUser(sqldb *sql.DB, cfg *config.Config) (string, error) {
	if id := strings.TrimSpace(userID); id != "" {
		return id, nil
	}
	if id := strings.TrimSpace(cfg.Identity.User); id != "" {
		return id, nil
	}
	return service.ActiveUser(sqldb)
}

func withSession(run func(*session) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := logs.New(cfg.Env.Log.Level, cfg.Env.Log.Pretty)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	path, err := resolveDBPath(cfg)
	if err != nil {
		return err
	}
	sqldb, err := openDB(path)
	if err != nil {
		return err
	}
	defer sqldb.Close()

	user, err := resolveUser(sqldb, cfg)
	if err != nil {
		return err
	}
	store := storage.NewSQLiteStore(sqldb)
	tracker := service.NewTracker(store,
		service.WithLogger(log),
		service.WithStrictFasting(cfg.Fasting.Strict),
	)
	if err := tracker.Reset(user); err != nil {
		return err
	}
	log.Debug("session ready", zap.String("db", path), zap.String("user", user))
	return run(&session{cfg: cfg, log: log, db: sqldb, dbPath: path, store: store, tracker: tracker})
}

func requireUser(s *session) error {
	if s.tracker.UserID() == "" {
		return fmt.Errorf("no active user (pass --user or run `optilife user switch <id>`)")
	}
	return nil
}

// withMutation runs a write against the tracker and reports any badge it
// unlocked.
func withMutation(out io.Writer, run func(*service.Tracker) error) error {
	return withSession(func(s *session) error {
		if err := requireUser(s); err != nil {
			return err
		}
		before := len(s.tracker.EarnedBadges())
		if err := run(s.tracker); err != nil {
			return err
		}
		earned := s.tracker.EarnedBadges()
		if len(earned) > before {
			printBadges(out, "Badge earned", earned[before:])
		}
		return nil
	})
}

func printBadges(out io.Writer, prefix string, ids []string) {
	for _, id := range ids {
		rule, ok := badge.Lookup(id)
		if !ok {
			fmt.Fprintf(out, "%s: %s\n", prefix, id)
			continue
		}
		fmt.Fprintf(out, "%s: %s (%s)\n", prefix, rule.Title, rule.Description)
	}
}

func formatTimestamp(ms int64) string {
	return model.TimeOf(ms, time.Local).Format("2006-01-02 15:04")
}

func parseDateTime(date, timeStr string) (time.Time, error) {
	date = strings.TrimSpace(date)
	timeStr = strings.TrimSpace(timeStr)
	if date == "" || timeStr == "" {
		return time.Time{}, fmt.Errorf("both date and time are required")
	}
	t, err := time.ParseInLocation("2006-01-02 15:04", date+" "+timeStr, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date/time %q %q (expected YYYY-MM-DD and HH:MM)", date, timeStr)
	}
	return t, nil
}

func requireID(args []string) (string, error) {
	id := strings.TrimSpace(args[0])
	if id == "" {
		return "", fmt.Errorf("id is required")
	}
	return id, nil
}
