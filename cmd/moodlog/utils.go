package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	pkgdb "github.com/unowned-ai/moodlog/pkg/db"
	"github.com/unowned-ai/moodlog/pkg/kvstore"
	"github.com/unowned-ai/moodlog/pkg/logging"
	"github.com/unowned-ai/moodlog/pkg/moods"
	"github.com/unowned-ai/moodlog/pkg/utils"
)

const (
	envDBPath    = "MOODLOG_DB"
	envRedisAddr = "MOODLOG_REDIS_ADDR"
	envTZ        = "MOODLOG_TZ"

	defaultRedisAddr = "localhost:6379"
)

var (
	dbPath      string
	walMode     bool
	syncMode    string
	storeName   string
	redisAddr   string
	redisPrefix string
	tzName      string
	logLevel    string
)

// applyEnvDefaults fills flags the user did not set from the environment.
func applyEnvDefaults(cmd *cobra.Command) {
	fallbacks := []struct {
		flag   string
		env    string
		target *string
	}{
		{"db", envDBPath, &dbPath},
		{"redis-addr", envRedisAddr, &redisAddr},
		{"tz", envTZ, &tzName},
	}
	for _, fb := range fallbacks {
		if cmd.Flags().Changed(fb.flag) {
			continue
		}
		if v := strings.TrimSpace(os.Getenv(fb.env)); v != "" {
			*fb.target = v
		}
	}
}

// loadLocation resolves --tz. An empty name means the local zone.
func loadLocation(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone '%s': %w", name, err)
	}
	return loc, nil
}

// openStore opens the backend chosen by --store and returns it with a
// short description for status output.
func openStore(ctx context.Context) (kvstore.Store, string, error) {
	backend, err := kvstore.ParseBackend(storeName)
	if err != nil {
		return nil, "", err
	}

	switch backend {
	case kvstore.BackendMemory:
		return kvstore.NewMemoryStore(), "memory (not persisted)", nil

	case kvstore.BackendRedis:
		store, err := kvstore.NewRedisStore(ctx, kvstore.RedisConfig{Addr: redisAddr, Prefix: redisPrefix})
		if err != nil {
			return nil, "", err
		}
		return store, fmt.Sprintf("redis %s (%s:*)", redisAddr, redisPrefix), nil

	default:
		path, err := utils.ResolveAndEnsureDBPath(dbPath)
		if err != nil {
			return nil, "", err
		}
		dbConn, err := pkgdb.OpenDBConnection(path, walMode, syncMode)
		if err != nil {
			return nil, "", err
		}
		if err := pkgdb.UpgradeDB(dbConn, path, pkgdb.TargetSchemaVersion); err != nil {
			dbConn.Close()
			return nil, "", fmt.Errorf("failed to initialize/upgrade database schema for '%s': %w", path, err)
		}
		return kvstore.NewSQLiteStore(dbConn), "sqlite " + path, nil
	}
}

// openJournal opens the configured store and loads the mood journal from
// it. The caller closes the returned store.
func openJournal(ctx context.Context) (*moods.Journal, kvstore.Store, string, error) {
	loc, err := loadLocation(tzName)
	if err != nil {
		return nil, nil, "", err
	}

	store, source, err := openStore(ctx)
	if err != nil {
		return nil, nil, "", err
	}

	journal, err := moods.Open(ctx, store, moods.WithLocation(loc))
	if err != nil {
		store.Close()
		return nil, nil, "", err
	}
	logging.Debug("journal opened", "source", source, "tz", loc.String(), "logs", len(journal.Logs()))
	return journal, store, source, nil
}

func closeStore(store kvstore.Store) {
	if err := store.Close(); err != nil {
		logging.Warn("failed to close store", "err", err)
	}
}

// formatTimestamp renders an entry's instant in the journal's zone.
func formatTimestamp(e moods.LogEntry, journal *moods.Journal) string {
	return e.Timestamp.In(journal.Location()).Format("2006-01-02 15:04")
}
