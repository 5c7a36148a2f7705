package db

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/unowned-ai/moodlog/pkg/logging"
)

const (
	// TargetSchemaVersion is the highest schema version this build understands.
	TargetSchemaVersion int64 = 1
	// MoodlogDBComponent names the key-value component in moodlog_versions.
	MoodlogDBComponent = "moodlogdb"
)

// migrations maps each schema version to the SQL that produces it from
// the previous version.
var migrations = map[int64]string{
	1: SchemaV1,
}

const setVersionStatement = `
INSERT INTO moodlog_versions (component, version) VALUES (?, ?)
ON CONFLICT(component) DO UPDATE SET version = excluded.version, created_at = unixepoch();`

// GetComponentSchemaVersion returns the recorded schema version of a
// component, or 0 when the component or the versions table is missing.
func GetComponentSchemaVersion(db *sql.DB, componentName string) (int64, error) {
	var version int64
	err := db.QueryRow(`SELECT version FROM moodlog_versions WHERE component = ?;`, componentName).Scan(&version)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, nil
		}
		if strings.Contains(err.Error(), "no such table") {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to scan version for component '%s': %w", componentName, err)
	}
	return version, nil
}

// InitializeSchema applies every migration up to schemaVersionToSet on a
// fresh database and records that version.
func InitializeSchema(db *sql.DB, schemaVersionToSet int64) error {
	return migrate(db, 0, schemaVersionToSet)
}

func migrate(db *sql.DB, from, to int64) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin migration: %w", err)
	}
	defer tx.Rollback()

	for v := from + 1; v <= to; v++ {
		stmt, ok := migrations[v]
		if !ok {
			// Versions past the newest known migration only move the marker.
			continue
		}
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("failed to apply schema v%d: %w", v, err)
		}
	}

	if _, err := tx.Exec(setVersionStatement, MoodlogDBComponent, to); err != nil {
		return fmt.Errorf("failed to record version %d for component %s: %w", to, MoodlogDBComponent, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit migration to v%d: %w", to, err)
	}
	logging.Info("schema migrated", "component", MoodlogDBComponent, "from", from, "to", to)
	return nil
}

// UpgradeDB brings the moodlogdb component up to appTargetSchemaVersion.
// A database newer than the application is refused. dbIdentifierForLog is
// only used in messages.
func UpgradeDB(db *sql.DB, dbIdentifierForLog string, appTargetSchemaVersion int64) error {
	current, err := GetComponentSchemaVersion(db, MoodlogDBComponent)
	if err != nil {
		return err
	}

	switch {
	case current == appTargetSchemaVersion:
		logging.Debug("schema up to date", "db", dbIdentifierForLog, "version", current)
		return nil
	case current > appTargetSchemaVersion:
		return fmt.Errorf("component %s in database '%s' has schema version %d, which is newer than application's target schema version %d. Please upgrade the application", MoodlogDBComponent, dbIdentifierForLog, current, appTargetSchemaVersion)
	}

	for v := current + 1; v <= appTargetSchemaVersion; v++ {
		if _, ok := migrations[v]; !ok {
			return fmt.Errorf("component %s in database '%s' has schema version %d; no migration to version %d is available", MoodlogDBComponent, dbIdentifierForLog, current, v)
		}
	}

	if err := migrate(db, current, appTargetSchemaVersion); err != nil {
		return fmt.Errorf("failed to upgrade component %s in database '%s': %w", MoodlogDBComponent, dbIdentifierForLog, err)
	}
	return nil
}
