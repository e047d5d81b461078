package migration

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"
)

type migrationStep struct {
	Name string
	SQL  string
}

var steps = []migrationStep{
	{
		Name: "create_table_documents",
		SQL: `CREATE TABLE IF NOT EXISTS documents (
  seq                BIGSERIAL   NOT NULL,
  id                 TEXT        PRIMARY KEY,
  title              TEXT        NOT NULL,
  file_name          TEXT        NOT NULL,
  status             TEXT        NOT NULL DEFAULT 'pending'
                     CHECK (status IN ('pending', 'processing', 'completed', 'failed')),
  language           TEXT        NOT NULL DEFAULT '',
  summary            TEXT        NOT NULL DEFAULT '',
  extracted_deadline TEXT        NOT NULL DEFAULT '',
  created_at         TIMESTAMPTZ NOT NULL DEFAULT now(),
  upload_path        TEXT        NOT NULL DEFAULT ''
);`,
	},
	{
		Name: "create_index_documents_created_at_seq",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_created_at_seq ON documents (created_at DESC, seq DESC);`,
	},
	{
		Name: "create_index_documents_status",
		SQL:  `CREATE INDEX IF NOT EXISTS idx_documents_status ON documents (status);`,
	},
}

const sentinelQuery = "SELECT to_regclass('public.documents') IS NOT NULL"

// runLog stamps every migration log line with the shared fields of one run.
type runLog struct {
	loc    *time.Location
	dbHost string
	start  time.Time
}

func (r runLog) emit(event, status string, fields map[string]any) {
	data := map[string]any{
		"component":   "database",
		"event":       event,
		"status":      status,
		"db_host":     r.dbHost,
		"duration_ms": time.Since(r.start).Milliseconds(),
	}
	for k, v := range fields {
		data[k] = v
	}
	logJSON(r.loc, data)
}

// EnsureMigrated creates the documents schema when the sentinel table is absent.
// All steps run in one transaction, so a failed step leaves no partial schema behind.
func EnsureMigrated(ctx context.Context, db *sql.DB, loc *time.Location, dbHost string) error {
	rl := runLog{loc: loc, dbHost: dbHost, start: time.Now()}
	rl.emit("db_migration_check", "starting", nil)

	var exists bool
	if err := db.QueryRowContext(ctx, sentinelQuery).Scan(&exists); err != nil {
		err = fmt.Errorf("failed to check sentinel table: %w", err)
		rl.emit("db_migration_failed", "error", map[string]any{"error_message": err.Error()})
		return err
	}
	if exists {
		rl.emit("db_migration_skip", "success", map[string]any{"msg": "schema already exists, skipping migration"})
		return nil
	}

	rl.emit("db_migration_start", "in_progress", map[string]any{"steps": len(steps)})

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		err = fmt.Errorf("begin migration: %w", err)
		rl.emit("db_migration_failed", "error", map[string]any{"error_message": err.Error()})
		return err
	}
	defer tx.Rollback()

	for _, step := range steps {
		stepStart := time.Now()
		if _, err := tx.ExecContext(ctx, step.SQL); err != nil {
			rl.emit("db_migration_failed", "error", map[string]any{
				"migration_step":   step.Name,
				"error_message":    err.Error(),
				"step_duration_ms": time.Since(stepStart).Milliseconds(),
			})
			return fmt.Errorf("migration step %s failed: %w", step.Name, err)
		}
		rl.emit("db_migration_step", "success", map[string]any{
			"migration_step":   step.Name,
			"step_duration_ms": time.Since(stepStart).Milliseconds(),
		})
	}

	if err := tx.Commit(); err != nil {
		err = fmt.Errorf("commit migration: %w", err)
		rl.emit("db_migration_failed", "error", map[string]any{"error_message": err.Error()})
		return err
	}

	rl.emit("db_migration_success", "success", nil)
	return nil
}

func logJSON(loc *time.Location, data map[string]any) {
	data["ts"] = time.Now().In(loc).Format(time.RFC3339Nano)
	if _, ok := data["level"]; !ok {
		if data["status"] == "error" {
			data["level"] = "error"
		} else {
			data["level"] = "info"
		}
	}

	b, err := json.Marshal(data)
	if err != nil {
		log.Printf("failed to marshal migration log: %v", err)
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
