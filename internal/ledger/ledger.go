// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package ledger records converted source documents in a SQLite database so
// unchanged inputs can be skipped on later runs.
//
// An input is unchanged when its fingerprint (BLAKE3 over the source bytes
// and the conversion settings) matches the stored one and every output file
// recorded for it still hashes to the digest stored when it was written.
package ledger

import (
	"context"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/zeebo/blake3"

	"github.com/pdiddy/one2xopp/pkg/types"
)

// DefaultPath is the ledger location relative to the working directory.
const DefaultPath = ".one2xopp/ledger.db"

// timeFormat is fixed-width so stored timestamps sort as text.
const timeFormat = "2006-01-02T15:04:05.000000000Z"

// Store manages the ledger database. Records written through one Store
// share a run ID.
type Store struct {
	db    *sql.DB
	runID string
	start time.Time
}

// Open opens or creates the ledger at path. Call BeginRun before
// recording conversions.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		path = DefaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating ledger directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening ledger: %w", err)
	}

	s := &Store{db: db, runID: uuid.NewString(), start: time.Now().UTC()}
	if err := s.createSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// RunID returns the ID stamped on records of this run.
func (s *Store) RunID() string {
	return s.runID
}

func (s *Store) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			started_at TEXT NOT NULL,
			finished_at TEXT,
			converted INTEGER NOT NULL DEFAULT 0,
			skipped INTEGER NOT NULL DEFAULT 0,
			failed INTEGER NOT NULL DEFAULT 0
		)`,
		`CREATE TABLE IF NOT EXISTS conversions (
			source TEXT PRIMARY KEY,
			fingerprint TEXT NOT NULL,
			pages INTEGER NOT NULL,
			outputs TEXT NOT NULL,
			mode TEXT NOT NULL,
			run_id TEXT NOT NULL REFERENCES runs(id),
			converted_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conversions_run_id ON conversions(run_id)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// BeginRun registers this run. Record and FinishRun need it first.
func (s *Store) BeginRun(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, started_at) VALUES (?, ?)`,
		s.runID, s.start.Format(timeFormat))
	if err != nil {
		return fmt.Errorf("registering run: %w", err)
	}
	return nil
}

// output is one recorded output file and the BLAKE3 digest of its
// contents when it was written.
type output struct {
	Path   string `json:"path"`
	Digest string `json:"blake3"`
}

// Unchanged reports whether source was converted before with the same
// fingerprint and every recorded output still holds the bytes written then.
func (s *Store) Unchanged(ctx context.Context, source, fingerprint string) (bool, error) {
	var stored, outputsJSON string
	err := s.db.QueryRowContext(ctx,
		`SELECT fingerprint, outputs FROM conversions WHERE source = ?`, source,
	).Scan(&stored, &outputsJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("looking up %s: %w", source, err)
	}
	if stored != fingerprint {
		return false, nil
	}

	var outputs []output
	if err := json.Unmarshal([]byte(outputsJSON), &outputs); err != nil {
		return false, nil
	}
	for _, out := range outputs {
		digest, err := Fingerprint(out.Path, nil)
		if err != nil || digest != out.Digest {
			return false, nil
		}
	}
	return true, nil
}

// Record upserts the entry for rec.Source, stamping it with this run. Every
// path in rec.Outputs is hashed, so it must exist.
func (s *Store) Record(ctx context.Context, rec types.ConversionRecord) error {
	outputs := make([]output, len(rec.Outputs))
	for i, path := range rec.Outputs {
		digest, err := Fingerprint(path, nil)
		if err != nil {
			return fmt.Errorf("hashing output: %w", err)
		}
		outputs[i] = output{Path: path, Digest: digest}
	}
	outputsJSON, err := json.Marshal(outputs)
	if err != nil {
		return fmt.Errorf("encoding outputs: %w", err)
	}
	if rec.ConvertedAt.IsZero() {
		rec.ConvertedAt = time.Now()
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO conversions (source, fingerprint, pages, outputs, mode, run_id, converted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source) DO UPDATE SET
			fingerprint=excluded.fingerprint, pages=excluded.pages,
			outputs=excluded.outputs, mode=excluded.mode,
			run_id=excluded.run_id, converted_at=excluded.converted_at`,
		rec.Source, rec.Fingerprint, rec.Pages, string(outputsJSON), string(rec.Mode),
		s.runID, rec.ConvertedAt.UTC().Format(timeFormat),
	)
	if err != nil {
		return fmt.Errorf("recording %s: %w", rec.Source, err)
	}
	return nil
}

// FinishRun stores the batch counts of this run.
func (s *Store) FinishRun(ctx context.Context, converted, skipped, failed int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET finished_at = ?, converted = ?, skipped = ?, failed = ? WHERE id = ?`,
		time.Now().UTC().Format(timeFormat), converted, skipped, failed, s.runID)
	if err != nil {
		return fmt.Errorf("finishing run: %w", err)
	}
	return nil
}

// History returns ledger entries, most recent first. limit <= 0 returns all.
func (s *Store) History(ctx context.Context, limit int) ([]types.ConversionRecord, error) {
	query := `SELECT source, fingerprint, pages, outputs, mode, run_id, converted_at
		FROM conversions ORDER BY converted_at DESC, source`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []types.ConversionRecord
	for rows.Next() {
		var (
			rec         types.ConversionRecord
			outputsJSON string
			mode        string
			convertedAt string
		)
		if err := rows.Scan(&rec.Source, &rec.Fingerprint, &rec.Pages, &outputsJSON, &mode, &rec.RunID, &convertedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		rec.Mode = types.OutputMode(mode)
		var outputs []output
		if json.Unmarshal([]byte(outputsJSON), &outputs) == nil {
			rec.Outputs = make([]string, len(outputs))
			for i, o := range outputs {
				rec.Outputs[i] = o.Path
			}
		}
		if t, err := time.Parse(timeFormat, convertedAt); err == nil {
			rec.ConvertedAt = t
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Fingerprint hashes the file at path together with settings, which should
// be a stable encoding of everything that shapes the output.
func Fingerprint(path string, settings []byte) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := blake3.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	h.Write(settings)
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Nop is a ledger that remembers nothing.
type Nop struct{}

func (Nop) Unchanged(context.Context, string, string) (bool, error) { return false, nil }
func (Nop) Record(context.Context, types.ConversionRecord) error    { return nil }
