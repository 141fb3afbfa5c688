// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists publications and research profiles in SQLite.
// Publications are always replaced wholesale per user; profiles are
// upserted with a version that increments by exactly one per run.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/scholar-profile/pkg/types"
)

// Store manages the profile SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the database at cfg.Path, creating parent
// directories and the schema as needed.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	if dir := filepath.Dir(cfg.Path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS publications (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id TEXT NOT NULL,
			pmid TEXT,
			pmcid TEXT,
			doi TEXT,
			title TEXT,
			journal TEXT,
			year INTEGER,
			author_position TEXT,
			abstract TEXT,
			methods_text TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_publications_user ON publications(user_id)`,
		`CREATE TABLE IF NOT EXISTS profiles (
			user_id TEXT PRIMARY KEY,
			version INTEGER NOT NULL,
			summary TEXT,
			research_areas TEXT,
			techniques TEXT,
			model_systems TEXT,
			key_questions TEXT,
			future_directions TEXT,
			grant_titles TEXT,
			abstracts_hash TEXT,
			priorities TEXT,
			generated_at TEXT
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// querier is satisfied by both *sql.DB and *sql.Tx, so write helpers run
// standalone or inside a caller's transaction.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	PrepareContext(ctx context.Context, query string) (*sql.Stmt, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// ReplacePublications deletes every publication for the user and bulk
// inserts the freshly derived set in one transaction, so no stale rows
// from an earlier run survive.
func (s *Store) ReplacePublications(ctx context.Context, userID string, pubs []types.Publication) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replacePublicationsIn(ctx, tx, userID, pubs); err != nil {
		return err
	}
	return tx.Commit()
}

func replacePublicationsIn(ctx context.Context, q querier, userID string, pubs []types.Publication) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM publications WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("deleting publications: %w", err)
	}

	stmt, err := q.PrepareContext(ctx, `INSERT INTO publications
		(user_id, pmid, pmcid, doi, title, journal, year, author_position, abstract, methods_text)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, p := range pubs {
		var methods sql.NullString
		if p.MethodsText != nil {
			methods = sql.NullString{String: *p.MethodsText, Valid: true}
		}
		if _, err := stmt.ExecContext(ctx,
			userID, p.PMID, p.PMCID, p.DOI, p.Title, p.Journal, p.Year,
			string(p.AuthorPosition), p.Abstract, methods,
		); err != nil {
			return fmt.Errorf("inserting publication %q: %w", p.Title, err)
		}
	}
	return nil
}

// SaveRun persists one pipeline run's output atomically: the publication
// set is replaced and the profile upserted in a single transaction, so a
// failure leaves both entities at the previous run's state. It returns
// the stored profile version.
func (s *Store) SaveRun(ctx context.Context, userID string, pubs []types.Publication, p *types.Profile) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if err := replacePublicationsIn(ctx, tx, userID, pubs); err != nil {
		return 0, err
	}
	version, err := upsertProfileIn(ctx, tx, p)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing run: %w", err)
	}
	return version, nil
}

// Publications returns the user's stored publications.
func (s *Store) Publications(ctx context.Context, userID string) ([]types.Publication, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT pmid, pmcid, doi, title, journal, year,
		author_position, abstract, methods_text
		FROM publications WHERE user_id = ? ORDER BY rowid`, userID)
	if err != nil {
		return nil, fmt.Errorf("querying publications: %w", err)
	}
	defer rows.Close()

	var pubs []types.Publication
	for rows.Next() {
		p := types.Publication{UserID: userID}
		var position string
		var methods sql.NullString
		if err := rows.Scan(&p.PMID, &p.PMCID, &p.DOI, &p.Title, &p.Journal, &p.Year,
			&position, &p.Abstract, &methods); err != nil {
			return nil, fmt.Errorf("scanning publication: %w", err)
		}
		p.AuthorPosition = types.AuthorPosition(position)
		if methods.Valid {
			p.MethodsText = &methods.String
		}
		pubs = append(pubs, p)
	}
	return pubs, rows.Err()
}

// GetProfile returns the user's profile, or nil when none exists yet.
func (s *Store) GetProfile(ctx context.Context, userID string) (*types.Profile, error) {
	row := s.db.QueryRowContext(ctx, `SELECT version, summary, research_areas, techniques,
		model_systems, key_questions, future_directions, grant_titles, abstracts_hash,
		priorities, generated_at
		FROM profiles WHERE user_id = ?`, userID)

	p := types.Profile{UserID: userID}
	var areas, techniques, systems, questions, directions, grants, generatedAt string
	err := row.Scan(&p.Version, &p.Summary, &areas, &techniques, &systems,
		&questions, &directions, &grants, &p.AbstractsHash, &p.Priorities, &generatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying profile: %w", err)
	}

	for _, pair := range []struct {
		raw  string
		dest *[]string
	}{
		{areas, &p.ResearchAreas},
		{techniques, &p.Techniques},
		{systems, &p.ModelSystems},
		{questions, &p.KeyQuestions},
		{directions, &p.FutureDirections},
		{grants, &p.GrantTitles},
	} {
		if pair.raw == "" {
			continue
		}
		if err := json.Unmarshal([]byte(pair.raw), pair.dest); err != nil {
			return nil, fmt.Errorf("decoding profile field: %w", err)
		}
	}

	if t, parseErr := time.Parse(time.RFC3339Nano, generatedAt); parseErr == nil {
		p.GeneratedAt = t
	}
	return &p, nil
}

// UpsertProfile creates the profile at version 1 or updates the existing
// row at version+1, overwriting only the synthesis-derived fields, grant
// titles, abstracts hash, and generation timestamp. Stored priorities are
// left untouched on update. It returns the stored version.
func (s *Store) UpsertProfile(ctx context.Context, p *types.Profile) (int, error) {
	return upsertProfileIn(ctx, s.db, p)
}

func upsertProfileIn(ctx context.Context, q querier, p *types.Profile) (int, error) {
	encoded := make([]string, 6)
	for i, field := range [][]string{
		p.ResearchAreas, p.Techniques, p.ModelSystems,
		p.KeyQuestions, p.FutureDirections, p.GrantTitles,
	} {
		if field == nil {
			field = []string{}
		}
		data, err := json.Marshal(field)
		if err != nil {
			return 0, fmt.Errorf("encoding profile field: %w", err)
		}
		encoded[i] = string(data)
	}
	generatedAt := p.GeneratedAt.UTC().Format(time.RFC3339Nano)

	var existing int
	err := q.QueryRowContext(ctx,
		`SELECT version FROM profiles WHERE user_id = ?`, p.UserID).Scan(&existing)
	if err == sql.ErrNoRows {
		_, err := q.ExecContext(ctx, `INSERT INTO profiles
			(user_id, version, summary, research_areas, techniques, model_systems,
			 key_questions, future_directions, grant_titles, abstracts_hash, priorities, generated_at)
			VALUES (?, 1, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			p.UserID, p.Summary, encoded[0], encoded[1], encoded[2], encoded[3],
			encoded[4], encoded[5], p.AbstractsHash, p.Priorities, generatedAt)
		if err != nil {
			return 0, fmt.Errorf("inserting profile: %w", err)
		}
		return 1, nil
	}
	if err != nil {
		return 0, fmt.Errorf("querying profile version: %w", err)
	}

	version := existing + 1
	_, err = q.ExecContext(ctx, `UPDATE profiles SET version = ?, summary = ?,
		research_areas = ?, techniques = ?, model_systems = ?, key_questions = ?,
		future_directions = ?, grant_titles = ?, abstracts_hash = ?, generated_at = ?
		WHERE user_id = ?`,
		version, p.Summary, encoded[0], encoded[1], encoded[2], encoded[3],
		encoded[4], encoded[5], p.AbstractsHash, generatedAt, p.UserID)
	if err != nil {
		return 0, fmt.Errorf("updating profile: %w", err)
	}
	return version, nil
}

// SetPriorities stores the user's free-text priorities, creating a bare
// profile row if none exists so the text survives until the first run.
func (s *Store) SetPriorities(ctx context.Context, userID, priorities string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE profiles SET priorities = ? WHERE user_id = ?`, priorities, userID)
	if err != nil {
		return fmt.Errorf("updating priorities: %w", err)
	}
	if n, _ := res.RowsAffected(); n > 0 {
		return nil
	}

	_, err = s.db.ExecContext(ctx, `INSERT INTO profiles
		(user_id, version, summary, research_areas, techniques, model_systems,
		 key_questions, future_directions, grant_titles, abstracts_hash, priorities, generated_at)
		VALUES (?, 0, '', '[]', '[]', '[]', '[]', '[]', '[]', '', ?, '')`,
		userID, priorities)
	if err != nil {
		return fmt.Errorf("inserting priorities row: %w", err)
	}
	return nil
}

// Clear removes the user's publications and profile, priorities
// included.
func (s *Store) Clear(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM publications WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing publications: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM profiles WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("clearing profile: %w", err)
	}
	return tx.Commit()
}

// ProfileYAML renders the stored profile as YAML for export.
func (s *Store) ProfileYAML(ctx context.Context, userID string) ([]byte, error) {
	p, err := s.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, fmt.Errorf("no profile stored for user %s", userID)
	}
	return yaml.Marshal(p)
}
