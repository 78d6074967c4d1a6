package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/bharatverse/content-pipeline/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS scraped_content (
	id         TEXT PRIMARY KEY,
	topic      TEXT NOT NULL,
	source     TEXT NOT NULL,
	source_url TEXT NOT NULL,
	title      TEXT NOT NULL,
	raw_text   TEXT NOT NULL,
	word_count INTEGER NOT NULL,
	images     TEXT NOT NULL,
	metadata   TEXT NOT NULL,
	scraped_at DATETIME NOT NULL,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_scraped_content_topic ON scraped_content(topic);
CREATE INDEX IF NOT EXISTS idx_scraped_content_source ON scraped_content(source);
CREATE INDEX IF NOT EXISTS idx_scraped_content_source_url ON scraped_content(source_url);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// SaveContents inserts every item under the given topic and returns the
// stored records with their generated IDs.
func (s *SQLiteStore) SaveContents(ctx context.Context, topic string, contents []model.ScrapedContent) ([]Record, error) {
	if len(contents) == 0 {
		return nil, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin tx")
	}
	defer tx.Rollback() //nolint:errcheck

	records := make([]Record, 0, len(contents))
	for _, c := range contents {
		imagesJSON, err := json.Marshal(c.Images)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal images")
		}
		metadataJSON, err := json.Marshal(c.Metadata)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: marshal metadata")
		}

		source, _ := c.Metadata["source"].(string)

		id := uuid.New().String()
		_, err = tx.ExecContext(ctx,
			`INSERT INTO scraped_content
				(id, topic, source, source_url, title, raw_text, word_count, images, metadata, scraped_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			id, topic, source, c.SourceURL, c.Title, c.RawText,
			model.WordCount(c.RawText), string(imagesJSON), string(metadataJSON),
			c.ScrapedAt.UTC(),
		)
		if err != nil {
			return nil, eris.Wrapf(err, "sqlite: insert content %s", c.SourceURL)
		}

		records = append(records, Record{ID: id, Topic: topic, Content: c})
	}

	if err := tx.Commit(); err != nil {
		return nil, eris.Wrap(err, "sqlite: commit")
	}
	return records, nil
}

// ListByTopic returns stored records for a topic, newest first.
func (s *SQLiteStore) ListByTopic(ctx context.Context, topic string, filter Filter) ([]Record, error) {
	query := `SELECT id, topic, source_url, title, raw_text, images, metadata, scraped_at
		FROM scraped_content WHERE topic = ?`
	args := []any{topic}

	if filter.Source != "" {
		query += ` AND source = ?`
		args = append(args, filter.Source)
	}
	query += ` ORDER BY scraped_at DESC`

	limit := filter.Limit
	if limit <= 0 {
		limit = 100
	}
	query += ` LIMIT ?`
	args = append(args, limit)

	if filter.Offset > 0 {
		query += ` OFFSET ?`
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list by topic")
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		r, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *r)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list by topic iterate")
}

// ListTopics returns the distinct topics with stored content, newest first.
func (s *SQLiteStore) ListTopics(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT topic FROM scraped_content GROUP BY topic ORDER BY MAX(scraped_at) DESC`,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list topics")
	}
	defer rows.Close()

	var topics []string
	for rows.Next() {
		var t string
		if err := rows.Scan(&t); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan topic")
		}
		topics = append(topics, t)
	}
	return topics, eris.Wrap(rows.Err(), "sqlite: list topics iterate")
}

func scanRecord(rows *sql.Rows) (*Record, error) {
	var r Record
	var imagesJSON, metadataJSON string
	var scrapedAt time.Time

	err := rows.Scan(&r.ID, &r.Topic, &r.Content.SourceURL, &r.Content.Title,
		&r.Content.RawText, &imagesJSON, &metadataJSON, &scrapedAt)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: scan record")
	}

	if err := json.Unmarshal([]byte(imagesJSON), &r.Content.Images); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal images")
	}
	if err := json.Unmarshal([]byte(metadataJSON), &r.Content.Metadata); err != nil {
		return nil, eris.Wrap(err, "sqlite: unmarshal metadata")
	}
	r.Content.ScrapedAt = scrapedAt
	return &r, nil
}
