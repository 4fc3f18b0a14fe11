package history

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/janekbaraniewski/tokencost/internal/core"
)

// costPlaces is the precision kept for stored costs; rates are per token so
// anything finer than a micro-dollar is noise.
const costPlaces = 6

// Row is one source's usage for one local day, as last observed.
type Row struct {
	Source           core.Source
	Day              string
	InputTokens      int64
	OutputTokens     int64
	CacheReadTokens  int64
	CacheWriteTokens int64
	TotalTokens      int64
	CostUSD          decimal.NullDecimal
	Models           []string
	UpdatedAt        time.Time
}

// Store persists the daily breakdown of every snapshot it is given. Each
// (source, day) pair holds the latest figures; rescans overwrite them.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func OpenStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("history: creating DB dir: %w", err)
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("history: opening DB: %w", err)
	}
	if err := configureSQLiteConnection(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: configure DB: %w", err)
	}

	store := NewStore(db)
	if err := store.Init(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) Init(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS daily_usage (
			source TEXT NOT NULL,
			day TEXT NOT NULL,
			input_tokens INTEGER NOT NULL,
			output_tokens INTEGER NOT NULL,
			cache_read_tokens INTEGER NOT NULL,
			cache_write_tokens INTEGER NOT NULL,
			total_tokens INTEGER NOT NULL,
			cost_usd TEXT,
			models TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL,
			PRIMARY KEY (source, day)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_daily_usage_day ON daily_usage(day);`,
	}

	for _, stmt := range stmts {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("history: init schema: %w", err)
		}
	}
	return nil
}

// Record upserts every day of snap. Days outside the snapshot are untouched,
// so history outlives the rolling window.
func (s *Store) Record(ctx context.Context, snap core.CostSnapshot) error {
	if len(snap.Daily) == 0 {
		return nil
	}
	now := s.now().UTC().Format(time.RFC3339Nano)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("history: begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO daily_usage (
			source, day, input_tokens, output_tokens, cache_read_tokens,
			cache_write_tokens, total_tokens, cost_usd, models, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(source, day) DO UPDATE SET
			input_tokens = excluded.input_tokens,
			output_tokens = excluded.output_tokens,
			cache_read_tokens = excluded.cache_read_tokens,
			cache_write_tokens = excluded.cache_write_tokens,
			total_tokens = excluded.total_tokens,
			cost_usd = excluded.cost_usd,
			models = excluded.models,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return fmt.Errorf("history: prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, day := range snap.Daily {
		if _, err := stmt.ExecContext(ctx,
			string(snap.Source),
			day.Date,
			day.InputTokens,
			day.OutputTokens,
			day.CacheReadTokens,
			day.CacheWriteTokens,
			day.TotalTokens,
			nullableCost(day.CostUSD),
			strings.Join(day.Models, ","),
			now,
		); err != nil {
			return fmt.Errorf("history: upsert %s %s: %w", snap.Source, day.Date, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("history: commit: %w", err)
	}
	log.Printf("[history] recorded source=%s days=%d", snap.Source, len(snap.Daily))
	return nil
}

// Rows returns stored days on or after since, oldest first. An empty src
// returns every source.
func (s *Store) Rows(ctx context.Context, src core.Source, since string) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, day, input_tokens, output_tokens, cache_read_tokens,
			cache_write_tokens, total_tokens, cost_usd, models, updated_at
		FROM daily_usage
		WHERE (? = '' OR source = ?) AND day >= ?
		ORDER BY day ASC, source ASC
	`, string(src), string(src), since)
	if err != nil {
		return nil, fmt.Errorf("history: query rows: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		var (
			r         Row
			source    string
			cost      sql.NullString
			models    string
			updatedAt string
		)
		if err := rows.Scan(&source, &r.Day, &r.InputTokens, &r.OutputTokens, &r.CacheReadTokens,
			&r.CacheWriteTokens, &r.TotalTokens, &cost, &models, &updatedAt); err != nil {
			return nil, fmt.Errorf("history: scan row: %w", err)
		}
		r.Source = core.Source(source)
		if cost.Valid {
			d, err := decimal.NewFromString(cost.String)
			if err != nil {
				return nil, fmt.Errorf("history: parse cost %q: %w", cost.String, err)
			}
			r.CostUSD = decimal.NewNullDecimal(d)
		}
		if models != "" {
			r.Models = strings.Split(models, ",")
		}
		if ts, err := time.Parse(time.RFC3339Nano, updatedAt); err == nil {
			r.UpdatedAt = ts
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("history: iterate rows: %w", err)
	}
	return out, nil
}

// Prune deletes days strictly before cutoff and returns how many rows went.
func (s *Store) Prune(ctx context.Context, cutoff string) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM daily_usage WHERE day < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("history: prune: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("history: prune rows affected: %w", err)
	}
	return n, nil
}

func nullableCost(cost *float64) any {
	if cost == nil {
		return nil
	}
	return RoundCost(*cost).String()
}

// RoundCost rounds a float cost to the stored precision.
func RoundCost(cost float64) decimal.Decimal {
	return decimal.NewFromFloat(cost).Round(costPlaces)
}
