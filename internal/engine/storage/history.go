package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rendis/skintap/internal/model"
)

// Search is one recorded submission.
type Search struct {
	ID        string
	Form      model.SearchForm
	CreatedAt time.Time
	// Opened is the number of markets that produced a URL.
	Opened int
	Total  int
}

// SearchURL is the outcome for one market of a recorded search. URL is
// empty when the market was skipped.
type SearchURL struct {
	Market string
	URL    string
	Error  string
}

// HistoryRow flattens a search and one of its URLs for export.
type HistoryRow struct {
	Search
	SearchURL
}

// RecordSearch stores a submission and its per-market outcomes in caller
// order, then prunes history beyond the retention limit.
func (s *Store) RecordSearch(form model.SearchForm, urls []SearchURL) (Search, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Search{ID: newID(), Form: form, CreatedAt: s.now().UTC(), Total: len(urls)}
	for _, u := range urls {
		if u.URL != "" {
			rec.Opened++
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return rec, fmt.Errorf("beginning tx: %w", err)
	}

	_, err = tx.Exec(`
		INSERT INTO searches
		(id, item, stattrak, exterior, min_float, max_float, paint_seed, no_trade_hold, created_at)
		VALUES (?,?,?,?,?,?,?,?,?)`,
		rec.ID, form.Item, form.StatTrak, form.Exterior, form.MinFloat, form.MaxFloat,
		form.PaintSeed, form.NoTradeHold, rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		tx.Rollback()
		return rec, fmt.Errorf("inserting search: %w", err)
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO search_urls (search_id, position, market, url, error) VALUES (?,?,?,?,?)`)
	if err != nil {
		tx.Rollback()
		return rec, fmt.Errorf("preparing stmt: %w", err)
	}
	defer stmt.Close()

	for i, u := range urls {
		var url sql.NullString
		if u.URL != "" {
			url = sql.NullString{String: u.URL, Valid: true}
		}
		if _, err := stmt.Exec(rec.ID, i, u.Market, url, u.Error); err != nil {
			tx.Rollback()
			return rec, fmt.Errorf("inserting url for %s: %w", u.Market, err)
		}
	}

	_, err = tx.Exec(`DELETE FROM searches WHERE id NOT IN (
		SELECT id FROM searches ORDER BY created_at DESC, rowid DESC LIMIT ?)`, maxHistory)
	if err != nil {
		tx.Rollback()
		return rec, fmt.Errorf("pruning history: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return rec, fmt.Errorf("committing tx: %w", err)
	}
	rec.Form.Markets = marketsOf(urls)
	return rec, nil
}

func marketsOf(urls []SearchURL) []string {
	out := make([]string, 0, len(urls))
	for _, u := range urls {
		out = append(out, u.Market)
	}
	return out
}

const searchColumns = `s.id, s.item, s.stattrak, s.exterior, s.min_float, s.max_float,
	s.paint_seed, s.no_trade_hold, s.created_at,
	(SELECT COUNT(*) FROM search_urls u WHERE u.search_id = s.id AND u.url IS NOT NULL),
	(SELECT COUNT(*) FROM search_urls u WHERE u.search_id = s.id)`

type scanner interface {
	Scan(dest ...any) error
}

func scanSearch(sc scanner) (Search, error) {
	var (
		rec Search
		ts  int64
	)
	err := sc.Scan(&rec.ID, &rec.Form.Item, &rec.Form.StatTrak, &rec.Form.Exterior,
		&rec.Form.MinFloat, &rec.Form.MaxFloat, &rec.Form.PaintSeed, &rec.Form.NoTradeHold,
		&ts, &rec.Opened, &rec.Total)
	rec.CreatedAt = time.Unix(0, ts).UTC()
	return rec, err
}

// RecentSearches returns up to limit searches, newest first.
func (s *Store) RecentSearches(limit int) ([]Search, error) {
	if limit <= 0 {
		limit = maxHistory
	}
	rows, err := s.db.Query(`SELECT `+searchColumns+` FROM searches s
		ORDER BY s.created_at DESC, s.rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying searches: %w", err)
	}
	defer rows.Close()

	var out []Search
	for rows.Next() {
		rec, err := scanSearch(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning search: %w", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range out {
		urls, err := s.SearchURLs(out[i].ID)
		if err != nil {
			return nil, err
		}
		out[i].Form.Markets = marketsOf(urls)
	}
	return out, nil
}

// GetSearch loads one search by id.
func (s *Store) GetSearch(id string) (Search, error) {
	row := s.db.QueryRow(`SELECT `+searchColumns+` FROM searches s WHERE s.id = ?`, id)
	rec, err := scanSearch(row)
	if errors.Is(err, sql.ErrNoRows) {
		return rec, fmt.Errorf("search %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return rec, fmt.Errorf("reading search: %w", err)
	}
	urls, err := s.SearchURLs(id)
	if err != nil {
		return rec, err
	}
	rec.Form.Markets = marketsOf(urls)
	return rec, nil
}

// SearchURLs returns the per-market outcomes of a search in request order.
func (s *Store) SearchURLs(id string) ([]SearchURL, error) {
	rows, err := s.db.Query(`SELECT market, COALESCE(url, ''), error FROM search_urls
		WHERE search_id = ? ORDER BY position`, id)
	if err != nil {
		return nil, fmt.Errorf("querying urls: %w", err)
	}
	defer rows.Close()

	var out []SearchURL
	for rows.Next() {
		var u SearchURL
		if err := rows.Scan(&u.Market, &u.URL, &u.Error); err != nil {
			return nil, fmt.Errorf("scanning url: %w", err)
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// AllHistory returns every search joined with its URLs, oldest first.
func (s *Store) AllHistory() ([]HistoryRow, error) {
	rows, err := s.db.Query(`SELECT ` + searchColumns + `, u.market, COALESCE(u.url, ''), u.error
		FROM searches s JOIN search_urls u ON u.search_id = s.id
		ORDER BY s.created_at, s.rowid, u.position`)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	var out []HistoryRow
	for rows.Next() {
		var (
			r  HistoryRow
			ts int64
		)
		err := rows.Scan(&r.ID, &r.Form.Item, &r.Form.StatTrak, &r.Form.Exterior,
			&r.Form.MinFloat, &r.Form.MaxFloat, &r.Form.PaintSeed, &r.Form.NoTradeHold,
			&ts, &r.Opened, &r.Total, &r.Market, &r.URL, &r.Error)
		if err != nil {
			return nil, fmt.Errorf("scanning history: %w", err)
		}
		r.CreatedAt = time.Unix(0, ts).UTC()
		out = append(out, r)
	}
	return out, rows.Err()
}

// DeleteSearch removes a search and its URLs.
func (s *Store) DeleteSearch(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec("DELETE FROM searches WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("deleting search: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("search %s: %w", id, ErrNotFound)
	}
	return nil
}

// Count returns the number of stored searches.
func (s *Store) Count() (int, error) {
	var count int
	err := s.db.QueryRow("SELECT COUNT(*) FROM searches").Scan(&count)
	return count, err
}
