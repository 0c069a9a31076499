package storage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rendis/skintap/internal/model"
)

// Setting keys. The form keys only pre-fill the UI on the next launch.
const (
	KeyItem        = "form.item"
	KeyStatTrak    = "form.stattrak"
	KeyExterior    = "form.exterior"
	KeyMinFloat    = "form.min_float"
	KeyMaxFloat    = "form.max_float"
	KeyPaintSeed   = "form.paint_seed"
	KeyNoTradeHold = "form.no_trade_hold"
	KeyMarkets     = "form.markets"
	KeyDarkMode    = "ui.dark_mode"
)

// SaveForm stores the raw form values, replacing the previous ones.
func (s *Store) SaveForm(f model.SearchForm) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}

	values := map[string]string{
		KeyItem:        f.Item,
		KeyStatTrak:    strconv.FormatBool(f.StatTrak),
		KeyExterior:    f.Exterior,
		KeyMinFloat:    f.MinFloat,
		KeyMaxFloat:    f.MaxFloat,
		KeyPaintSeed:   f.PaintSeed,
		KeyNoTradeHold: strconv.FormatBool(f.NoTradeHold),
		KeyMarkets:     strings.Join(f.Markets, ","),
	}
	for k, v := range values {
		if err := setSetting(tx, k, v); err != nil {
			tx.Rollback()
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing tx: %w", err)
	}
	return nil
}

// LoadForm returns the last saved form. ok is false when nothing was saved.
func (s *Store) LoadForm() (f model.SearchForm, ok bool, err error) {
	rows, err := s.db.Query("SELECT key, value FROM settings WHERE key LIKE 'form.%'")
	if err != nil {
		return f, false, fmt.Errorf("reading form: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var k, v string
		if err := rows.Scan(&k, &v); err != nil {
			return f, false, fmt.Errorf("scanning setting: %w", err)
		}
		ok = true
		switch k {
		case KeyItem:
			f.Item = v
		case KeyStatTrak:
			f.StatTrak, _ = strconv.ParseBool(v)
		case KeyExterior:
			f.Exterior = v
		case KeyMinFloat:
			f.MinFloat = v
		case KeyMaxFloat:
			f.MaxFloat = v
		case KeyPaintSeed:
			f.PaintSeed = v
		case KeyNoTradeHold:
			f.NoTradeHold, _ = strconv.ParseBool(v)
		case KeyMarkets:
			f.Markets = splitMarkets(v)
		}
	}
	return f, ok, rows.Err()
}

func splitMarkets(v string) []string {
	var out []string
	for _, m := range strings.Split(v, ",") {
		if m = strings.TrimSpace(m); m != "" {
			out = append(out, m)
		}
	}
	return out
}

func (s *Store) SetDarkMode(on bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning tx: %w", err)
	}
	if err := setSetting(tx, KeyDarkMode, strconv.FormatBool(on)); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

// DarkMode defaults to true when never set.
func (s *Store) DarkMode() (bool, error) {
	v, ok, err := s.getSetting(KeyDarkMode)
	if err != nil || !ok {
		return true, err
	}
	on, err := strconv.ParseBool(v)
	if err != nil {
		return true, nil
	}
	return on, nil
}
