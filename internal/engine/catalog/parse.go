package catalog

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrEmptyCatalog = errors.New("catalog has no usable entries")

// Parse decodes a catalog file. Two shapes are accepted:
//
//	{"items": {"AK-47 | Redline (Field-Tested)": {"buff163": 33912, "youpin": 553}}}
//	{"AK-47 | Redline (Field-Tested)": 33912}
//
// The second is the flat goods-id dump the community publishes for Buff.
func Parse(data []byte) (*Catalog, error) {
	// Tolerate a UTF-8 BOM from hand-edited files.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decoding catalog: %w", err)
	}

	src := raw
	if items, ok := raw["items"].(map[string]any); ok {
		src = items
	}

	entries := make(map[string]Entry, len(src))
	for name, v := range src {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		e, ok := parseEntry(v)
		if !ok {
			continue
		}
		entries[name] = e
	}

	if len(entries) == 0 {
		return nil, ErrEmptyCatalog
	}
	return New(entries), nil
}

func parseEntry(v any) (Entry, bool) {
	switch val := v.(type) {
	case float64, string:
		id := safeInt(val)
		return Entry{Buff163: id}, id > 0
	case map[string]any:
		e := Entry{
			Buff163: safeInt(val["buff163"]),
			Youpin:  safeInt(val["youpin"]),
		}
		if phases, ok := val["buff_phases"].(map[string]any); ok {
			e.BuffPhases = make(map[string]int, len(phases))
			for phase, tag := range phases {
				if n := safeInt(tag); n > 0 {
					e.BuffPhases[phase] = int(n)
				}
			}
		}
		return e, e.Buff163 > 0 || e.Youpin > 0
	}
	return Entry{}, false
}

// safeInt extracts an integer id from a JSON number or numeric string.
func safeInt(data any) int64 {
	switch v := data.(type) {
	case float64:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	}
	return 0
}
