package dbtypes

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"sort"
)

// ItemMap maps an item name to a quantity. It is the persisted shape of the
// sender_items/receiver_items columns (JSON) and the wire shape of offer
// payloads. Quantities must be positive; Validate enforces that at the
// boundary so the engine never sees a zero or negative entry.
type ItemMap map[string]int

func (m *ItemMap) Scan(src any) error {
	if src == nil {
		*m = ItemMap{}
		return nil
	}

	switch v := src.(type) {
	case string:
		return m.parseFromBytes([]byte(v))
	case []byte:
		return m.parseFromBytes(v)
	default:
		return fmt.Errorf("ItemMap: unsupported Scan type %T", src)
	}
}

func (m ItemMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("ItemMap: marshal: %w", err)
	}
	return string(raw), nil
}

func (m *ItemMap) parseFromBytes(raw []byte) error {
	if len(raw) == 0 {
		*m = ItemMap{}
		return nil
	}
	var out map[string]int
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("ItemMap: parse: %w", err)
	}
	if out == nil {
		out = map[string]int{}
	}
	*m = ItemMap(out)
	return nil
}

// Validate rejects empty maps, blank item names, and non-positive quantities.
func (m ItemMap) Validate() error {
	if len(m) == 0 {
		return fmt.Errorf("item map must not be empty")
	}
	for item, qty := range m {
		if item == "" {
			return fmt.Errorf("item name must not be empty")
		}
		if qty <= 0 {
			return fmt.Errorf("quantity for %q must be a positive integer", item)
		}
	}
	return nil
}

// Items returns the item names in a stable order so that multi-row mutations
// always touch inventory rows in the same sequence.
func (m ItemMap) Items() []string {
	items := make([]string, 0, len(m))
	for item := range m {
		items = append(items, item)
	}
	sort.Strings(items)
	return items
}
