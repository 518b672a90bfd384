package fs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// GroupSnapshot is the token position of one account group.
type GroupSnapshot struct {
	Total     float64            `json:"total"`
	Addresses map[string]float64 `json:"addresses"`
}

// TokenSnapshot is written as {"timestamp": ..., "<group>": {...}, ...}.
type TokenSnapshot struct {
	Timestamp time.Time
	Groups    map[string]GroupSnapshot
}

func (s TokenSnapshot) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(s.Groups)+1)
	for name, g := range s.Groups {
		if name == "timestamp" {
			return nil, fmt.Errorf("group name %q is reserved", name)
		}
		if g.Addresses == nil {
			g.Addresses = map[string]float64{}
		}
		out[name] = g
	}
	out["timestamp"] = s.Timestamp.Format(TimestampLayout)
	return json.Marshal(out)
}

func (s *TokenSnapshot) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.Groups = make(map[string]GroupSnapshot, len(raw))
	for key, value := range raw {
		if key == "timestamp" {
			var ts string
			if err := json.Unmarshal(value, &ts); err != nil {
				return fmt.Errorf("bad timestamp: %w", err)
			}
			t, err := time.ParseInLocation(TimestampLayout, ts, time.Local)
			if err != nil {
				return fmt.Errorf("bad timestamp: %w", err)
			}
			s.Timestamp = t
			continue
		}
		var g GroupSnapshot
		if err := json.Unmarshal(value, &g); err != nil {
			return fmt.Errorf("group %q: %w", key, err)
		}
		s.Groups[key] = g
	}
	return nil
}

// GroupNames returns the group keys in sorted order.
func (s TokenSnapshot) GroupNames() []string {
	names := make([]string, 0, len(s.Groups))
	for name := range s.Groups {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SaveSnapshot overwrites path with the indented snapshot.
func SaveSnapshot(path string, snap TokenSnapshot) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

func LoadSnapshot(path string) (*TokenSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	var snap TokenSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal snapshot: %w", err)
	}
	return &snap, nil
}
