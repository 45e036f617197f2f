package photo

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"time"
)

// Entry is the stored photo state for one spreadsheet row.
type Entry struct {
	Name       string      `json:"name"`
	Company    string      `json:"company"`
	BestURL    string      `json:"best_url,omitempty"`
	BestScore  int         `json:"best_score,omitempty"`
	Status     string      `json:"status,omitempty"`
	Candidates []Candidate `json:"candidates"`
	UpdatedAt  string      `json:"updated_at,omitempty"`
}

// Store keeps photo candidates per row in a JSON file. Candidates merge
// across runs so a re-run widens the review pool instead of clobbering it.
type Store struct {
	path    string
	entries map[int]Entry
}

// OpenStore loads the candidate file at path; a missing file is an empty
// store, a corrupt one is an error.
func OpenStore(path string) (*Store, error) {
	s := &Store{path: path, entries: map[int]Entry{}}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read candidates file: %w", err)
	}

	var raw map[string]Entry
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse candidates file: %w", err)
	}
	for k, v := range raw {
		row, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		s.entries[row] = v
	}
	return s, nil
}

// Merge folds a new decision into the row's entry. Existing candidates
// are kept; new image URLs are appended; best pick and status follow the
// latest decision when it found one.
func (s *Store) Merge(row int, name, company string, d Decision) {
	entry, ok := s.entries[row]
	if !ok {
		entry = Entry{}
	}
	entry.Name = name
	entry.Company = company

	known := map[string]struct{}{}
	for _, c := range entry.Candidates {
		known[c.ImageURL] = struct{}{}
	}
	for _, c := range d.Candidates {
		if _, dup := known[c.ImageURL]; dup {
			continue
		}
		known[c.ImageURL] = struct{}{}
		entry.Candidates = append(entry.Candidates, c)
	}
	sort.SliceStable(entry.Candidates, func(i, j int) bool {
		return entry.Candidates[i].Score > entry.Candidates[j].Score
	})

	if d.BestURL != "" {
		entry.BestURL = d.BestURL
		entry.BestScore = d.BestScore
	}
	if d.Status != "" {
		entry.Status = d.Status
	}
	entry.UpdatedAt = time.Now().Format(time.RFC3339)

	s.entries[row] = entry
}

// Get returns the entry for a row.
func (s *Store) Get(row int) (Entry, bool) {
	e, ok := s.entries[row]
	return e, ok
}

// Rows returns all row numbers with entries, ascending.
func (s *Store) Rows() []int {
	out := make([]int, 0, len(s.entries))
	for r := range s.entries {
		out = append(out, r)
	}
	sort.Ints(out)
	return out
}

// Save writes the store back to its file.
func (s *Store) Save() error {
	raw := make(map[string]Entry, len(s.entries))
	for row, e := range s.entries {
		raw[strconv.Itoa(row)] = e
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal candidates: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write candidates file: %w", err)
	}
	return nil
}

// Selection is a human pick from the review page.
type Selection struct {
	URL    string `json:"url"`
	Status string `json:"status,omitempty"`
}

// LoadSelections reads the human photo picks. Two forms are accepted per
// row: a plain URL string, or an object {"url": ..., "status": ...}.
// A missing file means no picks yet.
func LoadSelections(path string) (map[int]Selection, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return map[int]Selection{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read selections file: %w", err)
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse selections file: %w", err)
	}

	out := map[int]Selection{}
	for k, v := range raw {
		row, err := strconv.Atoi(k)
		if err != nil {
			continue
		}
		var asString string
		if err := json.Unmarshal(v, &asString); err == nil {
			if asString != "" {
				out[row] = Selection{URL: asString}
			}
			continue
		}
		var asObject Selection
		if err := json.Unmarshal(v, &asObject); err == nil && asObject.URL != "" {
			out[row] = asObject
		}
	}
	return out, nil
}

// SaveSelections writes picks back in the object form.
func SaveSelections(path string, selections map[int]Selection) error {
	raw := make(map[string]Selection, len(selections))
	for row, sel := range selections {
		raw[strconv.Itoa(row)] = sel
	}
	data, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal selections: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write selections file: %w", err)
	}
	return nil
}
