package search

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// quotaState is the on-disk shape of the usage file.
type quotaState struct {
	Month    string `json:"month"`
	Count    int    `json:"count"`
	Quota    int    `json:"quota"`
	LastUsed string `json:"last_used,omitempty"`
}

// QuotaStore tracks monthly API usage in a small JSON file. The counter
// resets automatically when the month rolls over and is saved after every
// recorded call, so a crashed run never forgets spent quota.
type QuotaStore struct {
	path  string
	quota int
	state quotaState
	now   func() time.Time
}

// NewQuotaStore loads usage from path, resetting the counter if the stored
// month is not the current one. A missing or unreadable file starts fresh.
func NewQuotaStore(path string, quota int) (*QuotaStore, error) {
	return newQuotaStoreAt(path, quota, time.Now)
}

func newQuotaStoreAt(path string, quota int, now func() time.Time) (*QuotaStore, error) {
	s := &QuotaStore{path: path, quota: quota, now: now}
	month := now().Format("2006-01")

	data, err := os.ReadFile(path)
	if err == nil {
		if jsonErr := json.Unmarshal(data, &s.state); jsonErr != nil {
			s.state = quotaState{}
		}
	}

	if s.state.Month != month {
		s.state = quotaState{Month: month, Count: 0}
	}
	s.state.Quota = quota
	return s, nil
}

// HasQuota reports whether another counted call is allowed this month.
func (s *QuotaStore) HasQuota() bool {
	s.rollover()
	return s.state.Count < s.quota
}

// Record counts one call and persists the state immediately.
func (s *QuotaStore) Record() error {
	s.rollover()
	s.state.Count++
	s.state.LastUsed = s.now().Format(time.RFC3339)
	return s.save()
}

// Used returns the number of calls counted this month.
func (s *QuotaStore) Used() int {
	s.rollover()
	return s.state.Count
}

// Remaining returns how many counted calls are left this month.
func (s *QuotaStore) Remaining() int {
	s.rollover()
	r := s.quota - s.state.Count
	if r < 0 {
		return 0
	}
	return r
}

func (s *QuotaStore) rollover() {
	month := s.now().Format("2006-01")
	if s.state.Month != month {
		s.state = quotaState{Month: month, Count: 0, Quota: s.quota}
	}
}

func (s *QuotaStore) save() error {
	data, err := json.MarshalIndent(s.state, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal quota state: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("write quota file: %w", err)
	}
	return nil
}
