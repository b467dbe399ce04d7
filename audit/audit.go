// Package audit keeps a record of the commands the bot has run.
package audit

import (
	"context"
	"sync"
	"time"

	"github.com/gobridge/akumabot/bot"
)

// Store records command invocations and counts them per command.
type Store interface {
	bot.Recorder
	Counts(ctx context.Context) (map[string]int, error)
}

type entry struct {
	Command  string
	Channel  string `datastore:",noindex"`
	Nickname string
	Outcome  string
	At       time.Time
}

func newEntry(e bot.Event) *entry {
	return &entry{
		Command:  e.Command,
		Channel:  e.Channel,
		Nickname: e.Nickname,
		Outcome:  e.Outcome.String(),
		At:       e.At,
	}
}

// MemoryStore implements Store in memory. It only keeps the counts.
type MemoryStore struct {
	mu     sync.Mutex
	counts map[string]int
}

// NewMemoryStore returns an empty *MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{counts: map[string]int{}}
}

func (s *MemoryStore) Record(ctx context.Context, e bot.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.counts[e.Command]++
	return nil
}

// Counts returns a copy of the counts recorded so far.
func (s *MemoryStore) Counts(ctx context.Context) (map[string]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := make(map[string]int, len(s.counts))
	for name, n := range s.counts {
		counts[name] = n
	}
	return counts, nil
}
