// Package cache persists the discovered repository list between runs so the
// search API is not hit more than once per TTL window.
package cache

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

const (
	// Keys match the original browser localStorage layout, so the wire
	// format stays recognizable across implementations.
	KeyRepos     = "gitscovery_repos"
	KeyTimestamp = "gitscovery_timestamp"

	// TTL is how long a cached repository list counts as fresh.
	TTL = 30 * time.Minute
)

// Store is the minimal key-value surface the provider needs. Values are
// strings; callers own the encoding.
type Store interface {
	Get(key string) (string, bool)
	Set(key, value string) error
}

// Entry is a decoded cache record: the repository URL list plus the moment
// it was written.
type Entry struct {
	Repos     []string
	WrittenAt time.Time
}

// Valid reports whether the entry is still within the TTL at the given time.
func (e *Entry) Valid(now time.Time) bool {
	return now.Sub(e.WrittenAt) < TTL
}

// Age returns how long ago the entry was written.
func (e *Entry) Age(now time.Time) time.Duration {
	return now.Sub(e.WrittenAt)
}

// ReadEntry loads and decodes the cached list. It returns false when either
// key is missing or undecodable; a half-written cache counts as absent.
func ReadEntry(s Store) (*Entry, bool) {
	rawRepos, ok := s.Get(KeyRepos)
	if !ok {
		return nil, false
	}
	rawTS, ok := s.Get(KeyTimestamp)
	if !ok {
		return nil, false
	}

	var repos []string
	if err := json.Unmarshal([]byte(rawRepos), &repos); err != nil {
		return nil, false
	}

	millis, err := strconv.ParseInt(rawTS, 10, 64)
	if err != nil {
		return nil, false
	}

	return &Entry{
		Repos:     repos,
		WrittenAt: time.UnixMilli(millis),
	}, true
}

// WriteEntry encodes and stores the list with the given write time,
// overwriting any previous entry.
func WriteEntry(s Store, repos []string, now time.Time) error {
	encoded, err := json.Marshal(repos)
	if err != nil {
		return fmt.Errorf("could not encode repository list: %w", err)
	}
	if err := s.Set(KeyRepos, string(encoded)); err != nil {
		return err
	}
	return s.Set(KeyTimestamp, strconv.FormatInt(now.UnixMilli(), 10))
}
