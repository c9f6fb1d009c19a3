package store

import (
	"crypto/subtle"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/shandysiswandi/passcode/internal/otp/entity"
	"github.com/shandysiswandi/passcode/internal/pkg/clock"
	"go.uber.org/atomic"
)

// Memory keeps pending passcodes in process memory, keyed by normalized
// identifier.
//
// Expiry is decided by the injected clock alone. Items never expire inside
// go-cache, so expired records stay listable until Sweep removes them.
type Memory struct {
	mu    sync.RWMutex
	items *cache.Cache
	clock clock.Clocker

	issued   atomic.Int64
	redeemed atomic.Int64
	swept    atomic.Int64

	stop     chan struct{}
	stopOnce sync.Once
}

// NewMemory returns an empty store that sweeps itself every sweepInterval
// until Close. A non-positive interval disables the background sweep.
func NewMemory(clk clock.Clocker, sweepInterval time.Duration) *Memory {
	m := &Memory{
		items: cache.New(cache.NoExpiration, 0),
		clock: clk,
		stop:  make(chan struct{}),
	}

	if sweepInterval > 0 {
		go m.janitor(sweepInterval)
	}

	return m
}

// Close stops the background sweep. It is safe to call more than once.
func (m *Memory) Close() error {
	m.stopOnce.Do(func() { close(m.stop) })
	return nil
}

func (m *Memory) janitor(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				slog.Debug("expired passcodes swept", "count", n)
			}
		}
	}
}

// Put stores secret for id, replacing any pending record.
func (m *Memory) Put(id, secret string, ttl time.Duration) entity.Record {
	now := m.clock.Now()
	rec := &entity.Record{Secret: secret, IssuedAt: now, ExpiresAt: now.Add(ttl)}

	m.mu.Lock()
	m.items.Set(id, rec, cache.NoExpiration)
	m.mu.Unlock()

	m.issued.Inc()
	return *rec
}

// Peek returns the live record for id. An expired record is reported absent
// and removed, unless it was replaced in the meantime.
func (m *Memory) Peek(id string) (entity.Record, bool) {
	m.mu.RLock()
	rec, ok := m.get(id)
	m.mu.RUnlock()

	if !ok {
		return entity.Record{}, false
	}
	if !rec.ExpiredAt(m.clock.Now()) {
		return *rec, true
	}

	m.mu.Lock()
	if cur, ok := m.get(id); ok && cur == rec {
		m.items.Delete(id)
	}
	m.mu.Unlock()

	return entity.Record{}, false
}

// Redeem consumes the record for id when candidate matches its secret.
//
// Missing, expired and mismatching candidates all return false; a mismatch
// leaves the record in place for another attempt.
func (m *Memory) Redeem(id, candidate string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.get(id)
	if !ok {
		return false
	}

	if rec.ExpiredAt(m.clock.Now()) {
		m.items.Delete(id)
		return false
	}

	if subtle.ConstantTimeCompare([]byte(rec.Secret), []byte(candidate)) != 1 {
		return false
	}

	m.items.Delete(id)
	m.redeemed.Inc()
	return true
}

// Sweep removes every expired record and returns how many were removed.
func (m *Memory) Sweep() int {
	now := m.clock.Now()

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, item := range m.items.Items() {
		rec, ok := item.Object.(*entity.Record)
		if !ok || rec.ExpiredAt(now) {
			m.items.Delete(id)
			removed++
		}
	}

	m.swept.Add(int64(removed))
	return removed
}

// Entries returns every stored record, expired ones flagged, ordered by identifier.
func (m *Memory) Entries() []entity.Entry {
	now := m.clock.Now()

	m.mu.RLock()
	items := m.items.Items()
	m.mu.RUnlock()

	out := make([]entity.Entry, 0, len(items))
	for id, item := range items {
		rec, ok := item.Object.(*entity.Record)
		if !ok {
			continue
		}
		out = append(out, entity.Entry{Identifier: id, Record: *rec, Expired: rec.ExpiredAt(now)})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Identifier < out[j].Identifier })
	return out
}

// Stats returns the number of unexpired records and cumulative counters.
func (m *Memory) Stats() entity.Stats {
	now := m.clock.Now()

	m.mu.RLock()
	items := m.items.Items()
	m.mu.RUnlock()

	live := 0
	for _, item := range items {
		if rec, ok := item.Object.(*entity.Record); ok && !rec.ExpiredAt(now) {
			live++
		}
	}

	return entity.Stats{
		Live:     live,
		Issued:   m.issued.Load(),
		Redeemed: m.redeemed.Load(),
		Swept:    m.swept.Load(),
	}
}

func (m *Memory) get(id string) (*entity.Record, bool) {
	v, ok := m.items.Get(id)
	if !ok {
		return nil, false
	}
	rec, ok := v.(*entity.Record)
	return rec, ok
}
