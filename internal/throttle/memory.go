package throttle

import (
	"sync"
	"time"

	"gitlab.com/nevasik7/alerting/logger"
)

/*
	TTL suppressor for outbound alert broadcasts: the same alert key is
	let through once per TTL window so subscribers aren't flooded when a
	condition keeps holding across invocations. Detection and logging of
	alerts are not affected, only the fan-out.
*/

type memEntry struct {
	expireAt int64 // unix nano
}

type Memory struct {
	log     logger.Logger
	ttl     time.Duration
	mu      sync.Mutex
	items   map[string]memEntry
	stopCh  chan struct{}
	stopped bool
}

// ttl - suppression window per key;
// janitorEvery - how often expired keys are swept; 0 -> no sweeper
func NewMemory(log logger.Logger, ttl, janitorEvery time.Duration) *Memory {
	m := &Memory{
		log:    log,
		ttl:    ttl,
		items:  make(map[string]memEntry, 256),
		stopCh: make(chan struct{}),
	}

	if janitorEvery > 0 {
		go m.janitor(janitorEvery)
	}

	return m
}

// Allow reports whether key may pass now, and if so starts its
// suppression window.
func (m *Memory) Allow(key string) bool {
	now := time.Now().UnixNano()

	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.items[key]; ok && e.expireAt > now {
		return false
	}

	m.items[key] = memEntry{expireAt: now + m.ttl.Nanoseconds()}
	return true
}

func (m *Memory) janitor(every time.Duration) {
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-m.stopCh:
			return
		case <-t.C:
			now := time.Now().UnixNano()
			m.mu.Lock()
			for k, e := range m.items {
				if e.expireAt <= now {
					delete(m.items, k)
				}
			}
			m.mu.Unlock()
		}
	}
}

// Close stops the sweeper (if running); safe to call twice
func (m *Memory) Close() {
	m.mu.Lock()
	if !m.stopped {
		close(m.stopCh)
		m.stopped = true
	}
	m.mu.Unlock()
}
