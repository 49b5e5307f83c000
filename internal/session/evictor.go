// evictor.go houses the eviction loop for Manager.  Every evict interval it
// scans the map and removes:
//
//   - stores idle longer than idleTTL
//   - least-recently-used stores when the map size exceeds maxEntries
//
// keep applies the same LRU trim as soon as an insert crosses maxEntries.
//
// Each eviction updates Prometheus counters.  Tokens are left in the Backend.
package session

import (
	"sort"
	"sync/atomic"
	"time"

	"github.com/trueartists/account-web/internal/metrics"
)

func (m *Manager) evictLoop() {
	for {
		select {
		case <-m.done:
			return
		case now := <-m.evictTicker.C:
			m.evict(now)
		}
	}
}

func (m *Manager) evict(now time.Time) {
	nowNano := now.UnixNano()

	// ----------------------------------------------------------------
	// Idle eviction pass
	// ----------------------------------------------------------------
	m.m.Range(func(key, value any) bool {
		ent := value.(*entry)
		idle := time.Duration(nowNano - atomic.LoadInt64(&ent.lastSeen))
		if idle > m.idleTTL {
			m.drop(key.(string), "idle", idle)
		}
		return true
	})

	// ----------------------------------------------------------------
	// LRU eviction pass
	// ----------------------------------------------------------------
	if m.maxEntries > 0 && m.Len() > m.maxEntries {
		m.trim(m.maxEntries)
	}
}

// trim drops least-recently-used stores until at most limit remain.
func (m *Manager) trim(limit int) {
	type kv struct {
		key string
		at  int64
	}
	var all []kv
	m.m.Range(func(key, value any) bool {
		all = append(all, kv{key: key.(string), at: atomic.LoadInt64(&value.(*entry).lastSeen)})
		return true
	})
	sort.Slice(all, func(i, j int) bool { return all[i].at < all[j].at })
	for i := 0; i < len(all)-limit; i++ {
		m.drop(all[i].key, "lru", 0)
	}
}

func (m *Manager) drop(sid, reason string, idle time.Duration) {
	if !m.remove(sid) {
		return
	}
	m.log.Debugw("session evicted", "sid", sid, "reason", reason, "idle", idle.Truncate(time.Second))
	metrics.SessionEvictTotal.Inc()
}
