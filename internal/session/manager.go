package session

import (
	"context"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/trueartists/account-web/internal/apiclient"
	"github.com/trueartists/account-web/internal/metrics"
	"github.com/trueartists/account-web/internal/storage"
)

// Static defaults.  Override through Options.
const (
	IdleTTL        = 30 * time.Minute
	MaxEntries     = 10000
	EvictInterval  = 5 * time.Minute
	RestoreTimeout = 5 * time.Second
)

// Options configures a Manager.
type Options struct {
	API            *apiclient.Client // prototype; each store gets a Clone
	Backend        storage.Backend
	Log            *zap.SugaredLogger
	IdleTTL        time.Duration
	MaxEntries     int
	EvictInterval  time.Duration
	RestoreTimeout time.Duration
	Cookie         CookieOptions
}

// Manager lazily materialises one Store per visitor-session id.  Only stores
// holding a token are kept in its sync.Map; anonymous visitors get a detached
// store per request, so crawlers never grow the map.  Kept stores are evicted
// on idle TTL or LRU pressure.  An evicted store loses only in-memory state;
// its token stays in the Backend and is restored on the visitor's next
// request.
type Manager struct {
	api            *apiclient.Client
	backend        storage.Backend
	log            *zap.SugaredLogger
	cookie         CookieOptions
	idleTTL        time.Duration
	maxEntries     int
	restoreTimeout time.Duration

	sfg         singleflight.Group
	m           sync.Map
	size        atomic.Int64
	evictTicker *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

type entry struct {
	store    *Store
	lastSeen int64
}

// NewManager constructs a Manager and starts the background evictor.
func NewManager(o Options) *Manager {
	if o.Log == nil {
		o.Log = zap.S()
	}
	if o.Backend == nil {
		o.Backend = storage.NewMemory()
	}
	if o.API == nil {
		o.API = apiclient.New(nil)
	}
	if o.IdleTTL <= 0 {
		o.IdleTTL = IdleTTL
	}
	if o.EvictInterval <= 0 {
		o.EvictInterval = EvictInterval
	}
	if o.RestoreTimeout <= 0 {
		o.RestoreTimeout = RestoreTimeout
	}
	if o.MaxEntries == 0 {
		o.MaxEntries = MaxEntries
	}

	m := &Manager{
		api:            o.API,
		backend:        o.Backend,
		log:            o.Log,
		cookie:         o.Cookie.withDefaults(),
		idleTTL:        o.IdleTTL,
		maxEntries:     o.MaxEntries,
		restoreTimeout: o.RestoreTimeout,
		done:           make(chan struct{}),
	}
	m.evictTicker = time.NewTicker(o.EvictInterval)
	go m.evictLoop()
	return m
}

// Get returns the Store for sid, restoring it on first use.  Concurrent first
// requests for one sid share a single restore.  A store that restores no
// token is returned detached and is not kept.
func (m *Manager) Get(ctx context.Context, sid string) *Store {
	if st, ok := m.load(sid); ok {
		return st
	}

	v, _, _ := m.sfg.Do(sid, func() (interface{}, error) {
		// Double-check after singleflight barrier.
		if st, ok := m.load(sid); ok {
			return st, nil
		}

		st := m.newStore(sid)
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.restoreTimeout)
		st.Restore(rctx)
		cancel()

		if _, ok := st.Current(); ok {
			m.keep(sid, st)
		}
		return st, nil
	})
	return v.(*Store)
}

// Rotate moves st to a fresh visitor-session id, keeps it, and reissues the
// cookie.  Call it after every successful login so an id handed out before
// authentication never carries the signed-in session.
func (m *Manager) Rotate(w http.ResponseWriter, r *http.Request, st *Store) string {
	sid := NewID()
	prev := st.rekey(r.Context(), sid)
	m.remove(prev)
	m.keep(sid, st)
	m.SetCookie(w, r, sid)
	return sid
}

// End forgets st after logout and expires the visitor-session cookie.  The
// store is re-keyed so a late request on the old id starts from nothing.
func (m *Manager) End(w http.ResponseWriter, r *http.Request, st *Store) {
	prev := st.rekey(r.Context(), NewID())
	m.remove(prev)
	m.ClearCookie(w, r)
}

func (m *Manager) newStore(sid string) *Store {
	return NewStore(m.api.Clone(), storage.Slot{Backend: m.backend, Key: sid}, m.log)
}

func (m *Manager) load(sid string) (*Store, bool) {
	v, ok := m.m.Load(sid)
	if !ok {
		return nil, false
	}
	ent := v.(*entry)
	atomic.StoreInt64(&ent.lastSeen, time.Now().UnixNano())
	return ent.store, true
}

func (m *Manager) keep(sid string, st *Store) {
	if _, loaded := m.m.Swap(sid, &entry{store: st, lastSeen: time.Now().UnixNano()}); loaded {
		return
	}
	m.size.Add(1)
	metrics.ActiveSessions.Inc()
	if m.maxEntries > 0 && m.Len() > m.maxEntries {
		m.trim(m.maxEntries)
	}
}

func (m *Manager) remove(sid string) bool {
	if _, ok := m.m.LoadAndDelete(sid); !ok {
		return false
	}
	m.size.Add(-1)
	metrics.ActiveSessions.Dec()
	return true
}

// Len reports how many stores are held in memory.
func (m *Manager) Len() int { return int(m.size.Load()) }

// Close stops the evictor.  Stores stay usable.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		m.evictTicker.Stop()
		close(m.done)
	})
}
