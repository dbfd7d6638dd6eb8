// Package store is a normalized cache for the resources of the annotation
// service.
//
// Entities are cached by resource and primary key, lists by their list key
// as the ordered primary keys of their entries. Concurrent requests for the
// same key share a single request to the service.
package store

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/akeil/tkb"
	"github.com/akeil/tkb/internal/logging"
)

// DefaultTTL is the time until cached values expire.
const DefaultTTL = 5 * time.Minute

const listPrefix = "list:"

// Store caches resources from a tkb.Transport.
// It is safe for concurrent use.
type Store struct {
	t     tkb.Transport
	cache *cache.Cache
	group singleflight.Group

	mx sync.Mutex
	// generation counts the optimistic updates per entity key
	generation map[string]uint64
	pending    map[string]int
	// loads are the list requests waiting for the service, by list key
	loads map[string]*loading

	stats Stats
}

// loading collects the changes to a list that happen while the list is
// loaded. They are applied to the response before it is cached.
type loading struct {
	n       int
	added   []string
	removed map[string]bool
	// stale responses are returned, but not cached
	stale bool
}

// merge applies the changes to the ids from the service.
func (l loading) merge(ids []string) []string {
	out := make([]string, 0, len(ids)+len(l.added))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if l.removed[id] || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	for _, id := range l.added {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

// Stats are counters for cache usage.
type Stats struct {
	Hits     int64
	Misses   int64
	Requests int64
}

// New creates a Store that fetches from t.
// Cached values expire after ttl; a ttl <= 0 selects DefaultTTL.
func New(t tkb.Transport, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		t:          t,
		cache:      cache.New(ttl, ttl*2),
		generation: make(map[string]uint64),
		pending:    make(map[string]int),
		loads:      make(map[string]*loading),
	}
}

// Stats returns a snapshot of the cache counters.
func (s *Store) Stats() Stats {
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.stats
}

func (s *Store) count(f func(*Stats)) {
	s.mx.Lock()
	f(&s.stats)
	s.mx.Unlock()
}

func entityKey(r tkb.Resource, pk string) string {
	return r.Name + ":" + pk
}

func listKey(r tkb.Resource, p tkb.Params) (string, error) {
	k, err := r.ListKey(p)
	if err != nil {
		return "", err
	}
	return listPrefix + k, nil
}

// List returns the entities of a collection.
//
// The list is served from the cache if the list and all of its entries are
// cached. Otherwise it is fetched once, no matter how many callers ask for
// it at the same time.
func List[T tkb.Entity](ctx context.Context, s *Store, r tkb.Resource, p tkb.Params) ([]T, error) {
	key, err := listKey(r, p)
	if err != nil {
		return nil, err
	}

	if items, ok := cachedList[T](s, r, key); ok {
		s.count(func(st *Stats) { st.Hits++ })
		logging.Debug("Cache hit %q", key)
		return items, nil
	}
	s.count(func(st *Stats) { st.Misses++ })

	v, err, shared := s.group.Do(key, func() (interface{}, error) {
		url, err := r.ListURL(s.t.BaseURL(), p)
		if err != nil {
			return nil, err
		}

		s.count(func(st *Stats) { st.Requests++ })
		s.beginLoad(key)
		items := make([]T, 0)
		err = s.t.Do(ctx, http.MethodGet, url, nil, &items)

		s.mx.Lock()
		defer s.mx.Unlock()
		changes := s.endLoad(key)
		if err != nil {
			return nil, err
		}

		// entities deleted meanwhile are left out
		kept := make([]T, 0, len(items))
		ids := make([]string, 0, len(items))
		for _, item := range items {
			pk := item.PK()
			if changes.removed[pk] {
				continue
			}
			s.cache.Set(entityKey(r, pk), item, cache.DefaultExpiration)
			kept = append(kept, item)
			ids = append(ids, pk)
		}
		if changes.stale {
			logging.Debug("List %q changed while loading, not cached", key)
			return kept, nil
		}
		s.cache.Set(key, changes.merge(ids), cache.DefaultExpiration)
		logging.Debug("Cached %d %v entries for %q", len(ids), r.Name, key)
		return kept, nil
	})
	if err != nil {
		return nil, err
	}
	if shared {
		logging.Debug("Shared request for %q", key)
	}

	// callers must not share the backing array
	items := v.([]T)
	out := make([]T, len(items))
	copy(out, items)
	return out, nil
}

func (s *Store) beginLoad(key string) {
	s.mx.Lock()
	defer s.mx.Unlock()
	l, ok := s.loads[key]
	if !ok {
		l = &loading{}
		s.loads[key] = l
	}
	l.n++
}

// endLoad must be called with s.mx held.
func (s *Store) endLoad(key string) loading {
	l, ok := s.loads[key]
	if !ok {
		return loading{}
	}
	l.n--
	if l.n <= 0 {
		delete(s.loads, key)
	}
	return *l
}

// sameCollection tells if the list key k is base or base with a query.
func sameCollection(k, base string) bool {
	return k == base || strings.HasPrefix(k, base+"?")
}

func collection(key string) string {
	return strings.SplitN(key, "?", 2)[0]
}

func cachedList[T tkb.Entity](s *Store, r tkb.Resource, key string) ([]T, bool) {
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	ids := v.([]string)
	items := make([]T, 0, len(ids))
	for _, id := range ids {
		e, ok := s.cache.Get(entityKey(r, id))
		if !ok {
			return nil, false
		}
		item, ok := e.(T)
		if !ok {
			return nil, false
		}
		items = append(items, item)
	}
	return items, true
}

// Detail returns a single entity. p must contain the ancestor ids and "id".
func Detail[T tkb.Entity](ctx context.Context, s *Store, r tkb.Resource, p tkb.Params) (T, error) {
	var zero T
	pk, err := r.PK(p)
	if err != nil {
		return zero, err
	}
	key := entityKey(r, pk)

	if v, ok := s.cache.Get(key); ok {
		if item, ok := v.(T); ok {
			s.count(func(st *Stats) { st.Hits++ })
			return item, nil
		}
	}
	s.count(func(st *Stats) { st.Misses++ })

	v, err, _ := s.group.Do(key, func() (interface{}, error) {
		url, err := r.DetailURL(s.t.BaseURL(), p)
		if err != nil {
			return nil, err
		}

		s.count(func(st *Stats) { st.Requests++ })
		var item T
		err = s.t.Do(ctx, http.MethodGet, url, nil, &item)
		if err != nil {
			return nil, err
		}
		s.cache.Set(key, item, cache.DefaultExpiration)
		return item, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// Create posts payload to the collection for scope (the ancestor ids).
//
// The created entity is cached and its key is appended to the cached list
// for scope. Cached lists of the same collection with other query
// parameters are dropped.
func Create[T tkb.Entity](ctx context.Context, s *Store, r tkb.Resource, scope tkb.Params, payload interface{}) (T, error) {
	var item T
	scope = r.Scope(scope)
	key, err := listKey(r, scope)
	if err != nil {
		return item, err
	}
	url, err := r.ListURL(s.t.BaseURL(), scope)
	if err != nil {
		return item, err
	}

	s.count(func(st *Stats) { st.Requests++ })
	err = s.t.Do(ctx, http.MethodPost, url, payload, &item)
	if err != nil {
		return item, err
	}

	pk := item.PK()
	s.cache.Set(entityKey(r, pk), item, cache.DefaultExpiration)
	s.appendToList(key, pk)
	s.dropQueries(key)
	logging.Debug("Created %v %q", r.Name, pk)

	return item, nil
}

func (s *Store) appendToList(key, pk string) {
	s.mx.Lock()
	defer s.mx.Unlock()

	if l, ok := s.loads[key]; ok {
		l.added = append(l.added, pk)
		delete(l.removed, pk)
	}

	v, exp, ok := s.cache.GetWithExpiration(key)
	if !ok {
		return
	}
	ids := v.([]string)
	for _, id := range ids {
		if id == pk {
			return
		}
	}
	next := make([]string, len(ids), len(ids)+1)
	copy(next, ids)
	next = append(next, pk)

	ttl := cache.DefaultExpiration
	if !exp.IsZero() && time.Until(exp) > 0 {
		ttl = time.Until(exp)
	}
	s.cache.Set(key, next, ttl)
}

// dropQueries removes cached lists for the collection of key that have
// query parameters. Loads of these lists that are still running are not
// cached.
func (s *Store) dropQueries(key string) {
	s.mx.Lock()
	defer s.mx.Unlock()

	base := collection(key)
	for k := range s.cache.Items() {
		if strings.HasPrefix(k, base+"?") {
			s.cache.Delete(k)
		}
	}
	for k, l := range s.loads {
		if strings.HasPrefix(k, base+"?") {
			l.stale = true
		}
	}
}

// removeFromLists removes pk from all cached lists of the collection of key
// and from the lists that are being loaded.
func (s *Store) removeFromLists(key, pk string) {
	s.mx.Lock()
	defer s.mx.Unlock()

	base := collection(key)
	for k, item := range s.cache.Items() {
		if !sameCollection(k, base) {
			continue
		}
		ids, ok := item.Object.([]string)
		if !ok {
			continue
		}
		next := without(ids, pk)
		if len(next) == len(ids) {
			continue
		}
		ttl := cache.DefaultExpiration
		if item.Expiration > 0 {
			if d := time.Until(time.Unix(0, item.Expiration)); d > 0 {
				ttl = d
			}
		}
		s.cache.Set(k, next, ttl)
	}

	for k, l := range s.loads {
		if !sameCollection(k, base) {
			continue
		}
		if l.removed == nil {
			l.removed = make(map[string]bool)
		}
		l.removed[pk] = true
		l.added = without(l.added, pk)
	}
}

func without(ids []string, pk string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != pk {
			out = append(out, id)
		}
	}
	return out
}

// Delete removes an entity at the service. p must contain the ancestor ids
// and "id".
//
// The entity is dropped from the cache and from every cached list of its
// collection.
func (s *Store) Delete(ctx context.Context, r tkb.Resource, p tkb.Params) error {
	pk, err := r.PK(p)
	if err != nil {
		return err
	}
	key, err := listKey(r, r.Scope(p))
	if err != nil {
		return err
	}
	url, err := r.DetailURL(s.t.BaseURL(), p)
	if err != nil {
		return err
	}

	s.count(func(st *Stats) { st.Requests++ })
	err = s.t.Do(ctx, http.MethodDelete, url, nil, nil)
	if err != nil {
		return err
	}

	s.cache.Delete(entityKey(r, pk))
	s.removeFromLists(key, pk)
	logging.Debug("Deleted %v %q", r.Name, pk)
	return nil
}

// Update changes an entity optimistically.
//
// value is cached at once. When the service confirms the change, the
// server's version replaces it. If the request fails, the previous value is
// restored, unless a newer update for the same entity was issued meanwhile.
//
// patch is sent as request body; if nil, value is sent.
func Update[T tkb.Entity](ctx context.Context, s *Store, r tkb.Resource, p tkb.Params, value T, patch interface{}) (T, error) {
	var zero T
	pk, err := r.PK(p)
	if err != nil {
		return zero, err
	}
	url, err := r.DetailURL(s.t.BaseURL(), p)
	if err != nil {
		return zero, err
	}
	if patch == nil {
		patch = value
	}

	key := entityKey(r, pk)

	s.mx.Lock()
	prev, hadPrev := s.cache.Get(key)
	s.generation[key]++
	gen := s.generation[key]
	s.pending[key]++
	s.cache.Set(key, value, cache.DefaultExpiration)
	s.mx.Unlock()

	s.count(func(st *Stats) { st.Requests++ })
	var confirmed T
	err = s.t.Do(ctx, http.MethodPatch, url, patch, &confirmed)

	s.mx.Lock()
	defer s.mx.Unlock()
	s.pending[key]--
	if s.pending[key] == 0 {
		delete(s.pending, key)
	}
	latest := s.generation[key] == gen

	if err != nil {
		if latest {
			logging.Info("Update of %v %q failed, roll back: %v", r.Name, pk, err)
			if hadPrev {
				s.cache.Set(key, prev, cache.DefaultExpiration)
			} else {
				s.cache.Delete(key)
			}
		}
		return zero, err
	}

	if latest {
		s.cache.Set(key, confirmed, cache.DefaultExpiration)
	}
	return confirmed, nil
}

// Cached returns an entity from the cache without asking the service.
func Cached[T tkb.Entity](s *Store, r tkb.Resource, p tkb.Params) (T, bool) {
	var zero T
	pk, err := r.PK(p)
	if err != nil {
		return zero, false
	}
	v, ok := s.cache.Get(entityKey(r, pk))
	if !ok {
		return zero, false
	}
	item, ok := v.(T)
	return item, ok
}

// CachedIDs returns the primary keys of a cached list.
func (s *Store) CachedIDs(r tkb.Resource, p tkb.Params) ([]string, bool) {
	key, err := listKey(r, p)
	if err != nil {
		return nil, false
	}
	v, ok := s.cache.Get(key)
	if !ok {
		return nil, false
	}
	ids := v.([]string)
	out := make([]string, len(ids))
	copy(out, ids)
	return out, true
}

// Pending tells if an optimistic update for the entity is waiting for the
// service.
func (s *Store) Pending(r tkb.Resource, p tkb.Params) bool {
	pk, err := r.PK(p)
	if err != nil {
		return false
	}
	s.mx.Lock()
	defer s.mx.Unlock()
	return s.pending[entityKey(r, pk)] > 0
}

// InvalidateList drops the cached list for p, and all lists of the same
// collection with query parameters.
func (s *Store) InvalidateList(r tkb.Resource, p tkb.Params) error {
	key, err := listKey(r, r.Scope(p))
	if err != nil {
		return err
	}
	s.mx.Lock()
	s.cache.Delete(key)
	if l, ok := s.loads[key]; ok {
		l.stale = true
	}
	s.mx.Unlock()
	s.dropQueries(key)
	return nil
}

// Invalidate drops a single cached entity.
func (s *Store) Invalidate(r tkb.Resource, p tkb.Params) error {
	pk, err := r.PK(p)
	if err != nil {
		return err
	}
	s.cache.Delete(entityKey(r, pk))
	return nil
}

// Flush drops everything.
func (s *Store) Flush() {
	s.mx.Lock()
	defer s.mx.Unlock()
	s.cache.Flush()
	for _, l := range s.loads {
		l.stale = true
	}
}
