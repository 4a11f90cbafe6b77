// Package store keeps recent generation results in memory so the HTTP API can
// return them by id.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/jellydator/ttlcache/v3"

	"spotvoice/internal/copywriter"
)

var ErrEmptyID = errors.New("result id is empty")

// ResultStore хранит результаты генерации с TTL. Истёкшие записи вычищаются
// фоновым циклом ttlcache; Get их никогда не возвращает.
type ResultStore struct {
	cache *ttlcache.Cache[string, copywriter.Result]
}

// NewResultStore создаёт хранилище. ttl == 0 означает бессрочное хранение.
func NewResultStore(ttl time.Duration) *ResultStore {
	ttlOpt := ttl
	if ttlOpt <= 0 {
		ttlOpt = ttlcache.NoTTL
	}
	c := ttlcache.New[string, copywriter.Result](
		ttlcache.WithTTL[string, copywriter.Result](ttlOpt),
		ttlcache.WithDisableTouchOnHit[string, copywriter.Result](),
	)
	return &ResultStore{cache: c}
}

// Start запускает цикл удаления истёкших записей и блокируется до Stop.
func (s *ResultStore) Start() {
	s.cache.Start()
}

func (s *ResultStore) Stop() {
	s.cache.Stop()
}

func (s *ResultStore) Put(ctx context.Context, res copywriter.Result) error {
	if res.ID == "" {
		return ErrEmptyID
	}
	s.cache.Set(res.ID, res, ttlcache.DefaultTTL)
	return nil
}

// Get возвращает результат; второй параметр false, если записи нет или она истекла.
func (s *ResultStore) Get(ctx context.Context, id string) (copywriter.Result, bool, error) {
	item := s.cache.Get(id)
	if item == nil || item.IsExpired() {
		return copywriter.Result{}, false, nil
	}
	return item.Value(), true, nil
}

func (s *ResultStore) Delete(ctx context.Context, id string) error {
	s.cache.Delete(id)
	return nil
}

// Len returns the number of stored results, expired-but-not-yet-evicted included.
func (s *ResultStore) Len() int {
	return s.cache.Len()
}

// DeleteExpired удаляет истёкшие записи немедленно, не дожидаясь фонового цикла.
func (s *ResultStore) DeleteExpired() {
	s.cache.DeleteExpired()
}
