package storage

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// SessionTier is the short-lived tier: an in-process LRU whose entries
// expire after ttl without a write.
type SessionTier struct {
	lru *expirable.LRU[string, []byte]
}

func NewSessionTier(maxKeys int, ttl time.Duration) *SessionTier {
	return &SessionTier{lru: expirable.NewLRU[string, []byte](maxKeys, nil, ttl)}
}

func (t *SessionTier) Name() string { return "session" }

func (t *SessionTier) Get(_ context.Context, scope, key string) ([]byte, bool, error) {
	if err := checkScope(scope, key); err != nil {
		return nil, false, err
	}
	v, ok := t.lru.Get(scope + "/" + key)
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (t *SessionTier) Put(_ context.Context, scope, key string, value []byte) error {
	if err := checkScope(scope, key); err != nil {
		return err
	}
	v := make([]byte, len(value))
	copy(v, value)
	t.lru.Add(scope+"/"+key, v)
	return nil
}

func (t *SessionTier) Delete(_ context.Context, scope, key string) error {
	if err := checkScope(scope, key); err != nil {
		return err
	}
	t.lru.Remove(scope + "/" + key)
	return nil
}

func (t *SessionTier) Len() int { return t.lru.Len() }
