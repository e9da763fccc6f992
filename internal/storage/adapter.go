package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
)

// Adapter writes every record to both tiers and reads the session tier first.
// It is not transactional: a failing tier is logged and skipped.
type Adapter struct {
	session Tier
	durable Tier
	logger  *slog.Logger
}

func NewAdapter(session, durable Tier, logger *slog.Logger) *Adapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Adapter{session: session, durable: durable, logger: logger}
}

// For binds the adapter to one client scope.
func (a *Adapter) For(scope string) *Scoped {
	return &Scoped{a: a, scope: scope}
}

func (a *Adapter) tiers() []Tier { return []Tier{a.session, a.durable} }

// Scoped is the read/write/remove surface for a single client.
type Scoped struct {
	a     *Adapter
	scope string
}

func (s *Scoped) Scope() string { return s.scope }

// Write stores v under key in the session tier, then the durable tier.
// The returned error joins per-tier failures; callers usually only log it.
func (s *Scoped) Write(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("storage: encode %s: %w", key, err)
	}

	var errs []error
	for _, t := range s.a.tiers() {
		if err := t.Put(ctx, s.scope, key, b); err != nil {
			s.a.logger.WarnContext(ctx, "storage tier write failed",
				"tier", t.Name(), "scope", s.scope, "key", key, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Read decodes the first tier that holds key into dst.
func (s *Scoped) Read(ctx context.Context, key string, dst any) bool {
	for _, t := range s.a.tiers() {
		b, ok, err := t.Get(ctx, s.scope, key)
		if err != nil {
			s.a.logger.WarnContext(ctx, "storage tier read failed",
				"tier", t.Name(), "scope", s.scope, "key", key, "err", err)
			continue
		}
		if !ok {
			continue
		}
		if err := json.Unmarshal(b, dst); err != nil {
			s.a.logger.WarnContext(ctx, "storage record corrupt",
				"tier", t.Name(), "scope", s.scope, "key", key, "err", err)
			continue
		}
		return true
	}
	return false
}

// Remove deletes key from both tiers.
func (s *Scoped) Remove(ctx context.Context, key string) error {
	var errs []error
	for _, t := range s.a.tiers() {
		if err := t.Delete(ctx, s.scope, key); err != nil {
			s.a.logger.WarnContext(ctx, "storage tier delete failed",
				"tier", t.Name(), "scope", s.scope, "key", key, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", t.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// Flag reads a boolean record; a missing record is false.
func (s *Scoped) Flag(ctx context.Context, key string) bool {
	var v bool
	if !s.Read(ctx, key, &v) {
		return false
	}
	return v
}
