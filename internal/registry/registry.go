// Package registry implements the link registry: collision-free allocation
// of short codes and the resolve-and-count path. All record mutations go
// through the store; the registry keeps no mutable state of its own.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"linkcut/internal/models"
	"linkcut/internal/shortener"
	"linkcut/internal/snowflake"
	"linkcut/internal/storage"
)

// maxGenerateAttempts bounds the generated-code retry loop so pathological
// keyspace exhaustion surfaces as an error instead of spinning forever.
// With 62^6 combinations the loop all but always succeeds on the first try.
const maxGenerateAttempts = 100

// ResolveCache is an optional read-through cache for the resolve hot path.
// It only ever holds copies of store records; the store stays the source of
// truth and every visit increment goes to the store.
type ResolveCache interface {
	Get(ctx context.Context, code string) (*models.Link, bool)
	Set(ctx context.Context, link *models.Link)
	Del(ctx context.Context, code string)
}

type Config struct {
	Store      storage.Store
	IDs        *snowflake.Generator
	CodeLength int          // generated code length, clamped to [6, 8]
	Cache      ResolveCache // optional
	Logger     *slog.Logger
}

type Registry struct {
	store      storage.Store
	ids        *snowflake.Generator
	codeLength int
	cache      ResolveCache
	log        *slog.Logger
}

func New(cfg Config) *Registry {
	length := cfg.CodeLength
	if length < shortener.MinLength || length > shortener.MaxLength {
		length = shortener.DefaultLength
	}
	log := cfg.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Registry{
		store:      cfg.Store,
		ids:        cfg.IDs,
		codeLength: length,
		cache:      cfg.Cache,
		log:        log.With("module", "registry"),
	}
}

// Allocate creates a new link. With a requested code it attempts exactly one
// insert and reports ErrConflict when the code is taken. With an empty code
// it generates candidates and retries on conflict only; each attempt is an
// independent atomic insert against the store.
func (r *Registry) Allocate(ctx context.Context, destination, requestedCode string) (*models.Link, error) {
	if err := validateDestination(destination); err != nil {
		return nil, err
	}

	if requestedCode != "" {
		if !shortener.ValidCode(requestedCode) {
			return nil, fmt.Errorf("%w: code must match [A-Za-z0-9]{6,8}", ErrInvalidInput)
		}
		link := r.newLink(requestedCode, destination)
		if err := r.store.Create(ctx, link); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				return nil, fmt.Errorf("%w: code %s", ErrConflict, requestedCode)
			}
			return nil, ErrUnavailable
		}
		return link, nil
	}

	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		code, err := shortener.Generate(r.codeLength)
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		link := r.newLink(code, destination)
		err = r.store.Create(ctx, link)
		if err == nil {
			return link, nil
		}
		if errors.Is(err, storage.ErrDuplicateKey) {
			r.log.Warn("generated code collided, retrying", "code", code, "attempt", attempt+1)
			continue
		}
		return nil, ErrUnavailable
	}
	r.log.Error("code generation kept colliding", "attempts", maxGenerateAttempts, "length", r.codeLength)
	return nil, ErrKeyspaceExhausted
}

// Resolve looks up the destination for a code and records a visit against
// the record's id. A failed visit recording does not withhold the
// destination: the link as read is returned and the failure is logged.
func (r *Registry) Resolve(ctx context.Context, code string) (*models.Link, error) {
	if !shortener.ValidCode(code) {
		return nil, fmt.Errorf("%w: code must match [A-Za-z0-9]{6,8}", ErrInvalidInput)
	}

	link, err := r.lookup(ctx, code)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	visited, err := r.store.RecordVisit(ctx, link.ID, now)
	if err != nil {
		r.log.Warn("visit not recorded", "code", code, "id", link.ID, "err", err)
		return link, nil
	}
	if !visited {
		// The record was deleted between the read and the update.
		if r.cache != nil {
			r.cache.Del(ctx, code)
		}
		return nil, fmt.Errorf("%w: code %s", ErrNotFound, code)
	}

	// Counters on a cached copy may lag behind the store; the identity and
	// destination fields are immutable and stay exact either way.
	resolved := *link
	resolved.VisitCount++
	resolved.LastVisitedAt = &now
	return &resolved, nil
}

func (r *Registry) List(ctx context.Context) ([]models.Link, error) {
	links, err := r.store.List(ctx)
	if err != nil {
		return nil, ErrUnavailable
	}
	return links, nil
}

// Delete removes the link for a code. Deleting an absent code reports
// ErrNotFound, not a failure.
func (r *Registry) Delete(ctx context.Context, code string) error {
	if !shortener.ValidCode(code) {
		return fmt.Errorf("%w: code must match [A-Za-z0-9]{6,8}", ErrInvalidInput)
	}

	deleted, err := r.store.DeleteByCode(ctx, code)
	if err != nil {
		return ErrUnavailable
	}
	if r.cache != nil {
		r.cache.Del(ctx, code)
	}
	if !deleted {
		return fmt.Errorf("%w: code %s", ErrNotFound, code)
	}
	return nil
}

func (r *Registry) newLink(code, destination string) *models.Link {
	return &models.Link{
		ID:          r.ids.NextID(),
		Code:        code,
		Destination: destination,
		CreatedAt:   time.Now().UTC(),
	}
}

func (r *Registry) lookup(ctx context.Context, code string) (*models.Link, error) {
	if r.cache != nil {
		if link, ok := r.cache.Get(ctx, code); ok {
			return link, nil
		}
	}

	link, err := r.store.GetByCode(ctx, code)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("%w: code %s", ErrNotFound, code)
		}
		return nil, ErrUnavailable
	}
	if r.cache != nil {
		r.cache.Set(ctx, link)
	}
	return link, nil
}

func validateDestination(destination string) error {
	u, err := url.Parse(destination)
	if err != nil {
		return fmt.Errorf("%w: destination is not a valid URL", ErrInvalidInput)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("%w: destination must be an absolute URL", ErrInvalidInput)
	}
	return nil
}
