// Package slugs allocates URL-safe unique identifiers for content rows.
package slugs

import (
	"context"
	"fmt"

	gosimpleslug "github.com/gosimple/slug"
	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/database"
	"github.com/uptrace/bun"
)

const (
	// MaxAttempts bounds the numeric suffixes tried for one base slug.
	MaxAttempts = 100
	// maxStoreAttempts bounds how often a store racing another writer is retried.
	maxStoreAttempts = 3

	fallbackBase = "untitled"
)

// ExistsFunc reports whether candidate is already taken.
type ExistsFunc func(ctx context.Context, candidate string) (bool, error)

// Base derives the slug to start from: the explicit value when given, the
// source text (title or name) otherwise.
func Base(explicit, source string) string {
	base := gosimpleslug.Make(explicit)
	if base == "" {
		base = gosimpleslug.Make(source)
	}
	if base == "" {
		base = fallbackBase
	}
	return base
}

// Unique returns base when free, otherwise the first free of base-2, base-3...
func Unique(ctx context.Context, base string, exists ExistsFunc) (string, error) {
	for i := 1; i <= MaxAttempts; i++ {
		candidate := base
		if i > 1 {
			candidate = fmt.Sprintf("%s-%d", base, i)
		}
		taken, err := exists(ctx, candidate)
		if err != nil {
			return "", errors.WithStack(err)
		}
		if !taken {
			return candidate, nil
		}
	}
	return "", errors.Errorf("no free slug for %q after %d attempts", base, MaxAttempts)
}

// Assign picks a free slug for base and hands it to store. When store fails
// with a unique violation because another writer took the slug in between,
// a fresh slug is picked and store runs again.
func Assign(ctx context.Context, base string, exists ExistsFunc, store func(slug string) error) error {
	var err error
	for attempt := 0; attempt < maxStoreAttempts; attempt++ {
		var candidate string
		candidate, err = Unique(ctx, base, exists)
		if err != nil {
			return err
		}
		err = store(candidate)
		if err == nil {
			return nil
		}
		if !database.IsUniqueViolation(err) {
			return err
		}
	}
	return errors.WithStack(err)
}

// TableExists checks the slug column of model's table. Rows with excludeID are
// ignored so that an entity keeps its own slug on update; pass 0 on create.
func TableExists(db bun.IDB, model interface{}, excludeID int) ExistsFunc {
	return func(ctx context.Context, candidate string) (bool, error) {
		q := db.NewSelect().
			Model(model).
			Where("slug = ?", candidate)
		if excludeID > 0 {
			q = q.Where("id != ?", excludeID)
		}
		exists, err := q.Exists(ctx)
		return exists, errors.WithStack(err)
	}
}
