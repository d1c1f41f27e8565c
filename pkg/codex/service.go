package codex

import (
	"context"
	"database/sql"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/talesforge/talesforge/pkg/models"
	"github.com/uptrace/bun"
)

type ListEntriesOptions struct {
	Category *string
}

type UpdateEntryOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	fallback *fallback.Reader
}

func NewService(db *bun.DB, reader *fallback.Reader) *Service {
	return &Service{db: db, fallback: reader}
}

func (svc *Service) CreateEntry(ctx context.Context, entry *models.CodexEntry) error {
	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = entry.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(entry).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveEntry(ctx context.Context, id int) (*models.CodexEntry, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionCodex,
		func() (*models.CodexEntry, error) {
			return svc.retrieveEntry(ctx, id)
		},
		func(store *fallback.Store) (*models.CodexEntry, error) {
			entries, err := fallback.LoadList[models.CodexEntry](store, fallback.CollectionCodex)
			if err != nil {
				return nil, err
			}
			for _, entry := range entries {
				if entry.ID == id {
					return entry, nil
				}
			}
			return nil, errcodes.NotFound("Codex entry")
		},
	)
}

func (svc *Service) retrieveEntry(ctx context.Context, id int) (*models.CodexEntry, error) {
	entry := &models.CodexEntry{}

	err := svc.db.
		NewSelect().
		Model(entry).
		Where("cx.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Codex entry")
		}
		return nil, errors.WithStack(err)
	}

	return entry, nil
}

// ListEntries returns entries grouped by category, then by title.
func (svc *Service) ListEntries(ctx context.Context, opts ListEntriesOptions) ([]*models.CodexEntry, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionCodex,
		func() ([]*models.CodexEntry, error) {
			return svc.listEntries(ctx, opts)
		},
		func(store *fallback.Store) ([]*models.CodexEntry, error) {
			all, err := fallback.LoadList[models.CodexEntry](store, fallback.CollectionCodex)
			if err != nil {
				return nil, err
			}
			entries := make([]*models.CodexEntry, 0, len(all))
			for _, entry := range all {
				if opts.Category != nil && entry.Category != *opts.Category {
					continue
				}
				entries = append(entries, entry)
			}
			sort.SliceStable(entries, func(i, j int) bool {
				if entries[i].Category != entries[j].Category {
					return entries[i].Category < entries[j].Category
				}
				return entries[i].Title < entries[j].Title
			})
			return entries, nil
		},
	)
}

func (svc *Service) listEntries(ctx context.Context, opts ListEntriesOptions) ([]*models.CodexEntry, error) {
	entries := []*models.CodexEntry{}

	q := svc.db.
		NewSelect().
		Model(&entries).
		Order("cx.category ASC", "cx.title ASC", "cx.id ASC")

	if opts.Category != nil {
		q = q.Where("cx.category = ?", *opts.Category)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return entries, nil
}

func (svc *Service) UpdateEntry(ctx context.Context, entry *models.CodexEntry, opts UpdateEntryOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	entry.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(entry).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Codex entry")
	}
	return nil
}

func (svc *Service) DeleteEntry(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.CodexEntry)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Codex entry")
	}
	return nil
}

// ExportSnapshot implements fallback.Exporter.
func (svc *Service) ExportSnapshot(ctx context.Context, store *fallback.Store) error {
	entries, err := svc.listEntries(ctx, ListEntriesOptions{})
	if err != nil {
		return err
	}
	return store.Save(fallback.CollectionCodex, entries)
}
