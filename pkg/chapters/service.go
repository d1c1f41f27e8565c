package chapters

import (
	"context"
	"database/sql"
	"slices"
	"sort"
	"time"

	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/fallback"
	"github.com/talesforge/talesforge/pkg/models"
	"github.com/talesforge/talesforge/pkg/slugs"
	"github.com/uptrace/bun"
)

type RetrieveChapterOptions struct {
	ID   *int
	Slug *string
}

type UpdateChapterOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	fallback *fallback.Reader
}

// NewService returns a chapter service. reader may be nil, in which case
// reads never fall back to the snapshot.
func NewService(db *bun.DB, reader *fallback.Reader) *Service {
	return &Service{db: db, fallback: reader}
}

func (svc *Service) CreateChapter(ctx context.Context, chapter *models.Chapter) error {
	now := time.Now()
	if chapter.CreatedAt.IsZero() {
		chapter.CreatedAt = now
	}
	chapter.UpdatedAt = chapter.CreatedAt
	if chapter.PublishedAt.IsZero() {
		chapter.PublishedAt = now
	}

	base := slugs.Base(chapter.Slug, chapter.Title)
	exists := slugs.TableExists(svc.db, (*models.Chapter)(nil), 0)
	return slugs.Assign(ctx, base, exists, func(slug string) error {
		chapter.Slug = slug
		_, err := svc.db.
			NewInsert().
			Model(chapter).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

// RetrieveChapter reads from the database, falling back to the snapshot.
func (svc *Service) RetrieveChapter(ctx context.Context, opts RetrieveChapterOptions) (*models.Chapter, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionChapters,
		func() (*models.Chapter, error) {
			return svc.retrieveChapter(ctx, opts)
		},
		func(store *fallback.Store) (*models.Chapter, error) {
			chapters, err := fallback.LoadList[models.Chapter](store, fallback.CollectionChapters)
			if err != nil {
				return nil, err
			}
			for _, chapter := range chapters {
				if opts.ID != nil && chapter.ID != *opts.ID {
					continue
				}
				if opts.Slug != nil && chapter.Slug != *opts.Slug {
					continue
				}
				return chapter, nil
			}
			return nil, errcodes.NotFound("Chapter")
		},
	)
}

func (svc *Service) retrieveChapter(ctx context.Context, opts RetrieveChapterOptions) (*models.Chapter, error) {
	chapter := &models.Chapter{}

	q := svc.db.
		NewSelect().
		Model(chapter)

	if opts.ID != nil {
		q = q.Where("ch.id = ?", *opts.ID)
	}
	if opts.Slug != nil {
		q = q.Where("ch.slug = ?", *opts.Slug)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Chapter")
		}
		return nil, errors.WithStack(err)
	}

	return chapter, nil
}

// ListChapters returns every chapter ordered by chapter number.
func (svc *Service) ListChapters(ctx context.Context) ([]*models.Chapter, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionChapters,
		func() ([]*models.Chapter, error) {
			return svc.listChapters(ctx)
		},
		func(store *fallback.Store) ([]*models.Chapter, error) {
			chapters, err := fallback.LoadList[models.Chapter](store, fallback.CollectionChapters)
			if err != nil {
				return nil, err
			}
			sort.SliceStable(chapters, func(i, j int) bool {
				return chapters[i].ChapterNumber < chapters[j].ChapterNumber
			})
			return chapters, nil
		},
	)
}

func (svc *Service) listChapters(ctx context.Context) ([]*models.Chapter, error) {
	chapters := []*models.Chapter{}

	err := svc.db.
		NewSelect().
		Model(&chapters).
		Order("ch.chapter_number ASC", "ch.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return chapters, nil
}

// UpdateChapter writes the given columns. When "slug" is among them the slug
// is re-allocated from chapter.Slug, ignoring the chapter's own row.
func (svc *Service) UpdateChapter(ctx context.Context, chapter *models.Chapter, opts UpdateChapterOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	chapter.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	update := func() error {
		res, err := svc.db.
			NewUpdate().
			Model(chapter).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Chapter")
		}
		return nil
	}

	if !slices.Contains(opts.Columns, "slug") {
		return update()
	}

	base := slugs.Base(chapter.Slug, chapter.Title)
	exists := slugs.TableExists(svc.db, (*models.Chapter)(nil), chapter.ID)
	return slugs.Assign(ctx, base, exists, func(slug string) error {
		chapter.Slug = slug
		return update()
	})
}

func (svc *Service) DeleteChapter(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Chapter)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Chapter")
	}
	return nil
}

// ExportSnapshot implements fallback.Exporter.
func (svc *Service) ExportSnapshot(ctx context.Context, store *fallback.Store) error {
	chapters, err := svc.listChapters(ctx)
	if err != nil {
		return err
	}
	return store.Save(fallback.CollectionChapters, chapters)
}
