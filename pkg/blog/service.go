package blog

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

type RetrievePostOptions struct {
	ID   *int
	Slug *string
}

type ListPostsOptions struct {
	Category *string
}

type UpdatePostOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	fallback *fallback.Reader
}

func NewService(db *bun.DB, reader *fallback.Reader) *Service {
	return &Service{db: db, fallback: reader}
}

func (svc *Service) CreatePost(ctx context.Context, post *models.BlogPost) error {
	now := time.Now()
	if post.CreatedAt.IsZero() {
		post.CreatedAt = now
	}
	post.UpdatedAt = post.CreatedAt
	if post.PublishedAt.IsZero() {
		post.PublishedAt = now
	}

	base := slugs.Base(post.Slug, post.Title)
	exists := slugs.TableExists(svc.db, (*models.BlogPost)(nil), 0)
	return slugs.Assign(ctx, base, exists, func(slug string) error {
		post.Slug = slug
		_, err := svc.db.
			NewInsert().
			Model(post).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrievePost(ctx context.Context, opts RetrievePostOptions) (*models.BlogPost, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionBlog,
		func() (*models.BlogPost, error) {
			return svc.retrievePost(ctx, opts)
		},
		func(store *fallback.Store) (*models.BlogPost, error) {
			posts, err := fallback.LoadList[models.BlogPost](store, fallback.CollectionBlog)
			if err != nil {
				return nil, err
			}
			for _, post := range posts {
				if opts.ID != nil && post.ID != *opts.ID {
					continue
				}
				if opts.Slug != nil && post.Slug != *opts.Slug {
					continue
				}
				return post, nil
			}
			return nil, errcodes.NotFound("Blog post")
		},
	)
}

func (svc *Service) retrievePost(ctx context.Context, opts RetrievePostOptions) (*models.BlogPost, error) {
	post := &models.BlogPost{}

	q := svc.db.
		NewSelect().
		Model(post)

	if opts.ID != nil {
		q = q.Where("bp.id = ?", *opts.ID)
	}
	if opts.Slug != nil {
		q = q.Where("bp.slug = ?", *opts.Slug)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Blog post")
		}
		return nil, errors.WithStack(err)
	}

	return post, nil
}

// ListPosts returns posts newest first.
func (svc *Service) ListPosts(ctx context.Context, opts ListPostsOptions) ([]*models.BlogPost, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionBlog,
		func() ([]*models.BlogPost, error) {
			return svc.listPosts(ctx, opts)
		},
		func(store *fallback.Store) ([]*models.BlogPost, error) {
			all, err := fallback.LoadList[models.BlogPost](store, fallback.CollectionBlog)
			if err != nil {
				return nil, err
			}
			posts := make([]*models.BlogPost, 0, len(all))
			for _, post := range all {
				if opts.Category != nil && post.Category != *opts.Category {
					continue
				}
				posts = append(posts, post)
			}
			sort.SliceStable(posts, func(i, j int) bool {
				return posts[i].PublishedAt.After(posts[j].PublishedAt)
			})
			return posts, nil
		},
	)
}

func (svc *Service) listPosts(ctx context.Context, opts ListPostsOptions) ([]*models.BlogPost, error) {
	posts := []*models.BlogPost{}

	q := svc.db.
		NewSelect().
		Model(&posts).
		Order("bp.published_at DESC", "bp.id DESC")

	if opts.Category != nil {
		q = q.Where("bp.category = ?", *opts.Category)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return posts, nil
}

func (svc *Service) UpdatePost(ctx context.Context, post *models.BlogPost, opts UpdatePostOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	post.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	update := func() error {
		res, err := svc.db.
			NewUpdate().
			Model(post).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Blog post")
		}
		return nil
	}

	if !slices.Contains(opts.Columns, "slug") {
		return update()
	}

	base := slugs.Base(post.Slug, post.Title)
	exists := slugs.TableExists(svc.db, (*models.BlogPost)(nil), post.ID)
	return slugs.Assign(ctx, base, exists, func(slug string) error {
		post.Slug = slug
		return update()
	})
}

func (svc *Service) DeletePost(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.BlogPost)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Blog post")
	}
	return nil
}

// ExportSnapshot implements fallback.Exporter.
func (svc *Service) ExportSnapshot(ctx context.Context, store *fallback.Store) error {
	posts, err := svc.listPosts(ctx, ListPostsOptions{})
	if err != nil {
		return err
	}
	return store.Save(fallback.CollectionBlog, posts)
}
