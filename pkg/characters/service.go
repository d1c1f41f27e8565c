package characters

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

type RetrieveCharacterOptions struct {
	ID   *int
	Slug *string
}

type ListCharactersOptions struct {
	Role *string
}

type UpdateCharacterOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	fallback *fallback.Reader
}

func NewService(db *bun.DB, reader *fallback.Reader) *Service {
	return &Service{db: db, fallback: reader}
}

func (svc *Service) CreateCharacter(ctx context.Context, character *models.Character) error {
	now := time.Now()
	if character.CreatedAt.IsZero() {
		character.CreatedAt = now
	}
	character.UpdatedAt = character.CreatedAt

	base := slugs.Base(character.Slug, character.Name)
	exists := slugs.TableExists(svc.db, (*models.Character)(nil), 0)
	return slugs.Assign(ctx, base, exists, func(slug string) error {
		character.Slug = slug
		_, err := svc.db.
			NewInsert().
			Model(character).
			Returning("*").
			Exec(ctx)
		return errors.WithStack(err)
	})
}

func (svc *Service) RetrieveCharacter(ctx context.Context, opts RetrieveCharacterOptions) (*models.Character, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionCharacters,
		func() (*models.Character, error) {
			return svc.retrieveCharacter(ctx, opts)
		},
		func(store *fallback.Store) (*models.Character, error) {
			characters, err := fallback.LoadList[models.Character](store, fallback.CollectionCharacters)
			if err != nil {
				return nil, err
			}
			for _, character := range characters {
				if opts.ID != nil && character.ID != *opts.ID {
					continue
				}
				if opts.Slug != nil && character.Slug != *opts.Slug {
					continue
				}
				return character, nil
			}
			return nil, errcodes.NotFound("Character")
		},
	)
}

func (svc *Service) retrieveCharacter(ctx context.Context, opts RetrieveCharacterOptions) (*models.Character, error) {
	character := &models.Character{}

	q := svc.db.
		NewSelect().
		Model(character)

	if opts.ID != nil {
		q = q.Where("chr.id = ?", *opts.ID)
	}
	if opts.Slug != nil {
		q = q.Where("chr.slug = ?", *opts.Slug)
	}

	err := q.Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Character")
		}
		return nil, errors.WithStack(err)
	}

	return character, nil
}

// ListCharacters returns characters ordered by name, optionally narrowed to
// one role.
func (svc *Service) ListCharacters(ctx context.Context, opts ListCharactersOptions) ([]*models.Character, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionCharacters,
		func() ([]*models.Character, error) {
			return svc.listCharacters(ctx, opts)
		},
		func(store *fallback.Store) ([]*models.Character, error) {
			all, err := fallback.LoadList[models.Character](store, fallback.CollectionCharacters)
			if err != nil {
				return nil, err
			}
			characters := make([]*models.Character, 0, len(all))
			for _, character := range all {
				if opts.Role != nil && character.Role != *opts.Role {
					continue
				}
				characters = append(characters, character)
			}
			sort.SliceStable(characters, func(i, j int) bool {
				return characters[i].Name < characters[j].Name
			})
			return characters, nil
		},
	)
}

func (svc *Service) listCharacters(ctx context.Context, opts ListCharactersOptions) ([]*models.Character, error) {
	characters := []*models.Character{}

	q := svc.db.
		NewSelect().
		Model(&characters).
		Order("chr.name ASC", "chr.id ASC")

	if opts.Role != nil {
		q = q.Where("chr.role = ?", *opts.Role)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return characters, nil
}

func (svc *Service) UpdateCharacter(ctx context.Context, character *models.Character, opts UpdateCharacterOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	character.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	update := func() error {
		res, err := svc.db.
			NewUpdate().
			Model(character).
			Column(columns...).
			WherePK().
			Exec(ctx)
		if err != nil {
			return errors.WithStack(err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return errcodes.NotFound("Character")
		}
		return nil
	}

	if !slices.Contains(opts.Columns, "slug") {
		return update()
	}

	base := slugs.Base(character.Slug, character.Name)
	exists := slugs.TableExists(svc.db, (*models.Character)(nil), character.ID)
	return slugs.Assign(ctx, base, exists, func(slug string) error {
		character.Slug = slug
		return update()
	})
}

func (svc *Service) DeleteCharacter(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Character)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Character")
	}
	return nil
}

// ExportSnapshot implements fallback.Exporter.
func (svc *Service) ExportSnapshot(ctx context.Context, store *fallback.Store) error {
	characters, err := svc.listCharacters(ctx, ListCharactersOptions{})
	if err != nil {
		return err
	}
	return store.Save(fallback.CollectionCharacters, characters)
}
