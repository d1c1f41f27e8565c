package locations

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

type ListLocationsOptions struct {
	Type *string
}

type UpdateLocationOptions struct {
	Columns []string
}

type Service struct {
	db       *bun.DB
	fallback *fallback.Reader
}

func NewService(db *bun.DB, reader *fallback.Reader) *Service {
	return &Service{db: db, fallback: reader}
}

func (svc *Service) CreateLocation(ctx context.Context, location *models.Location) error {
	now := time.Now()
	if location.CreatedAt.IsZero() {
		location.CreatedAt = now
	}
	location.UpdatedAt = location.CreatedAt

	_, err := svc.db.
		NewInsert().
		Model(location).
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

func (svc *Service) RetrieveLocation(ctx context.Context, id int) (*models.Location, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionLocations,
		func() (*models.Location, error) {
			return svc.retrieveLocation(ctx, id)
		},
		func(store *fallback.Store) (*models.Location, error) {
			locations, err := fallback.LoadList[models.Location](store, fallback.CollectionLocations)
			if err != nil {
				return nil, err
			}
			for _, location := range locations {
				if location.ID == id {
					return location, nil
				}
			}
			return nil, errcodes.NotFound("Location")
		},
	)
}

func (svc *Service) retrieveLocation(ctx context.Context, id int) (*models.Location, error) {
	location := &models.Location{}

	err := svc.db.
		NewSelect().
		Model(location).
		Where("loc.id = ?", id).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Location")
		}
		return nil, errors.WithStack(err)
	}

	return location, nil
}

func (svc *Service) ListLocations(ctx context.Context, opts ListLocationsOptions) ([]*models.Location, error) {
	return fallback.Read(ctx, svc.fallback, fallback.CollectionLocations,
		func() ([]*models.Location, error) {
			return svc.listLocations(ctx, opts)
		},
		func(store *fallback.Store) ([]*models.Location, error) {
			all, err := fallback.LoadList[models.Location](store, fallback.CollectionLocations)
			if err != nil {
				return nil, err
			}
			locations := make([]*models.Location, 0, len(all))
			for _, location := range all {
				if opts.Type != nil && location.Type != *opts.Type {
					continue
				}
				locations = append(locations, location)
			}
			sort.SliceStable(locations, func(i, j int) bool {
				return locations[i].Name < locations[j].Name
			})
			return locations, nil
		},
	)
}

func (svc *Service) listLocations(ctx context.Context, opts ListLocationsOptions) ([]*models.Location, error) {
	locations := []*models.Location{}

	q := svc.db.
		NewSelect().
		Model(&locations).
		Order("loc.name ASC", "loc.id ASC")

	if opts.Type != nil {
		q = q.Where("loc.type = ?", *opts.Type)
	}

	if err := q.Scan(ctx); err != nil {
		return nil, errors.WithStack(err)
	}

	return locations, nil
}

func (svc *Service) UpdateLocation(ctx context.Context, location *models.Location, opts UpdateLocationOptions) error {
	if len(opts.Columns) == 0 {
		return nil
	}

	location.UpdatedAt = time.Now()
	columns := append(opts.Columns, "updated_at")

	res, err := svc.db.
		NewUpdate().
		Model(location).
		Column(columns...).
		WherePK().
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Location")
	}
	return nil
}

func (svc *Service) DeleteLocation(ctx context.Context, id int) error {
	res, err := svc.db.
		NewDelete().
		Model((*models.Location)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return errcodes.NotFound("Location")
	}
	return nil
}

// ExportSnapshot implements fallback.Exporter.
func (svc *Service) ExportSnapshot(ctx context.Context, store *fallback.Store) error {
	locations, err := svc.listLocations(ctx, ListLocationsOptions{})
	if err != nil {
		return err
	}
	return store.Save(fallback.CollectionLocations, locations)
}
