// Package progress tracks how far anonymous reader sessions got into each
// chapter.
package progress

import (
	"context"
	"database/sql"
	"math"
	"time"

	"github.com/pkg/errors"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/models"
	"github.com/uptrace/bun"
)

type Service struct {
	db *bun.DB
}

func NewService(db *bun.DB) *Service {
	return &Service{db}
}

// Clamp rounds a raw progress value to a whole percentage in [0, 100].
func Clamp(value float64) int {
	if math.IsNaN(value) {
		return 0
	}
	return int(math.Round(math.Max(0, math.Min(100, value))))
}

// UpsertProgress stores the progress for (SessionID, ChapterID), replacing any
// earlier value. Repeated calls leave exactly one row.
func (svc *Service) UpsertProgress(ctx context.Context, rp *models.ReadingProgress) error {
	exists, err := svc.db.
		NewSelect().
		Model((*models.Chapter)(nil)).
		Where("id = ?", rp.ChapterID).
		Exists(ctx)
	if err != nil {
		return errors.WithStack(err)
	}
	if !exists {
		return errcodes.NotFound("Chapter")
	}

	if rp.LastReadAt.IsZero() {
		rp.LastReadAt = time.Now()
	}

	_, err = svc.db.
		NewInsert().
		Model(rp).
		On("CONFLICT (session_id, chapter_id) DO UPDATE").
		Set("progress = EXCLUDED.progress").
		Set("last_read_at = EXCLUDED.last_read_at").
		Returning("*").
		Exec(ctx)
	return errors.WithStack(err)
}

// ListProgress returns every chapter the session has progress for, most
// recently read first.
func (svc *Service) ListProgress(ctx context.Context, sessionID string) ([]*models.ReadingProgress, error) {
	rows := []*models.ReadingProgress{}

	err := svc.db.
		NewSelect().
		Model(&rows).
		Where("rp.session_id = ?", sessionID).
		Order("rp.last_read_at DESC", "rp.id DESC").
		Scan(ctx)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	return rows, nil
}

func (svc *Service) RetrieveProgress(ctx context.Context, sessionID string, chapterID int) (*models.ReadingProgress, error) {
	rp := &models.ReadingProgress{}

	err := svc.db.
		NewSelect().
		Model(rp).
		Where("rp.session_id = ?", sessionID).
		Where("rp.chapter_id = ?", chapterID).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errcodes.NotFound("Reading progress")
		}
		return nil, errors.WithStack(err)
	}

	return rp, nil
}
