package models

import (
	"time"

	"github.com/uptrace/bun"
)

// ReadingProgress is keyed by an anonymous browser session token and a
// chapter. There is at most one row per (SessionID, ChapterID).
type ReadingProgress struct {
	bun.BaseModel `bun:"table:reading_progress,alias:rp"`

	ID         int       `bun:",pk,autoincrement" json:"id"`
	ChapterID  int       `bun:",notnull" json:"chapterId"`
	SessionID  string    `bun:",notnull" json:"sessionId"`
	Progress   int       `bun:",notnull" json:"progress"`
	LastReadAt time.Time `bun:",notnull" json:"lastReadAt"`
}
