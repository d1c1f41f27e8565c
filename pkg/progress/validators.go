package progress

// UpsertProgressPayload is sent by the reader as it scrolls. Progress is a
// percentage; out of range values are clamped rather than rejected.
type UpsertProgressPayload struct {
	SessionID string   `json:"sessionId" mod:"trim" validate:"required,max=128"`
	ChapterID int      `json:"chapterId" validate:"required,min=1"`
	Progress  *float64 `json:"progress" validate:"required"`
}
