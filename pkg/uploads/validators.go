package uploads

// UploadPayload carries the file as base64, either bare or as a data URL
// (data:image/png;base64,...). Filename is only used for its extension when
// the content type has none.
type UploadPayload struct {
	File     string `json:"file" validate:"required"`
	Filename string `json:"filename" mod:"trim" validate:"omitempty,max=255"`
}

type UploadResponse struct {
	URL string `json:"url"`
}
