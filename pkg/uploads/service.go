// Package uploads stores admin uploaded media on local disk and serves it
// back under /uploads.
package uploads

import (
	"context"
	"encoding/base64"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/robinjoseph08/golib/logger"
	"github.com/talesforge/talesforge/pkg/errcodes"
	"github.com/talesforge/talesforge/pkg/metrics"
)

// PublicPath is the URL prefix stored files are served under.
const PublicPath = "/uploads"

// allowedVideo lists the video types browsers play natively. Every image type
// is accepted except SVG, which can carry script.
var allowedVideo = []string{"video/mp4", "video/webm"}

type Service struct {
	dir      string
	maxBytes int64
}

func NewService(dir string, maxBytes int64) *Service {
	return &Service{dir: dir, maxBytes: maxBytes}
}

// Decode turns the file field of an upload into raw bytes.
func (svc *Service) Decode(file string) ([]byte, error) {
	encoded := file
	if strings.HasPrefix(encoded, "data:") {
		idx := strings.Index(encoded, ",")
		if idx < 0 || !strings.HasSuffix(encoded[:idx], ";base64") {
			return nil, errcodes.ValidationError("file must be a base64 data URL")
		}
		encoded = encoded[idx+1:]
	}
	encoded = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', ' ', '\t':
			return -1
		}
		return r
	}, encoded)

	// Reject before decoding when the encoded form is clearly too large.
	if int64(base64.StdEncoding.DecodedLen(len(encoded))) > svc.maxBytes+2 {
		return nil, errcodes.PayloadTooLarge(svc.maxBytes)
	}

	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(encoded)
		if err != nil {
			return nil, errcodes.ValidationError("file must be base64 encoded")
		}
	}
	if len(data) == 0 {
		return nil, errcodes.ValidationError("file can't be empty")
	}
	if int64(len(data)) > svc.maxBytes {
		return nil, errcodes.PayloadTooLarge(svc.maxBytes)
	}
	return data, nil
}

// Store sniffs the content type of data, writes it under a random name and
// returns the public URL.
func (svc *Service) Store(ctx context.Context, data []byte, filename string) (string, error) {
	log := logger.FromContext(ctx)

	mtype := mimetype.Detect(data)
	if !allowed(mtype) {
		log.Info("rejected upload", logger.Data{"mime": mtype.String(), "filename": filename})
		return "", errcodes.UnsupportedMediaType()
	}

	ext := mtype.Extension()
	if ext == "" {
		ext = strings.ToLower(filepath.Ext(filename))
	}
	name := uuid.NewString() + ext

	if err := os.MkdirAll(svc.dir, 0755); err != nil {
		return "", errors.WithStack(err)
	}
	if err := os.WriteFile(filepath.Join(svc.dir, name), data, 0644); err != nil {
		return "", errors.WithStack(err)
	}

	metrics.UploadsStored.WithLabelValues(baseMIME(mtype)).Inc()
	log.Info("stored upload", logger.Data{"name": name, "mime": mtype.String(), "bytes": len(data)})

	return PublicPath + "/" + name, nil
}

func allowed(mtype *mimetype.MIME) bool {
	base := baseMIME(mtype)
	if strings.HasPrefix(base, "image/") {
		return base != "image/svg+xml"
	}
	for _, v := range allowedVideo {
		if mtype.Is(v) {
			return true
		}
	}
	return false
}

// baseMIME drops parameters such as charset.
func baseMIME(mtype *mimetype.MIME) string {
	base, _, _ := strings.Cut(mtype.String(), ";")
	return base
}
