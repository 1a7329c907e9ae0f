package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/config"
	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Multipart field names.
const (
	fieldAvatar     = "avatar"
	fieldCoverImage = "coverImage"
	fieldThumbnail  = "thumbnail"
	fieldVideoFile  = "videoFile"
)

var imageTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// UploadIntake saves multipart files to the temp dir after checking type and size.
type UploadIntake struct {
	tempDir       string
	maxImageBytes int64
	maxVideoBytes int64
}

// multipartOverhead covers boundaries, part headers and the text fields.
const multipartOverhead = 64 << 10

func NewUploadIntake(cfg config.UploadConfig) *UploadIntake {
	return &UploadIntake{tempDir: cfg.TempDir, maxImageBytes: cfg.MaxImageBytes, maxVideoBytes: cfg.MaxVideoBytes}
}

// ImageBody caps request bodies carrying up to two images.
func (u *UploadIntake) ImageBody() gin.HandlerFunc {
	return limitBody(2 * u.maxImageBytes)
}

// VideoBody caps request bodies carrying a video and its thumbnail.
func (u *UploadIntake) VideoBody() gin.HandlerFunc {
	if u.maxVideoBytes <= 0 || u.maxImageBytes <= 0 {
		return limitBody(0)
	}
	return limitBody(u.maxVideoBytes + u.maxImageBytes)
}

// limitBody stops reading the body after payload plus multipartOverhead
// bytes, so oversized uploads fail while parsing instead of after.
// A non-positive payload leaves the body unbounded.
func limitBody(payload int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if payload > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, payload+multipartOverhead)
		}
		c.Next()
	}
}

// tempFiles collects the files saved for one request so they can be removed
// if the request fails before the media gateway consumes them.
type tempFiles []string

func (t tempFiles) cleanup(c *gin.Context) {
	for _, p := range t {
		if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
			logger.FromContext(c.Request.Context()).WithError(err).WithField("path", p).Warn("failed to remove temp upload")
		}
	}
}

// Save stores the file in field and returns its local path. A missing field
// returns "" and no error.
func (u *UploadIntake) Save(c *gin.Context, field string, kind domain.MediaKind, saved *tempFiles) (string, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return "", nil
		}
		if bodyTooLarge(err) {
			return "", errBodyTooLarge
		}
		return "", badRequest("Invalid %s upload", field)
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if err := u.check(field, kind, fh, ext); err != nil {
		return "", err
	}

	if err := os.MkdirAll(u.tempDir, 0o755); err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	dst := filepath.Join(u.tempDir, uuid.NewString()+ext)
	if err := c.SaveUploadedFile(fh, dst); err != nil {
		return "", fmt.Errorf("save %s: %w", field, err)
	}
	*saved = append(*saved, dst)
	return dst, nil
}

func (u *UploadIntake) check(field string, kind domain.MediaKind, fh *multipart.FileHeader, ext string) error {
	contentType := strings.ToLower(fh.Header.Get("Content-Type"))

	switch kind {
	case domain.MediaImage:
		want, ok := imageTypes[ext]
		if !ok || (contentType != "" && contentType != want && contentType != "application/octet-stream") {
			return badRequest("%s must be a jpeg, jpg or png image", field)
		}
		if u.maxImageBytes > 0 && fh.Size > u.maxImageBytes {
			return badRequest("%s exceeds the %d byte limit", field, u.maxImageBytes)
		}
	case domain.MediaVideo:
		if !strings.HasPrefix(contentType, "video/") {
			return badRequest("%s must be a video", field)
		}
		if u.maxVideoBytes > 0 && fh.Size > u.maxVideoBytes {
			return badRequest("%s exceeds the %d byte limit", field, u.maxVideoBytes)
		}
	}
	return nil
}
