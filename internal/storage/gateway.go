package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/BhautikVekariya21/backend/internal/domain"
	"github.com/BhautikVekariya21/backend/internal/logger"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Asset describes a file that now lives in the object store.
type Asset struct {
	URL       string
	StorageID string
	// Duration is the media length in seconds when the store reports one.
	Duration *float64
}

// Media converts the asset into the reference stored on documents.
func (a *Asset) Media() domain.Media {
	if a == nil {
		return domain.Media{}
	}
	return domain.Media{URL: a.URL, StorageID: a.StorageID}
}

// MediaGateway moves temporary uploads into remote storage.
type MediaGateway interface {
	Upload(ctx context.Context, localPath string, kind domain.MediaKind) (*Asset, error)
	Delete(ctx context.Context, storageID string, kind domain.MediaKind)
}

// Gateway is the MediaGateway backed by an ObjectStore.
type Gateway struct {
	store ObjectStore
}

// NewGateway wraps store.
func NewGateway(store ObjectStore) *Gateway {
	return &Gateway{store: store}
}

// Upload pushes the file at localPath to the store under <kind>/<uuid><ext>.
// An empty path uploads nothing and returns (nil, nil). The local file is
// removed whether or not the upload succeeds.
func (g *Gateway) Upload(ctx context.Context, localPath string, kind domain.MediaKind) (*Asset, error) {
	if localPath == "" {
		return nil, nil
	}
	defer removeTemp(ctx, localPath)

	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}

	contentType, err := detectContentType(f, localPath)
	if err != nil {
		return nil, err
	}

	key := objectKey(kind, localPath)
	url, err := g.store.Put(ctx, key, contentType, f, info.Size())
	if err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}

	logger.FromContext(ctx).WithField("key", key).Debug("media uploaded")
	return &Asset{URL: url, StorageID: key}, nil
}

// Delete removes a stored object. Failures are logged and swallowed because
// callers run this after their own change has already been committed.
func (g *Gateway) Delete(ctx context.Context, storageID string, kind domain.MediaKind) {
	if storageID == "" {
		return
	}
	if err := g.store.Delete(ctx, storageID); err != nil {
		logger.FromContext(ctx).WithError(err).WithFields(logrus.Fields{
			"key":  storageID,
			"kind": kind,
		}).Warn("failed to delete remote media")
	}
}

func objectKey(kind domain.MediaKind, localPath string) string {
	ext := strings.ToLower(filepath.Ext(localPath))
	return string(kind) + "/" + uuid.NewString() + ext
}

// detectContentType prefers the extension and falls back to sniffing the
// first bytes. The reader is rewound afterwards.
func detectContentType(f *os.File, path string) (string, error) {
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); ct != "" {
		return ct, nil
	}
	head := make([]byte, 512)
	n, err := f.Read(head)
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return "", fmt.Errorf("rewind upload: %w", err)
	}
	return http.DetectContentType(head[:n]), nil
}

func removeTemp(ctx context.Context, path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.FromContext(ctx).WithError(err).WithField("path", path).Warn("failed to remove temp upload")
	}
}
