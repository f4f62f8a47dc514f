package layout

import (
	"context"
	"fmt"
	"mime"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"layout-sync/core/reconcile"
	"layout-sync/core/storage"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"go.uber.org/zap"
)

// Publisher mirrors piece images of synced layouts into object storage under
// <prefix>/<layout id>/<value id><ext>.
type Publisher struct {
	client storage.Client
	fs     afero.Fs
	bucket string
	prefix string
	region string
	logger *zap.Logger
}

// PublishReport counts uploaded and removed objects.
type PublishReport struct {
	Uploaded int `json:"uploaded"`
	Removed  int `json:"removed"`
}

// NewPublisher creates a publisher reading images from fs.
func NewPublisher(client storage.Client, fs afero.Fs, cfg storage.Config, logger *zap.Logger) *Publisher {
	return &Publisher{
		client: client,
		fs:     fs,
		bucket: cfg.Bucket,
		prefix: cfg.Prefix,
		region: cfg.Region,
		logger: logger,
	}
}

// ObjectKey returns the object key of a piece value image.
func (p *Publisher) ObjectKey(layoutID string, value PieceValue) string {
	return path.Join(p.prefix, layoutID, value.ID+path.Ext(*value.Image))
}

// rootPrefix is the key prefix all layout images live under.
func (p *Publisher) rootPrefix() string {
	if p.prefix == "" {
		return ""
	}
	return strings.TrimSuffix(p.prefix, "/") + "/"
}

// Publish makes the bucket mirror the piece images of current, the layouts
// loaded from the corpus.
//
// Images of new and changed layouts are always uploaded; images of other
// layouts only when their object is missing, so an upload that failed is
// retried by the next run. Objects no current layout references are removed:
// images dropped from changed layouts and all images of deleted layouts.
func (p *Publisher) Publish(ctx context.Context, plan *reconcile.ReconcilePlan[Layout], current []Layout) (PublishReport, error) {
	var report PublishReport

	if err := storage.EnsureBucket(ctx, p.client, p.bucket, p.region); err != nil {
		return report, err
	}

	existing, err := p.listObjects(ctx)
	if err != nil {
		return report, err
	}

	refresh := make(map[string]struct{}, len(plan.New)+len(plan.Changed))
	for _, l := range plan.New {
		refresh[l.ID] = struct{}{}
	}
	for _, l := range plan.Changed {
		refresh[l.ID] = struct{}{}
	}

	keep := make(map[string]struct{})
	for _, l := range current {
		_, force := refresh[l.ID]
		for _, option := range l.Pieces {
			for _, value := range option.Values {
				if value.Image == nil {
					continue
				}
				key := p.ObjectKey(l.ID, value)
				keep[key] = struct{}{}

				if _, ok := existing[key]; ok && !force {
					continue
				}
				src := filepath.Join(l.SourceDir, PiecesDir, option.Dir, *value.Image)
				if err := p.upload(ctx, src, key); err != nil {
					return report, err
				}
				report.Uploaded++
			}
		}
	}

	var stale []string
	for key := range existing {
		if _, ok := keep[key]; !ok {
			stale = append(stale, key)
		}
	}
	sort.Strings(stale)

	removed, err := p.removeObjects(ctx, stale)
	report.Removed = removed
	if err != nil {
		return report, err
	}

	p.logger.Info("Published piece images",
		zap.Int("uploaded", report.Uploaded),
		zap.Int("removed", report.Removed),
	)
	return report, nil
}

// listObjects returns the keys of every object under the root prefix.
func (p *Publisher) listObjects(ctx context.Context) (map[string]struct{}, error) {
	// The lister goroutine only stops early on a cancelled context
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	existing := make(map[string]struct{})
	for obj := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{
		Prefix:    p.rootPrefix(),
		Recursive: true,
	}) {
		if obj.Err != nil {
			return nil, fmt.Errorf("failed to list piece images: %w", obj.Err)
		}
		existing[obj.Key] = struct{}{}
	}
	return existing, nil
}

func (p *Publisher) upload(ctx context.Context, src, key string) error {
	f, err := p.fs.Open(src)
	if err != nil {
		return fmt.Errorf("failed to open image %s: %w", src, err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat image %s: %w", src, err)
	}

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err = p.client.PutObject(ctx, p.bucket, key, f, info.Size(), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (p *Publisher) removeObjects(ctx context.Context, keys []string) (int, error) {
	if len(keys) == 0 {
		return 0, nil
	}

	objectsCh := make(chan minio.ObjectInfo, len(keys))
	for _, key := range keys {
		objectsCh <- minio.ObjectInfo{Key: key}
	}
	close(objectsCh)

	var errs []string
	for rmErr := range p.client.RemoveObjects(ctx, p.bucket, objectsCh, minio.RemoveObjectsOptions{}) {
		if rmErr.Err != nil {
			errs = append(errs, fmt.Sprintf("%s: %v", rmErr.ObjectName, rmErr.Err))
		}
	}
	if len(errs) > 0 {
		return len(keys) - len(errs), fmt.Errorf("failed to remove %d images: %v", len(errs), errs)
	}

	return len(keys), nil
}
