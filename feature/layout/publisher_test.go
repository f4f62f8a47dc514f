package layout_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"layout-sync/core/reconcile"
	"layout-sync/core/storage"
	"layout-sync/core/storage/mocks"
	"layout-sync/feature/layout"

	"github.com/minio/minio-go/v7"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var storageCfg = storage.Config{Bucket: "layouts", Prefix: "pieces"}

// listByPrefix serves ListObjects from a fixed set of keys.
func listByPrefix(keys ...string) func(context.Context, string, minio.ListObjectsOptions) <-chan minio.ObjectInfo {
	return func(_ context.Context, _ string, opts minio.ListObjectsOptions) <-chan minio.ObjectInfo {
		ch := make(chan minio.ObjectInfo, len(keys))
		for _, key := range keys {
			if strings.HasPrefix(key, opts.Prefix) {
				ch <- minio.ObjectInfo{Key: key}
			}
		}
		close(ch)
		return ch
	}
}

// imageLayout returns sampleLayout with its red.png written to fs.
func imageLayout(t *testing.T, fs afero.Fs) layout.Layout {
	t.Helper()
	l := sampleLayout()
	path := filepath.Join(l.SourceDir, layout.PiecesDir, l.Pieces[0].Dir, "red.png")
	require.NoError(t, fs.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, afero.WriteFile(fs, path, []byte("png"), 0o644))
	return l
}

func TestPublisher_ObjectKey(t *testing.T) {
	p := layout.NewPublisher(new(mocks.Client), afero.NewMemMapFs(), storageCfg, zap.NewNop())
	value := layout.PieceValue{ID: "V1", Image: strPtr("red.png")}

	assert.Equal(t, "pieces/L1/V1.png", p.ObjectKey("L1", value))
}

func TestPublisher_PublishNew(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := imageLayout(t, fs)

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "layouts").Return(false, nil)
	client.On("MakeBucket", mock.Anything, "layouts", mock.Anything).Return(nil)
	client.On("ListObjects", mock.Anything, "layouts", mock.MatchedBy(func(opts minio.ListObjectsOptions) bool {
		return opts.Prefix == "pieces/" && opts.Recursive
	})).Return(listByPrefix())
	client.On("PutObject", mock.Anything, "layouts", "pieces/L1/V1.png", mock.Anything, int64(3),
		mock.MatchedBy(func(opts minio.PutObjectOptions) bool { return opts.ContentType == "image/png" }),
	).Return(minio.UploadInfo{}, nil)

	p := layout.NewPublisher(client, fs, storageCfg, zap.NewNop())
	report, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{
		New: []layout.Layout{l},
	}, []layout.Layout{l})

	require.NoError(t, err)
	assert.Equal(t, layout.PublishReport{Uploaded: 1}, report)
	client.AssertExpectations(t)
	client.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublisher_UploadsMissingImagesOfUnchangedLayouts(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := imageLayout(t, fs)

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "layouts").Return(true, nil)
	client.On("ListObjects", mock.Anything, "layouts", mock.Anything).Return(listByPrefix())
	client.On("PutObject", mock.Anything, "layouts", "pieces/L1/V1.png", mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, nil)

	p := layout.NewPublisher(client, fs, storageCfg, zap.NewNop())
	report, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{}, []layout.Layout{l})

	require.NoError(t, err)
	assert.Equal(t, layout.PublishReport{Uploaded: 1}, report)
	client.AssertExpectations(t)
}

func TestPublisher_SkipsPresentImagesOfUnchangedLayouts(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := imageLayout(t, fs)

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "layouts").Return(true, nil)
	client.On("ListObjects", mock.Anything, "layouts", mock.Anything).Return(listByPrefix("pieces/L1/V1.png"))

	p := layout.NewPublisher(client, fs, storageCfg, zap.NewNop())
	report, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{}, []layout.Layout{l})

	require.NoError(t, err)
	assert.Equal(t, layout.PublishReport{}, report)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	client.AssertNotCalled(t, "RemoveObjects", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestPublisher_PublishChangedPrunesStaleImages(t *testing.T) {
	fs := afero.NewMemMapFs()
	l := imageLayout(t, fs)

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "layouts").Return(true, nil)
	client.On("PutObject", mock.Anything, "layouts", "pieces/L1/V1.png", mock.Anything, int64(3), mock.Anything).
		Return(minio.UploadInfo{}, nil)
	client.On("ListObjects", mock.Anything, "layouts", mock.Anything).
		Return(listByPrefix("pieces/L1/V1.png", "pieces/L1/OLD.png"))
	client.On("RemoveObjects", mock.Anything, "layouts", []string{"pieces/L1/OLD.png"}, mock.Anything).
		Return(nil)

	p := layout.NewPublisher(client, fs, storageCfg, zap.NewNop())
	report, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{
		Changed: []layout.Layout{l},
	}, []layout.Layout{l})

	require.NoError(t, err)
	assert.Equal(t, layout.PublishReport{Uploaded: 1, Removed: 1}, report)
	client.AssertExpectations(t)
}

func TestPublisher_PublishDeleted(t *testing.T) {
	gone := sampleLayout()
	gone.ID = "L0"
	gone.SourceDir = ""

	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "layouts").Return(true, nil)
	client.On("ListObjects", mock.Anything, "layouts", mock.Anything).
		Return(listByPrefix("pieces/L0/A.png", "pieces/L0/B.png"))
	client.On("RemoveObjects", mock.Anything, "layouts", []string{"pieces/L0/A.png", "pieces/L0/B.png"}, mock.Anything).
		Return(nil)

	p := layout.NewPublisher(client, afero.NewMemMapFs(), storageCfg, zap.NewNop())
	report, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{
		Deleted: []layout.Layout{gone},
	}, nil)

	require.NoError(t, err)
	assert.Equal(t, layout.PublishReport{Removed: 2}, report)
	client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	client.AssertExpectations(t)
}

func TestPublisher_ListingErrorCancelsLister(t *testing.T) {
	var listCtx context.Context
	client := new(mocks.Client)
	client.On("BucketExists", mock.Anything, "layouts").Return(true, nil)
	client.On("ListObjects", mock.Anything, "layouts", mock.Anything).
		Return(func(ctx context.Context, _ string, _ minio.ListObjectsOptions) <-chan minio.ObjectInfo {
			listCtx = ctx
			// Unbuffered and never closed after the error: only cancellation ends the lister.
			ch := make(chan minio.ObjectInfo)
			go func() {
				select {
				case ch <- minio.ObjectInfo{Err: errors.New("listing denied")}:
				case <-ctx.Done():
					return
				}
				select {
				case ch <- minio.ObjectInfo{Key: "pieces/L1/V1.png"}:
				case <-ctx.Done():
				}
			}()
			return ch
		})

	p := layout.NewPublisher(client, afero.NewMemMapFs(), storageCfg, zap.NewNop())
	_, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{}, nil)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "listing denied")
	require.NotNil(t, listCtx)
	assert.ErrorIs(t, listCtx.Err(), context.Canceled)
}

func TestPublisher_Failures(t *testing.T) {
	t.Run("missing image", func(t *testing.T) {
		l := sampleLayout()
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "layouts").Return(true, nil)
		client.On("ListObjects", mock.Anything, "layouts", mock.Anything).Return(listByPrefix())

		p := layout.NewPublisher(client, afero.NewMemMapFs(), storageCfg, zap.NewNop())
		_, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{
			New: []layout.Layout{l},
		}, []layout.Layout{l})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to open image")
	})

	t.Run("bucket check", func(t *testing.T) {
		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "layouts").Return(false, errors.New("unreachable"))

		p := layout.NewPublisher(client, afero.NewMemMapFs(), storageCfg, zap.NewNop())
		_, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{}, []layout.Layout{sampleLayout()})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "unreachable")
	})

	t.Run("remove", func(t *testing.T) {
		errCh := make(chan minio.RemoveObjectError, 1)
		errCh <- minio.RemoveObjectError{ObjectName: "pieces/L0/A.png", Err: errors.New("denied")}
		close(errCh)

		client := new(mocks.Client)
		client.On("BucketExists", mock.Anything, "layouts").Return(true, nil)
		client.On("ListObjects", mock.Anything, "layouts", mock.Anything).
			Return(listByPrefix("pieces/L0/A.png", "pieces/L0/B.png"))
		client.On("RemoveObjects", mock.Anything, "layouts", mock.Anything, mock.Anything).
			Return((<-chan minio.RemoveObjectError)(errCh))

		p := layout.NewPublisher(client, afero.NewMemMapFs(), storageCfg, zap.NewNop())
		report, err := p.Publish(context.Background(), &reconcile.ReconcilePlan[layout.Layout]{}, nil)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "denied")
		assert.Equal(t, 1, report.Removed)
	})
}
