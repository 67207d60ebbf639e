package usecase_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/dydl/pkg/domain/model"
	"github.com/m-mizutani/dydl/pkg/usecase"
)

// MockResolver is a mock implementation of LinkResolver
type MockResolver struct {
	resolveFunc func(ctx context.Context, shareText string) (*model.ResolvedMedia, error)
	calls       []string
}

func (m *MockResolver) Resolve(ctx context.Context, shareText string) (*model.ResolvedMedia, error) {
	m.calls = append(m.calls, shareText)
	if m.resolveFunc != nil {
		return m.resolveFunc(ctx, shareText)
	}
	return nil, errors.New("mock not configured")
}

// MockFetcher is a mock implementation of MediaFetcher
type MockFetcher struct {
	fetchFunc func(ctx context.Context, url, dstPath string) (int64, error)
	calls     []FetchCall
}

type FetchCall struct {
	URL     string
	DstPath string
}

func (m *MockFetcher) Fetch(ctx context.Context, url, dstPath string) (int64, error) {
	m.calls = append(m.calls, FetchCall{URL: url, DstPath: dstPath})
	if m.fetchFunc != nil {
		return m.fetchFunc(ctx, url, dstPath)
	}
	return 0, errors.New("mock not configured")
}

func testMedia() *model.ResolvedMedia {
	return &model.ResolvedMedia{
		DirectURL: "https://aweme.snssdk.com/aweme/v1/play/?video_id=v0200",
		Title:     "test video",
		ID:        "7372484719365098803",
		Kind:      model.PageKindVideo,
	}
}

func TestDownloadUseCase_Download_Success(t *testing.T) {
	ctx := context.Background()
	outputDir := t.TempDir()

	resolver := &MockResolver{
		resolveFunc: func(ctx context.Context, shareText string) (*model.ResolvedMedia, error) {
			return testMedia(), nil
		},
	}
	fetcher := &MockFetcher{
		fetchFunc: func(ctx context.Context, url, dstPath string) (int64, error) {
			return 1234, nil
		},
	}

	uc := usecase.NewDownload(resolver, fetcher, usecase.WithOutputDir(outputDir))

	result, err := uc.Download(ctx, &model.ShareRequest{URL: "看看 https://v.douyin.com/abc/ 复制此链接"})
	gt.NoError(t, err)

	wantPath := filepath.Join(outputDir, "test video.mp4")
	gt.Equal(t, result.FilePath, wantPath)
	gt.Equal(t, result.Size, int64(1234))
	gt.Equal(t, result.Media, *testMedia())

	gt.Array(t, resolver.calls).Length(1)
	gt.Array(t, fetcher.calls).Length(1)
	gt.Equal(t, fetcher.calls[0], FetchCall{URL: testMedia().DirectURL, DstPath: wantPath})
}

func TestDownloadUseCase_Download_Extension(t *testing.T) {
	resolver := &MockResolver{
		resolveFunc: func(ctx context.Context, shareText string) (*model.ResolvedMedia, error) {
			return testMedia(), nil
		},
	}
	fetcher := &MockFetcher{
		fetchFunc: func(ctx context.Context, url, dstPath string) (int64, error) {
			return 1, nil
		},
	}

	uc := usecase.NewDownload(resolver, fetcher,
		usecase.WithOutputDir("media"),
		usecase.WithExtension(".mov"),
	)

	result, err := uc.Download(context.Background(), &model.ShareRequest{URL: "https://www.iesdouyin.com/share/video/1"})
	gt.NoError(t, err)
	gt.Equal(t, result.FilePath, filepath.Join("media", "test video.mov"))
}

func TestDownloadUseCase_Download_UnknownDomain(t *testing.T) {
	resolver := &MockResolver{}
	fetcher := &MockFetcher{}
	uc := usecase.NewDownload(resolver, fetcher)

	result, err := uc.Download(context.Background(), &model.ShareRequest{URL: "not a douyin link"})
	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.True(t, goerr.HasTag(err, model.ErrTagInvalidLink))

	gt.Array(t, resolver.calls).Length(0)
	gt.Array(t, fetcher.calls).Length(0)
}

func TestDownloadUseCase_Download_ResolveError(t *testing.T) {
	resolver := &MockResolver{
		resolveFunc: func(ctx context.Context, shareText string) (*model.ResolvedMedia, error) {
			return nil, goerr.New("window._ROUTER_DATA not found in page", goerr.T(model.ErrTagUpstream))
		},
	}
	fetcher := &MockFetcher{}
	uc := usecase.NewDownload(resolver, fetcher)

	result, err := uc.Download(context.Background(), &model.ShareRequest{URL: "https://v.douyin.com/abc/"})
	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.True(t, goerr.HasTag(err, model.ErrTagUpstream))
	gt.String(t, err.Error()).Contains("window._ROUTER_DATA")

	gt.Array(t, fetcher.calls).Length(0)
}

func TestDownloadUseCase_Download_FetchError(t *testing.T) {
	resolver := &MockResolver{
		resolveFunc: func(ctx context.Context, shareText string) (*model.ResolvedMedia, error) {
			return testMedia(), nil
		},
	}
	fetcher := &MockFetcher{
		fetchFunc: func(ctx context.Context, url, dstPath string) (int64, error) {
			return 10, goerr.New("failed to write destination file", goerr.T(model.ErrTagIO))
		},
	}
	uc := usecase.NewDownload(resolver, fetcher)

	result, err := uc.Download(context.Background(), &model.ShareRequest{URL: "https://v.douyin.com/abc/"})
	gt.Error(t, err)
	gt.Value(t, result).Nil()
	gt.True(t, goerr.HasTag(err, model.ErrTagIO))
}
