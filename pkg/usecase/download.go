package usecase

import (
	"context"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/dydl/pkg/domain/interfaces"
	"github.com/m-mizutani/dydl/pkg/domain/model"
)

const (
	// DefaultOutputDir is where media is stored unless configured otherwise
	DefaultOutputDir = "downloads"
	// DefaultExtension is appended to the title to build the file name
	DefaultExtension = ".mp4"
)

type downloadUseCase struct {
	resolver  interfaces.LinkResolver
	fetcher   interfaces.MediaFetcher
	outputDir string
	extension string
}

// DownloadOption is a functional option for the download use case
type DownloadOption func(*downloadUseCase)

// WithOutputDir sets the directory media files are written to
func WithOutputDir(dir string) DownloadOption {
	return func(uc *downloadUseCase) {
		uc.outputDir = dir
	}
}

// WithExtension sets the file extension of stored media
func WithExtension(ext string) DownloadOption {
	return func(uc *downloadUseCase) {
		uc.extension = ext
	}
}

// NewDownload creates a new instance of DownloadUseCase
func NewDownload(resolver interfaces.LinkResolver, fetcher interfaces.MediaFetcher, opts ...DownloadOption) interfaces.DownloadUseCase {
	uc := &downloadUseCase{
		resolver:  resolver,
		fetcher:   fetcher,
		outputDir: DefaultOutputDir,
		extension: DefaultExtension,
	}
	for _, opt := range opts {
		opt(uc)
	}
	return uc
}

// Download resolves the share text and stores the media in the output directory
func (uc *downloadUseCase) Download(ctx context.Context, req *model.ShareRequest) (*model.DownloadResult, error) {
	if !req.HasKnownDomain() {
		return nil, goerr.New("invalid Douyin link, please check the URL",
			goerr.V("url", req.URL),
			goerr.T(model.ErrTagInvalidLink))
	}

	logger := ctxlog.From(ctx).With("download_id", uuid.NewString())
	ctx = ctxlog.With(ctx, logger)

	logger.Info("Resolving share link", "share_text", req.URL)

	media, err := uc.resolver.Resolve(ctx, req.URL)
	if err != nil {
		logger.Error("Failed to resolve share link", "error", err)
		return nil, err
	}

	// Same title from concurrent requests overwrites the same file
	dstPath := filepath.Join(uc.outputDir, media.Title+uc.extension)

	logger.Info("Downloading media",
		"post_id", media.ID,
		"title", media.Title,
		"path", dstPath,
	)

	size, err := uc.fetcher.Fetch(ctx, media.DirectURL, dstPath)
	if err != nil {
		logger.Error("Failed to download media",
			"error", err,
			"post_id", media.ID,
			"path", dstPath,
		)
		return nil, err
	}

	logger.Info("Downloaded media",
		"post_id", media.ID,
		"path", dstPath,
		"size_bytes", size,
	)

	return &model.DownloadResult{
		FilePath: dstPath,
		Media:    *media,
		Size:     size,
	}, nil
}
