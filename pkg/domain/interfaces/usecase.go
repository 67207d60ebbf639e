package interfaces

//go:generate moq -out mocks/usecase_mock.go -pkg mocks . DownloadUseCase

import (
	"context"

	"github.com/m-mizutani/dydl/pkg/domain/model"
)

// DownloadUseCase defines the interface for share link downloads
type DownloadUseCase interface {
	// Download resolves the share text and stores the media in the output directory
	Download(ctx context.Context, req *model.ShareRequest) (*model.DownloadResult, error)
}
