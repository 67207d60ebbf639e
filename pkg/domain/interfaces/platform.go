package interfaces

import (
	"context"

	"github.com/m-mizutani/dydl/pkg/domain/model"
)

// LinkResolver turns share text into a direct media URL
type LinkResolver interface {
	// Resolve extracts the first URL in shareText and resolves the post behind it
	Resolve(ctx context.Context, shareText string) (*model.ResolvedMedia, error)
}

// MediaFetcher streams remote media to local storage
type MediaFetcher interface {
	// Fetch writes the content of url to dstPath and returns the number of bytes written
	Fetch(ctx context.Context, url, dstPath string) (int64, error)
}
