package cli

import (
	"github.com/m-mizutani/dydl/pkg/cli/config"
	"github.com/m-mizutani/dydl/pkg/domain/interfaces"
	"github.com/m-mizutani/dydl/pkg/infra/douyin"
	"github.com/m-mizutani/dydl/pkg/infra/fetcher"
	"github.com/m-mizutani/dydl/pkg/usecase"
)

// newDownloadUseCase wires the resolver and fetcher after preparing the output directory
func newDownloadUseCase(storageCfg *config.Storage, platformCfg *config.Platform) (interfaces.DownloadUseCase, error) {
	if err := platformCfg.Validate(); err != nil {
		return nil, err
	}
	if err := storageCfg.Prepare(); err != nil {
		return nil, err
	}

	resolver := douyin.NewClient(platformCfg.ResolverOptions()...)
	mediaFetcher := fetcher.New(append(
		platformCfg.FetcherOptions(),
		fetcher.WithChunkSize(storageCfg.ChunkSize),
	)...)

	return usecase.NewDownload(resolver, mediaFetcher, usecase.WithOutputDir(storageCfg.OutputDir)), nil
}
