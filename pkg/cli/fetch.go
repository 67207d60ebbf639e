package cli

import (
	"context"
	"encoding/json"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/dydl/pkg/cli/config"
	"github.com/m-mizutani/dydl/pkg/domain/model"
)

func cmdFetch() *cli.Command {
	var (
		storageCfg  config.Storage
		platformCfg config.Platform
	)

	var flags []cli.Flag
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, platformCfg.Flags()...)

	return &cli.Command{
		Name:      "fetch",
		Aliases:   []string{"f"},
		Usage:     "Download a single share link and print the result as JSON",
		ArgsUsage: "<share text>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			// Share text is often pasted unquoted
			shareText := strings.Join(c.Args().Slice(), " ")
			if strings.TrimSpace(shareText) == "" {
				return goerr.New("share text is required")
			}

			downloadUC, err := newDownloadUseCase(&storageCfg, &platformCfg)
			if err != nil {
				return goerr.Wrap(err, "failed to set up download use case")
			}

			result, err := downloadUC.Download(ctx, &model.ShareRequest{URL: shareText})
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(model.NewDownloadResponse(result)); err != nil {
				return goerr.Wrap(err, "failed to encode result")
			}
			return nil
		},
	}
}
