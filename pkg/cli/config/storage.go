package config

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// Storage holds local media storage configuration
type Storage struct {
	OutputDir string
	ChunkSize int
}

// Flags returns CLI flags for storage configuration
func (c *Storage) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "output-dir",
			Aliases:     []string{"o"},
			Usage:       "Directory downloaded media is written to",
			Value:       "downloads",
			Destination: &c.OutputDir,
			Sources:     cli.EnvVars("DYDL_OUTPUT_DIR"),
		},
		&cli.IntFlag{
			Name:        "chunk-size",
			Usage:       "Read buffer size of media transfers in bytes",
			Value:       8 << 10,
			Destination: &c.ChunkSize,
			Sources:     cli.EnvVars("DYDL_CHUNK_SIZE"),
		},
	}
}

// Prepare creates the output directory if it does not exist
func (c *Storage) Prepare() error {
	if c.OutputDir == "" {
		return goerr.New("output directory is empty")
	}
	if err := os.MkdirAll(c.OutputDir, 0755); err != nil {
		return goerr.Wrap(err, "failed to create output directory", goerr.V("dir", c.OutputDir))
	}
	return nil
}
