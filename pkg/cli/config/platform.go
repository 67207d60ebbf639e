package config

import (
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/m-mizutani/dydl/pkg/infra/douyin"
	"github.com/m-mizutani/dydl/pkg/infra/fetcher"
)

// Platform holds settings of requests to the video platform
type Platform struct {
	UserAgent         string
	DetailURLTemplate string
	HTTPTimeout       time.Duration
}

// Flags returns CLI flags for platform configuration
func (c *Platform) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "user-agent",
			Usage:       "User-Agent sent to the platform; must identify a mobile browser",
			Value:       douyin.DefaultUserAgent,
			Destination: &c.UserAgent,
			Sources:     cli.EnvVars("DYDL_USER_AGENT"),
		},
		&cli.StringFlag{
			Name:        "detail-url-template",
			Usage:       "Canonical share page URL, {id} is replaced by the post ID",
			Value:       douyin.DefaultDetailURLTemplate,
			Destination: &c.DetailURLTemplate,
			Sources:     cli.EnvVars("DYDL_DETAIL_URL_TEMPLATE"),
		},
		&cli.DurationFlag{
			Name:        "http-timeout",
			Usage:       "Timeout of each request to the platform (0 = no timeout)",
			Destination: &c.HTTPTimeout,
			Sources:     cli.EnvVars("DYDL_HTTP_TIMEOUT"),
		},
	}
}

// Validate checks the platform settings
func (c *Platform) Validate() error {
	if !strings.Contains(c.DetailURLTemplate, "{id}") {
		return goerr.New("detail URL template must contain {id}",
			goerr.V("template", c.DetailURLTemplate))
	}
	if c.HTTPTimeout < 0 {
		return goerr.New("HTTP timeout must not be negative", goerr.V("timeout", c.HTTPTimeout))
	}
	return nil
}

// ResolverOptions returns options for the Douyin link resolver
func (c *Platform) ResolverOptions() []douyin.Option {
	return []douyin.Option{
		douyin.WithUserAgent(c.UserAgent),
		douyin.WithDetailURLTemplate(c.DetailURLTemplate),
		douyin.WithTimeout(c.HTTPTimeout),
	}
}

// FetcherOptions returns options for the media fetcher
func (c *Platform) FetcherOptions() []fetcher.Option {
	return []fetcher.Option{
		fetcher.WithUserAgent(c.UserAgent),
		fetcher.WithTimeout(c.HTTPTimeout),
	}
}
