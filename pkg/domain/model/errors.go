package model

import "github.com/m-mizutani/goerr/v2"

var (
	// ErrTagInvalidLink marks requests rejected before any platform call because
	// the share text names no known domain
	ErrTagInvalidLink = goerr.NewTag("invalid_link")
	// ErrTagInput marks share text the resolver could not use, e.g. no URL in it
	ErrTagInput = goerr.NewTag("input")
	// ErrTagUpstream marks failures of the platform: HTTP status, page layout, payload shape
	ErrTagUpstream = goerr.NewTag("upstream")
	// ErrTagIO marks local storage failures
	ErrTagIO = goerr.NewTag("io")
)
