package model

import "strings"

// KnownDomains are the host substrings accepted in share text
var KnownDomains = []string{"douyin.com", "iesdouyin.com"}

// ShareRequest is the body of a download request
type ShareRequest struct {
	URL string `json:"url"` // Share text, usually a URL wrapped in a caption
}

// HasKnownDomain checks if the share text mentions one of KnownDomains
func (r *ShareRequest) HasKnownDomain() bool {
	for _, domain := range KnownDomains {
		if strings.Contains(r.URL, domain) {
			return true
		}
	}
	return false
}

// ResolvedMedia represents a post resolved to its direct media URL
type ResolvedMedia struct {
	DirectURL string   // Unwatermarked media URL
	Title     string   // Filesystem-safe title
	ID        string   // Last path segment of the canonical redirect target
	Kind      PageKind // Page shape the payload was found in
}

// DownloadResult represents a media file written to local storage
type DownloadResult struct {
	FilePath string
	Media    ResolvedMedia
	Size     int64 // Bytes written
}

// PageKind identifies which loader entry of the embedded page data holds the post
type PageKind string

const (
	PageKindVideo PageKind = "video"
	PageKindNote  PageKind = "note"
)

// PageKinds lists page kinds in lookup priority order
var PageKinds = []PageKind{PageKindVideo, PageKindNote}

// LoaderKey returns the key of the kind's entry under loaderData
func (k PageKind) LoaderKey() string {
	return string(k) + "_(id)/page"
}
