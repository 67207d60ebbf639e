package douyin

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/tidwall/gjson"

	"github.com/m-mizutani/dydl/pkg/domain/interfaces"
	"github.com/m-mizutani/dydl/pkg/domain/model"
)

const (
	// DefaultUserAgent identifies as mobile Safari. The platform only embeds
	// the router data in pages served to mobile clients.
	DefaultUserAgent = "Mozilla/5.0 (iPhone; CPU iPhone OS 17_2 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) EdgiOS/121.0.2277.107 Version/17.0 Mobile/15E148 Safari/604.1"

	// DefaultDetailURLTemplate is the canonical share page. {id} is replaced by the post ID.
	DefaultDetailURLTemplate = "https://www.iesdouyin.com/share/video/{id}"

	// RouterDataMarker is the global variable holding the embedded page data
	RouterDataMarker = "window._ROUTER_DATA"

	// MaxTitleBytes keeps title plus extension under the 255-byte NAME_MAX of common filesystems
	MaxTitleBytes = 200

	maxPageSize     = 10 << 20
	htmlPreviewSize = 500
)

var (
	shareURLPattern  = regexp.MustCompile(`https?://(?:[a-zA-Z]|[0-9]|[$-_@.&+]|[!*\(\),]|(?:%[0-9a-fA-F][0-9a-fA-F]))+`)
	routerDataRegexp = regexp.MustCompile(`(?s)window\._ROUTER_DATA\s*=\s*(.*?)</script>`)
	illegalNameChars = regexp.MustCompile(`[\\/:*?"<>|]`)
	watermarkSegment = regexp.MustCompile(`/playwm\b`)
)

type config struct {
	userAgent         string
	detailURLTemplate string
	httpClient        *http.Client
}

// Option is a functional option for Client configuration
type Option func(*config)

// WithUserAgent overrides the User-Agent header sent to the platform
func WithUserAgent(ua string) Option {
	return func(c *config) {
		c.userAgent = ua
	}
}

// WithDetailURLTemplate overrides the canonical share page template
func WithDetailURLTemplate(tmpl string) Option {
	return func(c *config) {
		c.detailURLTemplate = tmpl
	}
}

// WithHTTPClient sets the HTTP client used for page requests
func WithHTTPClient(client *http.Client) Option {
	return func(c *config) {
		c.httpClient = client
	}
}

// WithTimeout sets a timeout on the default HTTP client
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) {
		c.httpClient = &http.Client{Timeout: timeout}
	}
}

type client struct {
	cfg config
}

// NewClient creates a LinkResolver for Douyin share links
func NewClient(opts ...Option) interfaces.LinkResolver {
	cfg := config{
		userAgent:         DefaultUserAgent,
		detailURLTemplate: DefaultDetailURLTemplate,
		httpClient:        http.DefaultClient,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return &client{cfg: cfg}
}

// Resolve resolves share text to the unwatermarked media of the post
func (c *client) Resolve(ctx context.Context, shareText string) (*model.ResolvedMedia, error) {
	logger := ctxlog.From(ctx)

	shareURL, err := ExtractShareURL(shareText)
	if err != nil {
		return nil, err
	}

	postID, err := c.resolvePostID(ctx, shareURL)
	if err != nil {
		return nil, err
	}
	logger.Debug("Resolved share link", "share_url", shareURL, "post_id", postID)

	detailURL := strings.ReplaceAll(c.cfg.detailURLTemplate, "{id}", url.PathEscape(postID))
	page, err := c.fetchDetailPage(ctx, detailURL)
	if err != nil {
		return nil, err
	}

	media, err := ParseDetailPage(page.body, postID)
	if err != nil {
		preview := page.body
		if len(preview) > htmlPreviewSize {
			preview = preview[:htmlPreviewSize]
		}
		logger.Debug("Failed to parse detail page",
			"url", detailURL,
			"status", page.status,
			"headers", page.header,
			"html_preview", preview,
		)
		return nil, goerr.Wrap(err, "failed to parse detail page",
			goerr.V("url", detailURL),
			goerr.T(model.ErrTagUpstream))
	}

	logger.Info("Resolved media",
		"post_id", media.ID,
		"kind", media.Kind,
		"title", media.Title,
	)

	return media, nil
}

// resolvePostID follows redirects of the share URL and returns the last path segment
func (c *client) resolvePostID(ctx context.Context, shareURL string) (string, error) {
	resp, err := c.get(ctx, shareURL)
	if err != nil {
		return "", goerr.Wrap(err, "failed to request share link",
			goerr.V("url", shareURL),
			goerr.T(model.ErrTagUpstream))
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxPageSize))

	postID := LastPathSegment(resp.Request.URL)
	if postID == "" {
		return "", goerr.New("no post ID in redirect target",
			goerr.V("url", shareURL),
			goerr.V("final_url", resp.Request.URL.String()),
			goerr.T(model.ErrTagUpstream))
	}

	return postID, nil
}

type detailPage struct {
	status int
	header http.Header
	body   string
}

func (c *client) fetchDetailPage(ctx context.Context, detailURL string) (*detailPage, error) {
	resp, err := c.get(ctx, detailURL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to request detail page",
			goerr.V("url", detailURL),
			goerr.T(model.ErrTagUpstream))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, goerr.New("unexpected status code of detail page",
			goerr.V("url", detailURL),
			goerr.V("status", resp.StatusCode),
			goerr.T(model.ErrTagUpstream))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageSize))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read detail page",
			goerr.V("url", detailURL),
			goerr.T(model.ErrTagUpstream))
	}

	return &detailPage{
		status: resp.StatusCode,
		header: resp.Header,
		body:   string(body),
	}, nil
}

func (c *client) get(ctx context.Context, target string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("User-Agent", c.cfg.userAgent)

	return c.cfg.httpClient.Do(req)
}

// ExtractShareURL returns the first URL found in share text
func ExtractShareURL(shareText string) (string, error) {
	found := shareURLPattern.FindString(shareText)
	if found == "" {
		return "", goerr.New("no share URL found in text",
			goerr.V("text", shareText),
			goerr.T(model.ErrTagInput))
	}
	return found, nil
}

// LastPathSegment returns the last non-empty segment of the URL path
func LastPathSegment(u *url.URL) string {
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	return segments[len(segments)-1]
}

// ParseDetailPage extracts the media of a post from the router data embedded in html
func ParseDetailPage(html, postID string) (*model.ResolvedMedia, error) {
	found := routerDataRegexp.FindStringSubmatch(html)
	if len(found) < 2 || strings.TrimSpace(found[1]) == "" {
		return nil, goerr.New(RouterDataMarker+" not found in page", goerr.T(model.ErrTagUpstream))
	}

	blob := strings.TrimSuffix(strings.TrimSpace(found[1]), ";")
	if !gjson.Valid(blob) {
		return nil, goerr.New("embedded router data is not valid JSON", goerr.T(model.ErrTagUpstream))
	}

	kind, info, err := lookupVideoInfo(gjson.Parse(blob))
	if err != nil {
		return nil, err
	}

	item := info.Get("item_list.0")
	if !item.Exists() {
		return nil, goerr.New("no item in video info",
			goerr.V("kind", kind),
			goerr.T(model.ErrTagUpstream))
	}

	playURL := item.Get("video.play_addr.url_list.0").String()
	if playURL == "" {
		return nil, goerr.New("no play address in item",
			goerr.V("kind", kind),
			goerr.T(model.ErrTagUpstream))
	}

	return &model.ResolvedMedia{
		DirectURL: RemoveWatermark(playURL),
		Title:     BuildTitle(item.Get("desc").String(), postID),
		ID:        postID,
		Kind:      kind,
	}, nil
}

// lookupVideoInfo finds the videoInfoRes of the first page kind present under loaderData
func lookupVideoInfo(data gjson.Result) (model.PageKind, gjson.Result, error) {
	loader := data.Get("loaderData")
	for _, kind := range model.PageKinds {
		if entry := loader.Get(gjson.Escape(kind.LoaderKey())); entry.Exists() {
			return kind, entry.Get("videoInfoRes"), nil
		}
	}

	return "", gjson.Result{}, goerr.New("neither video nor note page found in router data",
		goerr.T(model.ErrTagUpstream))
}

// RemoveWatermark switches the play address to the unwatermarked variant
func RemoveWatermark(playURL string) string {
	return watermarkSegment.ReplaceAllString(playURL, "/play")
}

// BuildTitle derives a filesystem-safe title from the post description
func BuildTitle(desc, postID string) string {
	title := strings.TrimSpace(desc)
	if title == "" {
		title = "douyin_" + postID
	}
	title = illegalNameChars.ReplaceAllString(title, "_")

	return strings.TrimSpace(truncateBytes(title, MaxTitleBytes))
}

// truncateBytes cuts s to at most limit bytes without splitting a rune
func truncateBytes(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
