package cli_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/m-mizutani/gt"

	"github.com/m-mizutani/dydl/pkg/cli"
)

func newPlatform(t *testing.T, media []byte) *httptest.Server {
	t.Helper()

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/s/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/share/video/123456/", http.StatusFound)
	})
	mux.HandleFunc("/share/video/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("landing"))
	})
	mux.HandleFunc("/detail/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = fmt.Fprintf(w, `<html><script>window._ROUTER_DATA = {"loaderData":{"video_(id)/page":{"videoInfoRes":{"item_list":[`+
			`{"desc":"cli: test","video":{"play_addr":{"url_list":["%s/media/playwm/?video_id=1"]}}}]}}}}</script></html>`, server.URL)
	})
	mux.HandleFunc("/media/play/", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(media)
	})
	mux.HandleFunc("/media/playwm/", func(w http.ResponseWriter, r *http.Request) {
		t.Error("watermarked variant must not be requested")
	})

	server = httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestRun_Fetch(t *testing.T) {
	media := []byte("fake mp4 content")
	platform := newPlatform(t, media)
	outputDir := filepath.Join(t.TempDir(), "downloads")

	err := cli.Run(context.Background(), []string{
		"dydl", "--log-level", "error",
		"fetch",
		"--output-dir", outputDir,
		"--detail-url-template", platform.URL + "/detail/{id}",
		"复制打开抖音", platform.URL + "/s/abc/", "打开 douyin.com 看看",
	})
	gt.NoError(t, err)

	got, err := os.ReadFile(filepath.Join(outputDir, "cli_ test.mp4"))
	gt.NoError(t, err)
	gt.Equal(t, string(got), string(media))
}

func TestRun_Fetch_RequiresShareText(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"dydl", "--log-level", "error",
		"fetch", "--output-dir", t.TempDir(),
	})
	gt.Error(t, err)
}

func TestRun_Fetch_RejectsUnknownDomain(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"dydl", "--log-level", "error",
		"fetch", "--output-dir", t.TempDir(),
		"not a douyin link",
	})
	gt.Error(t, err)
	gt.String(t, err.Error()).Contains("invalid Douyin link")
}

func TestRun_InvalidLogLevel(t *testing.T) {
	err := cli.Run(context.Background(), []string{
		"dydl", "--log-level", "verbose",
		"fetch", "https://v.douyin.com/abc/",
	})
	gt.Error(t, err)
}
