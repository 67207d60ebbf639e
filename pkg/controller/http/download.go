package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"

	"github.com/m-mizutani/dydl/pkg/domain/interfaces"
	"github.com/m-mizutani/dydl/pkg/domain/model"
)

// maxRequestBodySize bounds POST /download bodies, which carry a single share text
const maxRequestBodySize = 64 << 10

// DownloadHandler handles share link download requests
type DownloadHandler struct {
	downloadUC interfaces.DownloadUseCase
}

// NewDownloadHandler creates a new DownloadHandler
func NewDownloadHandler(downloadUC interfaces.DownloadUseCase) *DownloadHandler {
	return &DownloadHandler{
		downloadUC: downloadUC,
	}
}

// Handle processes POST /download
func (h *DownloadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := ctxlog.From(ctx)
	body := http.MaxBytesReader(w, r.Body, maxRequestBodySize)
	defer body.Close()

	var req model.ShareRequest
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		logger.Warn("Failed to parse request body", "error", err)

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, r, goerr.Wrap(err, "request body too large"), http.StatusRequestEntityTooLarge)
			return
		}
		writeError(w, r, goerr.Wrap(err, "invalid JSON payload"), http.StatusBadRequest)
		return
	}

	result, err := h.downloadUC.Download(ctx, &req)
	if err != nil {
		// Only the domain precondition is a client error; resolver and fetcher failures are not
		if goerr.HasTag(err, model.ErrTagInvalidLink) {
			logger.Warn("Rejected download request", "error", err)
			writeError(w, r, err, http.StatusBadRequest)
			return
		}

		logger.Error("Failed to download", "error", err)
		writeError(w, r, goerr.Wrap(err, "download failed"), http.StatusInternalServerError)
		return
	}

	writeJSON(w, r, http.StatusOK, model.NewDownloadResponse(result))
}
