package model

// DownloadResponse is the success body of POST /download
type DownloadResponse struct {
	Status    string    `json:"status"`
	Message   string    `json:"message"`
	FilePath  string    `json:"file_path"`
	VideoInfo VideoInfo `json:"video_info"`
}

// VideoInfo describes the downloaded post
type VideoInfo struct {
	Title       string `json:"title"`
	VideoID     string `json:"video_id"`
	DownloadURL string `json:"download_url"`
}

// NewDownloadResponse builds the response body for a stored download
func NewDownloadResponse(result *DownloadResult) *DownloadResponse {
	return &DownloadResponse{
		Status:   "success",
		Message:  "Video downloaded successfully (watermark-free)",
		FilePath: result.FilePath,
		VideoInfo: VideoInfo{
			Title:       result.Media.Title,
			VideoID:     result.Media.ID,
			DownloadURL: result.Media.DirectURL,
		},
	}
}
