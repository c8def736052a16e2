package model

// ImageKind is the extraction path an image is routed to.
type ImageKind string

const (
	ImageKindScreenshot  ImageKind = "screenshot"
	ImageKindCameraPhoto ImageKind = "camera_photo"
)

// ImageUpload is one image of a batch, already spooled to temporary local storage.
type ImageUpload struct {
	LocalPath    string
	OriginalName string
	ContentType  string
}

// ExtractionResult is the merged outcome of a batch.
type ExtractionResult struct {
	ContextText    string   `json:"-"`
	ProcessedCount int      `json:"processed_images"`
	TotalFiles     int      `json:"total_files"`
	Diagnostics    []string `json:"errors"`
	FilesCleaned   int      `json:"files_cleaned"`
}
