package models

// UploadState tracks one media upload through the three-step provider
// protocol. Ready is the only state a publish attempt is permitted from.
type UploadState string

const (
	UploadStateInit              UploadState = "init"
	UploadStateDownloading       UploadState = "downloading"
	UploadStateDownloaded        UploadState = "downloaded"
	UploadStateUploadInitialized UploadState = "upload_initialized"
	UploadStateUploading         UploadState = "uploading"
	UploadStateProcessing        UploadState = "processing"
	UploadStateReady             UploadState = "ready"

	UploadStateDownloadFailed    UploadState = "download_failed"
	UploadStateInitFailed        UploadState = "init_failed"
	UploadStateUploadFailed      UploadState = "upload_failed"
	UploadStateProcessingTimeout UploadState = "processing_timeout"
)

// Terminal reports whether the state machine is done, successfully or not.
func (s UploadState) Terminal() bool {
	switch s {
	case UploadStateReady, UploadStateDownloadFailed, UploadStateInitFailed,
		UploadStateUploadFailed, UploadStateProcessingTimeout:
		return true
	}
	return false
}

// UploadSession is the transient state for one media upload. The temp file
// behind FilePath is removed on every exit path.
type UploadSession struct {
	MediaURL    string
	FilePath    string
	FileName    string
	FileSize    int64
	MimeType    string
	SignedURL   string
	StatusKey   string
	AssetURL    string
	UploadToken string
	State       UploadState
}
