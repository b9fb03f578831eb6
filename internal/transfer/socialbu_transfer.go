package transfer

type UploadInitRequest struct {
	Name     string `json:"name"`
	MimeType string `json:"mime_type"`
}

// UploadInitResponse carries the signed upload target: a URL to PUT the
// bytes to, a key for status polling, and the final asset URL.
type UploadInitResponse struct {
	SignedURL string `json:"signed_url"`
	Key       string `json:"key"`
	URL       string `json:"url"`
}

type UploadStatusResponse struct {
	Success     bool   `json:"success"`
	UploadToken string `json:"upload_token"`
	Error       string `json:"error,omitempty"`
}

type Attachment struct {
	UploadToken string `json:"upload_token"`
}

type PublishOptions struct {
	PostAsReel      bool   `json:"post_as_reel,omitempty"`
	ShareReelToFeed bool   `json:"share_reel_to_feed,omitempty"`
	Comment         string `json:"comment,omitempty"`
}

// PublishRequest is the provider's create-post payload. PublishAt uses the
// provider's naive "2006-01-02 15:04:05" format.
type PublishRequest struct {
	Accounts            []int64         `json:"accounts"`
	Content             string          `json:"content"`
	PublishAt           string          `json:"publish_at"`
	ExistingAttachments []Attachment    `json:"existing_attachments,omitempty"`
	Options             *PublishOptions `json:"options,omitempty"`
}

type PublishResponse struct {
	Success       bool   `json:"success"`
	Message       string `json:"message,omitempty"`
	PostID        any    `json:"post_id,omitempty"`
	ScheduledTime string `json:"scheduled_time,omitempty"`
	Error         string `json:"error,omitempty"`
}
