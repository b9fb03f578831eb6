package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/h2non/filetype"
	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/models"
	"github.com/maheshrc27/beampage/internal/transfer"
	"github.com/maheshrc27/beampage/pkg/retry"
)

// MediaUploader runs one media URL through download, upload initialization,
// byte transfer, and processing, yielding an upload token. The returned
// session is always non-nil and carries the terminal state.
type MediaUploader interface {
	Upload(ctx context.Context, mediaURL string) (*models.UploadSession, error)
}

type socialbuUploader struct {
	cfg      config.Config
	baseURL  string
	api      *http.Client
	download *http.Client
	transfer *http.Client
	retry    retry.Policy
	archive  *ArchiveService

	// processing poll tuning
	maxWait      time.Duration
	pollInterval time.Duration
	pollCap      time.Duration
}

func NewMediaUploader(cfg config.Config, archive *ArchiveService) MediaUploader {
	return &socialbuUploader{
		cfg:      cfg,
		baseURL:  cfg.SocialBuBaseURL,
		api:      &http.Client{Timeout: 30 * time.Second},
		download: &http.Client{Timeout: 30 * time.Second},
		transfer: &http.Client{Timeout: 120 * time.Second},
		retry:    retry.DefaultPolicy(),
		archive:  archive,

		maxWait:      300 * time.Second,
		pollInterval: 2 * time.Second,
		pollCap:      30 * time.Second,
	}
}

func (u *socialbuUploader) Upload(ctx context.Context, mediaURL string) (*models.UploadSession, error) {
	session := &models.UploadSession{
		MediaURL: mediaURL,
		State:    models.UploadStateInit,
	}
	// The temp file goes away on every exit path, including panics in any
	// step.
	defer u.cleanup(session)

	session.State = models.UploadStateDownloading
	if err := u.downloadMedia(ctx, session); err != nil {
		session.State = models.UploadStateDownloadFailed
		return session, &UploadError{State: session.State, Err: err}
	}
	session.State = models.UploadStateDownloaded

	if u.archive.Enabled() {
		if err := u.archive.ArchiveFile(ctx, session.FileName, session.FilePath, session.MimeType); err != nil {
			log.Printf("Warning: failed to archive %s: %v", session.FileName, err)
		}
	}

	if err := u.initUpload(ctx, session); err != nil {
		session.State = models.UploadStateInitFailed
		return session, &UploadError{State: session.State, Err: err}
	}
	session.State = models.UploadStateUploadInitialized

	session.State = models.UploadStateUploading
	if err := u.transferFile(ctx, session); err != nil {
		session.State = models.UploadStateUploadFailed
		return session, &UploadError{State: session.State, Err: err}
	}

	session.State = models.UploadStateProcessing
	token, err := u.waitForProcessing(ctx, session)
	if err != nil {
		session.State = models.UploadStateProcessingTimeout
		return session, &UploadError{State: session.State, Err: err}
	}

	session.UploadToken = token
	session.State = models.UploadStateReady
	return session, nil
}

func (u *socialbuUploader) cleanup(session *models.UploadSession) {
	if session.FilePath == "" {
		return
	}
	if err := os.Remove(session.FilePath); err != nil && !os.IsNotExist(err) {
		slog.Info(err.Error())
	}
	session.FilePath = ""
}

// downloadMedia streams the source media into a temp file and sniffs the
// MIME type from the first bytes of content rather than the URL suffix.
func (u *socialbuUploader) downloadMedia(ctx context.Context, session *models.UploadSession) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, session.MediaURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36")

	resp, err := u.download.Do(req)
	if err != nil {
		return fmt.Errorf("download request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("download returned status %d", resp.StatusCode)
	}

	file, err := os.CreateTemp(u.cfg.TempDir, "beampage-*.mp4")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	session.FilePath = file.Name()
	session.FileName = filepath.Base(file.Name())
	defer file.Close()

	head := make([]byte, 261)
	n, err := io.ReadFull(resp.Body, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("failed to read media: %w", err)
	}
	head = head[:n]

	session.MimeType = sniffMimeType(head, resp.Header.Get("Content-Type"))

	written, err := io.Copy(file, io.MultiReader(bytes.NewReader(head), resp.Body))
	if err != nil {
		return fmt.Errorf("failed to write media: %w", err)
	}
	session.FileSize = written

	return nil
}

func sniffMimeType(head []byte, contentType string) string {
	if kind, err := filetype.Match(head); err == nil && kind != filetype.Unknown {
		return kind.MIME.Value
	}
	if strings.Contains(contentType, "video") {
		return contentType
	}
	// Instagram serves videos without reliable headers often enough that
	// mp4 is the working default.
	return "video/mp4"
}

// initUpload requests the signed upload target (step 1 of 3).
func (u *socialbuUploader) initUpload(ctx context.Context, session *models.UploadSession) error {
	body, err := json.Marshal(transfer.UploadInitRequest{
		Name:     session.FileName,
		MimeType: session.MimeType,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/upload_media", bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+u.cfg.SocialBuAPIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.api.Do(req)
	if err != nil {
		return fmt.Errorf("upload init request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("upload init returned status %d: %s", resp.StatusCode, bodyBytes)
	}

	var initResp transfer.UploadInitResponse
	if err := json.NewDecoder(resp.Body).Decode(&initResp); err != nil {
		return fmt.Errorf("failed to decode upload init response: %w", err)
	}
	if initResp.SignedURL == "" || initResp.Key == "" {
		return fmt.Errorf("upload init response missing signed_url or key")
	}

	session.SignedURL = initResp.SignedURL
	session.StatusKey = initResp.Key
	session.AssetURL = initResp.URL
	return nil
}

// transferFile PUTs the bytes to the signed URL (step 2), retrying network
// failures with backoff before declaring the upload failed.
func (u *socialbuUploader) transferFile(ctx context.Context, session *models.UploadSession) error {
	return u.retry.Do(ctx, func() error {
		file, err := os.Open(session.FilePath)
		if err != nil {
			return retry.Permanent(err)
		}
		defer file.Close()

		req, err := http.NewRequestWithContext(ctx, http.MethodPut, session.SignedURL, file)
		if err != nil {
			return retry.Permanent(err)
		}
		req.ContentLength = session.FileSize
		req.Header.Set("Content-Type", session.MimeType)
		req.Header.Set("x-amz-acl", "private")

		resp, err := u.transfer.Do(req)
		if err != nil {
			return fmt.Errorf("transfer request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
			bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			return fmt.Errorf("transfer returned status %d: %s", resp.StatusCode, bodyBytes)
		}

		return nil
	})
}

// waitForProcessing polls the status key (step 3) until the provider hands
// back an upload token or the wait budget runs out. The interval grows 1.2x
// per check, capped at pollCap.
func (u *socialbuUploader) waitForProcessing(ctx context.Context, session *models.UploadSession) (string, error) {
	deadline := time.Now().Add(u.maxWait)
	interval := u.pollInterval

	for time.Now().Before(deadline) {
		status, err := u.checkMediaStatus(ctx, session.StatusKey)
		if err != nil {
			slog.Info(err.Error())
		} else if status.Success && status.UploadToken != "" {
			return status.UploadToken, nil
		}

		select {
		case <-time.After(interval):
		case <-ctx.Done():
			return "", ctx.Err()
		}

		interval = time.Duration(float64(interval) * 1.2)
		if interval > u.pollCap {
			interval = u.pollCap
		}
	}

	return "", fmt.Errorf("processing timed out after %s", u.maxWait)
}

func (u *socialbuUploader) checkMediaStatus(ctx context.Context, key string) (*transfer.UploadStatusResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.baseURL+"/upload_media/status?key="+url.QueryEscape(key), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+u.cfg.SocialBuAPIToken)
	req.Header.Set("Content-Type", "application/json")

	resp, err := u.api.Do(req)
	if err != nil {
		return nil, fmt.Errorf("status check request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("status check returned status %d", resp.StatusCode)
	}

	var status transfer.UploadStatusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		return nil, fmt.Errorf("failed to decode status response: %w", err)
	}

	return &status, nil
}
