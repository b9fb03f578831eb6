package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/transfer"
	"github.com/maheshrc27/beampage/pkg/retry"
)

// PublishTimeFormat is the provider's naive publish_at format.
const PublishTimeFormat = "2006-01-02 15:04:05"

// PostPublisher submits a publish request for an already-processed media
// asset. Rate-limit responses are retried with backoff; other provider
// rejections come back as a PublishError.
type PostPublisher interface {
	Publish(ctx context.Context, accounts []int64, uploadToken, caption string, slot time.Time, options *transfer.PublishOptions) (*transfer.PublishResponse, error)
}

type socialbuPublisher struct {
	cfg     config.Config
	baseURL string
	client  *http.Client
	retry   retry.Policy
}

func NewPostPublisher(cfg config.Config) PostPublisher {
	return &socialbuPublisher{
		cfg:     cfg,
		baseURL: cfg.SocialBuBaseURL,
		client:  &http.Client{Timeout: 30 * time.Second},
		retry:   retry.DefaultPolicy(),
	}
}

func (p *socialbuPublisher) Publish(ctx context.Context, accounts []int64, uploadToken, caption string, slot time.Time, options *transfer.PublishOptions) (*transfer.PublishResponse, error) {
	if uploadToken == "" {
		return nil, &PublishError{Detail: "upload token is empty"}
	}

	request := transfer.PublishRequest{
		Accounts:            accounts,
		Content:             caption,
		PublishAt:           slot.Format(PublishTimeFormat),
		ExistingAttachments: []transfer.Attachment{{UploadToken: uploadToken}},
		Options:             options,
	}

	body, err := json.Marshal(request)
	if err != nil {
		return nil, err
	}

	var response *transfer.PublishResponse
	err = p.retry.Do(ctx, func() error {
		response, err = p.createPost(ctx, body)
		return err
	})
	if err != nil {
		return nil, err
	}

	response.ScheduledTime = request.PublishAt
	return response, nil
}

func (p *socialbuPublisher) createPost(ctx context.Context, body []byte) (*transfer.PublishResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.baseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		return nil, retry.Permanent(err)
	}
	req.Header.Set("Authorization", "Bearer "+p.cfg.SocialBuAPIToken)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		slog.Info(err.Error())
		return nil, fmt.Errorf("publish request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &PublishError{StatusCode: resp.StatusCode, Detail: "rate limited"}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		bodyBytes, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, retry.Permanent(&PublishError{
			StatusCode: resp.StatusCode,
			Detail:     string(bodyBytes),
		})
	}

	var response transfer.PublishResponse
	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		// The provider occasionally answers 200 with a non-JSON body;
		// treat that as accepted.
		return &transfer.PublishResponse{Success: true, Message: "post created (non-JSON response)"}, nil
	}
	response.Success = true

	return &response, nil
}
