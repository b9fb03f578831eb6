package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gonanoid "github.com/matoous/go-nanoid/v2"
	cfg "github.com/maheshrc27/beampage/configs"
)

// ArchiveService keeps a copy of each downloaded video in Cloudflare R2.
// Source media URLs expire quickly, so the archive is the only durable
// record of what was reposted. Archiving is best effort; callers log and
// move on when it fails.
type ArchiveService struct {
	config cfg.Config
}

func NewArchiveService(cfg cfg.Config) *ArchiveService {
	return &ArchiveService{config: cfg}
}

// Enabled is nil-safe so callers can hold an unconfigured archive.
func (r *ArchiveService) Enabled() bool {
	if r == nil {
		return false
	}
	return r.config.R2.AccountID != "" && r.config.R2.AccessKey != "" &&
		r.config.R2.SecretKey != "" && r.config.R2.BucketName != ""
}

func (r *ArchiveService) r2Client(ctx context.Context) (*s3.Client, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(r.config.R2.AccessKey, r.config.R2.SecretKey, "")),
		awsconfig.WithRegion("auto"),
	)
	if err != nil {
		slog.Info(err.Error())
		return nil, err
	}

	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", r.config.R2.AccountID))
	}), nil
}

// ArchiveFile uploads a local file to the archive bucket under a dated,
// collision-free key.
func (r *ArchiveService) ArchiveFile(ctx context.Context, name, path, mimeType string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	suffix, err := gonanoid.New()
	if err != nil {
		return err
	}
	key := fmt.Sprintf("archive/%s/%s_%s", time.Now().UTC().Format("2006-01-02"), suffix, name)

	client, err := r.r2Client(ctx)
	if err != nil {
		return err
	}

	input := &s3.PutObjectInput{
		Bucket:      aws.String(r.config.R2.BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(mimeType),
	}

	if _, err := client.PutObject(ctx, input); err != nil {
		slog.Info(err.Error())
		return err
	}

	return nil
}
