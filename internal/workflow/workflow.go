package workflow

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/models"
	"github.com/maheshrc27/beampage/internal/repository"
	"github.com/maheshrc27/beampage/internal/service"
	"github.com/maheshrc27/beampage/internal/transfer"
)

// Workflow drives one run across configured pages: fetch, rank, and for
// each selected post upload + schedule + publish, recording per-post
// outcomes. Failures local to one post never abort the page and failures
// local to one page never abort the run.
type Workflow struct {
	cfg       config.Config
	pages     []models.PageConfig
	fetcher   service.SourceFetcher
	uploader  service.MediaUploader
	publisher service.PostPublisher
	results   repository.ResultsRepository
	processed repository.ProcessedPostsRepository
}

func New(
	cfg config.Config,
	pages []models.PageConfig,
	fetcher service.SourceFetcher,
	uploader service.MediaUploader,
	publisher service.PostPublisher,
	results repository.ResultsRepository,
	processed repository.ProcessedPostsRepository) *Workflow {
	return &Workflow{
		cfg:       cfg,
		pages:     pages,
		fetcher:   fetcher,
		uploader:  uploader,
		publisher: publisher,
		results:   results,
		processed: processed,
	}
}

func (w *Workflow) Pages() []models.PageConfig {
	return w.pages
}

// RunAll processes every configured page independently within one run.
func (w *Workflow) RunAll(ctx context.Context) ([]*models.WorkflowResult, error) {
	return w.run(ctx, w.pages)
}

// RunPage processes a single page by name.
func (w *Workflow) RunPage(ctx context.Context, name string) (*models.WorkflowResult, error) {
	for _, page := range w.pages {
		if page.Name == name {
			results, err := w.run(ctx, []models.PageConfig{page})
			if err != nil {
				return nil, err
			}
			return results[0], nil
		}
	}
	return nil, fmt.Errorf("page %q is not configured", name)
}

func (w *Workflow) run(ctx context.Context, pages []models.PageConfig) ([]*models.WorkflowResult, error) {
	runID, err := gonanoid.New()
	if err != nil {
		return nil, err
	}

	scheduler := w.newScheduler(ctx)

	results := make([]*models.WorkflowResult, 0, len(pages))
	for i := range pages {
		log.Printf("Processing page %s", pages[i].Name)
		result := w.processPage(ctx, runID, &pages[i], scheduler)
		results = append(results, result)

		// A failed write to the results store never fails the run; the
		// caller still gets the in-memory result.
		if err := w.results.Append(ctx, result); err != nil {
			slog.Info(err.Error())
			log.Printf("Warning: failed to persist result for page %s: %v", pages[i].Name, err)
		}
	}

	return results, nil
}

// newScheduler builds the per-run slot cursor, pre-seeded with still-future
// slots recorded by earlier runs so scheduled-but-unpublished posts are not
// double-booked.
func (w *Workflow) newScheduler(ctx context.Context) *service.StrategicScheduler {
	scheduler := service.NewStrategicScheduler(w.cfg.StrategicHours, w.cfg.Location())

	slots, err := w.results.FutureSlots(ctx, time.Now())
	if err != nil {
		log.Printf("Warning: could not load previously scheduled slots: %v", err)
		return scheduler
	}
	for _, slot := range slots {
		scheduler.MarkUsed(slot)
	}
	return scheduler
}

func (w *Workflow) processPage(ctx context.Context, runID string, page *models.PageConfig, scheduler *service.StrategicScheduler) *models.WorkflowResult {
	result := &models.WorkflowResult{
		RunID:     runID,
		PageName:  page.Name,
		Timestamp: time.Now().UTC(),
		FetchMode: models.FetchModeLive,
	}

	selected := w.selectPosts(ctx, page, result)
	result.Ranked = len(selected)

	if len(selected) == 0 {
		log.Printf("Page %s: no posts to schedule", page.Name)
		return result
	}

	outcomes := w.processPosts(ctx, page, selected, scheduler)
	result.Outcomes = outcomes

	for i := range outcomes {
		if outcomes[i].UploadState == string(models.UploadStateReady) {
			result.Uploaded++
		}
		if outcomes[i].Success {
			result.Published++
		} else {
			result.Failed++
		}
	}

	ids := make([]string, 0, len(selected))
	for i := range selected {
		ids = append(ids, selected[i].ID)
	}
	if err := w.processed.Mark(ctx, ids...); err != nil {
		log.Printf("Warning: could not mark posts as processed: %v", err)
		result.Errors = append(result.Errors, fmt.Sprintf("mark processed: %v", err))
	}

	log.Printf("Page %s: fetched=%d ranked=%d uploaded=%d published=%d failed=%d",
		page.Name, result.Fetched, result.Ranked, result.Uploaded, result.Published, result.Failed)

	return result
}

// selectPosts scrapes competitors in shuffled order and accumulates the
// top-ranked new video posts until the page's total cap is reached.
func (w *Workflow) selectPosts(ctx context.Context, page *models.PageConfig, result *models.WorkflowResult) []models.RankedPost {
	competitors := make([]string, len(page.Competitors))
	copy(competitors, page.Competitors)
	rand.Shuffle(len(competitors), func(i, j int) {
		competitors[i], competitors[j] = competitors[j], competitors[i]
	})

	limit := page.TotalCap()
	var selected []models.RankedPost

	for _, username := range competitors {
		if len(selected) >= limit {
			break
		}

		fetched, err := w.fetcher.Fetch(ctx, []string{username}, page.MaxPostsToFetch)
		if err != nil {
			log.Printf("Page %s: fetch failed for %s: %v", page.Name, username, err)
			result.Errors = append(result.Errors, fmt.Sprintf("fetch %s: %v", username, err))
			continue
		}
		if fetched.Mode == models.FetchModeMock {
			result.FetchMode = models.FetchModeMock
		}
		result.Fetched += len(fetched.Posts)

		fresh := w.filterProcessed(ctx, fetched.Posts)
		if len(fresh) == 0 {
			continue
		}

		remaining := limit - len(selected)
		take := page.TopPostsCount
		if take > remaining {
			take = remaining
		}

		selected = append(selected, service.TopPosts(fresh, take)...)
	}

	return selected
}

func (w *Workflow) filterProcessed(ctx context.Context, posts []models.RawPost) []models.RawPost {
	fresh := make([]models.RawPost, 0, len(posts))
	for i := range posts {
		if posts[i].VideoURL == "" {
			continue
		}
		done, err := w.processed.IsProcessed(ctx, posts[i].ID)
		if err != nil {
			log.Printf("Warning: processed-posts lookup failed: %v", err)
		}
		if done {
			continue
		}
		fresh = append(fresh, posts[i])
	}
	return fresh
}

// processPosts runs the upload/schedule/publish step for each selected post
// under a bounded worker pool. Slot assignment stays serialized inside the
// scheduler; outcome aggregation is guarded here.
func (w *Workflow) processPosts(ctx context.Context, page *models.PageConfig, posts []models.RankedPost, scheduler *service.StrategicScheduler) []models.PostOutcome {
	outcomes := make([]models.PostOutcome, len(posts))

	var wg sync.WaitGroup
	semaphore := make(chan struct{}, w.cfg.WorkerCount)

	for i := range posts {
		wg.Add(1)
		semaphore <- struct{}{}

		go func(i int) {
			defer wg.Done()
			defer func() { <-semaphore }()
			outcomes[i] = w.processPost(ctx, page, &posts[i], scheduler)
		}(i)
	}

	wg.Wait()
	return outcomes
}

func (w *Workflow) processPost(ctx context.Context, page *models.PageConfig, post *models.RankedPost, scheduler *service.StrategicScheduler) models.PostOutcome {
	outcome := models.PostOutcome{
		PostID:          post.ID,
		SourceAccount:   post.OwnerUsername,
		PostURL:         post.URL,
		MediaURL:        post.VideoURL,
		EngagementScore: post.EngagementScore,
		Caption:         buildCaption(page.CaptionPool, post.OwnerUsername),
	}

	session, err := w.uploader.Upload(ctx, post.VideoURL)
	outcome.UploadState = string(session.State)
	if err != nil {
		outcome.Error = err.Error()
		log.Printf("Page %s: upload failed for %s: %v", page.Name, post.URL, err)
		return outcome
	}

	slot := scheduler.NextSlot()
	outcome.Slot = slot

	options := &transfer.PublishOptions{
		PostAsReel:      true,
		ShareReelToFeed: true,
		Comment:         fmt.Sprintf("Original content by @%s", post.OwnerUsername),
	}

	_, err = w.publisher.Publish(ctx, []int64{page.SchedulingAccID}, session.UploadToken, outcome.Caption, slot, options)
	if err != nil {
		outcome.Error = err.Error()
		log.Printf("Page %s: publish failed for %s: %v", page.Name, post.URL, err)
		return outcome
	}

	outcome.Success = true
	log.Printf("Page %s: scheduled %s for %s", page.Name, post.URL, slot.Format(service.PublishTimeFormat))
	return outcome
}

func buildCaption(pool []string, owner string) string {
	caption := pool[rand.Intn(len(pool))]
	return fmt.Sprintf("%s\n\nOriginal by: @%s", caption, owner)
}

// RecentResults reads run summaries back from the results store without
// re-running anything.
func (w *Workflow) RecentResults(ctx context.Context, limit int) ([]*models.WorkflowResult, error) {
	return w.results.Recent(ctx, limit)
}
