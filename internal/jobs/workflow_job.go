package job

import (
	"context"
	"log"
	"log/slog"

	"github.com/maheshrc27/beampage/internal/workflow"
)

// WorkflowJob runs the full workflow on a cron schedule in serve mode.
type WorkflowJob struct {
	wf *workflow.Workflow
}

func NewWorkflowJob(wf *workflow.Workflow) *WorkflowJob {
	return &WorkflowJob{wf: wf}
}

func (j *WorkflowJob) Run() {
	ctx := context.Background()

	log.Println("Starting scheduled workflow run...")
	results, err := j.wf.RunAll(ctx)
	if err != nil {
		slog.Info(err.Error())
		return
	}

	var published, failed int
	for _, result := range results {
		published += result.Published
		failed += result.Failed
	}
	log.Printf("Scheduled workflow run finished: pages=%d published=%d failed=%d",
		len(results), published, failed)
}
