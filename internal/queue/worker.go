package queue

import (
	"context"
	"encoding/json"
	"log"

	"github.com/hibiken/asynq"
)

func (q *Queue) HandleRunPageTask(ctx context.Context, task *asynq.Task) error {
	var payload RunPagePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return err
	}

	if payload.PageName == "" {
		results, err := q.wf.RunAll(ctx)
		if err != nil {
			return err
		}
		log.Printf("Workflow run completed for %d pages", len(results))
		return nil
	}

	result, err := q.wf.RunPage(ctx, payload.PageName)
	if err != nil {
		return err
	}
	log.Printf("Workflow run completed for page %s: published=%d failed=%d",
		result.PageName, result.Published, result.Failed)
	return nil
}
