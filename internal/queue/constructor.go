package queue

import (
	"github.com/maheshrc27/beampage/internal/workflow"
)

type Queue struct {
	wf *workflow.Workflow
}

func NewQueue(wf *workflow.Workflow) *Queue {
	return &Queue{wf: wf}
}

const TaskTypeRunPage = "workflow:run_page"

// RunPagePayload names the page to process. An empty PageName runs every
// configured page.
type RunPagePayload struct {
	PageName string `json:"page_name"`
}
