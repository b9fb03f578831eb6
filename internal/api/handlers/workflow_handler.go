package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/hibiken/asynq"
	"github.com/maheshrc27/beampage/internal/queue"
	"github.com/maheshrc27/beampage/internal/workflow"
)

type WorkflowHandler struct {
	wf          *workflow.Workflow
	AsynqClient *asynq.Client
}

func NewWorkflowHandler(wf *workflow.Workflow, asynqClient *asynq.Client) *WorkflowHandler {
	return &WorkflowHandler{wf: wf, AsynqClient: asynqClient}
}

func (h *WorkflowHandler) ListPages(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"pages": h.wf.Pages(),
	})
}

func (h *WorkflowHandler) RecentResults(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 10)

	results, err := h.wf.RecentResults(c.Context(), limit)
	if err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Unable to read results",
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"results": results,
	})
}

// TriggerRun enqueues a workflow run instead of running it inline, so the
// request returns immediately and the asynq worker does the slow part.
func (h *WorkflowHandler) TriggerRun(c *fiber.Ctx) error {
	var payload queue.RunPagePayload
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&payload); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Unable to parse request body",
			})
		}
	}

	if payload.PageName != "" {
		found := false
		for _, page := range h.wf.Pages() {
			if page.Name == payload.PageName {
				found = true
				break
			}
		}
		if !found {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Unknown page",
			})
		}
	}

	if err := queue.EnqueueRun(h.AsynqClient, payload, 0); err != nil {
		slog.Error(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Error scheduling workflow run",
		})
	}

	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
		"message": "Workflow run scheduled",
	})
}
