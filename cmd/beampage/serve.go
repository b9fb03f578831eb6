package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/hibiken/asynq"
	"github.com/robfig/cron"
	"github.com/spf13/cobra"

	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/api/handlers"
	"github.com/maheshrc27/beampage/internal/api/middleware"
	job "github.com/maheshrc27/beampage/internal/jobs"
	"github.com/maheshrc27/beampage/internal/queue"
)

// serveCmd runs the long-lived mode: an HTTP API for triggering and
// inspecting runs, an asynq worker that executes them, and a cron ticker
// for periodic full runs.
func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API, queue worker, and periodic scheduler",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			wf, db, err := buildWorkflow(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			redisConn := asynq.RedisClientOpt{Addr: cfg.RedisURI}
			client := asynq.NewClient(redisConn)
			defer client.Close()

			app := fiber.New(fiber.Config{
				ReadTimeout:  time.Minute,
				WriteTimeout: time.Minute,
				ErrorHandler: func(c *fiber.Ctx, err error) error {
					log.Printf("Error: %v", err)
					return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
				},
			})

			app.Use(logger.New())
			app.Use(cors.New())

			app.Get("/health", func(c *fiber.Ctx) error {
				return c.SendString("ok")
			})

			authMiddleware := middleware.NewAuthMiddleware(*cfg)
			api := app.Group("/api")
			api.Use(authMiddleware.AuthMiddleware())

			wfHandler := handlers.NewWorkflowHandler(wf, client)
			api.Get("/pages", wfHandler.ListPages)
			api.Get("/results", wfHandler.RecentResults)
			api.Post("/run", wfHandler.TriggerRun)

			workflowJob := job.NewWorkflowJob(wf)
			c := cron.New()
			if err := c.AddFunc(cfg.RunCron, workflowJob.Run); err != nil {
				return err
			}
			c.Start()
			defer c.Stop()

			queueW := queue.NewQueue(wf)

			go func() {
				server := asynq.NewServer(redisConn, asynq.Config{
					Concurrency: cfg.WorkerCount,
				})

				mux := asynq.NewServeMux()
				mux.HandleFunc(queue.TaskTypeRunPage, queueW.HandleRunPageTask)

				log.Println("Starting the Asynq server...")
				if err := server.Run(mux); err != nil {
					log.Fatalf("Could not start Asynq server: %v", err)
				}
			}()

			go func() {
				if err := app.Listen(cfg.ListenAddr); err != nil {
					log.Fatalf("Failed to start server: %v", err)
				}
			}()
			log.Printf("Server is running on %s", cfg.ListenAddr)

			gracefulShutdown(app)
			return nil
		},
	}
}

func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Fatalf("Failed to shut down server: %v", err)
	}

	log.Println("Server shutdown complete.")
}
