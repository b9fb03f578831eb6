package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/spf13/cobra"

	config "github.com/maheshrc27/beampage/configs"
	"github.com/maheshrc27/beampage/internal/models"
	"github.com/maheshrc27/beampage/internal/repository"
	"github.com/maheshrc27/beampage/internal/service"
	"github.com/maheshrc27/beampage/internal/workflow"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Failed to load environment variables", err)
	}

	rootCmd := &cobra.Command{
		Use:           "beampage",
		Short:         "Scrape top competitor posts and reschedule them to managed accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(runCmd(), listCmd(), statusCmd(), serveCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// buildWorkflow wires the orchestrator from config. The returned DB handle
// is non-nil only when Postgres backs the results store.
func buildWorkflow(cfg *config.Config) (*workflow.Workflow, *sql.DB, error) {
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	pages, err := config.LoadPages(cfg.PagesFile)
	if err != nil {
		return nil, nil, err
	}

	results, db, err := openResults(cfg)
	if err != nil {
		return nil, nil, err
	}
	if db != nil {
		if err := db.Ping(); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("database is unreachable: %w", err)
		}
	}

	processed := repository.NewFileProcessedPostsRepository(cfg.ProcessedPostsFile)
	fetcher := service.NewSourceFetcher(*cfg)
	archive := service.NewArchiveService(*cfg)
	uploader := service.NewMediaUploader(*cfg, archive)
	publisher := service.NewPostPublisher(*cfg)

	wf := workflow.New(*cfg, pages, fetcher, uploader, publisher, results, processed)
	return wf, db, nil
}

// openResults picks the results store from config. The returned DB handle
// is non-nil only for the Postgres store.
func openResults(cfg *config.Config) (repository.ResultsRepository, *sql.DB, error) {
	if cfg.PostgresURI == "" {
		return repository.NewFileResultsRepository(cfg.ResultsFile), nil, nil
	}
	db, err := sql.Open("postgres", cfg.PostgresURI)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return repository.NewPostgresResultsRepository(db), db, nil
}

// nextAvailableSlot previews the slot the next run would assign, skipping
// slots already booked by stored results.
func nextAvailableSlot(cfg *config.Config, results repository.ResultsRepository) time.Time {
	scheduler := service.NewStrategicScheduler(cfg.StrategicHours, cfg.Location())
	slots, err := results.FutureSlots(context.Background(), time.Now())
	if err != nil {
		log.Printf("Warning: could not load previously scheduled slots: %v", err)
	}
	for _, slot := range slots {
		scheduler.MarkUsed(slot)
	}
	return scheduler.NextSlot()
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run [page]",
		Short: "Run the workflow for all pages, or one page by name",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			wf, db, err := buildWorkflow(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			ctx := context.Background()
			var results []*models.WorkflowResult
			if len(args) == 1 {
				result, err := wf.RunPage(ctx, args[0])
				if err != nil {
					return err
				}
				results = append(results, result)
			} else {
				results, err = wf.RunAll(ctx)
				if err != nil {
					return err
				}
			}

			for _, result := range results {
				printResult(result)
			}
			return nil
		},
	}
}

func listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List configured pages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()
			pages, err := config.LoadPages(cfg.PagesFile)
			if err != nil {
				return err
			}

			fmt.Println("Configured pages:")
			for _, page := range pages {
				fmt.Printf("  - %s\n", page.Name)
				fmt.Printf("    Account: %s\n", page.AccountName)
				fmt.Printf("    Competitors: %s\n", strings.Join(page.Competitors, ", "))
				fmt.Printf("    Max posts to fetch per competitor: %d\n", page.MaxPostsToFetch)
				fmt.Printf("    Top posts per competitor: %d\n", page.TopPostsCount)
				if page.MaxTotalPosts > 0 {
					fmt.Printf("    Total output limit: %d\n", page.MaxTotalPosts)
				}
			}

			results, db, err := openResults(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			fmt.Printf("\nStrategic posting hours: %s (%s)\n", formatHours(cfg.StrategicHours), cfg.ScheduleTZ)
			fmt.Printf("Next available slot: %s\n", nextAvailableSlot(cfg, results).Format(service.PublishTimeFormat))
			return nil
		},
	}
}

func statusCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent workflow results without running anything",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig()

			results, db, err := openResults(cfg)
			if err != nil {
				return err
			}
			defer closeDB(db)

			recent, err := results.Recent(context.Background(), limit)
			if err != nil {
				return err
			}

			if len(recent) == 0 {
				fmt.Println("No workflow results yet.")
				return nil
			}

			fmt.Println("Recent workflow results:")
			for _, result := range recent {
				printResult(result)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 5, "number of recent results to show")
	return cmd
}

func printResult(result *models.WorkflowResult) {
	fmt.Printf("  - %s: %s (fetch mode: %s)\n",
		result.Timestamp.Format("2006-01-02 15:04:05"), result.PageName, result.FetchMode)
	fmt.Printf("    Fetched: %d | Ranked: %d | Uploaded: %d | Published: %d | Failed: %d\n",
		result.Fetched, result.Ranked, result.Uploaded, result.Published, result.Failed)
	for _, outcome := range result.Outcomes {
		if outcome.Success {
			fmt.Printf("      ok   %s -> %s\n", outcome.PostURL, outcome.Slot.Format(service.PublishTimeFormat))
		} else {
			fmt.Printf("      fail %s (%s)\n", outcome.PostURL, outcome.Error)
		}
	}
	for _, errMsg := range result.Errors {
		fmt.Printf("      error: %s\n", errMsg)
	}
}

func formatHours(hours []int) string {
	parts := make([]string, 0, len(hours))
	for _, h := range hours {
		parts = append(parts, fmt.Sprintf("%02d:00", h))
	}
	return strings.Join(parts, ", ")
}

func closeDB(db *sql.DB) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to close database: %v\n", err)
	}
}
