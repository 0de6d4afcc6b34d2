package admin

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/technova-labs/inductbot/internal/config"
	"github.com/technova-labs/inductbot/internal/database"
	"github.com/technova-labs/inductbot/internal/repository"
	"github.com/technova-labs/inductbot/internal/service"
)

// seedItem matches the knowledge_base/ JSON file format: one file per
// category, named <category>.json, holding a list of question/answer pairs.
type seedItem struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// SeedCmd returns the seed command
func SeedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Bulk-load category JSON files into the knowledge base",
		Long:  "Load every <category>.json file from a directory, replacing each category's items",
		RunE:  runSeed,
	}

	cmd.Flags().StringP("dir", "d", "knowledge_base", "Directory of category JSON files")

	return cmd
}

func runSeed(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	dir, _ := cmd.Flags().GetString("dir")
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read seed directory: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if err := runMigrations(cfg.DatabaseURL); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	categoryRepo := repository.NewCategoryRepository(pool)
	documentRepo := repository.NewDocumentRepository(pool)
	snapshot := service.NewSnapshotHolder(categoryRepo, documentRepo)
	if err := snapshot.Reload(ctx); err != nil {
		return fmt.Errorf("failed to load knowledge base: %w", err)
	}
	categorySvc := service.NewCategoryService(categoryRepo, snapshot)

	seeded := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		name := strings.TrimSuffix(entry.Name(), ".json")
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", entry.Name(), err)
		}

		var items []seedItem
		if err := json.Unmarshal(data, &items); err != nil {
			return fmt.Errorf("failed to parse %s: %w", entry.Name(), err)
		}

		inputs := make([]service.ReplaceItemInput, 0, len(items))
		for _, item := range items {
			inputs = append(inputs, service.ReplaceItemInput{
				Question: item.Question,
				Answer:   item.Answer,
			})
		}

		if _, err := categorySvc.Replace(ctx, name, inputs); err != nil {
			return fmt.Errorf("failed to seed category %s: %w", name, err)
		}
		log.Printf("seeded category %s (%d items)", name, len(inputs))
		seeded++
	}

	log.Printf("seed complete: %d categories", seeded)
	return nil
}
