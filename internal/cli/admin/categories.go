package admin

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/technova-labs/inductbot/internal/config"
	"github.com/technova-labs/inductbot/internal/database"
	"github.com/technova-labs/inductbot/internal/repository"
)

// CategoriesCmd returns the categories command group
func CategoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categories",
		Short: "Inspect knowledge-base categories",
	}

	cmd.AddCommand(categoriesListCmd())

	return cmd
}

func categoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List categories with item counts",
		RunE:  runCategoriesList,
	}
}

func runCategoriesList(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	pool, err := database.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	categories, err := repository.NewCategoryRepository(pool).ListWithItems(ctx)
	if err != nil {
		return fmt.Errorf("failed to list categories: %w", err)
	}

	if len(categories) == 0 {
		fmt.Println("no categories")
		return nil
	}

	for _, c := range categories {
		state := "enabled"
		if !c.Enabled {
			state = "disabled"
		}
		fmt.Printf("%-24s %-10s %-8s %d items\n", c.Name, c.Department, state, len(c.Items))
	}
	return nil
}
