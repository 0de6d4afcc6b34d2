package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/technova-labs/inductbot/internal/cli"
	"github.com/technova-labs/inductbot/internal/cli/admin"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "inductbotd",
		Short: "Inductbot daemon and CLI",
		Long:  "Inductbot daemon for running the induction chatbot API server and managing its knowledge base",
	}

	cli.AddHelpJSONFlag(rootCmd)
	rootCmd.AddCommand(admin.ServeCmd())
	rootCmd.AddCommand(admin.SeedCmd())
	rootCmd.AddCommand(admin.CategoriesCmd())

	if len(os.Args) == 1 {
		os.Args = append(os.Args, "serve")
	}

	cli.CheckHelpJSON(rootCmd)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
