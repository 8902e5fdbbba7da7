// Rental-booking runs the car rental booking wizard.
//
// The wizard collects the rental details, an optional vehicle and the
// customer's contact details, registers the lead in the CRM once the contact
// details are complete, and hands the request off to the agency on WhatsApp.
//
// Usage:
//
//	rental-booking [command] [flags]
//
// Running without a command starts the HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Set at build time with -ldflags "-X main.version=... -X main.commit=..."
var (
	version = "dev"
	commit  = "none"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "rental-booking",
		Short: "Car rental booking wizard",
		Long: `A booking wizard for car rentals.

Serves the wizard over HTTP, or runs it in the terminal. Leads are
registered in the CRM as soon as the contact details are complete, and
requests are sent to the agency through a WhatsApp link.

If no command is specified, the HTTP server starts.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default rental-booking.yaml if present)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newWizardCmd())
	rootCmd.AddCommand(newCatalogCmd())
	rootCmd.AddCommand(newVersionCmd())
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "rental-booking %s (commit: %s)\n", version, commit)
		},
	}
}
