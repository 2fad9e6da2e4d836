package cmd

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var (
	version = "1.0.0"

	// Global flags
	verbose     bool
	profileName string
)

var rootCmd = &cobra.Command{
	Use:   "facturx",
	Short: "Generate and validate Factur-X compliant invoices",
	Long: `Factur-X is a tool for producing hybrid PDF/A-3 e-invoices.

It takes a structured invoice document (JSON), renders a human-readable
PDF, generates the UN/CEFACT Cross-Industry-Invoice XML and embeds it
as factur-x.xml with the PDF/A-3 markers French and German platforms
expect.

Examples:
  # Export a compliant PDF from an invoice document
  facturx export invoice.json

  # Embed into an existing visual PDF instead of rendering one
  facturx export invoice.json --pdf draft.pdf

  # Emit only the CII XML
  facturx xml invoice.json

  # Check the compliance markers of a PDF
  facturx validate invoice.pdf`,
	Version: version,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&profileName, "profile", "p", "", "Factur-X profile (minimum, basic, en16931, extended; env: FACTURX_PROFILE)")

	cobra.OnInitialize(initConfig)
}

func initConfig() {
	// .env is optional; flags win over the environment
	_ = godotenv.Load()

	if profileName == "" {
		profileName = os.Getenv("FACTURX_PROFILE")
	}
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}
