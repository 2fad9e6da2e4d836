package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/export"
	"github.com/rezonia/facturx/internal/model"
)

var xmlOutput string

var xmlCmd = &cobra.Command{
	Use:   "xml [invoice.json]",
	Short: "Generate the CII XML payload",
	Long: `Generate only the UN/CEFACT Cross-Industry-Invoice XML for an
invoice document, without producing a PDF.

Examples:
  facturx xml invoice.json
  facturx xml invoice.json -o factur-x.xml --profile minimum`,
	Args: cobra.ExactArgs(1),
	RunE: runXML,
}

func init() {
	rootCmd.AddCommand(xmlCmd)

	xmlCmd.Flags().StringVarP(&xmlOutput, "output", "o", "", "Output file (default: stdout)")
}

func runXML(cmd *cobra.Command, args []string) error {
	inv, err := readInvoiceFile(args[0])
	if err != nil {
		return err
	}

	xml := export.NewPipeline().GenerateXML(inv, model.ParseProfile(profileName))

	if xmlOutput == "" {
		fmt.Print(xml)
		return nil
	}
	if err := os.WriteFile(xmlOutput, []byte(xml), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", xmlOutput, err)
	}
	printVerbose("Wrote %s (%d bytes)\n", xmlOutput, len(xml))
	return nil
}
