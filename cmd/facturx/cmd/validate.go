package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/export"
	"github.com/rezonia/facturx/internal/pdfa"
)

var validateJSON bool

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Check PDFs for Factur-X compliance markers",
	Long: `Validate one or more PDF files against the Factur-X structural
requirements.

Checks performed:
  - Embedded factur-x.xml attachment
  - XMP metadata stream
  - /AF associated files entry
  - PDF/A output intent

Examples:
  facturx validate facture.pdf
  facturx validate exports/*.pdf --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateJSON, "json", false, "Emit reports as JSON")
}

func runValidate(cmd *cobra.Command, args []string) error {
	pipeline := export.NewPipeline()
	reports := make([]*FileReport, 0, len(args))
	allValid := true

	for _, file := range args {
		report := validateFile(pipeline, file)
		reports = append(reports, report)
		if !report.Valid {
			allValid = false
		}
	}

	if validateJSON {
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(reports); err != nil {
			return err
		}
	} else {
		for _, r := range reports {
			if r.Valid {
				fmt.Printf("✓ %s: COMPLIANT\n", r.File)
			} else {
				fmt.Printf("✗ %s: NOT COMPLIANT\n", r.File)
				for _, e := range r.Errors {
					fmt.Printf("  - %s\n", e)
				}
			}
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}
	return nil
}

func validateFile(pipeline *export.Pipeline, path string) *FileReport {
	data, err := os.ReadFile(path)
	if err != nil {
		return &FileReport{
			File:   path,
			Errors: []string{fmt.Sprintf("failed to read file: %v", err)},
		}
	}

	report := pipeline.Validate(data)
	return &FileReport{
		File:   path,
		Valid:  report.Valid,
		Report: report,
		Errors: report.Errors,
	}
}

// FileReport pairs a compliance report with the file it describes
type FileReport struct {
	File   string      `json:"file"`
	Valid  bool        `json:"valid"`
	Report pdfa.Report `json:"report"`
	Errors []string    `json:"errors,omitempty"`
}
