package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturx/internal/export"
	"github.com/rezonia/facturx/internal/model"
)

var (
	exportOutput  string
	exportPDF     string
	exportXMLOnly bool
	exportTimeout time.Duration
)

var exportCmd = &cobra.Command{
	Use:   "export [invoice.json]",
	Short: "Export a Factur-X compliant PDF",
	Long: `Export reads an invoice document (JSON), renders the visual PDF,
generates the CII XML and writes the hybrid PDF/A-3 file.

The output is validated before it is written; a failed compliance check
aborts the export.

Examples:
  facturx export invoice.json
  facturx export invoice.json -o facture.pdf
  facturx export invoice.json --pdf draft.pdf --profile basic`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file (default: <invoice number>.pdf)")
	exportCmd.Flags().StringVar(&exportPDF, "pdf", "", "Existing visual PDF to embed into instead of rendering")
	exportCmd.Flags().BoolVar(&exportXMLOnly, "xml-only", false, "Write only the CII XML, skip the PDF")
	exportCmd.Flags().DurationVar(&exportTimeout, "timeout", 60*time.Second, "Export timeout")
}

func runExport(cmd *cobra.Command, args []string) error {
	inv, err := readInvoiceFile(args[0])
	if err != nil {
		return err
	}

	profile := model.ParseProfile(profileName)
	printVerbose("Exporting %s with profile %s\n", inv.Number, profile)

	ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
	defer cancel()

	pipeline := export.NewPipeline()

	if exportXMLOnly {
		xml := pipeline.GenerateXML(inv, profile)
		outPath := exportOutput
		if outPath == "" {
			outPath = safeFileName(inv.Number) + ".xml"
		}
		if err := os.WriteFile(outPath, []byte(xml), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", outPath, err)
		}
		fmt.Printf("✓ %s (%d bytes)\n", outPath, len(xml))
		return nil
	}

	var result *export.Result
	if exportPDF != "" {
		pdfBytes, err := os.ReadFile(exportPDF)
		if err != nil {
			return fmt.Errorf("failed to read PDF %s: %w", exportPDF, err)
		}
		result = pipeline.ExportWithPDF(ctx, inv, pdfBytes, profile)
	} else {
		result = pipeline.Export(ctx, inv, profile)
	}

	if result.Error != nil {
		return result.Error
	}
	if !result.Report.Valid {
		return fmt.Errorf("export produced a non-compliant PDF: %s", strings.Join(result.Report.Errors, "; "))
	}

	outPath := exportOutput
	if outPath == "" {
		outPath = safeFileName(inv.Number) + ".pdf"
	}
	if err := os.WriteFile(outPath, result.PDF, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	fmt.Printf("✓ %s (%d bytes, profile %s)\n", outPath, len(result.PDF), profile)
	return nil
}

func readInvoiceFile(path string) (*model.Invoice, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var inv model.Invoice
	if err := json.Unmarshal(data, &inv); err != nil {
		return nil, fmt.Errorf("invalid invoice JSON in %s: %w", path, err)
	}
	if inv.Number == "" {
		return nil, fmt.Errorf("%s: missing invoice number", path)
	}
	return &inv, nil
}

// safeFileName keeps invoice numbers like "F 2025/0042" usable as file names
func safeFileName(s string) string {
	s = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '-'
		}
		return r
	}, s)
	if s == "" {
		return "invoice"
	}
	return s
}
