package model

import "fmt"

// PDFLoadError indicates the input PDF could not be parsed.
// This is the embedder's only hard failure; the input is deterministic,
// so callers should not retry.
type PDFLoadError struct {
	Message string
	Cause   error
}

func (e *PDFLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("pdf load failed: %s (%v)", e.Message, e.Cause)
	}
	return fmt.Sprintf("pdf load failed: %s", e.Message)
}

func (e *PDFLoadError) Unwrap() error {
	return e.Cause
}

// NewPDFLoadError creates a new PDF load error
func NewPDFLoadError(message string, cause error) *PDFLoadError {
	return &PDFLoadError{
		Message: message,
		Cause:   cause,
	}
}

// ExportError represents a failure in one stage of the export pipeline
type ExportError struct {
	Stage   string
	Message string
	Cause   error
}

func (e *ExportError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("export failed [%s]: %s (%v)", e.Stage, e.Message, e.Cause)
	}
	return fmt.Sprintf("export failed [%s]: %s", e.Stage, e.Message)
}

func (e *ExportError) Unwrap() error {
	return e.Cause
}

// NewExportError creates a new export error
func NewExportError(stage, message string, cause error) *ExportError {
	return &ExportError{
		Stage:   stage,
		Message: message,
		Cause:   cause,
	}
}
