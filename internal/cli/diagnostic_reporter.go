package cli

import (
	stderrors "errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/stampkit/stamp/internal/errors"
)

// DiagnosticReporter renders resolution and injection errors for humans.
// Every diagnostic carries its code, location, context and suggestions; the
// reporter's job is layout, not content.
type DiagnosticReporter struct {
	verbose bool
}

// NewDiagnosticReporter creates a new diagnostic reporter
func NewDiagnosticReporter(verbose bool) *DiagnosticReporter {
	return &DiagnosticReporter{
		verbose: verbose,
	}
}

// ReportWarning prints a single warning line
func (r *DiagnosticReporter) ReportWarning(message string) {
	color.New(color.FgYellow, color.Bold).Fprint(os.Stderr, "! ")
	fmt.Fprintf(os.Stderr, "%s\n", message)
}

// ReportError renders the run's failure. Batched diagnostics are printed one
// by one so a run with ten bad annotations reports all ten.
func (r *DiagnosticReporter) ReportError(err error) {
	fmt.Fprintf(os.Stderr, "\nERROR: Artefact Tagging Failed\n")
	fmt.Fprintf(os.Stderr, "==============================\n\n")

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) {
		fmt.Fprintf(os.Stderr, "%d problem(s) found:\n\n", multi.Count())
		for i, stampErr := range multi.Errors {
			fmt.Fprintf(os.Stderr, "--- %d of %d ---\n", i+1, multi.Count())
			r.reportStampError(stampErr)
		}
		return
	}

	var stampErr errors.StampError
	if stderrors.As(err, &stampErr) {
		r.reportStampError(stampErr)
		return
	}

	r.reportBasicError(err)
}

// reportStampError reports one diagnostic with full context and suggestions
func (r *DiagnosticReporter) reportStampError(err errors.StampError) {
	code := err.ErrorCode().String()
	color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "[%s]\n", code)

	fmt.Fprintf(os.Stderr, "Message: %s\n", err.Error())

	if loc := err.Location(); !loc.IsEmpty() {
		fmt.Fprintf(os.Stderr, "Location: %s\n", loc.String())
	}

	if r.verbose {
		if cause := err.Unwrap(); cause != nil {
			fmt.Fprintf(os.Stderr, "Underlying cause: %s\n", cause.Error())
		}
		r.printContext(err.Context())
	}

	r.printSuggestions(err.Suggestions())
	fmt.Fprintln(os.Stderr)
}

// reportBasicError reports an error that carries no diagnostic metadata
func (r *DiagnosticReporter) reportBasicError(err error) {
	fmt.Fprintf(os.Stderr, "Message: %s\n\n", err.Error())

	errorMsg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(errorMsg, "annotation"):
		fmt.Fprintf(os.Stderr, "This appears to be an annotation issue.\n")
		fmt.Fprintf(os.Stderr, "  - Check your //stamp::artefact annotation syntax\n")
		fmt.Fprintf(os.Stderr, "  - The argument must be a string literal or a constant reference\n\n")
	case strings.Contains(errorMsg, "module"):
		fmt.Fprintf(os.Stderr, "This appears to be a module issue.\n")
		fmt.Fprintf(os.Stderr, "  - Check your go.mod file\n")
		fmt.Fprintf(os.Stderr, "  - Try specifying --module explicitly\n\n")
	}

	fmt.Fprintf(os.Stderr, "Run with --verbose for more detailed output.\n")
}

// printContext prints context data sorted by key for stable output
func (r *DiagnosticReporter) printContext(context map[string]interface{}) {
	if len(context) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "Context:\n")
	keys := make([]string, 0, len(context))
	for key := range context {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		fmt.Fprintf(os.Stderr, "   %s: %v\n", key, context[key])
	}
}

// printSuggestions prints actionable suggestions
func (r *DiagnosticReporter) printSuggestions(suggestions []string) {
	if len(suggestions) == 0 {
		return
	}

	fmt.Fprintf(os.Stderr, "Suggestions:\n")
	for i, suggestion := range suggestions {
		fmt.Fprintf(os.Stderr, "   %d. %s\n", i+1, suggestion)
	}
}

// Debug prints debug information when verbose mode is enabled
func (r *DiagnosticReporter) Debug(format string, args ...interface{}) {
	if r.verbose {
		fmt.Fprintf(os.Stderr, "[DEBUG] "+format+"\n", args...)
	}
}

// GenerationSummary describes a completed run
type GenerationSummary struct {
	PackagesScanned  int
	ArtefactsTagged  int
	ConstantsIndexed int
	GeneratedFiles   []string
}

// ReportSuccess prints the run summary
func (r *DiagnosticReporter) ReportSuccess(summary GenerationSummary) {
	fmt.Printf("\nArtefact Tagging Completed Successfully!\n")
	fmt.Printf("========================================\n\n")

	if summary.PackagesScanned > 0 {
		fmt.Printf("Scanned %d packages\n", summary.PackagesScanned)
	}
	if summary.ConstantsIndexed > 0 {
		fmt.Printf("Indexed %d string constants\n", summary.ConstantsIndexed)
	}
	if summary.ArtefactsTagged > 0 {
		fmt.Printf("Tagged %d artefacts\n", summary.ArtefactsTagged)
	}

	if len(summary.GeneratedFiles) > 0 {
		fmt.Printf("\nGenerated files:\n")
		for _, file := range summary.GeneratedFiles {
			fmt.Printf("  - %s\n", file)
		}
	}
}
