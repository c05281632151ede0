package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ellis-chang/academic-reference-extractor/internal/config"
	"github.com/ellis-chang/academic-reference-extractor/internal/lookup"
	"github.com/ellis-chang/academic-reference-extractor/internal/parse"
	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
	"github.com/ellis-chang/academic-reference-extractor/internal/report"
)

var (
	extractOutput  string
	extractMaxRefs int
	extractNoLLM   bool
	extractNoCache bool
)

var extractCmd = &cobra.Command{
	Use:   "extract <pdf>",
	Short: "Parse a PDF, enrich authors and write the Excel report",
	Long: `Run the full pipeline: parse the bibliography PDF, resolve first and
last authors against Semantic Scholar, DBLP and (if configured) an LLM,
then write the tabular Excel report.

Examples:
  arex extract references.pdf
  arex extract references.pdf -o authors.xlsx --max-refs 50
  arex extract references.pdf --no-llm`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)
	extractCmd.Flags().StringVarP(&extractOutput, "output", "o", "", "Output .xlsx path (default: input name with .xlsx)")
	extractCmd.Flags().IntVar(&extractMaxRefs, "max-refs", 0, "Cap the number of entries processed (0 = unlimited)")
	extractCmd.Flags().BoolVar(&extractNoLLM, "no-llm", false, "Disable the LLM fallback even when a key is configured")
	extractCmd.Flags().BoolVar(&extractNoCache, "no-cache", false, "Skip the lookup cache")
}

// ExtractResult is the JSON output of the extract command.
type ExtractResult struct {
	Output      string             `json:"output"`
	Records     int                `json:"records"`
	Unmatched   int                `json:"unmatched"`
	Diagnostics []parse.Diagnostic `json:"diagnostics,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	pdfPath := args[0]

	records, diags, exitCode := parsePDF(pdfPath, extractMaxRefs)
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	svc, closeCache, err := buildLookupService(cfg)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	outPath := extractOutput
	if outPath == "" {
		outPath = strings.TrimSuffix(pdfPath, ".pdf") + ".xlsx"
	}

	// Close the cache before exiting on failure; os.Exit skips defers.
	runErr := enrichAndReport(svc, records, outPath)
	closeCache()
	if runErr != nil {
		os.Exit(outputError(ExitError, "%v", runErr))
	}

	unmatched := parse.CountKind(diags, parse.DiagUnmatchedEntry)
	if humanOutput {
		outputHuman("Wrote %d references to %s (%d unmatched)\n", len(records), outPath, unmatched)
		for _, d := range diags {
			outputWarning("%s", d)
		}
		return nil
	}

	return outputJSON(ExtractResult{
		Output:      outPath,
		Records:     len(records),
		Unmatched:   unmatched,
		Diagnostics: diags,
	})
}

// enrichAndReport resolves authors for the parsed records and writes the
// workbook. The caller owns the lookup cache and closes it after the call
// returns, successful or not.
func enrichAndReport(svc *lookup.Service, records []reference.CitationRecord, outPath string) error {
	enriched, err := svc.EnrichRecords(context.Background(), records)
	if err != nil {
		return fmt.Errorf("enriching records: %w", err)
	}
	if err := report.Write(enriched, outPath); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// buildLookupService wires the lookup providers from the global config.
func buildLookupService(cfg *config.GlobalConfig) (*lookup.Service, func(), error) {
	opts := []lookup.ServiceOption{
		lookup.WithS2(lookup.NewS2Client(lookup.WithS2APIKey(cfg.ResolveS2Key()))),
		lookup.WithDBLP(lookup.NewDBLPClient()),
	}

	if !extractNoLLM {
		if key := cfg.ResolveAnthropicKey(); key != "" {
			opts = append(opts, lookup.WithLLM(lookup.NewLLMExtractor(lookup.WithLLMAPIKey(key))))
		}
	}

	closeCache := func() {}
	if !extractNoCache {
		if path := cfg.ResolveCachePath(); path != "" {
			if err := os.MkdirAll(filepath.Dir(path), 0755); err == nil {
				if cache, err := lookup.OpenCache(path); err == nil {
					opts = append(opts, lookup.WithCache(cache))
					closeCache = func() { cache.Close() }
				} else {
					outputWarning("lookup cache unavailable: %v", err)
				}
			}
		}
	}

	return lookup.NewService(opts...), closeCache, nil
}
