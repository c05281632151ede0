package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/ellis-chang/academic-reference-extractor/internal/config"
	"github.com/ellis-chang/academic-reference-extractor/internal/reference"
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <author>",
	Short: "Resolve a single author name to affiliation data",
	Long: `Resolve an author name against Semantic Scholar, DBLP and (if
configured) the LLM fallback, without parsing a PDF.

Examples:
  arex lookup "Geoffrey Hinton"
  arex lookup "Hinton, G." --human`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

func runLookup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadGlobalConfig()
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}

	svc, closeCache, err := buildLookupService(cfg)
	if err != nil {
		os.Exit(outputError(ExitConfigError, "%v", err))
	}
	author := reference.ParseAuthorName(args[0])
	info := svc.LookupAuthor(context.Background(), author, reference.CitationRecord{})
	// Close the cache before exiting on failure; os.Exit skips defers.
	closeCache()
	if info == nil {
		os.Exit(outputError(ExitDataError, "no usable author name in %q", args[0]))
	}

	if humanOutput {
		outputHuman("%s\n", info.Name)
		if info.Affiliation != "" {
			outputHuman("  Affiliation: %s\n", info.Affiliation)
		}
		if info.Department != "" {
			outputHuman("  Department:  %s\n", info.Department)
		}
		if info.Email != "" {
			outputHuman("  Email:       %s\n", info.Email)
		}
		outputHuman("  Confidence:  %.2f (%s)\n", info.Confidence, info.Source)
		return nil
	}

	return outputJSON(info)
}
