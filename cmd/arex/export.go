package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ellis-chang/academic-reference-extractor/internal/export"
)

var exportMaxRefs int

var exportCmd = &cobra.Command{
	Use:   "export <pdf>",
	Short: "Parse a bibliography PDF and export the records as BibTeX",
	Long: `Parse a bibliography PDF and print the citation records as BibTeX
entries keyed by their citation keys.

Examples:
  arex export references.pdf
  arex export references.pdf > references.bib`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)
	exportCmd.Flags().IntVar(&exportMaxRefs, "max-refs", 0, "Cap the number of entries processed (0 = unlimited)")
}

func runExport(cmd *cobra.Command, args []string) error {
	records, diags, exitCode := parsePDF(args[0], exportMaxRefs)
	if exitCode != 0 {
		os.Exit(exitCode)
	}

	fmt.Print(export.ToBibTeXList(records))

	for _, d := range diags {
		outputWarning("%s", d)
	}
	return nil
}
