package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DolphinWorld/demandsolution-codex/internal/cli"
	"github.com/DolphinWorld/demandsolution-codex/internal/extract"
)

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Bulk-load ideas from documents",
	Long: `Import ideas from documents. A spreadsheet yields one idea per row (the header
row names the columns); a markdown or text file yields one idea per paragraph; a
PDF or Word document is a single idea. Duplicates merge as they would on submit.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		components, err := initializeComponents()
		if err != nil {
			return err
		}
		defer components.Close()

		ex := extract.NewExtractor()
		for _, path := range args {
			records, err := ex.Records(path)
			if err != nil {
				return fmt.Errorf("read %s: %w", path, err)
			}
			res, err := components.Intake.Import(cmd.Context(), records, localAnonID)
			if err != nil {
				return fmt.Errorf("import %s: %w", path, err)
			}
			if !jsonOutput {
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ", path)
			}
			if err := cli.WriteImportResult(cmd.OutOrStdout(), res, outputFormat()); err != nil {
				return err
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
