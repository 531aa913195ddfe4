package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DolphinWorld/demandsolution-codex/internal/cli"
	"github.com/DolphinWorld/demandsolution-codex/internal/extract"
)

var checkFile string

var checkCmd = &cobra.Command{
	Use:   "check [flags] [idea text]",
	Short: "Show whether text would merge into an existing idea, without storing it",
	Example: `  demandsolution check "cheap flight finder"
  demandsolution check --file idea.md`,
	RunE: func(cmd *cobra.Command, args []string) error {
		text, err := checkText(args, checkFile)
		if err != nil {
			return err
		}
		components, err := initializeComponents()
		if err != nil {
			return err
		}
		defer components.Close()

		resp, err := components.Intake.Check(cmd.Context(), text)
		if err != nil {
			return fmt.Errorf("check failed: %w", err)
		}
		return cli.WriteDedupCheck(cmd.OutOrStdout(), resp, outputFormat())
	},
}

func init() {
	checkCmd.Flags().StringVarP(&checkFile, "file", "f", "", "read the text from a document (txt, md, pdf, docx, xlsx)")
	rootCmd.AddCommand(checkCmd)
}

// checkText returns the text to check: the document at file when set, else the args.
func checkText(args []string, file string) (string, error) {
	if file != "" {
		if len(args) > 0 {
			return "", errors.New("pass either --file or text, not both")
		}
		text, err := extract.NewExtractor().Extract(file)
		if err != nil {
			return "", fmt.Errorf("read %s: %w", file, err)
		}
		return text, nil
	}
	text := joinArgs(args)
	if text == "" {
		return "", errors.New("text is required")
	}
	return text, nil
}
