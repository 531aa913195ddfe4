package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/DolphinWorld/demandsolution-codex/internal/cli"
	"github.com/DolphinWorld/demandsolution-codex/internal/intake"
	"github.com/DolphinWorld/demandsolution-codex/internal/models"
)

// localAnonID identifies submissions made from this CLI.
const localAnonID = "cli"

var submitInput models.IdeaInput

var submitCmd = &cobra.Command{
	Use:   "submit [flags] <idea text>",
	Short: "Submit an idea, merging it into an existing one when it is redundant",
	Example: `  demandsolution submit "An app that finds cheap flights for weekend trips"
  demandsolution submit --platform Mobile --target-users students "Split rent with roommates"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		components, err := initializeComponents()
		if err != nil {
			return err
		}
		defer components.Close()

		input := submitInput
		input.RawInputText = joinArgs(args)
		resp, err := components.Intake.Submit(cmd.Context(), &input, intake.Caller{AnonID: localAnonID, IP: "127.0.0.1"})
		if err != nil {
			return fmt.Errorf("submit failed: %w", err)
		}
		return cli.WriteSubmitResult(cmd.OutOrStdout(), resp, outputFormat())
	},
}

func init() {
	submitCmd.Flags().StringVar(&submitInput.TargetUsers, "target-users", "", "who the idea is for")
	submitCmd.Flags().StringVar(&submitInput.Platform, "platform", "", "Web, Mobile, Desktop or Any")
	submitCmd.Flags().StringVar(&submitInput.Constraints, "constraints", "", "constraints on a solution")
	rootCmd.AddCommand(submitCmd)
}
