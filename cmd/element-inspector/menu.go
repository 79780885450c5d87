// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/element-inspector/internal/menu"
	"github.com/pdiddy/element-inspector/pkg/types"
)

var menuCmd = &cobra.Command{
	Use:   "menu <document>",
	Short: "Build an action sheet from the buttons of an element document",
	Long: `Menu extracts records from an element document and lays them out as an
action sheet: one option per record in traversal order, followed by a cancel
option. Use --select to resolve an option index to its record.`,
	Args: cobra.ExactArgs(1),
	RunE: runMenu,
}

func runMenu(cmd *cobra.Command, args []string) error {
	title, _ := cmd.Flags().GetString("title")
	cancel, _ := cmd.Flags().GetString("cancel-label")
	skipDisabled, _ := cmd.Flags().GetBool("skip-disabled")
	format, _ := cmd.Flags().GetString("format")

	records, err := extractRecords(cmd, args[0])
	if err != nil {
		return err
	}
	sheet := menu.Build(records, menu.Options{
		Title:        title,
		CancelLabel:  cancel,
		SkipDisabled: skipDisabled,
	})

	out := cmd.OutOrStdout()
	if !cmd.Flags().Changed("select") {
		fmt.Fprint(out, menu.Render(sheet))
		return nil
	}

	index, _ := cmd.Flags().GetInt("select")
	record, err := menu.Select(sheet, index)
	if errors.Is(err, menu.ErrCancelled) {
		fmt.Fprintln(out, "cancelled")
		return nil
	}
	if err != nil {
		return err
	}
	return writeRecords(out, []types.Record{record}, format)
}

func init() {
	menuCmd.Flags().String("title", "", "action sheet title")
	menuCmd.Flags().String("cancel-label", menu.DefaultCancelLabel, "label of the trailing cancel option")
	menuCmd.Flags().Bool("skip-disabled", false, "leave out records marked disabled")
	menuCmd.Flags().Int("select", -1, "print the record behind this option index")
	menuCmd.Flags().String("format", "json", "output format for --select: json or yaml")

	rootCmd.AddCommand(menuCmd)
}
