package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ironsheep/salesbot-ocr/internal/report"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Short: "Show or change daily sales targets",
}

var targetsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored targets",
	Args:  cobra.NoArgs,
	RunE:  runTargetsList,
}

var targetsSetCmd = &cobra.Command{
	Use:     "set CODE=VALUE...",
	Short:   "Set targets, e.g. targets set HW=50000 DW=30000",
	Args:    cobra.MinimumNArgs(1),
	Example: "  salesbot targets set HW=50000 DW=30,000",
	RunE:    runTargetsSet,
}

func init() {
	targetsCmd.AddCommand(targetsListCmd, targetsSetCmd)
}

func runTargetsList(cmd *cobra.Command, args []string) error {
	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	t, err := store.Read(cmd.Context())
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(t) == 0 {
		fmt.Fprintln(out, "no targets set")
		return nil
	}
	for _, code := range t.Codes() {
		fmt.Fprintf(out, "%s\t%s\n", code, report.FormatAmount(t[code]))
	}
	return nil
}

func runTargetsSet(cmd *cobra.Command, args []string) error {
	partial, _ := report.ParseSetCommand("SET " + strings.Join(args, " "))
	if len(partial) == 0 {
		return errors.New("no valid CODE=VALUE pairs")
	}

	store, err := openStore()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Upsert(cmd.Context(), partial); err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	for _, code := range partial.Codes() {
		fmt.Fprintf(out, "%s\t%s\n", code, report.FormatAmount(partial[code]))
	}
	return nil
}
