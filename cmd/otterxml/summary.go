package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/inodb/otterxml/internal/output"
)

func newSummaryCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "summary <input.xml>",
		Short: "Write a tab-delimited summary with one row per transcript",
		Example: `  otterxml summary chr6_mhc.xml
  otterxml summary -o transcripts.tsv chr6_mhc.xml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSummary(args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func runSummary(inputPath, outputPath string) error {
	cs, err := readInput(newAdapter(), inputPath)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}

	w := output.NewSummaryWriter(out)
	if err := w.WriteHeader(); err != nil {
		closeOut()
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteSet(cs.Set); err != nil {
		closeOut()
		return fmt.Errorf("writing summary: %w", err)
	}
	if err := w.Flush(); err != nil {
		closeOut()
		return fmt.Errorf("flushing output: %w", err)
	}
	return closeOut()
}
