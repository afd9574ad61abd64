package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/inodb/otterxml/internal/adapter"
)

func newBoundsCmd() *cobra.Command {
	var workers int

	cmd := &cobra.Command{
		Use:   "bounds <input.xml>...",
		Short: "Print the genomic range covered by each document",
		Long: `Print path, low and high for each document. The range covers every
sequence fragment and every gene with exons. Documents are read in parallel
and reported in argument order.`,
		Example: `  otterxml bounds chr6_mhc.xml
  otterxml bounds --workers 4 data/*.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = viper.GetInt(keyWorkers)
			}
			return runBounds(cmd.OutOrStdout(), cmd.ErrOrStderr(), args, workers)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel readers (0 = number of CPUs)")
	return cmd
}

func runBounds(stdout, stderr io.Writer, paths []string, workers int) error {
	a := newAdapter()
	failed := 0

	err := adapter.OrderedCollect(a.ParallelRead(adapter.Items(paths), workers), func(r adapter.WorkResult) error {
		if r.Err != nil {
			failed++
			warnColor.Fprintf(stderr, "Warning: ")
			fmt.Fprintf(stderr, "%v\n", r.Err)
			return nil
		}
		low, high := "-", "-"
		if r.Set.Bounds.Valid {
			low = strconv.FormatInt(r.Set.Low(), 10)
			high = strconv.FormatInt(r.Set.High(), 10)
		}
		fmt.Fprintf(stdout, "%s\t%s\t%s\n", r.Path, low, high)
		return nil
	})
	if err != nil {
		return err
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d documents could not be read", failed, len(paths))
	}
	return nil
}
