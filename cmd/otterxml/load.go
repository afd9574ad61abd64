package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/otterxml/internal/adapter"
	"github.com/inodb/otterxml/internal/duckdb"
)

func newLoadCmd() *cobra.Command {
	var (
		workers int
		force   bool
	)

	cmd := &cobra.Command{
		Use:   "load <input.xml>...",
		Short: "Parse documents and store them in the DuckDB index",
		Long: `Parse documents in parallel and store their fragments, genes, transcripts,
exons, evidence and remarks in the DuckDB store (store.path, default
~/.otterxml/otter.duckdb). Documents whose size and modification time match
the stored copy are skipped unless --force is given.`,
		Example: `  otterxml load data/*.xml
  otterxml load --force chr6_mhc.xml`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("workers") {
				workers = viper.GetInt(keyWorkers)
			}
			return runLoad(args, workers, force)
		},
	}

	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Parallel readers (0 = number of CPUs)")
	cmd.Flags().BoolVar(&force, "force", false, "Reload documents even if unchanged")
	return cmd
}

func runLoad(paths []string, workers int, force bool) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	fps := make(map[string]duckdb.FileFingerprint, len(paths))
	var todo []string
	failed := 0
	for _, p := range paths {
		fp, err := duckdb.StatFile(p)
		if err != nil {
			failed++
			warnColor.Fprintf(os.Stderr, "Warning: ")
			fmt.Fprintf(os.Stderr, "%v\n", err)
			continue
		}
		if !force {
			current, err := s.IsCurrent(fp)
			if err != nil {
				return err
			}
			if current {
				fmt.Fprintf(os.Stderr, "%s: unchanged, skipped\n", p)
				continue
			}
		}
		fps[p] = fp
		todo = append(todo, p)
	}

	loaded := 0
	err = adapter.OrderedCollect(newAdapter().ParallelRead(adapter.Items(todo), workers), func(r adapter.WorkResult) error {
		if r.Err != nil {
			failed++
			warnColor.Fprintf(os.Stderr, "Warning: ")
			fmt.Fprintf(os.Stderr, "%v\n", r.Err)
			return nil
		}
		if err := s.WriteDocument(fps[r.Path], r.Set.Set); err != nil {
			return fmt.Errorf("store %s: %w", r.Path, err)
		}
		loaded++
		logger.Debug("stored document", zap.String("path", r.Path), zap.Int("genes", len(r.Set.Set.Genes())))
		okColor.Fprintf(os.Stderr, "loaded ")
		fmt.Fprintf(os.Stderr, "%s (%d genes, %d-%d)\n", r.Path, len(r.Set.Set.Genes()), r.Set.Low(), r.Set.High())
		return nil
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Loaded %d of %d documents into %s\n", loaded, len(paths), s.Path())
	if failed > 0 {
		return fmt.Errorf("%d documents could not be loaded", failed)
	}
	return nil
}
