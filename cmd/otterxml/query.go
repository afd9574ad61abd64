package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inodb/otterxml/internal/model"
	"github.com/inodb/otterxml/internal/output"
)

func newQueryCmd() *cobra.Command {
	var (
		region string
		gene   string
	)

	cmd := &cobra.Command{
		Use:   "query [input.xml]",
		Short: "Find features by position or range, in a document or in the store",
		Long: `With a document argument, report the features of that document that overlap
--region. Without one, query the DuckDB store: --region lists stored genes that
overlap the range and --gene prints a transcript summary for one gene.`,
		Example: `  otterxml query --region 30000000-30100000 chr6_mhc.xml
  otterxml query --region 1250 chr6_mhc.xml
  otterxml query --region 30000000-30100000
  otterxml query --gene OTTHUMG00000031079`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				if region == "" {
					return usageError{fmt.Errorf("--region is required with a document argument")}
				}
				return runQueryDocument(args[0], region)
			}
			switch {
			case gene != "":
				return runQueryGene(gene)
			case region != "":
				return runQueryStore(region)
			}
			return usageError{fmt.Errorf("one of --region or --gene is required")}
		},
	}

	cmd.Flags().StringVarP(&region, "region", "r", "", "Position or range, e.g. 1250 or 1000-2000")
	cmd.Flags().StringVarP(&gene, "gene", "g", "", "Gene stable id to look up in the store")
	return cmd
}

// parseRegion parses "pos", "low-high" or "low:high". Coordinates may be negative.
func parseRegion(s string) (int64, int64, error) {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	// A leading minus belongs to the first coordinate.
	sep := -1
	if len(s) > 1 {
		if i := strings.IndexAny(s[1:], "-:"); i >= 0 {
			sep = i + 1
		}
	}
	if sep < 0 {
		pos, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return 0, 0, usageError{fmt.Errorf("invalid region %q", s)}
		}
		return pos, pos, nil
	}
	low, err := strconv.ParseInt(s[:sep], 10, 64)
	if err != nil {
		return 0, 0, usageError{fmt.Errorf("invalid region start %q", s[:sep])}
	}
	high, err := strconv.ParseInt(s[sep+1:], 10, 64)
	if err != nil {
		return 0, 0, usageError{fmt.Errorf("invalid region end %q", s[sep+1:])}
	}
	if low > high {
		return 0, 0, usageError{fmt.Errorf("region start %d is after end %d", low, high)}
	}
	return low, high, nil
}

func runQueryDocument(inputPath, region string) error {
	low, high, err := parseRegion(region)
	if err != nil {
		return err
	}
	cs, err := readInput(newAdapter(), inputPath)
	if err != nil {
		return err
	}

	tree := model.BuildIntervalTree(cs.Set.Features)
	for _, f := range tree.FindRange(low, high) {
		kind := "feature"
		switch f.(type) {
		case *model.Gene:
			kind = "gene"
		case *model.AssemblyFeature:
			kind = "fragment"
		}
		fmt.Printf("%s\t%s\t%d\t%d\n", kind, f.FeatureID(), f.Low(), f.High())
	}
	return nil
}

func runQueryStore(region string) error {
	low, high, err := parseRegion(region)
	if err != nil {
		return err
	}
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	spans, err := s.GenesOverlapping(low, high)
	if err != nil {
		return err
	}
	for _, g := range spans {
		name := g.Name
		if name == "" {
			name = "-"
		}
		fmt.Printf("%s\t%s\t%s\t%d\t%d\t%d\n", g.Path, g.StableID, name, g.Strand, g.Low, g.High)
	}
	return nil
}

func runQueryGene(stableID string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	g, err := s.LookupGene(stableID)
	if err != nil {
		return err
	}
	if g == nil {
		return fmt.Errorf("gene %s is not in the store", stableID)
	}

	set := &model.AnnotationSet{}
	set.AddFeature(g)

	w := output.NewSummaryWriter(os.Stdout)
	if err := w.WriteHeader(); err != nil {
		return err
	}
	if err := w.WriteSet(set); err != nil {
		return err
	}
	return w.Flush()
}
