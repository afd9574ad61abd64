package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/inodb/otterxml/internal/adapter"
)

func newRenderCmd() *cobra.Command {
	var outputPath string

	cmd := &cobra.Command{
		Use:   "render <input.xml>",
		Short: "Parse a document and write it back out in the Otter dialect",
		Long: `Parse an Otter XML document and render its first sequence set again.
Genes without an author get the configured render.author (default: the current user).`,
		Example: `  otterxml render chr6_mhc.xml
  otterxml render -o normalized.xml chr6_mhc.xml
  cat chr6_mhc.xml | otterxml render -`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	return cmd
}

func runRender(inputPath, outputPath string) error {
	a := newAdapter()
	cs, err := readInput(a, inputPath)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	if err := a.Write(out, cs.Set); err != nil {
		closeOut()
		return err
	}
	if outputPath == "" || outputPath == "-" {
		fmt.Fprintln(out)
	}
	return closeOut()
}

// readInput reads a document from a file, or from stdin for "-".
func readInput(a *adapter.Adapter, path string) (*adapter.CurationSet, error) {
	if path == "-" {
		return a.Read(os.Stdin)
	}
	return a.ReadFile(path)
}
