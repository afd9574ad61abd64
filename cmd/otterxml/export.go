package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newExportCmd() *cobra.Command {
	var (
		outputPath string
		list       bool
	)

	cmd := &cobra.Command{
		Use:   "export <stored-path>",
		Short: "Render a stored document back to Otter XML",
		Long: `Rebuild a document from the DuckDB store and render it in the Otter dialect.
Use --list to show the stored documents.`,
		Example: `  otterxml export --list
  otterxml export -o restored.xml data/chr6_mhc.xml`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if list {
				return runListDocuments()
			}
			if len(args) != 1 {
				return usageError{fmt.Errorf("a stored document path is required")}
			}
			return runExport(args[0], outputPath)
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file (default: stdout)")
	cmd.Flags().BoolVarP(&list, "list", "l", false, "List stored documents")
	return cmd
}

func runExport(path, outputPath string) error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	set, err := s.LoadDocument(path)
	if err != nil {
		return err
	}
	if set == nil {
		return fmt.Errorf("document %s is not in the store", path)
	}

	out, closeOut, err := openOutput(outputPath)
	if err != nil {
		return err
	}
	if err := newAdapter().Write(out, set); err != nil {
		closeOut()
		return err
	}
	if outputPath == "" || outputPath == "-" {
		fmt.Fprintln(out)
	}
	return closeOut()
}

func runListDocuments() error {
	s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	docs, err := s.Documents()
	if err != nil {
		return err
	}
	if len(docs) == 0 {
		fmt.Printf("# No documents stored in %s\n", s.Path())
		return nil
	}
	for _, d := range docs {
		fmt.Printf("%s\t%d genes\t%d-%d\t%s\n", d.Path, d.Genes, d.Low, d.High, d.ModTime.Format("2006-01-02 15:04:05"))
	}
	return nil
}
