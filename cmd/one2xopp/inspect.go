// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/one2xopp/internal/xopp"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <file.xopp>...",
	Short: "Summarize the pages of .xopp files",
	Long: `Inspect decompresses each .xopp file and reports the gzip header, the
document creator and, per page, the size and the number of layers, strokes
and images.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runInspect,
}

func init() {
	inspectCmd.Flags().Bool("json", false, "output summaries as JSON")

	rootCmd.AddCommand(inspectCmd)
}

type inspected struct {
	Path string `json:"path"`
	*xopp.Summary
}

func runInspect(cmd *cobra.Command, args []string) error {
	jsonOutput, _ := cmd.Flags().GetBool("json")

	results := make([]inspected, 0, len(args))
	for _, path := range args {
		s, err := xopp.InspectFile(path)
		if err != nil {
			return err
		}
		results = append(results, inspected{Path: path, Summary: s})
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	for _, r := range results {
		printSummary(os.Stdout, r)
	}
	return nil
}

func printSummary(w io.Writer, r inspected) {
	fmt.Fprintf(w, "%s\n", r.Path)
	fmt.Fprintf(w, "  name:     %s\n", r.Name)
	fmt.Fprintf(w, "  comment:  %s\n", r.Comment)
	fmt.Fprintf(w, "  creator:  %s (fileversion %s)\n", r.Creator, r.FileVersion)
	fmt.Fprintf(w, "  pages:    %d (%d strokes, %d images)\n", len(r.Pages), r.Strokes(), r.Images())
	for i, p := range r.Pages {
		fmt.Fprintf(w, "  page %-3d  %g x %g, %s, %d layer(s), %d stroke(s), %d image(s)\n",
			i+1, p.Width, p.Height, p.Background, p.Layers, p.Strokes, p.Images)
	}
}
