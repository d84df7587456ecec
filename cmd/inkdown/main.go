// Command inkdown renders markdown-superset documents from the
// command line.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/inkdown/inkdown/internal/config"
	"github.com/inkdown/inkdown/internal/document"
	"github.com/inkdown/inkdown/internal/pipeline"
	"github.com/inkdown/inkdown/internal/render/html"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var verbose bool
	root := &cobra.Command{
		Use:           "inkdown",
		Short:         "render markdown-superset documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: level,
			})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
	root.AddCommand(newRenderCmd())
	root.AddCommand(newOutlineCmd())
	return root
}

func newRenderCmd() *cobra.Command {
	var output string
	var embed bool
	cmd := &cobra.Command{
		Use:   "render <file>",
		Short: "parse a document and write it as HTML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := pipeline.ParseFile(args[0], slog.Default())
			if err != nil {
				return err
			}
			reportDiagnostics(result)
			if embed {
				cfg := config.Load()
				errs := result.Document.Shared.Downloads.FetchAll(
					context.Background(), cfg.MaxConcurrentFetch)
				for _, err := range errs {
					slog.Warn("embed fetch failed", "error", err)
				}
			}
			out := os.Stdout
			if output != "" {
				f, err := os.Create(output)
				if err != nil {
					return fmt.Errorf("create %s: %w", output, err)
				}
				defer f.Close()
				out = f
			}
			renderer := &html.Renderer{EmbedSources: embed}
			if err := renderer.Render(out, result.Document); err != nil {
				return fmt.Errorf("render: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&embed, "embed", false, "fetch and inline stylesheets and images")
	return cmd
}

func newOutlineCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "outline <file>",
		Short: "print the section tree of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := pipeline.ParseFile(args[0], slog.Default())
			if err != nil {
				return err
			}
			reportDiagnostics(result)
			if asJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(outlineEntries(result.Document.Blocks))
			}
			printOutline(result.Document.Blocks, 0)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "emit JSON")
	return cmd
}

type entry struct {
	Title    string  `json:"title"`
	Anchor   string  `json:"anchor"`
	Children []entry `json:"children,omitempty"`
}

func outlineEntries(blocks []document.Block) []entry {
	var entries []entry
	for _, block := range blocks {
		section, ok := block.(*document.Section)
		if !ok {
			continue
		}
		entries = append(entries, entry{
			Title:    document.PlainText(section.Header.Line),
			Anchor:   section.Header.Anchor,
			Children: outlineEntries(section.Blocks),
		})
	}
	return entries
}

func printOutline(blocks []document.Block, depth int) {
	for _, block := range blocks {
		section, ok := block.(*document.Section)
		if !ok {
			continue
		}
		fmt.Printf("%s%s\n", strings.Repeat("  ", depth),
			document.PlainText(section.Header.Line))
		printOutline(section.Blocks, depth+1)
	}
}

func reportDiagnostics(result *pipeline.Result) {
	for _, d := range result.Diagnostics {
		fmt.Fprintln(os.Stderr, d.String())
	}
}
