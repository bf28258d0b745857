package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ppiankov/folio/internal/pipeline"
)

var (
	sectionsOpts sourceOptions
	sectionsJSON bool

	tagOpts sourceOptions
	tagJSON bool
)

// sectionsCmd represents the sections command
var sectionsCmd = &cobra.Command{
	Use:   "sections [source...]",
	Short: "List records grouped by section",
	Long: `Sections builds the collection and groups it by the directory each source
lives in. Records keep their sorted order within a section.

Example:
  folio sections --manifest sources.txt
  folio sections content/blog/a.md content/news/b.md --json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := sectionsOpts.config(cmd)
		if err != nil {
			return err
		}
		sources, err := sectionsOpts.sources(cfg, args)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), sectionsOpts.timeout)
		defer cancel()

		col := pipeline.NewPipeline(cfg).Build(ctx, sources)
		groups := pipeline.GroupBySection(col.Records)

		if sectionsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(groups)
		}
		return pipeline.WriteSections(os.Stdout, groups)
	},
}

// tagCmd represents the tag command
var tagCmd = &cobra.Command{
	Use:   "tag <tag> [source...]",
	Short: "List records carrying a tag",
	Long: `Tag builds the collection and keeps the records whose tags list contains
the given tag exactly (case-sensitive).

Example:
  folio tag bonsai --manifest sources.txt`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag := args[0]

		cfg, err := tagOpts.config(cmd)
		if err != nil {
			return err
		}
		sources, err := tagOpts.sources(cfg, args[1:])
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), tagOpts.timeout)
		defer cancel()

		col := pipeline.NewPipeline(cfg).Build(ctx, sources)
		matches := pipeline.FilterByTag(col.Records, tag)

		if tagJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(matches)
		}
		if len(matches) == 0 {
			fmt.Fprintf(os.Stderr, "No records tagged %q\n", tag)
			return nil
		}
		return pipeline.WriteTable(os.Stdout, matches)
	},
}

func init() {
	rootCmd.AddCommand(sectionsCmd)
	sectionsOpts.register(sectionsCmd)
	sectionsCmd.Flags().BoolVar(&sectionsJSON, "json", false, "print groups as JSON")

	rootCmd.AddCommand(tagCmd)
	tagOpts.register(tagCmd)
	tagCmd.Flags().BoolVar(&tagJSON, "json", false, "print matches as JSON")
}
