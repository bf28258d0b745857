package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ppiankov/folio/internal/pipeline"
	"github.com/ppiankov/folio/internal/worker"
)

var (
	batchOpts      sourceOptions
	batchOutputDir string
	batchFormat    string
	concurrency    int
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <manifest>...",
	Short: "Build one collection per manifest in parallel",
	Long: `Batch builds an independent collection for every manifest file.
Collections are built concurrently; sources inside one manifest are still
retrieved in order, one at a time.

Example:
  folio batch blog.txt docs.txt
  folio batch sites/*.txt --concurrency 8 --output-dir ./collections`,
	Args: cobra.MinimumNArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchOpts.register(batchCmd)
	batchCmd.Flags().IntVar(&concurrency, "concurrency", 0, "collections built in parallel (default from config)")
	batchCmd.Flags().StringVar(&batchOutputDir, "output-dir", "./folio-collections", "output directory")
	batchCmd.Flags().StringVar(&batchFormat, "format", "json", "output format (json, yaml, table)")
	_ = batchCmd.Flags().MarkHidden("manifest")
}

func runBatch(cmd *cobra.Command, args []string) error {
	cfg, err := batchOpts.config(cmd)
	if err != nil {
		return err
	}
	if concurrency > 0 {
		cfg.Concurrency.Workers = concurrency
	}

	ctx, cancel := context.WithTimeout(context.Background(), batchOpts.timeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Folio Batch Build\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Manifests:    %d\n", len(args))
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", cfg.Concurrency.Workers)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", batchOutputDir)
	fmt.Fprintf(os.Stderr, "\n")

	if err := os.MkdirAll(batchOutputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p := pipeline.NewPipeline(cfg)
	start := time.Now()
	results := worker.NewBatchProcessor(p, cfg.Concurrency.Workers).ProcessManifests(ctx, args)

	successCount, failureCount := 0, 0
	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Manifest, result.Error)
			continue
		}

		name := strings.TrimSuffix(filepath.Base(result.Manifest), filepath.Ext(result.Manifest))
		outPath := filepath.Join(batchOutputDir, name+"."+extensionFor(batchFormat))
		if err := p.Render(result.Collection, batchFormat, outPath); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Manifest, err)
			continue
		}

		successCount++
		stats := result.Collection.Stats
		fmt.Fprintf(os.Stderr, "✓ %s -> %s (%d records, %d skipped)\n",
			result.Manifest, outPath, len(result.Collection.Records), stats.Skipped)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d manifests in %v\n", len(results), time.Since(start).Round(time.Millisecond))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

func extensionFor(format string) string {
	switch strings.ToLower(format) {
	case pipeline.FormatYAML:
		return "yaml"
	case pipeline.FormatTable:
		return "txt"
	default:
		return "json"
	}
}
