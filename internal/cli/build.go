package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/folio/internal/logger"
	"github.com/ppiankov/folio/internal/model"
	"github.com/ppiankov/folio/internal/pipeline"
	"github.com/ppiankov/folio/internal/watcher"
	"github.com/ppiankov/folio/internal/worker"
)

// sourceOptions are shared by every command that runs a build
type sourceOptions struct {
	manifest    string
	staticFile  string
	noStatic    bool
	noCache     bool
	noRobots    bool
	insecureTLS bool
	timeout     time.Duration
}

func (o *sourceOptions) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&o.manifest, "manifest", "m", "", "file listing sources, one per line")
	cmd.Flags().String("root", ".", "base directory for relative source paths")
	cmd.Flags().StringVar(&o.staticFile, "static", "", "YAML file with the static page table")
	cmd.Flags().BoolVar(&o.noStatic, "no-static", false, "do not append static page records")
	cmd.Flags().BoolVar(&o.noCache, "no-cache", false, "disable cache (force fresh fetch of remote sources)")
	cmd.Flags().BoolVar(&o.noRobots, "no-robots", false, "ignore robots.txt for remote sources")
	cmd.Flags().BoolVar(&o.insecureTLS, "insecure", false, "skip TLS certificate verification")
	cmd.Flags().DurationVar(&o.timeout, "timeout", 2*time.Minute, "overall build timeout")
}

// config merges flags over the loaded configuration
func (o *sourceOptions) config(cmd *cobra.Command) (*model.Config, error) {
	if f := cmd.Flags().Lookup("root"); f != nil {
		_ = viper.BindPFlag("content.root", f)
	}
	if f := cmd.Flags().Lookup("format"); f != nil {
		_ = viper.BindPFlag("output.format", f)
	}

	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	if o.noCache {
		cfg.Cache.Enabled = false
	}
	if o.noRobots {
		cfg.HTTP.RespectRobots = false
	}
	if o.insecureTLS {
		cfg.HTTP.InsecureTLS = true
	}
	if o.manifest != "" {
		cfg.Content.Manifest = o.manifest
	}
	if o.staticFile != "" {
		pages, err := LoadStaticPages(o.staticFile)
		if err != nil {
			return nil, err
		}
		cfg.StaticPages = pages
	}
	if o.noStatic {
		cfg.StaticPages = nil
	}

	return cfg, nil
}

// sources returns positional sources followed by manifest entries
func (o *sourceOptions) sources(cfg *model.Config, args []string) ([]string, error) {
	sources := append([]string{}, args...)
	if cfg.Content.Manifest != "" {
		listed, err := worker.ReadManifest(cfg.Content.Manifest)
		if err != nil {
			return nil, err
		}
		sources = append(sources, listed...)
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("no sources: pass paths/URLs or --manifest")
	}
	return sources, nil
}

var (
	buildOpts   sourceOptions
	buildFormat string
	buildOut    string
	buildWatch  bool
)

// buildCmd represents the build command
var buildCmd = &cobra.Command{
	Use:   "build [source...]",
	Short: "Build the sorted record collection",
	Long: `Build retrieves each source in order, parses its metadata block,
fills required fields with defaults, appends the static pages and sorts the
result (weight ascending when both records have one, otherwise newest first).

Example:
  folio build content/blog/hello.md content/news/launch.md
  folio build --manifest sources.txt --format table
  folio build --manifest sources.txt --out public/records.json --watch`,
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)

	buildOpts.register(buildCmd)
	buildCmd.Flags().StringVarP(&buildFormat, "format", "f", "json", "output format (json, yaml, table)")
	buildCmd.Flags().StringVarP(&buildOut, "out", "o", "", "output path (default: stdout)")
	buildCmd.Flags().BoolVarP(&buildWatch, "watch", "w", false, "rebuild when local sources change")
}

func runBuild(cmd *cobra.Command, args []string) error {
	cfg, err := buildOpts.config(cmd)
	if err != nil {
		return err
	}
	sources, err := buildOpts.sources(cfg, args)
	if err != nil {
		return err
	}

	p := pipeline.NewPipeline(cfg)

	build := func(parent context.Context) error {
		ctx, cancel := context.WithTimeout(parent, buildOpts.timeout)
		defer cancel()

		col := p.Build(ctx, sources)
		if err := p.Render(col, cfg.Output.Format, buildOut); err != nil {
			return fmt.Errorf("render failed: %w", err)
		}
		if logger.IsVerbose() || buildOut != "" {
			pipeline.WriteSummary(os.Stderr, col)
		}
		return nil
	}

	if !buildWatch {
		return build(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := build(ctx); err != nil {
		return err
	}

	var local []string
	for _, src := range sources {
		if path, ok := p.LocalPath(src); ok {
			local = append(local, path)
		}
	}

	fmt.Fprintf(os.Stderr, "Watching %d local source(s). Press Ctrl+C to stop.\n", len(local))
	return watcher.Watch(ctx, local, watcher.DefaultDebounce, func(changed []string) {
		logger.Info("%d source(s) changed, rebuilding", len(changed))
		if err := build(ctx); err != nil {
			logger.Error("%v", err)
		}
	})
}
