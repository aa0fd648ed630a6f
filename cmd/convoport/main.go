// Package main implements the convoport CLI for exporting chat data and
// batch-processing PDFs against a hosted AI chat platform.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/satriahrh/convoport/internal/application"
	appexport "github.com/satriahrh/convoport/internal/application/export"
	"github.com/satriahrh/convoport/internal/config"
	"github.com/satriahrh/convoport/internal/domain/catalog"
	domexport "github.com/satriahrh/convoport/internal/domain/export"
	"github.com/satriahrh/convoport/internal/infra/exportdir"
	sqliteindex "github.com/satriahrh/convoport/internal/infra/index/sqlite"
	"github.com/satriahrh/convoport/internal/infra/platform"
	"github.com/satriahrh/convoport/internal/infra/storage"
	"github.com/satriahrh/convoport/internal/logging"
)

const indexFileName = "export_index.db"

var (
	configPath string
	version    = "dev"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "convoport",
	Short: "Export chat transcripts and batch-process PDFs on a hosted AI platform",
	Long: `convoport talks to a hosted AI chat platform to export chat sessions and
deployment conversations as HTML and JSON files, batch-upload PDFs through a
deployment, and probe an account for where its chat data lives.

Credentials come from PLATFORM_API_KEY (a .env file in the working directory
is honored), optionally combined with a YAML config file.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to YAML config file (defaults to $CONVOPORT_CONFIG)")
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(pdfCmd)
	rootCmd.AddCommand(discoverCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
}

// app bundles the dependencies every command needs. Construction is read-only;
// the export directory and its index are only created by openIndex, so
// diagnostic commands never touch the disk.
type app struct {
	cfg      *config.Config
	log      *zap.Logger
	platform catalog.Client
	clock    application.Clock

	index *sqliteindex.Index // opened on demand, see openIndex
}

func newApp() (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
	if err != nil {
		return nil, err
	}

	var opts []platform.Option
	if cfg.Platform.BaseURL != "" {
		opts = append(opts, platform.WithBaseURL(cfg.Platform.BaseURL))
	}

	return &app{
		cfg:      cfg,
		log:      log,
		platform: platform.NewClient(cfg.Platform.APIKey, opts...),
		clock:    application.SystemClock{},
	}, nil
}

func (a *app) close() {
	if a.index != nil {
		a.index.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

// openIndex creates the export directory and opens the export index inside
// it. Only the export and serve paths call this.
func (a *app) openIndex(ctx context.Context) (*sqliteindex.Index, error) {
	if a.index != nil {
		return a.index, nil
	}
	if err := os.MkdirAll(a.cfg.Export.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create export dir %s: %w", a.cfg.Export.Dir, err)
	}
	idx, err := sqliteindex.Open(ctx, filepath.Join(a.cfg.Export.Dir, indexFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to open export index: %w", err)
	}
	a.index = idx
	return idx, nil
}

func (a *app) exportService(ctx context.Context) (*appexport.Service, error) {
	idx, err := a.openIndex(ctx)
	if err != nil {
		return nil, err
	}

	var mirror domexport.Mirror
	if a.cfg.Mirror.Enabled() {
		m := a.cfg.Mirror
		mirror, err = storage.New(ctx, m.Endpoint, m.Region, m.Bucket, m.AccessKey, m.SecretKey, m.UseSSL)
		if err != nil {
			return nil, fmt.Errorf("failed to init artifact mirror: %w", err)
		}
	}

	return &appexport.Service{
		Platform:  a.platform,
		Artifacts: exportdir.New(a.cfg.Export.Dir),
		Index:     idx,
		Mirror:    mirror,
		Clock:     a.clock,
		Log:       a.log,
	}, nil
}

func printSummary(s *appexport.Summary) {
	fmt.Printf("found=%d exported=%d fallbacks=%d skipped=%d failed=%d\n",
		s.Found, s.Exported, s.Fallbacks, s.Skipped, s.Failed)
	for _, f := range s.Failures {
		fmt.Printf("  failed %s: %s\n", f.ResourceID, f.Reason)
	}
}
