package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"stationhub/internal/commits"
	"stationhub/internal/config"
	"stationhub/internal/discovery"
	"stationhub/internal/domain"
	"stationhub/internal/eventbus"
	"stationhub/internal/installations"
	"stationhub/internal/ui"
)

var version = "dev"

var (
	configPath string
	buildsDir  string
	logPath    string
	looped     bool
	force      bool
)

// forwarded are the events the UI reacts to
var forwarded = []eventbus.EventType{
	eventbus.EventInstallationsChanged,
	eventbus.EventCommitsLoaded,
	eventbus.EventScanStarted,
	eventbus.EventScanCompleted,
	eventbus.EventError,
}

func main() {
	rootCmd := &cobra.Command{
		Use:     "stationhub",
		Version: version,
		Short:   "Browse game builds and recent commits",
		Long: `stationhub tracks game builds found in a builds directory, lets you
install them and shows the latest commits of the game repository.

Configuration is read from $XDG_CONFIG_HOME/stationhub/config.toml unless
--config is given. Run 'stationhub init' to write a default one.`,
		SilenceUsage: true,
		RunE:         runTUI,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Path to the config file")
	rootCmd.PersistentFlags().StringVarP(&buildsDir, "builds-dir", "d", "", "Override the builds directory")
	rootCmd.PersistentFlags().StringVar(&logPath, "log-file", "", "Override the log file")
	rootCmd.Flags().BoolVar(&looped, "looped", false, "Wrap around at the ends of the commit list")

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write a default config file",
		Args:  cobra.NoArgs,
		RunE:  runInit,
	}
	initCmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing config file")

	scanCmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the builds directory and print what was found",
		Args:  cobra.NoArgs,
		RunE:  runScan,
	}

	rootCmd.AddCommand(initCmd, scanCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig loads the config file and applies flag overrides
func loadConfig(cmd *cobra.Command, bus eventbus.EventBus) *config.Config {
	svc := config.NewConfigService(configPath, bus)
	cfg, err := svc.Load()
	if err != nil {
		log.Printf("Error loading config: %v", err)
		cfg = config.DefaultConfig()
	}

	if cmd.Flags().Changed("builds-dir") {
		cfg.BuildsDir = buildsDir
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logPath
	}
	if cmd.Flags().Changed("looped") {
		cfg.UISettings.LoopedCommits = looped
	}
	return cfg
}

// setupLogging sends the standard logger to path. The returned func closes the file.
func setupLogging(path string) func() {
	if path == "" {
		return func() {}
	}
	logFile, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
	if err != nil {
		log.Printf("Could not open log file: %v", err)
		return func() {}
	}
	log.SetOutput(logFile)
	return func() { _ = logFile.Close() }
}

func knownReleases(cfg *config.Config) discovery.StaticReleases {
	releases := make(discovery.StaticReleases, 0, len(cfg.KnownVersions))
	for _, v := range cfg.KnownVersions {
		releases = append(releases, domain.GameVersion(v))
	}
	return releases
}

func runTUI(cmd *cobra.Command, _ []string) error {
	// Create context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		select {
		case <-sigChan:
			cancel()
		case <-ctx.Done():
		}
	}()

	bus := eventbus.New()
	defer bus.Close()

	cfg := loadConfig(cmd, bus)
	closeLog := setupLogging(cfg.LogFile)
	defer closeLog()

	actor, sender := installations.New(
		installations.WithQueueSize(cfg.QueueSize),
		installations.WithEventBus(bus),
	)
	scanSender := sender.Clone()

	client := commits.NewClient(
		commits.WithBaseURL(cfg.CommitsURL),
		commits.WithUserAgent(cfg.UserAgent),
	)
	store := commits.NewStore(client, bus)
	scanner := discovery.NewScanner(cfg.BuildsDir, scanSender, bus,
		discovery.WithReleaseSource(knownReleases(cfg)))

	uiModel := ui.NewModel(bus, cfg, actor, sender, store)
	p := tea.NewProgram(uiModel, tea.WithAltScreen())
	uiModel.SetProgram(p)

	// Set up event forwarding to UI
	eventChan := make(chan eventbus.DomainEvent, 100)
	for _, t := range forwarded {
		bus.Subscribe(t, func(e eventbus.DomainEvent) {
			select {
			case eventChan <- e:
			default:
				log.Println("Event channel full, dropping event")
			}
		})
	}
	go func() {
		for {
			select {
			case event := <-eventChan:
				p.Send(ui.EventMsg{Event: event})
			case <-ctx.Done():
				return
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		actor.Run(gctx)
		return nil
	})
	g.Go(func() error {
		if err := scanner.Scan(gctx); err != nil {
			log.Printf("Initial scan: %v", err)
		}
		return nil
	})
	g.Go(func() error {
		store.Load(gctx)
		return nil
	})

	// stop the UI when a signal arrives
	go func() {
		<-ctx.Done()
		p.Quit()
	}()

	if os.Getenv("STATIONHUB_E2E_TEST") != "" {
		fmt.Println("__READY__")
	}

	_, runErr := p.Run()

	// Cleanup
	scanner.StopScan()
	scanSender.Close()
	sender.Close()
	cancel()
	if err := g.Wait(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	if runErr != nil {
		return fmt.Errorf("error running program: %w", runErr)
	}
	return nil
}

func runInit(cmd *cobra.Command, _ []string) error {
	svc := config.NewConfigService(configPath, nil)

	if _, err := os.Stat(svc.Path()); err == nil && !force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", svc.Path())
	}

	cfg := config.DefaultConfig()
	if cmd.Flags().Changed("builds-dir") {
		cfg.BuildsDir = buildsDir
	}
	if cmd.Flags().Changed("log-file") {
		cfg.LogFile = logPath
	}

	if err := svc.Save(cfg); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", svc.Path())
	return nil
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := loadConfig(cmd, nil)
	closeLog := setupLogging(cfg.LogFile)
	defer closeLog()

	actor, sender := installations.New(installations.WithQueueSize(cfg.QueueSize))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		actor.Run(gctx)
		return nil
	})
	g.Go(func() error {
		defer sender.Close()
		scanner := discovery.NewScanner(cfg.BuildsDir, sender, nil,
			discovery.WithReleaseSource(knownReleases(cfg)))
		return scanner.Scan(gctx)
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("scan %s: %w", cfg.BuildsDir, err)
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION\tSTATE")
	for _, inst := range actor.Snapshot() {
		fmt.Fprintf(w, "%s\t%s\n", inst.Version, inst.Kind)
	}
	return w.Flush()
}
