package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"ticket-booth/internal/config"
	"ticket-booth/internal/engine"
	"ticket-booth/internal/script"
	"ticket-booth/internal/stats"
)

var (
	version   = "1.0.0"
	cfgFile   string
	dryRun    bool
	statsOnly bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ticket-booth [script file]",
		Short: "Ticket Booth - Priority seat reservation engine driven by a command script",
		Long: `A command-line seat reservation engine. Reads a script of commands
(Initialize, Reserve, Cancel, UpdatePriority, AddSeats, ReleaseSeats, ...),
allocates numbered seats with a priority waitlist, and writes the result
lines to an output file.`,
		Version: version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    run,
	}

	// Configuration file
	rootCmd.Flags().StringVar(&cfgFile, "config", "", "Configuration file path (default: config.yaml)")

	// CLI overrides
	rootCmd.Flags().String("input", "", "Input command script path")
	rootCmd.Flags().String("output", "", "Output file path (default: <script>_output_file.txt)")
	rootCmd.Flags().String("log-level", "", "Log level (debug|info|warn|error)")
	rootCmd.Flags().Bool("no-echo", false, "Do not echo result lines to stdout")
	rootCmd.Flags().Bool("stats", false, "Print run statistics at the end")
	rootCmd.Flags().String("stats-export", "", "Export run statistics to a JSON file")
	rootCmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and validate the script only, do not execute")
	rootCmd.Flags().BoolVar(&statsOnly, "stats-only", false, "Show script command counts only, do not execute")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Load configuration
	v := viper.New()
	config.SetDefaults(v)

	// Load config file
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		if cfgFile != "" {
			return fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found is OK if using CLI flags
		log.Debug("No config file found, using defaults and CLI flags")
	}

	// Bind CLI flags (override config file values)
	bindViperFlags(v, cmd)

	// A positional argument is the script file
	if len(args) == 1 {
		v.Set("input.script_file", args[0])
	}

	cfg, err := config.LoadWithViper(v)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logging
	setupLogging(cfg)

	// Stats-only mode
	if statsOnly {
		return showStats(cfg)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		return err
	}

	// Parse the command script
	parser := script.NewParser()
	commands, err := parser.ParseFile(cfg.Input.ScriptFile)
	if err != nil {
		return fmt.Errorf("failed to parse script: %w", err)
	}

	if len(commands) == 0 {
		return fmt.Errorf("no commands found in script file")
	}

	if err := parser.ValidateHasInitialize(commands); err != nil {
		return err
	}

	if dryRun {
		fmt.Printf("Dry-run mode: %d commands parsed, skipping execution\n", len(commands))
		return nil
	}

	// Setup context with signal handling
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.WithField("signal", sig).Info("Received shutdown signal")
		cancel()
	}()

	// Open the output file
	outFile, err := os.Create(cfg.OutputFile())
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer outFile.Close()

	var out io.Writer = outFile
	if cfg.Output.Echo {
		out = io.MultiWriter(os.Stdout, outFile)
	}

	// Create engine, stats collector and runner
	eng := engine.New()
	collector := stats.NewCollector()
	runner := script.NewRunner(eng, collector, out)

	log.WithFields(log.Fields{
		"script":   cfg.Input.ScriptFile,
		"commands": len(commands),
		"output":   cfg.OutputFile(),
	}).Info("Starting run")

	if err := runner.Run(ctx, commands); err != nil {
		if ctx.Err() != nil {
			log.Info("Run interrupted by shutdown")
		} else {
			log.WithError(err).Error("Run failed")
		}
	}

	// Print final statistics
	if cfg.Stats.Enabled {
		reporter := stats.NewReporter(collector, cfg.Stats.ExportFile)
		reporter.PrintFinalReport()
		if err := reporter.ExportJSON(); err != nil {
			log.WithError(err).Warn("Failed to export statistics")
		}
	}

	return nil
}

func showStats(cfg *config.Config) error {
	parser := script.NewParser()
	counts, err := parser.CountCommands(cfg.Input.ScriptFile)
	if err != nil {
		return fmt.Errorf("failed to count commands: %w", err)
	}

	fmt.Println("Script Command Statistics:")
	total := 0
	for name, count := range counts {
		fmt.Printf("  %-40s %d\n", name, count)
		total += count
	}
	fmt.Printf("  %-40s %d\n", "Total:", total)
	return nil
}

func setupLogging(cfg *config.Config) {
	level, err := log.ParseLevel(cfg.Logging.Level)
	if err != nil {
		level = log.InfoLevel
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: "2006-01-02 15:04:05.000",
	})

	if cfg.Logging.File != "" {
		f, err := os.OpenFile(cfg.Logging.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.WithError(err).Warn("Failed to open log file, using console only")
		} else {
			log.SetOutput(f)
		}
	}
}

func bindViperFlags(v *viper.Viper, cmd *cobra.Command) {
	if cmd.Flags().Changed("input") {
		val, _ := cmd.Flags().GetString("input")
		v.Set("input.script_file", val)
	}
	if cmd.Flags().Changed("output") {
		val, _ := cmd.Flags().GetString("output")
		v.Set("output.file", val)
	}
	if cmd.Flags().Changed("log-level") {
		val, _ := cmd.Flags().GetString("log-level")
		v.Set("logging.level", val)
	}
	if cmd.Flags().Changed("no-echo") {
		val, _ := cmd.Flags().GetBool("no-echo")
		v.Set("output.echo", !val)
	}
	if cmd.Flags().Changed("stats") {
		val, _ := cmd.Flags().GetBool("stats")
		v.Set("stats.enabled", val)
	}
	if cmd.Flags().Changed("stats-export") {
		val, _ := cmd.Flags().GetString("stats-export")
		v.Set("stats.export_file", val)
		v.Set("stats.enabled", true)
	}
}
