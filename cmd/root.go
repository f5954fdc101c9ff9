package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"substackscraper/config"
	"substackscraper/internal/scraper"
	"substackscraper/logger"
	apperrors "substackscraper/pkg/errors"
	"substackscraper/services/cache"
	"substackscraper/services/checkpoint"
	"substackscraper/services/export"
	"substackscraper/services/publisher"
	"substackscraper/services/worker"
)

var (
	flagConfig     string
	flagBrowser    string
	flagNoHeadless bool
	flagDebug      bool
	flagResume     bool
	flagShowDates  bool
	flagShowTitles bool
	flagSortByDate bool
	flagAscending  bool
	flagFormat     string
	flagOutput     string
	flagOutputDir  string
	flagNoConsole  bool
	flagLogLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "substackscraper [url]",
	Short: "Extract article links from a Substack archive page",
	Long: `Renders a Substack archive page through a headless browser, scrolls it
until the infinite-scroll content stops growing, and extracts a deduplicated
list of article links with optional dates and titles.`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().StringVar(&flagConfig, "config", "", "path to configuration file (YAML or JSON)")
	rootCmd.Flags().StringVar(&flagBrowser, "browser", "", "browser engine to use (chrome, edge, firefox)")
	rootCmd.Flags().BoolVar(&flagNoHeadless, "no-headless", false, "run the browser in visible mode")
	rootCmd.Flags().BoolVar(&flagDebug, "debug", false, "save raw rendered markup for inspection")
	rootCmd.Flags().BoolVar(&flagResume, "resume", false, "resume from the previous checkpoint")
	rootCmd.Flags().BoolVar(&flagShowDates, "show-dates", false, "show publication dates of articles")
	rootCmd.Flags().BoolVar(&flagShowTitles, "show-titles", false, "show titles of articles")
	rootCmd.Flags().BoolVar(&flagSortByDate, "sort-by-date", false, "sort articles by publication date")
	rootCmd.Flags().BoolVar(&flagAscending, "ascending", false, "sort oldest first (default is newest first)")
	rootCmd.Flags().StringVar(&flagFormat, "format", "txt", "output format (txt, csv, json)")
	rootCmd.Flags().StringVar(&flagOutput, "output", "", "output filename without extension")
	rootCmd.Flags().StringVar(&flagOutputDir, "output-dir", "", "output directory")
	rootCmd.Flags().BoolVar(&flagNoConsole, "no-console", false, "do not print results to the console")
	rootCmd.Flags().StringVar(&flagLogLevel, "log-level", "", "logging level (debug, info, warn, error)")
}

// Execute runs the root command and returns the process exit code.
// A keyboard interrupt maps to 130, any other failure to 1.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		if apperrors.IsCancelled(err) || errors.Is(err, context.Canceled) {
			logger.Info("interrupted by user")
			return 130
		}
		logger.Error("%v", err)
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, args []string) error {
	godotenv.Load()
	logger.Init()

	cfg := config.New()
	if flagConfig != "" {
		if err := cfg.LoadFile(flagConfig); err != nil {
			return err
		}
		logger.Info("loaded configuration from %s", flagConfig)
	}

	applyOverrides(cmd, cfg)

	if flagLogLevel == "" {
		flagLogLevel = cfg.GetString("logging.level")
	}
	if err := logger.SetLevel(strings.ToLower(flagLogLevel)); err != nil {
		return apperrors.NewConfiguration(fmt.Sprintf("invalid log level: %s", flagLogLevel), err)
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := scraper.ValidateEngine(cfg.GetString("browser.engine")); err != nil {
		return err
	}

	store := checkpoint.NewStore(cfg.GetString("checkpoint.file"))

	var (
		articles []scraper.Article
		url      string
		err      error
	)

	if flagResume && store.Exists() {
		logger.Info("resuming from checkpoint")
		snap, loadErr := store.Load()
		if loadErr != nil {
			return loadErr
		}
		if snap.URL == "" {
			return apperrors.NewCheckpoint("checkpoint exists but URL is missing", nil)
		}
		url = snap.URL
		articles = snap.Articles
	} else {
		if len(args) == 0 {
			return apperrors.NewConfiguration("URL is required when not resuming from a checkpoint", nil)
		}
		url = args[0]

		articles, err = crawl(cfg, store, url)
		if err != nil {
			return err
		}
	}

	if len(articles) == 0 {
		logger.Warn("no articles found")
		return nil
	}

	displayOpts := export.Options{
		IncludeDates:  cfg.GetBool("output.include_dates"),
		IncludeTitles: cfg.GetBool("output.include_titles"),
	}

	if flagOutput != "" {
		exporter, err := export.NewExporter(cfg.GetString("output.directory"))
		if err != nil {
			return err
		}
		outputFile, err := exporter.Export(articles, cfg.GetString("output.format"), flagOutput, displayOpts)
		if err != nil {
			return err
		}
		fmt.Printf("\nExported to: %s\n", outputFile)
	}

	if !flagNoConsole {
		export.PrintToConsole(articles, displayOpts)
	}

	logger.Info("processed %d articles", len(articles))
	return nil
}

// crawl runs the full pipeline for one URL with signal-driven cancellation
func crawl(cfg *config.Config, store *checkpoint.Store, url string) ([]scraper.Article, error) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	acquirer := scraper.NewAcquirer(nil, scraper.AcquirerOptions{
		Browser: scraper.BrowserOptions{
			Engine:            cfg.GetString("browser.engine"),
			Headless:          cfg.GetBool("browser.headless"),
			UserAgent:         cfg.GetString("browser.user_agent"),
			NavigationTimeout: cfg.Seconds("browser.timeout"),
			PageLoadTimeout:   cfg.Seconds("browser.page_load_timeout"),
		},
		MaxRetries:        cfg.GetInt("scraping.max_retries"),
		RetryDelay:        cfg.Seconds("scraping.retry_delay"),
		InitialWait:       cfg.WaitRange("scraping.initial_wait"),
		ScrollWait:        cfg.WaitRange("scraping.scroll_wait"),
		MaxScrollAttempts: cfg.GetInt("scraping.max_scroll_attempts"),
		Debug:             flagDebug,
	}, nil)

	opts := worker.Options{
		Render:     cfg.GetBool("scraping.render"),
		SortByDate: cfg.GetBool("output.sort_by_date"),
		Ascending:  cfg.GetBool("output.ascending"),
	}

	if cfg.GetBool("checkpoint.enabled") {
		opts.Checkpoint = store
	}

	if addr := cfg.GetString("cache.addr"); addr != "" {
		opts.Cache = cache.NewMemcacheService(addr)
		opts.BlockTime = cfg.Seconds("cache.block_seconds")
		logger.Info("re-crawl guard enabled via memcache at %s", addr)
	}

	if addr := cfg.GetString("publish.addr"); addr != "" {
		pub := publisher.NewRedisPublisher(
			ctx,
			addr,
			cfg.GetInt("publish.db"),
			cfg.GetString("publish.stream"),
			cfg.GetInt("publish.stream_count"),
			cfg.GetInt("publish.stream_max_length"),
		)
		defer pub.Close()
		opts.Publisher = pub
		opts.PublishKey = "article"
		logger.Info("publishing enabled via redis at %s", addr)
	}

	w := worker.NewWorker(acquirer, scraper.NewParser(), opts)
	return w.Run(ctx, url)
}

// applyOverrides copies explicitly set flags into the config store so a CLI
// choice always wins over file and env values.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	if flagBrowser != "" {
		cfg.Set("browser.engine", flagBrowser)
	}
	if flagNoHeadless {
		cfg.Set("browser.headless", false)
	}
	if cmd.Flags().Changed("format") {
		cfg.Set("output.format", flagFormat)
	}
	if flagOutputDir != "" {
		cfg.Set("output.directory", flagOutputDir)
	}
	if flagShowDates {
		cfg.Set("output.include_dates", true)
	}
	if flagShowTitles {
		cfg.Set("output.include_titles", true)
	}
	if flagSortByDate {
		cfg.Set("output.sort_by_date", true)
	}
	if flagAscending {
		cfg.Set("output.ascending", true)
	}
}
