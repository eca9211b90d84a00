package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"recipebook/internal/app"
	"recipebook/internal/catalog"
	"recipebook/internal/config"
	"recipebook/internal/logger"
	"recipebook/internal/recipe"
)

var (
	configPath string

	rootCmd = &cobra.Command{
		Use:           "recipectl",
		Short:         "Inspect and publish the recipe catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	facetsCmd = &cobra.Command{
		Use:   "facets",
		Short: "Print the categories, cuisines and difficulties offered by the filter panel",
		Args:  cobra.NoArgs,
		RunE:  runFacets,
	}
	dailyCmd = &cobra.Command{
		Use:   "daily",
		Short: "Print (and optionally publish) the recipe of the day",
		Args:  cobra.NoArgs,
		RunE:  runDaily,
	}
	searchCmd = &cobra.Command{
		Use:   "search [query]",
		Short: "Filter the catalog the way the list page does",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSearch,
	}
	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Copy the JSON dataset into the Postgres mirror",
		Args:  cobra.NoArgs,
		RunE:  runSeed,
	}

	dailyDate    string
	dailyPublish bool

	searchCategories []string
	searchCuisines   []string
	searchDifficulty string
	searchMaxTime    int
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to the config file (default ./config.json)")

	dailyCmd.Flags().StringVar(&dailyDate, "date", "", "pick for this day (YYYY-MM-DD) instead of today")
	dailyCmd.Flags().BoolVar(&dailyPublish, "publish", false, "post the pick to the configured Telegram chat")

	searchCmd.Flags().StringSliceVar(&searchCategories, "category", nil, "category to include (repeatable)")
	searchCmd.Flags().StringSliceVar(&searchCuisines, "cuisine", nil, "cuisine to include (repeatable)")
	searchCmd.Flags().StringVar(&searchDifficulty, "difficulty", "", "exact difficulty label")
	searchCmd.Flags().IntVar(&searchMaxTime, "max-time", 0, "cooking time ceiling in minutes (unset means no ceiling)")

	rootCmd.AddCommand(facetsCmd, dailyCmd, searchCmd, seedCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func setup(cmd *cobra.Command) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	// Keep stdout for command output.
	return cfg, logger.NewWithWriter(cfg.Log, cmd.ErrOrStderr()), nil
}

func loadCatalog(cmd *cobra.Command) (*config.Config, *catalog.Catalog, *zap.Logger, error) {
	cfg, log, err := setup(cmd)
	if err != nil {
		return nil, nil, nil, err
	}
	cat, err := app.LoadCatalog(cmd.Context(), cfg, log)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, cat, log, nil
}

func runFacets(cmd *cobra.Command, _ []string) error {
	_, cat, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}
	return writeJSON(cmd.OutOrStdout(), cat.Facets())
}

func runDaily(cmd *cobra.Command, _ []string) error {
	cfg, cat, log, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	day := time.Now()
	if dailyDate != "" {
		loc, err := cfg.Location()
		if err != nil {
			return err
		}
		day, err = time.ParseInLocation(time.DateOnly, dailyDate, loc)
		if err != nil {
			return fmt.Errorf("invalid --date: %w", err)
		}
	}

	pick, ok := cat.DailyOn(day)
	if !ok {
		return fmt.Errorf("catalog is empty")
	}

	if dailyPublish {
		if err := app.NewNotifier(cfg).PublishDailyPick(cmd.Context(), pick); err != nil {
			return fmt.Errorf("failed to publish daily recipe: %w", err)
		}
		log.Info("daily recipe published", zap.String("id", pick.ID), zap.String("chat_id", cfg.Telegram.ChatID))
	}
	return writeJSON(cmd.OutOrStdout(), catalog.NewCard(pick))
}

func runSearch(cmd *cobra.Command, args []string) error {
	maxTimeSet := cmd.Flags().Changed("max-time")
	if maxTimeSet && searchMaxTime < 0 {
		return fmt.Errorf("invalid --max-time %d: must not be negative", searchMaxTime)
	}

	_, cat, _, err := loadCatalog(cmd)
	if err != nil {
		return err
	}

	f := recipe.Filter{
		Categories: searchCategories,
		Cuisines:   searchCuisines,
		Difficulty: searchDifficulty,
	}
	if len(args) == 1 {
		f.Search = args[0]
	}
	if maxTimeSet {
		maxTime := searchMaxTime
		f.MaxTime = &maxTime
	}
	return writeJSON(cmd.OutOrStdout(), cat.List(f))
}

func runSeed(cmd *cobra.Command, _ []string) error {
	cfg, log, err := setup(cmd)
	if err != nil {
		return err
	}
	if cfg.Database.URL == "" {
		return fmt.Errorf("database.url is not configured")
	}

	ds, err := recipe.NewFileStore(cfg.Data.Path).Load(cmd.Context())
	if err != nil {
		return err
	}

	store, err := recipe.NewPostgresStore(cfg.Database.URL)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Replace(cmd.Context(), ds); err != nil {
		return err
	}
	log.Info("dataset mirrored", zap.Int("recipes", len(ds.Recipes)), zap.String("path", cfg.Data.Path))
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
