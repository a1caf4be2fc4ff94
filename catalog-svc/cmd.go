package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"overcooked-catalog/catalog-svc/internal/domain"
	"overcooked-catalog/catalog-svc/internal/logging"
	"overcooked-catalog/catalog-svc/internal/service"
	"overcooked-catalog/catalog-svc/internal/storage"
	"overcooked-catalog/config"
)

// app holds what a command needs once the catalog has been seeded.
type app struct {
	cfg     *config.Config
	catalog *service.Manager
	logger  *logging.Logger
	closers []io.Closer
}

func (a *app) Close() {
	for _, c := range a.closers {
		if err := c.Close(); err != nil {
			a.logger.Warn("close failed", zap.Error(err))
		}
	}
	_ = a.logger.Sync()
}

func newRootCmd(catalog *service.Manager) *cobra.Command {
	v := viper.New()
	var cfgFile string

	root := &cobra.Command{
		Use:           "catalog-svc",
		Short:         "In-memory restaurant catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (yaml)")
	root.PersistentFlags().String("seed", "", "seed fixture file, overrides seed.file")
	root.PersistentFlags().String("source", "", "seed source: file, postgres or none")
	_ = v.BindPFlag("seed.file", root.PersistentFlags().Lookup("seed"))
	_ = v.BindPFlag("seed.source", root.PersistentFlags().Lookup("source"))

	setup := func(ctx context.Context) (*app, error) {
		if cfgFile != "" {
			v.SetConfigFile(cfgFile)
		}
		cfg, err := config.Load(v)
		if err != nil {
			return nil, err
		}
		return bootstrap(ctx, cfg, catalog)
	}

	root.AddCommand(
		newSummaryCmd(setup),
		newDishesCmd(setup),
		newQRCodesCmd(setup),
	)
	return root
}

// bootstrap wires logging, observers and the seed source around catalog.
func bootstrap(ctx context.Context, cfg *config.Config, catalog *service.Manager) (*app, error) {
	logger, err := logging.New(logging.Config{Level: cfg.Log.Level, Development: cfg.Log.Development})
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	zap.ReplaceGlobals(logger.Logger)

	a := &app{cfg: cfg, catalog: catalog, logger: logger}

	if cfg.Kafka.Enabled() {
		kafkaLogger := logger.Named("kafka")
		writer := config.NewKafkaWriter(cfg.Kafka, kafkaLogger.Logger)
		a.closers = append(a.closers, writer)
		catalog.Subscribe(storage.NewKafkaPublisher(writer, kafkaLogger))
	}
	if cfg.Redis.Enabled() {
		client := config.MustInitRedis(cfg.Redis)
		a.closers = append(a.closers, client)
		projection := storage.NewRedisProjection(client, logger.Named("redis"))
		// the catalog is rebuilt from the seed on every run
		if err := projection.Reset(ctx); err != nil {
			a.Close()
			return nil, fmt.Errorf("failed to reset redis projection: %w", err)
		}
		catalog.Subscribe(projection)
	}

	var src service.FixtureSource
	switch cfg.Seed.Source {
	case "file":
		src = storage.NewFileSource(cfg.Seed.File)
	case "postgres":
		db, err := config.OpenPostgres(cfg.Postgres)
		if err != nil {
			a.Close()
			return nil, err
		}
		a.closers = append(a.closers, db)
		src = storage.NewPostgresSource(db)
	}
	if src != nil {
		seeder := service.NewSeeder(catalog, logger.Named("seed"))
		if err := seeder.Seed(ctx, src); err != nil {
			a.Close()
			return nil, err
		}
	}
	return a, nil
}

func newSummaryCmd(setup func(context.Context) (*app, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Print registry sizes, dishes per category and menu contents",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()
			return printSummary(cmd.OutOrStdout(), a.catalog)
		},
	}
}

func printSummary(w io.Writer, catalog service.CatalogReader) error {
	stats := catalog.Stats()
	fmt.Fprintf(w, "dishes=%d categories=%d allergens=%d menus=%d restaurants=%d\n",
		stats.Dishes, stats.Categories, stats.Allergens, stats.Menus, stats.Restaurants)

	for name, category := range catalog.Categories() {
		dishes, err := catalog.DishesInCategory(category, service.ByName)
		if err != nil {
			return err
		}
		fmt.Fprintf(w, "category %s: %s\n", name, joinNames(dishes))
	}
	for name, entry := range catalog.Menus() {
		names := make([]string, 0)
		for _, d := range entry.Dishes() {
			names = append(names, d.Name())
		}
		fmt.Fprintf(w, "menu %s: %s\n", name, strings.Join(names, ", "))
	}
	for name, restaurant := range catalog.Restaurants() {
		location := "-"
		if restaurant.Location() != nil {
			location = restaurant.Location().String()
		}
		fmt.Fprintf(w, "restaurant %s: %s\n", name, location)
	}
	return nil
}

func joinNames(dishes iter.Seq[*domain.Dish]) string {
	var names []string
	for d := range dishes {
		names = append(names, d.Name())
	}
	return strings.Join(names, ", ")
}

func newDishesCmd(setup func(context.Context) (*app, error)) *cobra.Command {
	var category, allergen, ingredient string

	cmd := &cobra.Command{
		Use:   "dishes",
		Short: "List dishes sorted by name, optionally filtered",
		RunE: func(cmd *cobra.Command, args []string) error {
			if category != "" && allergen != "" {
				return errors.New("--category and --allergen are mutually exclusive")
			}
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			var dishes iter.Seq[*domain.Dish]
			switch {
			case category != "":
				c, err := a.catalog.CreateCategory(category)
				if err != nil {
					return err
				}
				if dishes, err = a.catalog.DishesInCategory(c, service.ByName); err != nil {
					return err
				}
			case allergen != "":
				al, err := a.catalog.CreateAllergen(allergen)
				if err != nil {
					return err
				}
				if dishes, err = a.catalog.DishesWithAllergen(al, service.ByName); err != nil {
					return err
				}
			default:
				dishes = a.catalog.FindDishes(nil, service.ByName)
			}

			out := cmd.OutOrStdout()
			for d := range dishes {
				if ingredient != "" && !hasIngredient(d, ingredient) {
					continue
				}
				fmt.Fprintln(out, d.String())
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only dishes in this category")
	cmd.Flags().StringVar(&allergen, "allergen", "", "only dishes containing this allergen")
	cmd.Flags().StringVar(&ingredient, "ingredient", "", "only dishes using this ingredient")
	return cmd
}

func hasIngredient(d *domain.Dish, ingredient string) bool {
	for _, i := range d.Ingredients() {
		if strings.EqualFold(i, ingredient) {
			return true
		}
	}
	return false
}

func newQRCodesCmd(setup func(context.Context) (*app, error)) *cobra.Command {
	var outDir string

	cmd := &cobra.Command{
		Use:   "qrcodes",
		Short: "Write one PNG QR code per menu",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := setup(cmd.Context())
			if err != nil {
				return err
			}
			defer a.Close()

			if err := os.MkdirAll(outDir, 0755); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
			gen := service.DefaultQRGenerator{BaseURL: a.cfg.QR.BaseURL, Size: a.cfg.QR.Size}
			for name, entry := range a.catalog.Menus() {
				png, err := a.catalog.MenuQRCode(entry.Menu(), gen)
				if err != nil {
					return err
				}
				path := filepath.Join(outDir, "menu_"+sanitize(name)+".png")
				if err := os.WriteFile(path, png, 0644); err != nil {
					return fmt.Errorf("failed to save qr code: %w", err)
				}
				fmt.Fprintln(cmd.OutOrStdout(), path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&outDir, "out", "./qrcodes", "output directory")
	return cmd
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '_'
	}, name)
}
