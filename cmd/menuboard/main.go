package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"menuboard/internal/catalog"
	"menuboard/internal/config"
	"menuboard/internal/logging"
	"menuboard/internal/menu"
	"menuboard/internal/server"
	"menuboard/internal/storage"
)

var (
	verbose bool
	cfg     config.Config
	logger  *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:           "menuboard",
	Short:         "Fetch, shape and serve a restaurant menu",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load()
		if err != nil {
			return err
		}
		logger, err = logging.New(cfg.LogLevel, verbose)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

var fetchCmd = &cobra.Command{
	Use:   "menu:fetch",
	Short: "Fetch the menu and print it as ordered categories",
	RunE: func(cmd *cobra.Command, args []string) error {
		menus := newMenuService()
		m, err := menus.Refresh(cmd.Context())
		if err != nil {
			return err
		}
		if inStock, _ := cmd.Flags().GetBool("in-stock"); inStock {
			m = m.InStock()
		}
		if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(m.Categories())
		}
		for _, c := range m.Categories() {
			fmt.Fprintf(cmd.OutOrStdout(), "%s (%d)\n", c.Name, len(c.Items))
			for _, item := range c.Items {
				fmt.Fprintf(cmd.OutOrStdout(), "  %-6s %-40s %10.2f  stock=%d\n", item.ID, item.Name, item.Price, item.Stock)
			}
		}
		return nil
	},
}

var syncCmd = &cobra.Command{
	Use:   "menu:sync",
	Short: "Fetch the menu and record the run and snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		svc := catalog.NewSyncService(db, newMenuService(), logger)
		res, err := svc.Sync(cmd.Context())
		if err != nil {
			return fmt.Errorf("sync %s: %w", res.TraceID, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "sync complete trace=%s categories=%d items=%d\n",
			res.TraceID, len(res.Menu.CategoryNames()), res.Menu.ItemCount())
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "menu:history",
	Short: "List recent sync runs",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		lastSync, err := db.GetMetadata(catalog.LastSyncKey)
		if err != nil {
			return err
		}
		if lastSync != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "last successful sync: %s\n", *lastSync)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "last successful sync: never")
		}

		runs, err := db.ListRuns(limit)
		if err != nil {
			return err
		}
		for _, r := range runs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %-6s %s items=%d categories=%d %dms %s\n",
				r.CreatedAt, r.Status, r.TraceID, r.ItemCount, r.CategoryCount, r.DurationMs, r.Error)
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export:xlsx",
	Short: "Export the latest stored menu snapshot to XLSX",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = filepath.Join(cfg.OutputDir, "menu-"+time.Now().Format("20060102-150405")+".xlsx")
		}
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		run, categories, ok, err := db.LatestSnapshot()
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("no successful sync stored in %s; run menu:sync first", cfg.DBPath)
		}
		if inStock, _ := cmd.Flags().GetBool("in-stock"); inStock {
			categories = menu.FromCategories(categories).InStock().Categories()
		}
		if err := menu.ExportCategoriesToXLSX(categories, out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "exported run=%s categories=%d to %s\n", run.TraceID, len(categories), out)
		return nil
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the menu over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := storage.Open(cfg.DBPath)
		if err != nil {
			return err
		}
		defer db.Close()

		menus := newMenuService()
		syncer := catalog.NewSyncService(db, menus, logger)
		if _, err := syncer.Sync(cmd.Context()); err != nil {
			logger.Warn("initial menu sync failed", zap.Error(err))
		}

		router := server.NewRouter(cfg, server.NewHandler(menus, syncer, cfg.HideOutOfStock, logger))
		logger.Info("menu api listening", zap.String("addr", cfg.ListenAddr))
		return router.Run(cfg.ListenAddr)
	},
}

func newMenuService() *menu.Service {
	return menu.NewService(catalog.NewClient(cfg, logger), menu.NewBuilderFromConfig(cfg), logger)
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	fetchCmd.Flags().Bool("json", false, "print categories as JSON")
	fetchCmd.Flags().Bool("in-stock", false, "only items with stock")
	historyCmd.Flags().Int("limit", 20, "number of runs to list")
	exportCmd.Flags().String("out", "", "output xlsx path")
	exportCmd.Flags().Bool("in-stock", false, "only items with stock")

	rootCmd.AddCommand(fetchCmd, syncCmd, historyCmd, exportCmd, serveCmd)
}

func main() {
	must(rootCmd.ExecuteContext(context.Background()))
}

func must(err error) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
