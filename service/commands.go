package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"newsboard/app/models"
	"newsboard/app/repositories"
	"newsboard/app/services"

	"github.com/spf13/cobra"
)

// Execute runs the command line in args and returns the process exit code.
// SIGINT and SIGTERM cancel the running command.
func Execute(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := NewRootCommand(stdin, stdout, stderr)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}

// NewRootCommand builds the newsboard command tree.
func NewRootCommand(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	c := &cli{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:           "newsboard",
		Short:         "News site with user comments",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to a YAML config file")
	root.PersistentFlags().StringVar(&c.envFile, "env-file", "", "dotenv file to load (default .env)")

	root.AddCommand(
		c.serveCommand(),
		c.dbCommand(),
		c.newsCommand(),
		c.versionCommand(),
	)
	return root
}

func (c *cli) serveCommand() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the web server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			ln, err := net.Listen("tcp", cfg.Addr)
			if err != nil {
				return fmt.Errorf("failed to listen on %s: %w", cfg.Addr, err)
			}
			return c.runAppServer(cmd.Context(), cfg, ln)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides config)")
	return cmd
}

func (c *cli) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(c.stdout, "newsboard version %s\n", Version)
			return nil
		},
	}
}

func (c *cli) dbCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Manage the database",
	}
	cmd.AddCommand(c.initCommand(), c.cleanCommand(), c.backupCommand(), c.restoreCommand())
	return cmd
}

// initCommand creates an empty database.
func (c *cli) initCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize a new empty database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Storage.DSN); err == nil {
				fmt.Fprintln(c.stdout, "Database already exists. Use 'db clean' first if you want to reinitialize.")
				return nil
			}

			store, err := c.openStore(cfg)
			if err != nil {
				return err
			}
			if err := store.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Database initialized at %s\n", cfg.Storage.DSN)
			return nil
		},
	}
}

// cleanCommand removes the database.
func (c *cli) cleanCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Delete the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Storage.DSN); os.IsNotExist(err) {
				fmt.Fprintln(c.stdout, "Database is already clean (does not exist)")
				return nil
			}
			if !yes && !c.confirm("Are you sure you want to clean the database? This cannot be undone.") {
				fmt.Fprintln(c.stdout, "Operation cancelled")
				return nil
			}
			if err := os.RemoveAll(cfg.Storage.DSN); err != nil {
				return fmt.Errorf("failed to clean database: %w", err)
			}
			fmt.Fprintln(c.stdout, "Database cleaned successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// backupCommand writes a full backup of a badger database.
func (c *cli) backupCommand() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Create a backup of the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if _, err := os.Stat(cfg.Storage.DSN); os.IsNotExist(err) {
				return errors.New("no database exists to backup")
			}

			if out == "" {
				out = filepath.Join("data", "backups", fmt.Sprintf("backup_%d.db", time.Now().Unix()))
			}
			if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
				return fmt.Errorf("failed to create backup directory: %w", err)
			}

			store, err := c.openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create backup file: %w", err)
			}
			defer f.Close()

			if err := store.Backup(f); err != nil {
				os.Remove(out)
				return fmt.Errorf("failed to backup database: %w", err)
			}
			fmt.Fprintf(c.stdout, "Database backed up successfully to %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "backup file (default data/backups/backup_<unix>.db)")
	return cmd
}

// restoreCommand replaces the database with the contents of a backup.
func (c *cli) restoreCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "restore FILE",
		Short: "Restore the database from a backup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			backupFile := args[0]
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cfg.Storage.Type != repositories.StorageBadger {
				return fmt.Errorf("restore %s database: %w", cfg.Storage.Type, repositories.ErrUnsupported)
			}

			fi, err := os.Stat(backupFile)
			if os.IsNotExist(err) {
				return fmt.Errorf("backup file does not exist: %s", backupFile)
			}
			if err != nil {
				return err
			}
			if fi.Size() == 0 {
				return fmt.Errorf("backup file is empty: %s", backupFile)
			}

			_, statErr := os.Stat(cfg.Storage.DSN)
			exists := statErr == nil
			if exists && !yes && !c.confirm("Existing database found. Do you want to replace it?") {
				fmt.Fprintln(c.stdout, "Operation cancelled")
				return nil
			}

			// The live database is replaced only after a complete load.
			staging := cfg.Storage.DSN + ".restore"
			if err := os.RemoveAll(staging); err != nil {
				return fmt.Errorf("failed to clear %s: %w", staging, err)
			}
			if err := loadBackup(staging, backupFile); err != nil {
				os.RemoveAll(staging)
				return fmt.Errorf("failed to restore database: %w", err)
			}
			if err := swapDir(staging, cfg.Storage.DSN, exists); err != nil {
				os.RemoveAll(staging)
				return fmt.Errorf("failed to replace database: %w", err)
			}
			fmt.Fprintln(c.stdout, "Database restored successfully")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace an existing database without asking")
	return cmd
}

// loadBackup restores backupFile into a fresh badger database at dir.
func loadBackup(dir, backupFile string) (err error) {
	f, err := os.Open(backupFile)
	if err != nil {
		return fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()

	store, err := repositories.OpenBadger(dir)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); err == nil {
			err = cerr
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic occurred during restore: %v", r)
		}
	}()
	return store.Restore(f)
}

// swapDir moves src to dst. An existing dst is put back if the move fails.
func swapDir(src, dst string, exists bool) error {
	if !exists {
		return os.Rename(src, dst)
	}
	old := dst + ".old"
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	if err := os.Rename(dst, old); err != nil {
		return err
	}
	if err := os.Rename(src, dst); err != nil {
		if rerr := os.Rename(old, dst); rerr != nil {
			return errors.Join(err, rerr)
		}
		return err
	}
	return os.RemoveAll(old)
}

func (c *cli) newsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "news",
		Short: "Manage news items",
	}
	cmd.AddCommand(c.newsAddCommand(), c.newsListCommand())
	return cmd
}

// newsAddCommand publishes a news item. News are created only here; the
// site has no editor.
func (c *cli) newsAddCommand() *cobra.Command {
	var title, text, date string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Publish a news item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}

			news := &models.News{Title: title, Text: text}
			if date != "" {
				d, err := time.Parse("2006-01-02", date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD: %w", date, err)
				}
				news.Date = d
			}

			store, err := c.openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			svc := services.NewNewsService(store.News, store.Comments, cfg.NewsPerPage)
			if err := svc.CreateNews(news); err != nil {
				return err
			}
			fmt.Fprintf(c.stdout, "Created news %d: %s (%s)\n", news.ID, news.Title, news.Date.Format("2006-01-02"))
			return nil
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "headline (required)")
	cmd.Flags().StringVar(&text, "text", "", "body text (required)")
	cmd.Flags().StringVar(&date, "date", "", "publication date YYYY-MM-DD (default today)")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("text")
	return cmd
}

// newsListCommand prints the newest news items in home page order.
func (c *cli) newsListCommand() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the newest news items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if limit <= 0 {
				limit = cfg.NewsPerPage
			}

			store, err := c.openStore(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			items, err := store.News.List(limit, 0)
			if err != nil {
				return err
			}
			for _, n := range items {
				fmt.Fprintf(c.stdout, "%d\t%s\t%s\n", n.ID, n.Date.Format("2006-01-02"), n.Title)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "how many items (default news_count_on_home_page)")
	return cmd
}
