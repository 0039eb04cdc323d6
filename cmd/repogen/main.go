package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/syssam/repogen/compiler"
	"github.com/syssam/repogen/compiler/gen"
	"github.com/syssam/repogen/compiler/load"
	"github.com/syssam/repogen/compiler/verify"
	"github.com/syssam/repogen/compiler/watch"
	"github.com/syssam/repogen/internal/logger"
	"github.com/syssam/repogen/internal/progress"
)

// options holds the flag values shared by all commands.
type options struct {
	configPath string
	target     string
	pkg        string
	dialect    string
	naming     string
	plural     string
	header     string
	strict     bool
	workers    int
	verbose    bool

	log *logger.Logger
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	rootCmd := &cobra.Command{
		Use:   "repogen",
		Short: "Generate Go data-access code from CREATE TABLE statements",
		Long: `repogen reads a schema file made of CREATE TABLE statements and writes a
Repository interface, a database/sql adapter implementing it and one entity
type per table.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			opts.log = logger.New(cmd.ErrOrStderr(), opts.verbose)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "Path to a repogen.yaml configuration file")
	flags.StringVar(&opts.target, "target", "", "Output directory (default \".\")")
	flags.StringVar(&opts.pkg, "package", "", "Package name of the generated files (default: output directory name)")
	flags.StringVar(&opts.dialect, "dialect", "", "Adapter dialect: postgres or sqlite (default \"postgres\")")
	flags.StringVar(&opts.naming, "naming", "", "Entity naming: pascal or capitalize (default \"pascal\")")
	flags.StringVar(&opts.plural, "plural", "", "Get-all method naming: suffix or inflect (default \"suffix\")")
	flags.StringVar(&opts.header, "header", "", "Extra comment written below the generated-code notice")
	flags.BoolVar(&opts.strict, "strict", false, "Fail on CREATE TABLE statements that cannot be read")
	flags.IntVar(&opts.workers, "workers", 0, "Number of files written in parallel (default GOMAXPROCS)")
	flags.BoolVar(&opts.verbose, "verbose", false, "Enable verbose logging")

	rootCmd.AddCommand(newGenerateCmd(opts))
	rootCmd.AddCommand(newWatchCmd(opts))
	rootCmd.AddCommand(newVerifyCmd(opts))
	return rootCmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// config loads the configuration file, if any, and applies the flags that
// were set on the command line over it.
func (o *options) config(cmd *cobra.Command) (*gen.Config, error) {
	cfg := &gen.Config{}
	if o.configPath != "" {
		var err error
		if cfg, err = gen.LoadConfig(o.configPath); err != nil {
			return nil, fmt.Errorf("cannot load config: %w", err)
		}
	}
	flags := cmd.Flags()
	var opts []gen.Option
	if flags.Changed("target") {
		opts = append(opts, gen.WithTarget(o.target))
	}
	if flags.Changed("package") {
		opts = append(opts, gen.WithPackage(o.pkg))
	}
	if flags.Changed("dialect") {
		opts = append(opts, gen.WithDialect(o.dialect))
	}
	if flags.Changed("naming") {
		opts = append(opts, gen.WithNaming(o.naming))
	}
	if flags.Changed("plural") {
		opts = append(opts, gen.WithPlural(o.plural))
	}
	if flags.Changed("header") {
		opts = append(opts, gen.WithHeader(o.header))
	}
	if flags.Changed("strict") {
		opts = append(opts, gen.WithStrict(o.strict))
	}
	if flags.Changed("workers") {
		opts = append(opts, gen.WithWorkers(o.workers))
	}
	if err := cfg.Apply(opts...); err != nil {
		return nil, err
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (o *options) logDiagnostics(diags []load.Diagnostic) {
	for _, d := range diags {
		o.log.WithField("pos", d.Pos).Warn("skipped statement: " + d.Message)
	}
}

func (o *options) generate(ctx context.Context, schema string, cfg *gen.Config) error {
	res, err := compiler.Generate(ctx, schema, cfg)
	if res != nil {
		o.logDiagnostics(res.Diagnostics)
	}
	if err != nil {
		return err
	}
	for _, f := range res.Files {
		o.log.WithField("file", f).Debug("written")
	}
	o.log.WithFields(logrus.Fields{
		"tables":    len(res.Tables),
		"written":   res.Metrics.FilesGenerated,
		"unchanged": res.Metrics.FilesUnchanged,
		"target":    cfg.Target,
	}).Info("generation complete")
	return nil
}

func newGenerateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "generate <schema.sql>",
		Short: "Generate the repository, adapter and entity files",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			return o.generate(cmd.Context(), args[0], cfg)
		},
	}
}

func newWatchCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <schema.sql>",
		Short: "Regenerate whenever the schema file changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			o.log.WithField("schema", args[0]).Info("watching for changes")
			return watch.Run(cmd.Context(), args[0], func(ctx context.Context) error {
				return o.generate(ctx, args[0], cfg)
			}, watch.Options{
				OnError: func(err error) {
					o.log.WithError(err).Error("generation failed")
				},
			})
		},
	}
}

func newVerifyCmd(o *options) *cobra.Command {
	var (
		driver      string
		dsn         string
		showBar     bool
		shadowTable bool
	)
	cmd := &cobra.Command{
		Use:   "verify <schema.sql>",
		Short: "Run the generated queries against a database and check the results",
		Long: `verify creates every table of the schema inside a transaction, inserts a
probe row with the generated INSERT statement and reads it back with the
generated SELECT statements. The transaction is always rolled back.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := o.config(cmd)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("driver") || cmd.Flags().Changed("dsn") {
				if err := cfg.Apply(gen.WithVerifyDB(driver, dsn)); err != nil {
					return err
				}
			}
			name := cfg.Verify.Driver
			if name == "" {
				name = cfg.Storage.Name
			}
			s, err := gen.NewStorage(name)
			if err != nil {
				return gen.NewConfigError("Verify.Driver", name, err.Error())
			}
			if s != cfg.Storage {
				return gen.NewConfigError("Verify.Driver", name, "driver does not match the "+cfg.Storage.Name+" dialect")
			}

			g, diags, err := compiler.Load(args[0], cfg)
			o.logDiagnostics(diags)
			if err != nil {
				return err
			}
			db, err := verify.Open(cmd.Context(), s.Name, cfg.Verify.DSN)
			if err != nil {
				return err
			}
			defer db.Close()

			var bar *progress.Bar
			if showBar {
				bar = progress.NewBarTo(cmd.ErrOrStderr(), int64(len(g.Nodes)), "verifying")
				defer bar.Finish()
			}
			v := verify.New(db, s,
				verify.WithShadowTables(shadowTable),
				verify.WithProgress(func(table string, err error) {
					if bar != nil {
						bar.Describe(table)
						bar.Increment()
					}
					if err != nil {
						o.log.WithTable(table).WithError(err).Error("verification failed")
						return
					}
					o.log.WithTable(table).Debug("verified")
				}),
			)
			if err := v.Run(cmd.Context(), g); err != nil {
				return err
			}
			o.log.WithField("tables", len(g.Nodes)).Info("verification complete")
			return nil
		},
	}
	cmd.Flags().StringVar(&driver, "driver", "", "Database driver: postgres or sqlite (default: the dialect)")
	cmd.Flags().StringVar(&dsn, "dsn", "", "Data source name (default for sqlite: in-memory database)")
	cmd.Flags().BoolVar(&showBar, "progress", false, "Show a progress bar")
	cmd.Flags().BoolVar(&shadowTable, "shadow", false, "Create text-only tables instead of running the CREATE TABLE statements")
	return cmd
}
