package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/YuDongZhang/InterviewQuestion/application/gateway"
	"github.com/YuDongZhang/InterviewQuestion/application/ports"
	"github.com/YuDongZhang/InterviewQuestion/application/services"
	"github.com/YuDongZhang/InterviewQuestion/domain/core/valueobjects"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/config"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/persistence"
	"github.com/YuDongZhang/InterviewQuestion/infrastructure/seed"
)

// errSaveFailed is returned when a write queued by the command did not land.
var errSaveFailed = errors.New(gateway.SaveFailedMessage)

// cli carries the flags and the wired services of one invocation.
type cli struct {
	out    io.Writer
	errOut io.Writer

	storeDriver string
	dataDir     string
	remoteURL   string
	yes         bool
	verbose     bool

	logger  *zap.Logger
	backend *persistence.Backend
	gw      *gateway.Gateway
	repo    *services.RepositoryService
	failed  *failureLog
	confirm ports.Confirmer
}

// newRootCmd builds the command tree. A nil confirm asks on the terminal
// unless --yes is passed.
func newRootCmd(out, errOut io.Writer, confirm ports.Confirmer) *cobra.Command {
	c := &cli{out: out, errOut: errOut, confirm: confirm}

	root := &cobra.Command{
		Use:   "qbank",
		Short: "Edit the interview question bank from the terminal",
		Long: `qbank reads and edits the question and knowledge datasets
through the same repository the web editor uses.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.open(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.close()
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&c.storeDriver, "store", config.DriverFile, "store driver (file, sqlite, badger, s3, dynamodb, remote)")
	flags.StringVar(&c.dataDir, "data-dir", "data", "directory of the file store")
	flags.StringVar(&c.remoteURL, "remote", "", "base URL of a running qbank server; implies --store=remote")
	flags.BoolVarP(&c.yes, "yes", "y", false, "answer yes to every confirmation")
	flags.BoolVarP(&c.verbose, "verbose", "v", false, "log store activity to stderr")

	root.AddCommand(
		c.datasetsCmd(),
		c.listCmd(),
		c.addCmd(),
		c.insertCmd(),
		c.updateCmd(),
		c.deleteCmd(),
		c.batchDeleteCmd(),
		c.exportCmd(),
		c.importCmd(),
	)
	return root
}

func (c *cli) open(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg := config.Default()
	cfg.StoreDriver = c.storeDriver
	cfg.DataDir = c.dataDir
	if c.remoteURL != "" {
		cfg.StoreDriver = config.DriverRemote
		cfg.RemoteURL = c.remoteURL
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level := zapcore.WarnLevel
	if c.verbose {
		level = zapcore.DebugLevel
	}
	c.logger = zap.New(zapcore.NewCore(
		zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
		zapcore.AddSync(c.errOut),
		level,
	))

	backend, err := persistence.Open(ctx, cfg, c.logger)
	if err != nil {
		return fmt.Errorf("open %s store: %w", cfg.StoreDriver, err)
	}
	c.backend = backend

	c.failed = &failureLog{out: c.errOut}
	c.gw = gateway.New(backend.Store, c.failed, nil, nil, c.logger, gateway.Config{
		WriteTimeout: cfg.WriteTimeout,
		QueueSize:    cfg.QueueSize,
	})
	c.repo = services.NewRepositoryService(services.NewStore(), backend.Store, seed.New(), c.gw, nil, nil, c.logger)
	if c.confirm == nil {
		c.confirm = newConfirmer(c.yes)
	}
	return c.repo.Bootstrap(ctx)
}

// close drains the queued writes so a command only returns once its edit
// reached the store.
func (c *cli) close() error {
	var errs []error
	if c.gw != nil {
		ctx, cancel := context.WithTimeout(context.Background(), config.Default().ShutdownTimeout)
		defer cancel()
		errs = append(errs, c.gw.Close(ctx))
	}
	if c.backend != nil {
		errs = append(errs, c.backend.Close())
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
	if c.failed != nil && c.failed.count() > 0 {
		errs = append(errs, errSaveFailed)
	}
	return errors.Join(errs...)
}

// target resolves the dataset and category arguments.
func (c *cli) target(dataset, category string) (services.Target, error) {
	d, err := valueobjects.ParseDataset(dataset)
	if err != nil {
		return services.Target{}, err
	}
	t := services.Target{Dataset: d, Category: valueobjects.CategoryKey(category)}
	return t, t.Validate()
}

// parseIndex parses a record index that must be at least lowest.
func parseIndex(s string, lowest int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil || i < lowest {
		return 0, fmt.Errorf("invalid index %q", s)
	}
	return i, nil
}

// failureLog reports failed writes on stderr.
type failureLog struct {
	out io.Writer
	mu  sync.Mutex
	n   int
}

func (f *failureLog) Notify(_ context.Context, dataset valueobjects.DatasetName, message string, cause error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	fmt.Fprintf(f.out, "%s [%s]: %v\n", message, dataset, cause)
}

func (f *failureLog) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.n
}
