package cli

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/internal/config"
	"github.com/goliatone/go-schemaform/internal/prompt"
)

// ErrInvalid is returned by commands whose input failed validation. The
// report has already been written when it is returned.
var ErrInvalid = errors.New("cli: values failed validation")

type app struct {
	configPath string
	verbose    bool
	output     string

	cfg    config.Config
	logger *zap.Logger
	driver prompt.Driver
}

// Option customizes the command tree, mainly for tests.
type Option func(*app)

// WithLogger injects a logger instead of the one built from --verbose.
func WithLogger(logger *zap.Logger) Option {
	return func(a *app) {
		a.logger = logger
	}
}

// WithPromptDriver replaces the survey driver used by the fill command.
func WithPromptDriver(driver prompt.Driver) Option {
	return func(a *app) {
		a.driver = driver
	}
}

// NewRootCmd builds the schemaform command tree.
func NewRootCmd(options ...Option) *cobra.Command {
	a := &app{}
	for _, opt := range options {
		if opt != nil {
			opt(a)
		}
	}

	root := &cobra.Command{
		Use:   "schemaform",
		Short: "Turn agent configuration schemas into validated forms",
		Long: `schemaform parses the JSON Schema that describes an agent's configuration,
lists the resulting form fields, validates submitted values and can fill a
configuration interactively.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.configPath, "config", "", "config file (default is ./schemaform.yaml or $HOME/.schemaform/schemaform.yaml)")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable debug logging")
	flags.StringVarP(&a.output, "output", "o", "", "output format: json or yaml (overrides config)")

	root.AddCommand(
		newFieldsCmd(a),
		newValidateCmd(a),
		newFillCmd(a),
		newOpenAPICmd(a),
		newConfigCmd(a),
	)
	return root
}

// Execute runs the command tree against ctx.
func Execute(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer, options ...Option) error {
	root := NewRootCmd(options...)
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(ctx)
}

func (a *app) init() error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	if a.output != "" {
		cfg.Output = a.output
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	a.cfg = cfg

	if a.logger == nil {
		logger, err := newLogger(a.verbose)
		if err != nil {
			return fmt.Errorf("cli: init logger: %w", err)
		}
		a.logger = logger
	}
	a.logger.Debug("configuration loaded",
		zap.String("config", a.configPath),
		zap.Strings("deny_list", cfg.DenyList),
		zap.Int("max_ref_depth", cfg.MaxRefDepth),
		zap.Bool("allow_http", cfg.AllowHTTP),
		zap.String("output", cfg.Output),
	)
	return nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	logConfig := zap.NewDevelopmentConfig()
	logConfig.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	if verbose {
		logConfig.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	return logConfig.Build()
}
