package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/marcus-qen/a1bridge/internal/a1"
	"github.com/marcus-qen/a1bridge/internal/bridge"
	"github.com/marcus-qen/a1bridge/internal/config"
	"github.com/marcus-qen/a1bridge/internal/logging"
)

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

const rootExample = `# List policy types of the only configured RIC
a1ctl --config a1bridge.toml types

# Talk to a RIC directly, without a config file
a1ctl --url https://ric.example.com policies --output yaml

# Remove every policy except two
a1ctl --ric ric1 delete-all --except policy1,policy2`

// options are the persistent flags shared by every subcommand.
type options struct {
	configPath  string
	ricID       string
	url         string
	output      string
	timeout     time.Duration
	concurrency int
	verbose     bool

	stdout io.Writer
	stderr io.Writer
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &options{stdout: stdout, stderr: stderr}

	cmd := &cobra.Command{
		Use:           "a1ctl",
		Short:         "Manage A1 policies on Near-RT RICs",
		Long:          "a1ctl lists, creates and removes A1 policies on a RIC, either directly or through an SDNC controller.",
		Example:       rootExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.output = strings.ToLower(opts.output)
			switch opts.output {
			case formatText, formatJSON, formatYAML:
				return nil
			default:
				return fmt.Errorf("invalid output format: %s (must be 'text', 'json' or 'yaml')", opts.output)
			}
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.PersistentFlags()
	flags.StringVarP(&opts.configPath, "config", "c", "", "path to the TOML configuration file")
	flags.StringVar(&opts.ricID, "ric", "", "id of the configured RIC to use (default: the only one configured)")
	flags.StringVar(&opts.url, "url", "", "base URL of a RIC to call directly, bypassing the configuration")
	flags.StringVarP(&opts.output, "output", "o", formatText, "output format (text, json or yaml)")
	flags.DurationVar(&opts.timeout, "timeout", 0, "request timeout (default: from configuration)")
	flags.IntVar(&opts.concurrency, "concurrency", 0, "requests in flight per RIC for enumerate and delete-all")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "log southbound requests to stderr")

	cmd.AddCommand(
		newTypesCmd(opts),
		newSchemaCmd(opts),
		newPoliciesCmd(opts),
		newPutCmd(opts),
		newDeleteCmd(opts),
		newDeleteAllCmd(opts),
		newStatusCmd(opts),
		newVersionCmd(opts),
		newRicsCmd(opts),
		newCheckCmd(opts),
	)
	return cmd
}

func (o *options) logger() *zap.Logger {
	level := zapcore.WarnLevel
	if o.verbose {
		level = zapcore.DebugLevel
	}
	return logging.NewWriter(o.stderr, level)
}

func (o *options) loadConfig() (*config.Config, error) {
	if o.url != "" && o.configPath == "" {
		cfg := config.Default()
		cfg.Rics = []config.RicConfig{{ID: "direct", BaseURL: o.url, Adapter: a1.AdapterMediator}}
		return cfg, nil
	}
	return config.Load(o.configPath)
}

func (o *options) builder(cfg *config.Config) *bridge.Builder {
	httpCfg := cfg.HTTP
	if o.timeout > 0 {
		httpCfg.Timeout = o.timeout
	}
	return bridge.NewBuilder(httpCfg, o.logger())
}

// client resolves the RIC selected by the flags and builds its client.
func (o *options) client() (a1.Client, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}

	ric, err := o.selectRic(cfg)
	if err != nil {
		return nil, err
	}
	if o.concurrency > 0 {
		ric.Concurrency = o.concurrency
	}

	built, err := o.builder(cfg).Build(ric)
	if err != nil {
		return nil, err
	}
	return built.Client, nil
}

func (o *options) selectRic(cfg *config.Config) (config.RicConfig, error) {
	if o.ricID != "" {
		ric, ok := cfg.Ric(o.ricID)
		if !ok {
			return config.RicConfig{}, fmt.Errorf("ric %q is not configured", o.ricID)
		}
		return ric, nil
	}
	switch len(cfg.Rics) {
	case 0:
		return config.RicConfig{}, fmt.Errorf("no rics configured; pass --config or --url")
	case 1:
		return cfg.Rics[0], nil
	default:
		return config.RicConfig{}, fmt.Errorf("%d rics configured; choose one with --ric", len(cfg.Rics))
	}
}

func (o *options) printer() *printer {
	return &printer{out: o.stdout, format: o.output}
}
