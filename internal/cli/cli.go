// Package cli provides the gmhelper command-line interface.
package cli

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/gmhelper/gmhelper/internal/config"
	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/host"
	"github.com/gmhelper/gmhelper/internal/output"
	"github.com/gmhelper/gmhelper/internal/pipeline"
	"github.com/gmhelper/gmhelper/internal/project"
)

// Version is set at build time.
var Version = "dev"

// GlobalOptions holds the flags shared by every command.
type GlobalOptions struct {
	Config   string
	EnvFile  string
	Aseprite string
	Quiet    bool
	Verbose  bool
	NoColor  bool
}

// app carries the streams and options of one invocation.
type app struct {
	opts GlobalOptions

	// out writes regular output to stdout and errors to stderr; diag writes
	// everything to stderr.
	out  *output.Writer
	diag *output.Writer

	stdout io.Writer
	stderr io.Writer
}

// newSession creates the host session for a command. Tests replace it.
var newSession = func(a *app, bin string) host.Session {
	s := host.NewAseprite(bin)
	s.SetOutput(a.stdout, a.stderr)
	s.SetVerbose(a.diag.Verbose())
	return s
}

// newRunner creates the exporter runner used by process and watch. Tests
// replace it.
var newRunner = func(args []string) (pipeline.Runner, error) {
	return pipeline.NewSelfRunner(args...)
}

// Run executes the CLI with the given arguments and returns an exit code.
func Run(args []string) int {
	a := &app{
		out:    output.New(),
		diag:   output.Diagnostics(),
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	return a.run(args)
}

func (a *app) run(args []string) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	err := root.Execute()
	if err == nil {
		return errors.ExitSuccess
	}
	a.out.ErrorPrefix("%v", err)
	return errors.GetExitCode(err)
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gmhelper",
		Short: "Export Aseprite tags as GameMaker sprites",
		Long: `gmhelper exports every tag of an Aseprite file as its own sprite sheet,
splits the sheets into frames and can import them straight into a GameMaker
project, once or whenever the file is saved.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			for _, w := range []*output.Writer{a.out, a.diag} {
				w.SetQuiet(a.opts.Quiet)
				w.SetVerbose(a.opts.Verbose)
				if a.opts.NoColor {
					w.SetColor(false)
				}
			}
			return config.LoadEnvFile(a.opts.EnvFile)
		},
	}
	root.SetVersionTemplate("gmhelper {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return errors.Config(err.Error())
	})

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.Config, "config", "", "config file (default: .gmhelper/config.yaml above the working directory)")
	flags.StringVar(&a.opts.EnvFile, "env-file", "", "dotenv file to load (default: $GMHELPER_ENV_FILE or .env)")
	flags.StringVar(&a.opts.Aseprite, "aseprite", "", "aseprite executable")
	flags.BoolVarP(&a.opts.Quiet, "quiet", "q", false, "minimal output (errors only)")
	flags.BoolVarP(&a.opts.Verbose, "verbose", "v", false, "maximum detail")
	flags.BoolVar(&a.opts.NoColor, "no-color", false, "disable colored output")
	root.MarkFlagsMutuallyExclusive("quiet", "verbose")

	root.AddCommand(
		a.initCmd(),
		a.exportCmd(),
		a.listCmd(),
		a.processCmd(),
		a.watchCmd(),
		a.configCmd(),
		a.versionCmd(),
	)
	return root
}

// loadProject resolves the configuration and applies command-line
// overrides. Warnings go to w.
func (a *app) loadProject(w *output.Writer) (*project.Project, error) {
	proj, err := project.Load(a.opts.Config)
	if err != nil {
		return nil, err
	}
	for _, warning := range proj.Warnings {
		w.Warning("%s", warning)
	}
	if a.opts.Aseprite != "" {
		proj.Config.Aseprite.Path = a.opts.Aseprite
	}
	w.Debug("config: %s", config.Describe(proj.Config))
	return proj, nil
}

// withTimeout bounds ctx by the configured host timeout.
func withTimeout(ctx context.Context, cfg *config.Config) (context.Context, context.CancelFunc) {
	if d := cfg.Aseprite.Timeout.Std(); d > 0 {
		return context.WithTimeout(ctx, d)
	}
	return context.WithCancel(ctx)
}

// timeoutError replaces a deadline error with one naming the setting.
func timeoutError(ctx context.Context, err error, timeout time.Duration) error {
	if err != nil && ctx.Err() == context.DeadlineExceeded {
		return errors.Newf("aseprite did not finish within %s (aseprite.timeout): %v", timeout, err)
	}
	return err
}

// configArgs wraps a cobra argument validator so misuse exits with the
// configuration error code.
func configArgs(fn cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := fn(cmd, args); err != nil {
			return errors.Config(err.Error())
		}
		return nil
	}
}
