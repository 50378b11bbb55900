package cli

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gmhelper/gmhelper/internal/errors"
	"github.com/gmhelper/gmhelper/internal/gamemaker"
	"github.com/gmhelper/gmhelper/internal/pipeline"
	"github.com/gmhelper/gmhelper/internal/project"
	"github.com/gmhelper/gmhelper/internal/watch"
)

func (a *app) processCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "process <file>",
		Short: "Export, split and import one Aseprite file",
		Args:  configArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := a.loadProject(a.out)
			if err != nil {
				return err
			}
			p, err := a.pipeline(proj)
			if err != nil {
				return err
			}

			_, err = p.Process(cmd.Context(), args[0])
			if err == nil {
				a.out.Success("Done.")
			}
			return err
		},
	}
}

func (a *app) watchCmd() *cobra.Command {
	var dir string
	var start bool

	cmd := &cobra.Command{
		Use:   "watch [--directory <dir>] [--start]",
		Short: "Process Aseprite files whenever they are saved",
		Args:  configArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := a.loadProject(a.out)
			if err != nil {
				return err
			}
			cfg := proj.Config
			if dir != "" {
				if cfg.Watch.Directory, err = filepath.Abs(dir); err != nil {
					return err
				}
			}
			cfg.Watch.Directory = proj.Path(cfg.Watch.Directory)

			p, err := a.pipeline(proj)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			w := watch.New(watch.Options{
				Directory:  cfg.Watch.Directory,
				Extensions: cfg.Watch.Extensions,
				Debounce:   cfg.Watch.Debounce.Std(),
				Start:      start,
			}, func(ctx context.Context, path string) error {
				_, err := p.Process(ctx, path)
				return err
			}, a.out)
			return w.Run(ctx)
		},
	}

	cmd.Flags().StringVarP(&dir, "directory", "d", "", "directory to watch (default from config)")
	cmd.Flags().BoolVar(&start, "start", false, "process existing files before watching")
	return cmd
}

// pipeline builds the pipeline for proj. The exporter is re-run with this
// invocation's global flags.
func (a *app) pipeline(proj *project.Project) (*pipeline.Pipeline, error) {
	cfg := proj.Config

	runner, err := newRunner(a.forwardedArgs(proj))
	if err != nil {
		return nil, err
	}

	opts := pipeline.Options{
		OutputDir:  proj.Path(cfg.Export.OutputDir),
		Split:      cfg.SplitEnabled(),
		GIFDelay:   cfg.Split.GIFDelay,
		FolderRoot: cfg.GameMaker.FolderRoot,
		WatchDir:   proj.Path(cfg.Watch.Directory),
	}
	if cfg.GameMaker.Project != "" {
		yyp, err := gamemaker.FindProject(proj.Path(cfg.GameMaker.Project))
		if err != nil {
			return nil, errors.Configf("gamemaker.project: %v", err)
		}
		opts.Project = yyp
		a.out.Debug("importing into %s", yyp)
	}
	return pipeline.New(runner, a.out, opts), nil
}

// forwardedArgs are the global flags the exporter child process needs.
func (a *app) forwardedArgs(proj *project.Project) []string {
	var args []string
	if proj.ConfigFile != "" {
		args = append(args, "--config", proj.ConfigFile)
	}
	if a.opts.EnvFile != "" {
		args = append(args, "--env-file", a.opts.EnvFile)
	}
	if a.opts.Aseprite != "" {
		args = append(args, "--aseprite", a.opts.Aseprite)
	}
	if a.opts.Verbose {
		args = append(args, "--verbose")
	}
	return args
}
