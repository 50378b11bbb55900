package cli

import (
	"github.com/spf13/cobra"

	"github.com/gmhelper/gmhelper/internal/export"
	"github.com/gmhelper/gmhelper/internal/report"
)

func (a *app) exportCmd() *cobra.Command {
	var filePath, outputDir, onError string

	cmd := &cobra.Command{
		Use:   "export --filepath <file> [--outputdir <dir>]",
		Short: "Export every tag of an Aseprite file as a sprite sheet",
		Long: `Export writes one horizontal sprite sheet per tag, named
s<File><Tag>.png, and reports each one on stderr as a line

  JSON_EXPORT:{"path":...,"width":...,"height":...,"frame_count":...,"tag_name":...}

Stdout carries only the host's own output. Other diagnostics also go to
stderr.`,
		Args: configArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := a.loadProject(a.diag)
			if err != nil {
				return err
			}
			cfg := proj.Config

			if onError == "" {
				onError = cfg.Export.OnError
			}
			policy, err := export.ParsePolicy(onError)
			if err != nil {
				return err
			}
			if outputDir == "" {
				outputDir = proj.Path(cfg.Export.OutputDir)
			}

			d := &export.Driver{
				Session:     newSession(a, cfg.Aseprite.Path),
				Reporter:    report.NewWithWriter(a.stderr),
				Diagnostics: a.diag,
				Policy:      policy,
			}

			ctx, cancel := withTimeout(cmd.Context(), cfg)
			defer cancel()
			results, err := d.ExportAll(ctx, filePath, outputDir)
			a.diag.Debug("exported %d sheet(s) from %s", len(results), filePath)
			return timeoutError(ctx, err, cfg.Aseprite.Timeout.Std())
		},
	}

	cmd.Flags().StringVar(&filePath, "filepath", "", "Aseprite file to export")
	cmd.Flags().StringVar(&outputDir, "outputdir", "", "directory for the sheets (default: next to the file)")
	cmd.Flags().StringVar(&onError, "on-error", "", "what a failed tag does: abort or continue (default from config)")
	return cmd
}

func (a *app) listCmd() *cobra.Command {
	var filePath string

	cmd := &cobra.Command{
		Use:   "list [--filepath <file>]",
		Short: "List the tags of an Aseprite file",
		Args:  configArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := a.loadProject(a.out)
			if err != nil {
				return err
			}
			cfg := proj.Config

			ctx, cancel := withTimeout(cmd.Context(), cfg)
			defer cancel()
			err = export.List(ctx, newSession(a, cfg.Aseprite.Path), filePath, a.out.Out())
			return timeoutError(ctx, err, cfg.Aseprite.Timeout.Std())
		},
	}

	cmd.Flags().StringVar(&filePath, "filepath", "", "Aseprite file (default: the open sprite)")
	return cmd
}
