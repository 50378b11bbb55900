package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gmhelper/gmhelper/internal/config"
)

func (a *app) configCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(a.configValidateCmd(), a.configShowCmd())
	return cmd
}

func (a *app) configValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration",
		Args:  configArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := a.loadProject(a.out)
			if err != nil {
				return err
			}
			cfg := proj.Config

			source := proj.ConfigFile
			if source == "" {
				source = "(defaults)"
			}

			a.out.ValidationSuccess("Configuration is valid.")
			a.out.Section("Summary")
			a.out.SummaryItem("Config", source)
			a.out.SummaryItem("Aseprite", cfg.Aseprite.Path)
			a.out.SummaryItem("On error", cfg.Export.OnError)
			a.out.SummaryItem("Split", fmt.Sprintf("%t", cfg.SplitEnabled()))
			if cfg.GameMaker.Project != "" {
				a.out.SummaryItem("Project", cfg.GameMaker.Project)
			}
			if len(proj.Warnings) > 0 {
				a.out.SummaryItem("Warnings", fmt.Sprintf("%d", len(proj.Warnings)))
			}
			return nil
		},
	}
}

func (a *app) configShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration as YAML",
		Args:  configArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := a.loadProject(a.diag)
			if err != nil {
				return err
			}
			data, err := config.Marshal(proj.Config)
			if err != nil {
				return err
			}
			a.out.Print("%s", data)
			return nil
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  configArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.out.Println("gmhelper %s", Version)
			return nil
		},
	}
}
