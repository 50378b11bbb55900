package cli

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/gmhelper/gmhelper/internal/config"
	"github.com/gmhelper/gmhelper/internal/fsutil"
	"github.com/gmhelper/gmhelper/internal/gamemaker"
	"github.com/gmhelper/gmhelper/internal/project"
)

func (a *app) initCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create .gmhelper/config.yaml in the current directory",
		Long: `Init writes a default configuration. A GameMaker project found in the
current directory is configured as the import target. Existing files are
left alone, so init can be run again safely.`,
		Args: configArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			cwd, err := os.Getwd()
			if err != nil {
				return err
			}
			created, err := initProject(cwd)
			if err != nil {
				return err
			}

			if len(created) == 0 {
				a.out.Info("Nothing to do: %s already exists.", filepath.Join(project.ConfigDirName, project.ConfigFileName))
				return nil
			}
			a.out.Success("Initialized gmhelper project.")
			a.out.List(created)
			a.out.Hint("Next: gmhelper watch --start")
			return nil
		},
	}
}

// initProject creates the config under root unless it exists and returns
// the created paths relative to root.
func initProject(root string) ([]string, error) {
	path := project.ConfigPath(root)
	if _, err := os.Stat(path); err == nil {
		return nil, nil
	}

	cfg := config.Default()
	if yyp, err := gamemaker.FindProject(root); err == nil {
		cfg.GameMaker.Project = filepath.Base(yyp)
	}
	data, err := config.Marshal(cfg)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	if err := fsutil.WriteFile(path, data, 0o644); err != nil {
		return nil, err
	}
	rel, _ := filepath.Rel(root, path)
	return []string{rel}, nil
}
