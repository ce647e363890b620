package cli

import (
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
	"github.com/thesavant42/ghfinder/internal/config"
	"github.com/thesavant42/ghfinder/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show the effective configuration",
	Long: `Print the configuration after the config file, environment and flags
have been applied. With --save it is written to the config file.`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

var configSave bool

func init() {
	configCmd.Flags().BoolVar(&configSave, "save", false, "Write the effective configuration to the config file")
}

func runConfig(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if configSave {
		path := configPath
		if path == "" {
			path = config.DefaultPath()
		}
		if path == "" {
			return fmt.Errorf("no config directory available, pass --config")
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		ui.PrintSuccess("Saved " + path)
		return nil
	}

	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), string(data))
	return nil
}
