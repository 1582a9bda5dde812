package cli

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/drewdunne/cursorbridge/internal/config"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Options holds flags shared by every command.
type Options struct {
	ConfigPath string
	EnvFile    string

	configSet bool
}

// NewRootCmd builds the cursorbridge command tree.
func NewRootCmd(version string) *cobra.Command {
	opts := &Options{}

	root := &cobra.Command{
		Use:     "cursorbridge",
		Short:   "Forward triggered chat messages to Cursor as instruction files",
		Version: version,
		Long: `cursorbridge watches chat messages for a trigger keyword (default "s2cursor")
and writes the text that follows it as a JSON instruction file into a shared
bridge directory, where a watcher hands it to Cursor.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			opts.configSet = cmd.Flags().Changed("config")
			return opts.loadEnv()
		},
	}

	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "config.yaml", "Path to config file")
	root.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "Path to .env file (optional)")

	root.AddCommand(ServeCmd(opts))
	root.AddCommand(SendCmd(opts))
	root.AddCommand(PendingCmd(opts))
	root.AddCommand(VersionCmd(version))

	return root
}

// loadEnv loads the explicit env file, or the default locations when none is given.
func (o *Options) loadEnv() error {
	if o.EnvFile != "" {
		if err := godotenv.Load(o.EnvFile); err != nil {
			return fmt.Errorf("loading env file %s: %w", o.EnvFile, err)
		}
		return nil
	}

	// Missing default files are fine
	godotenv.Load(".env")
	godotenv.Load("/etc/cursorbridge/cursorbridge.env")
	return nil
}

// loadConfig reads the config file, applies environment and flag overrides and
// validates the result. When required is false and the file was not named
// explicitly, a missing file falls back to defaults.
func (o *Options) loadConfig(required bool, flags config.BridgeOverrides) (*config.Config, error) {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		if required || o.configSet || !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
		cfg = config.DefaultConfig()
	}

	env, err := config.OverridesFromEnv()
	if err != nil {
		return nil, err
	}
	cfg.Bridge = config.MergeBridge(cfg.Bridge, env.Merge(flags))

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
