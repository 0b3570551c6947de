package main

import (
	"fmt"

	"github.com/spf13/cobra"

	contentstore "github.com/cloudevolvers/go-contentstore"
)

var (
	configLoader  = contentstore.LoadConfig
	moduleBuilder = func(cfg contentstore.Config) (*contentstore.Module, error) {
		return contentstore.New(cfg)
	}
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	configFile string
	envFiles   []string
	cfg        contentstore.Config
}

func newRootCommand() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "contentstore",
		Short: "Multilingual content store for posts, services, showcase items and homepage settings",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := configLoader(contentstore.LoadOptions{
				ConfigFile: a.configFile,
				EnvFiles:   a.envFiles,
			})
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&a.configFile, "config", "", "config file (yaml, json or toml)")
	root.PersistentFlags().StringSliceVar(&a.envFiles, "env-file", nil, "dotenv files loaded before the environment is read (default .env)")

	root.AddCommand(
		newServeCommand(a),
		newListCommand(a),
		newImportCommand(a),
		newSettingsCommand(a),
	)
	return root
}

// module builds the content store from the loaded config. Subcommands call
// it after applying their own flag overrides.
func (a *app) module() (*contentstore.Module, error) {
	module, err := moduleBuilder(a.cfg)
	if err != nil {
		return nil, fmt.Errorf("bootstrap module: %w", err)
	}
	return module, nil
}
