package main

import (
	"github.com/spf13/cobra"

	contentstore "github.com/cloudevolvers/go-contentstore"
)

func newSettingsCommand(a *app) *cobra.Command {
	settings := &cobra.Command{
		Use:   "settings",
		Short: "Manage the homepage settings",
	}
	settings.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the homepage settings as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := a.module()
			if err != nil {
				return err
			}
			defer module.Close()

			home, err := module.Settings().Get(cmd.Context(), a.cfg.DefaultLanguage)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), home)
		},
	})
	settings.AddCommand(&cobra.Command{
		Use:   "reset",
		Short: "Restore the default homepage settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			module, err := a.module()
			if err != nil {
				return err
			}
			defer module.Close()

			var saved *contentstore.Homepage
			err = module.ResetHomepage(cmd.Context(), contentstore.ResetHomepageCommand{
				Report: func(home *contentstore.Homepage) { saved = home },
			})
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), saved)
		},
	})
	return settings
}
