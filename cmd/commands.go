package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"huangdou/internal/autostart"
	"huangdou/internal/config"
)

// loginAgent locates the LaunchAgent for this executable.
var loginAgent = autostart.Default

func makeLoginItemCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login-item",
		Short: "Manage starting at login",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "enable",
		Short: "Start the agent at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loginAgent()
			if err != nil {
				return err
			}
			if err := a.Enable(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Login item enabled: %s\n", a.Path())
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "disable",
		Short: "Stop starting the agent at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loginAgent()
			if err != nil {
				return err
			}
			if err := a.Disable(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Login item disabled")
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "status",
		Short: "Show whether the agent starts at login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := loginAgent()
			if err != nil {
				return err
			}
			state := "disabled"
			if a.IsEnabled() {
				state = "enabled"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Login item %s (%s)\n", state, a.Path())
			return nil
		},
	})

	return cmd
}

func makeConfigCommand(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change preferences",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(opts.cfgMgr.Get(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "# %s\n", opts.cfgMgr.Path())
			fmt.Fprintln(out, string(data))
			return nil
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one preference",
		Long: `Change one preference and save it.

Keys:
  shortcutTag         1-4 or left-command, right-command, left-option, right-option
  coldStartDelay      seconds before Enter on the first recording (0.1-10)
  normalDelay         seconds before Enter on later recordings (0.1-10)
  longPressThreshold  hold time that starts recording (0.1-10)
  logLevel            debug, info, warn, error
  logFormat           console, json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return setConfigValue(opts.cfgMgr, args[0], args[1])
		},
	})

	return cmd
}

func setConfigValue(cfgMgr *config.Manager, key, value string) error {
	cfg := cfgMgr.Get()
	if err := cfg.SetValue(key, value); err != nil {
		return err
	}
	cfgMgr.Set(cfg)
	return cfgMgr.Save()
}
