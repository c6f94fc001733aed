package main

import (
	"fmt"

	"github.com/matsen/codebrain/internal/config"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(configCmd)
}

var configCmd = &cobra.Command{
	Use:   "config [key]",
	Short: "Show the resolved settings",
	Long: `Show the settings in effect after the settings file and CB_* environment
variables are applied, along with the resolved database path and the number
of stored notes. The settings file is created with defaults on first use.

Keys:
  db_file     - Path to the notes database
  code_theme  - Rendering theme ("plain" disables colors)

Examples:
  cb config
  cb config db_file`,
	Args: cobra.MaximumNArgs(1),
	RunE: runConfig,
}

func runConfig(cmd *cobra.Command, args []string) error {
	if len(args) > 0 {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		key := args[0]
		v := cfg.Get(key, "")
		if v == "" {
			return exitErrorf(ExitError, "unknown config key: %s\n\nValid keys: %s, %s", key, config.KeyDBFile, config.KeyCodeTheme)
		}
		if jsonOutput {
			return outputJSON(map[string]string{key: v})
		}
		fmt.Println(v)
		return nil
	}

	path, err := config.SettingsPath()
	if err != nil {
		return exitErrorf(ExitConfigError, "locating config: %v", err)
	}

	cfg, store, err := setup()
	if err != nil {
		return err
	}
	defer store.Close()

	count, err := store.Count()
	if err != nil {
		return exitErrorf(ExitError, "counting notes: %v", err)
	}

	resp := ConfigResponse{Path: path, DBFile: store.Path(), CodeTheme: cfg.CodeTheme, Notes: count}
	if jsonOutput {
		return outputJSON(resp)
	}
	fmt.Printf("%-12s %s\n", "settings:", resp.Path)
	fmt.Printf("%-12s %s\n", config.KeyDBFile+":", resp.DBFile)
	fmt.Printf("%-12s %s\n", config.KeyCodeTheme+":", resp.CodeTheme)
	fmt.Printf("%-12s %d\n", "notes:", resp.Notes)
	return nil
}
