package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/axekit/axe/internal/assets"
	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/logging"
)

var version = "dev"

// settings holds flag values, overridable through AXE_* environment
// variables (AXE_CONFIG, AXE_VERBOSE, AXE_LOG_DIR, ...).
var settings = viper.New()

var rootCmd = &cobra.Command{
	Use:               "axe",
	Short:             "Build libraries in dependency order and drive the build pipeline",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,
	PersistentPostRun: func(cmd *cobra.Command, args []string) { logging.Close() },
}

// Execute runs the command line. An interrupt cancels the running command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.String("config", "", "path to any YAML file inside the config directory (default dir: ~/.config/axe); all *.yaml in that directory are merged")
	pf.BoolP("verbose", "v", false, "show detailed steps and commands")
	pf.String("log-dir", "", "directory for daily log files (default: <user cache dir>/axe/logs)")
	pf.Bool("no-log-file", false, "do not write a log file")
	_ = settings.BindPFlags(pf)
	settings.SetEnvPrefix("AXE")
	settings.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	settings.AutomaticEnv()
	rootCmd.Version = version
}

// configDir resolves the directory holding the YAML files. Under sudo it
// is the invoking user's directory, not root's.
func configDir() string {
	if f := settings.GetString("config"); f != "" {
		return filepath.Dir(f)
	}
	dir, _ := os.UserConfigDir()
	if su := os.Getenv("SUDO_USER"); su != "" {
		if u, err := user.Lookup(su); err == nil && u.HomeDir != "" {
			dir = filepath.Join(u.HomeDir, ".config")
		}
	}
	return filepath.Join(dir, "axe")
}

func initConfig(cmd *cobra.Command, args []string) error {
	dir := configDir()
	if err := assets.WriteDefaultConfigIfMissing(dir); err != nil {
		return fmt.Errorf("config dir %s: %w", dir, err)
	}
	files, err := config.ListYAML(dir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no YAML config files found in " + dir)
	}
	cfg, err := config.LoadDefaultsAndFiles(assets.Defaults(), files)
	if err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := config.ValidateAgainstSchema(cfg); err != nil {
		return fmt.Errorf("schema error: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	if err := logging.Init(logOptions(cfg.Log)); err != nil {
		return err
	}
	logging.Debug("config dir: " + dir)
	return nil
}

func logOptions(l config.Log) logging.Options {
	dir := settings.GetString("log-dir")
	if dir == "" {
		dir = l.Dir
	}
	return logging.Options{
		Dir:     dir,
		Name:    "axe",
		Level:   l.Level,
		Console: enabled(l.Console),
		File:    enabled(l.File) && !settings.GetBool("no-log-file"),
		Verbose: settings.GetBool("verbose"),
	}
}

func enabled(b *bool) bool { return b == nil || *b }
