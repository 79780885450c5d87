// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the element-inspector CLI.
package main

import (
	"os"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/element-inspector/internal/logging"
	"github.com/pdiddy/element-inspector/internal/secrets"
	"github.com/pdiddy/element-inspector/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets secrets.Secrets

var log = logging.New("cli")

// rootCmd is the base command for the element-inspector CLI.
var rootCmd = &cobra.Command{
	Use:   "element-inspector",
	Short: "Extract configuration from declarative UI element trees",
	Long: `element-inspector walks a declarative UI element tree without rendering
it and pulls values out of selected descendants: the props of every button in
a toolbar, for example. The extracted values drive derived UI such as action
sheets, or are indexed into a searchable catalog.

Trees and their components are described in YAML documents; which elements
are recorded, traversed or skipped is decided by a rules file.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logging.Init(viper.GetString("log_level"), viper.GetString("log_format"), os.Stderr); err != nil {
			return err
		}
		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		if len(s) > 0 {
			keys := make([]string, 0, len(s))
			for k := range s {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			log.Debugf("loaded secrets: %v", keys)
		}
		return nil
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./element-inspector.yaml or ~/.config/element-inspector/config.yaml)")
	rootCmd.PersistentFlags().String("log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().String("log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().String("rules", "", "classification rules file (default: record Button components and hosts)")
	rootCmd.PersistentFlags().Int("max-depth", 0, "maximum expansion depth (0 = rules file or 3)")

	viper.BindPFlag("log_level", rootCmd.PersistentFlags().Lookup("log-level"))
	viper.BindPFlag("log_format", rootCmd.PersistentFlags().Lookup("log-format"))
	viper.BindPFlag("rules", rootCmd.PersistentFlags().Lookup("rules"))
	viper.BindPFlag("max_depth", rootCmd.PersistentFlags().Lookup("max-depth"))

	viper.SetDefault("documents_dir", "documents")
	viper.SetDefault("catalog_dir", "catalog")
	viper.SetDefault("max_results", 20)
	viper.SetDefault("workers", 4)
	viper.SetDefault("http.timeout", "30s")
	viper.SetDefault("http.user_agent", "element-inspector/"+version)
	viper.SetDefault("http.max_retries", 5)
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("element-inspector")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "element-inspector"))
		}
	}

	viper.SetEnvPrefix("ELEMENT_INSPECTOR")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		log.Debugf("using config file: %s", viper.ConfigFileUsed())
	}
}

// loadConfig decodes the merged flag, file and environment settings.
func loadConfig() (types.Config, error) {
	var cfg types.Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, err
	}
	cfg.HTTP.Token = loadedSecrets.Get(secrets.DocumentToken, cfg.HTTP.Token)
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
