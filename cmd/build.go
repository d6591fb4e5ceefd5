package cmd

import (
	"fmt"
	"os"

	"github.com/dsyme/weave/internal/build"
	"github.com/dsyme/weave/internal/config"
	"github.com/dsyme/weave/internal/logger"
	"github.com/spf13/cobra"
)

var buildConfigPath string
var buildInput string
var buildOut string
var buildFormat string
var buildEngine string
var buildNoEval bool

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the documentation once",
	Long:  `Parse every Markdown document in the input directory, evaluate embedded snippets, and write rendered output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		cfg.Output = cmd.OutOrStdout()

		summary, err := build.Run(*cfg)
		if err != nil {
			return err
		}
		if summary.Failures > 0 {
			return fmt.Errorf("%d snippet(s) failed to evaluate", summary.Failures)
		}
		return nil
	},
}

func init() {
	addBuildFlags(buildCmd)
	rootCmd.AddCommand(buildCmd)
}

func addBuildFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&buildConfigPath, "config", "c", "weave.yaml", "Project config file")
	cmd.Flags().StringVarP(&buildInput, "input", "i", "", "Input directory (overrides config)")
	cmd.Flags().StringVarP(&buildOut, "out", "o", "", "Output directory (overrides config)")
	cmd.Flags().StringVar(&buildFormat, "format", "", "Output format: html or latex (overrides config)")
	cmd.Flags().BoolVar(&buildNoEval, "no-eval", false, "Skip snippet evaluation")

	// Engine flag with env var fallback
	defaultEngine := ""
	if envEngine := os.Getenv("WEAVE_ENGINE"); envEngine != "" {
		defaultEngine = envEngine
	}
	cmd.Flags().StringVar(&buildEngine, "engine", defaultEngine, "Interpreter engine: goja or tengo (overrides config)")
}

// resolveConfig merges the config file with flag overrides and prepares the
// build configuration.
func resolveConfig() (*build.Config, error) {
	var fileCfg *config.Config
	if _, err := os.Stat(buildConfigPath); err == nil {
		fileCfg, err = config.Load(buildConfigPath)
		if err != nil {
			return nil, err
		}
	} else {
		fileCfg = config.Default()
	}

	if buildInput != "" {
		fileCfg.Input = buildInput
	}
	if buildOut != "" {
		fileCfg.OutputDir = buildOut
	}
	if buildFormat != "" {
		fileCfg.Format = buildFormat
	}
	if buildEngine != "" {
		fileCfg.Engine = buildEngine
	}

	log, err := logger.New(logger.Options{Level: fileCfg.LogLevel, HumanReadable: true})
	if err != nil {
		return nil, err
	}

	return &build.Config{
		Input:     fileCfg.Input,
		OutputDir: fileCfg.OutputDir,
		Format:    fileCfg.Format,
		Template:  fileCfg.Template,
		Engine:    fileCfg.Engine,
		Startup:   fileCfg.Startup,
		Eval:      fileCfg.EvalEnabled() && !buildNoEval,
		Log:       log,
	}, nil
}
