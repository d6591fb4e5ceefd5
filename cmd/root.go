package cmd

import (
	"fmt"
	"os"

	"github.com/dsyme/weave/internal/version"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "weave",
	Short: "Literate-programming document generator",
	Long: `weave turns Markdown documents with embedded code snippets into HTML or
LaTeX. Snippets marked for evaluation run in a shared interpreter session,
and their console output and result values are woven back into the page.`,
}

func init() {
	rootCmd.Version = version.Version
	rootCmd.SetVersionTemplate(fmt.Sprintf("weave %s\n", version.String()))
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
