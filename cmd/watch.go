package cmd

import (
	"os"
	"os/signal"

	"github.com/dsyme/weave/internal/build"
	"github.com/spf13/cobra"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Rebuild the documentation on changes",
	Long:  `Build once, then watch the input directory and rebuild whenever a Markdown document changes. Stop with Ctrl+C.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := resolveConfig()
		if err != nil {
			return err
		}
		cfg.Output = cmd.OutOrStdout()

		stop := make(chan struct{})
		interrupt := make(chan os.Signal, 1)
		signal.Notify(interrupt, os.Interrupt)
		go func() {
			<-interrupt
			close(stop)
		}()

		return build.Watch(*cfg, stop)
	},
}

func init() {
	addBuildFlags(watchCmd)
	rootCmd.AddCommand(watchCmd)
}
