package cli

import (
	"github.com/spf13/cobra"

	"github.com/pulso-app/pulso/internal/daemon"
)

func init() {
	rootCmd.AddCommand(serveCmd)
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the pulso API server",
	Long:  `Start the HTTP API terminals connect to. Runs until SIGINT/SIGTERM.`,
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	return daemon.Run(cfg)
}
