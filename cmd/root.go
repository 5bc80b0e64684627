package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/StrungPattern-coder/SecureSight/internal/config"
)

var cfgFile string
var jsonOutput bool

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "securesight",
	Short: "A CLI for the SecureSight monitoring dashboard",
	Long: `Monitor cameras and incidents on a SecureSight dashboard: list and
resolve incidents, follow live changes, and export Prometheus metrics.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(func() { config.InitConfig(cfgFile) })

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.securesight.yaml)")

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output results as JSON")
}
