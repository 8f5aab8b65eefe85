// Package cmd wires the fatkernel CLI: a FAT32 volume toolbox plus a
// demonstration xHCI bring-up command, built with cobra the way the
// teacher's cmd/cmd package was.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/relunix/fatkernel/internal/logger"
)

var (
	logLevel string
	log      *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "fatkernel",
	Short: "FAT32 volume tool and xHCI bring-up driver",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		log = logger.New(os.Stderr, logger.ParseLevel(logLevel))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "INFO", "DEBUG, INFO, WARN, or ERROR")
	rootCmd.AddCommand(mountCmd)
	rootCmd.AddCommand(formatfsCmd)
	rootCmd.AddCommand(lsCmd)
	rootCmd.AddCommand(catCmd)
	rootCmd.AddCommand(cpCmd)
	rootCmd.AddCommand(mvCmd)
	rootCmd.AddCommand(rmCmd)
	rootCmd.AddCommand(chkdskCmd)
	rootCmd.AddCommand(xhciCmd)
	rootCmd.AddCommand(fuseCmd)
}

// Execute runs the root command, returning any error after cobra has
// already printed it.
func Execute() error {
	return rootCmd.Execute()
}
