package main

import (
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arloliu/flatkit/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "flatkit",
	Short: "Flatten hierarchical records into delimited flat files",
	Long: `Flatkit reads hierarchical records (JSON, YAML or MessagePack), flattens
nested structures into dotted column names, and writes the record set as a
single delimited flat file whose columns are the union of every record.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var errPrefix = color.New(color.FgRed, color.Bold)

func main() {
	rootCmd.Version = version.Version

	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(versionCmd)

	if err := rootCmd.Execute(); err != nil {
		errPrefix.Fprint(os.Stderr, "error: ")
		color.New(color.FgRed).Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
