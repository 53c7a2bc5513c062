// Command arrango is a demo collaborator over core.Validate/core.Generate:
// it reads an input.InputData JSON document from disk and either reports
// validation issues or writes a generated output.Schedule, following the
// cobra root-command wiring the teacher pack's cobra-based CLI uses.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/smeggmann99/arrango-timetable/internal/obslog"
)

var (
	env string
	log zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "arrango",
	Short: "Generate school timetables from a JSON input file",
	Long: `arrango validates and generates school timetables.

Examples:
  arrango validate --input school.json
  arrango generate --input school.json --output schedule.json`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		obslog.Setup(env)
		log = obslog.With()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&env, "env", "production", "logging environment (development|production)")
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(generateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
