package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smeggmann99/arrango-timetable/internal/solverconfig"
	"github.com/smeggmann99/arrango-timetable/core"
)

var (
	generateInputPath  string
	generateOutputPath string
)

var generateCmd = &cobra.Command{
	Use:     "generate",
	Short:   "Generate a timetable from an input file",
	Aliases: []string{"gen", "solve"},
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(generateInputPath)
		if err != nil {
			return err
		}

		schedule, err := core.Generate(context.Background(), in, solverconfig.Default(), &log)
		if err != nil {
			return fmt.Errorf("generate: %w", err)
		}

		raw, err := json.MarshalIndent(schedule, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling schedule: %w", err)
		}

		if generateOutputPath == "" {
			fmt.Println(string(raw))
			return nil
		}
		if err := os.WriteFile(generateOutputPath, raw, 0o644); err != nil {
			return fmt.Errorf("writing output file: %w", err)
		}
		fmt.Printf("wrote %s (%d entries)\n", generateOutputPath, len(schedule.Entries))
		return nil
	},
}

func init() {
	generateCmd.Flags().StringVar(&generateInputPath, "input", "", "path to an input.InputData JSON file")
	generateCmd.Flags().StringVar(&generateOutputPath, "output", "", "path to write the generated schedule (stdout if omitted)")
	generateCmd.MarkFlagRequired("input")
}
