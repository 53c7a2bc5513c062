package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/smeggmann99/arrango-timetable/common/models/input"
	"github.com/smeggmann99/arrango-timetable/core"
)

var validateInputPath string

var validateCmd = &cobra.Command{
	Use:     "validate",
	Short:   "Check an input file for structural feasibility",
	Aliases: []string{"check"},
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := loadInput(validateInputPath)
		if err != nil {
			return err
		}

		result := core.Validate(in)
		if result.Feasible {
			fmt.Println("feasible: no structural issues found")
			return nil
		}

		fmt.Printf("infeasible: %d issue(s)\n", len(result.Issues))
		for _, issue := range result.Issues {
			fmt.Println(" -", issue)
		}
		return nil
	},
}

func init() {
	validateCmd.Flags().StringVar(&validateInputPath, "input", "", "path to an input.InputData JSON file")
	validateCmd.MarkFlagRequired("input")
}

func loadInput(path string) (input.InputData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return input.InputData{}, fmt.Errorf("reading input file: %w", err)
	}
	var in input.InputData
	if err := json.Unmarshal(raw, &in); err != nil {
		return input.InputData{}, fmt.Errorf("parsing input file: %w", err)
	}
	return in, nil
}
