package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse [file]",
	Short: "Parse a job description into title, level, skills and responsibilities",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := ""
		if len(args) == 1 {
			path = args[0]
		}
		text, err := readText(cmd.Context(), cmd, path)
		if err != nil {
			return err
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		parsed := a.JobsService.Parse(cmd.Context(), text)
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(parsed)
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
