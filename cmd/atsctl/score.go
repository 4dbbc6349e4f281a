package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"

	"resume-ats/internal/ats"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume against a job description",
	RunE: func(cmd *cobra.Command, _ []string) error {
		resumePath, _ := cmd.Flags().GetString("resume")
		jobPath, _ := cmd.Flags().GetString("job")
		userID, _ := cmd.Flags().GetString("user")
		if resumePath == "" || jobPath == "" {
			return errors.New("--resume and --job are required")
		}
		if resumePath == "-" && jobPath == "-" {
			return errors.New("only one of --resume and --job may read stdin")
		}
		resume, err := readText(cmd.Context(), cmd, resumePath)
		if err != nil {
			return err
		}
		job, err := readText(cmd.Context(), cmd, jobPath)
		if err != nil {
			return err
		}

		out := map[string]any{}
		if userID == "" {
			res := ats.NewScorer().Score(resume, job)
			out["score"], out["keywords"], out["matched"], out["missing"] = res.Score, res.Keywords, res.Matched, res.Missing
		} else {
			a, err := loadApp()
			if err != nil {
				return err
			}
			resumeID, _ := cmd.Flags().GetString("resume-id")
			rec, res, err := a.ATSService.Score(cmd.Context(), userID, resumeID, resume, job)
			if err != nil {
				return err
			}
			out["score"], out["keywords"], out["matched"], out["missing"] = res.Score, res.Keywords, res.Matched, res.Missing
			out["recordId"] = rec.ID
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)
	scoreCmd.Flags().StringP("resume", "r", "", "resume file (txt, pdf, docx) or - for stdin")
	scoreCmd.Flags().StringP("job", "j", "", "job description file or - for stdin")
	scoreCmd.Flags().StringP("user", "u", "", "persist the score for this user")
	scoreCmd.Flags().String("resume-id", "", "optional resume reference stored with the score")
}
