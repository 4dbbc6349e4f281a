package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"resume-ats/internal/assist"
)

var assistCmd = &cobra.Command{
	Use:       "assist <summary|skills|bullets|optimize|narrative>",
	Short:     "Run one AI assist task through the primary and fallback providers",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"summary", "skills", "bullets", "optimize", "narrative"},
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			return errors.New("--user is required")
		}
		ctx := cmd.Context()
		job, err := optionalText(ctx, cmd, "job")
		if err != nil {
			return err
		}
		resume, err := optionalText(ctx, cmd, "resume")
		if err != nil {
			return err
		}
		existing, _ := cmd.Flags().GetString("existing")
		bullets, _ := cmd.Flags().GetStringArray("bullet")

		a, err := loadApp()
		if err != nil {
			return err
		}
		res, err := runTask(ctx, a.Orchestrator, args[0], userID, job, resume, existing, bullets)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), res.Text)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(assistCmd)
	assistCmd.Flags().StringP("user", "u", "", "user id charged for the call")
	assistCmd.Flags().StringP("job", "j", "", "job description file")
	assistCmd.Flags().StringP("resume", "r", "", "resume file")
	assistCmd.Flags().String("existing", "", "existing summary to improve")
	assistCmd.Flags().StringArrayP("bullet", "b", nil, "resume bullet, repeatable")
}

func optionalText(ctx context.Context, cmd *cobra.Command, flag string) (string, error) {
	path, _ := cmd.Flags().GetString(flag)
	if path == "" {
		return "", nil
	}
	return readText(ctx, cmd, path)
}

func runTask(ctx context.Context, orch *assist.Orchestrator, task, userID, job, resume, existing string, bullets []string) (assist.Result, error) {
	switch strings.ToLower(task) {
	case "summary":
		return orch.Summary(ctx, userID, assist.SummaryRequest{JobDescription: job, ResumeText: resume, ExistingSummary: existing})
	case "skills":
		return orch.SuggestSkills(ctx, userID, assist.SkillsRequest{JobDescription: job, ResumeText: resume})
	case "bullets":
		return orch.RewriteBullets(ctx, userID, assist.BulletRewriteRequest{JobDescription: job, Bullets: bullets})
	case "optimize":
		return orch.OptimizeForATS(ctx, userID, assist.BulletRewriteRequest{JobDescription: job, Bullets: bullets})
	case "narrative":
		return orch.ATSNarrative(ctx, userID, assist.AtsNarrativeRequest{JobDescription: job, ResumeText: resume})
	default:
		return assist.Result{}, fmt.Errorf("unknown task %q", task)
	}
}
