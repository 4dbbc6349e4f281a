package main

import (
	"encoding/json"
	"errors"

	"github.com/spf13/cobra"
)

var quotaCmd = &cobra.Command{
	Use:   "quota",
	Short: "Show a user's free AI call quota",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			return errors.New("--user is required")
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		snap, err := a.UsageService.Snapshot(cmd.Context(), userID)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(snap)
	},
}

var ledgerCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Inspect the AI call ledger",
}

var ledgerExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a user's AI calls as CSV",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, _ := cmd.Flags().GetString("user")
		if userID == "" {
			return errors.New("--user is required")
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		if toStore, _ := cmd.Flags().GetBool("store"); toStore {
			key, err := a.LedgerService.ExportToStore(cmd.Context(), userID)
			if err != nil {
				return err
			}
			cmd.Println(key)
			return nil
		}
		return a.LedgerService.ExportCSV(cmd.Context(), userID, cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(quotaCmd, ledgerCmd)
	ledgerCmd.AddCommand(ledgerExportCmd)
	quotaCmd.Flags().StringP("user", "u", "", "user id")
	ledgerExportCmd.Flags().StringP("user", "u", "", "user id")
	ledgerExportCmd.Flags().Bool("store", false, "write the export to the object store and print its key")
}
