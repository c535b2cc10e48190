package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// statusCmd represents the status command
var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "파이프라인 진행 상태",
	Long: `커서 위치, 원장 집계, 마켓 캐시 크기, 마지막 실행 기록을 표시합니다.

Example:
  go run ./cmd/scanner status`,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	status, err := app.runner.Status(context.Background())
	if err != nil {
		return err
	}

	PrintHeader("Pipeline status")
	PrintKeyValue("Active filter", status.Filter, 14)
	PrintKeyValue("Universe", fmt.Sprintf("%d symbols", status.Universe), 14)
	PrintKeyValue("Cursor", fmt.Sprintf("%d / %d", status.Cursor.NextIndex, status.Cursor.TotalSymbols), 14)
	PrintKeyValue("Ledger", fmt.Sprintf("%d rows (%d with metrics, %d qualified, %d exported)",
		status.Ledger.Total, status.Ledger.WithMetric, status.Ledger.Qualified, status.Ledger.Exported), 14)
	PrintKeyValue("Market cache", fmt.Sprintf("%d rows", status.CacheRows), 14)

	if status.LastRun != nil {
		PrintSeparator()
		PrintKeyValue("Last step", status.LastRun.Step, 14)
		PrintKeyValue("Last run", status.LastRun.LastRun.Format("2006-01-02 15:04:05"), 14)
		if status.LastRun.LastError != "" {
			PrintKeyValue("Last error", status.LastRun.LastError, 14)
		}
	}
	return nil
}
