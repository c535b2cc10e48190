package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ignition/internal/contracts"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "전체 파이프라인 실행 (시간 예산 내)",
	Long: `{청크 스테이징 → 익스포트} 루프를 시간 예산 내에서 반복합니다.

유니버스가 소진되거나 예산이 다 하면 멈추고, 마지막으로 익스포트를
한 번 더 수행해 잔여 적격 행을 플러시합니다.

Example:
  go run ./cmd/scanner run
  go run ./cmd/scanner run --budget 2m`,
	RunE: runAll,
}

var runBudget time.Duration

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().DurationVar(&runBudget, "budget", 0, "wall-clock budget (default from config)")
}

func runAll(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	budget := runBudget
	if budget <= 0 {
		budget = app.cfg.Pipeline.RunBudget
	}

	PrintHeader(fmt.Sprintf("Full pipeline run (budget %v)", budget))

	ctx := context.Background()
	start := time.Now()
	if err := app.runner.RunAll(ctx, budget); err != nil {
		if errors.Is(err, contracts.ErrLocked) {
			PrintWarning("Skipped — locked (another run is in progress)")
			return nil
		}
		PrintError(fmt.Sprintf("Pipeline run failed: %v", err))
		return err
	}

	status, err := app.runner.Status(ctx)
	if err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Run complete in %.1fs: cursor %d/%d, qualified %d, exported %d",
		time.Since(start).Seconds(),
		status.Cursor.NextIndex, status.Cursor.TotalSymbols,
		status.Ledger.Qualified, status.Ledger.Exported))
	return nil
}
