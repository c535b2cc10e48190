package commands

import (
	"context"

	"github.com/spf13/cobra"
)

// resetCmd represents the reset command
var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "파이프라인 상태 초기화",
	Long: `파이프라인 상태를 초기화합니다.

기본(soft): 커서와 계산 플래그만 초기화, 유니버스 캐시와 원장 행 유지.
--hard: 상태, 원장, 마켓 캐시 전부 삭제. 되돌릴 수 없습니다.

Example:
  go run ./cmd/scanner reset
  go run ./cmd/scanner reset --hard`,
	RunE: runReset,
}

var resetHard bool

func init() {
	rootCmd.AddCommand(resetCmd)
	resetCmd.Flags().BoolVar(&resetHard, "hard", false, "wipe all state, ledger and cache")
}

func runReset(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	if resetHard {
		if err := app.runner.HardReset(ctx); err != nil {
			return err
		}
		PrintSuccess("Hard reset complete: state, ledger and cache wiped")
		return nil
	}

	if err := app.runner.SoftReset(ctx); err != nil {
		return err
	}
	PrintSuccess("Soft reset complete: cursor and computed flags cleared")
	return nil
}
