package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

// compareCmd represents the compare command
var compareCmd = &cobra.Command{
	Use:   "compare",
	Short: "모든 필터로 스코어링 비교 리포트",
	Long: `저장된 모든 필터로 마켓 캐시를 각각 스코어링해 비교합니다.

필터별 후보 수와 상위 시그널을 나란히 보여줍니다. 읽기 전용 —
시그널 테이블은 건드리지 않습니다.

Example:
  go run ./cmd/scanner compare`,
	RunE: runCompare,
}

func init() {
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	report, err := app.runner.RunComparison(context.Background())
	if err != nil {
		PrintError(fmt.Sprintf("Comparison failed: %v", err))
		return err
	}

	for _, entry := range report {
		marker := ""
		if entry.Active {
			marker = " (active)"
		}
		PrintHeader(fmt.Sprintf("Filter: %s%s — %d candidates", entry.Filter, marker, entry.Candidates))

		if len(entry.Signals) == 0 {
			fmt.Println("   no signals")
			continue
		}
		printSignalsTable(entry.Signals)
	}
	return nil
}
