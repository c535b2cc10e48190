package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/ignition/internal/contracts"
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "마켓 캐시 스코어링 → 시그널 랭킹",
	Long: `마켓 캐시 전체를 활성 필터로 재선별하고 가중 스코어로 랭킹합니다.

5개 서브 스코어 (모멘텀/거래량/테크니컬/스퀴즈/리스크) 가중 합산,
상위 N개를 시그널 테이블에 저장하고 트래커 로그에 기록합니다.

Example:
  go run ./cmd/scanner score`,
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)
}

func runScore(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	signals, err := app.runner.RunScoring(context.Background())
	if err != nil {
		if errors.Is(err, contracts.ErrLocked) {
			PrintWarning("Skipped — locked (another run is in progress)")
			return nil
		}
		// Scoring failures are reported, never crash the process
		PrintError(fmt.Sprintf("Scoring failed: %v", err))
		return nil
	}

	if len(signals) == 0 {
		PrintWarning("No candidates passed the scan gate")
		return nil
	}

	PrintHeader(fmt.Sprintf("Trade signals (%d)", len(signals)))
	printSignalsTable(signals)
	return nil
}

func printSignalsTable(signals []contracts.TradeSignal) {
	widths := []int{4, 7, 5, 11, 13, 8, 8, 8, 6}
	PrintTableHeader([]string{"#", "TICKER", "SCORE", "SIGNAL", "PATTERN", "ENTRY", "STOP", "T1", "R/R"}, widths)
	for _, s := range signals {
		PrintTableRow([]string{
			fmt.Sprintf("%d", s.Rank),
			s.Ticker,
			fmt.Sprintf("%d", s.Score),
			s.Signal,
			string(s.Pattern),
			fmt.Sprintf("%.2f", s.Entry),
			fmt.Sprintf("%.2f", s.Stop),
			fmt.Sprintf("%.2f", s.Target1),
			fmt.Sprintf("%.1f", s.RiskReward),
		}, widths)
	}
}
