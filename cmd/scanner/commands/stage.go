package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/ignition/internal/contracts"
)

// stageCmd represents the stage command
var stageCmd = &cobra.Command{
	Use:   "stage",
	Short: "청크 1개 스테이징 + 익스포트",
	Long: `유니버스에서 다음 청크 하나를 스테이징하고 익스포트합니다.

이 명령어는:
- 첫 실행 시 심볼 디렉토리를 수집해 캐싱
- 커서 위치부터 청크 1개 분량의 시세 수집/분류/적격 판정
- 커서를 저장한 뒤 export-eligible 행을 마켓 캐시로 이관

타이머로 반복 호출해도 안전합니다 (멱등 커서 + 파이프라인 락).

Example:
  go run ./cmd/scanner stage`,
	RunE: runStage,
}

func init() {
	rootCmd.AddCommand(stageCmd)
}

func runStage(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	if err := app.runner.RunOnce(ctx); err != nil {
		if errors.Is(err, contracts.ErrLocked) {
			PrintWarning("Skipped — locked (another run is in progress)")
			return nil
		}
		PrintError(fmt.Sprintf("Staging failed: %v", err))
		return err
	}

	status, err := app.runner.Status(ctx)
	if err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Chunk staged: cursor %d/%d, ledger %d rows, cache %d rows",
		status.Cursor.NextIndex, status.Cursor.TotalSymbols,
		status.Ledger.Total, status.CacheRows))
	return nil
}
