package commands

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wonny/ignition/internal/scheduler"
)

// schedulerCmd represents the scheduler command
var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "스케줄러 시작 (장중 스테이징 + 장후 스코어링)",
	Long: `cron 스케줄러를 시작합니다.

Jobs:
  staging_chunk  장중 주기적으로 청크 1개 스테이징 + 익스포트
  scoring        장 마감 후 마켓 캐시 스코어링

락 경합으로 건너뛴 실행은 실패가 아니라 skip으로 집계됩니다.

Example:
  go run ./cmd/scanner scheduler`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	sched := scheduler.New(app.logger)

	jobs := []scheduler.Job{
		scheduler.NewStagingChunkJob(app.runner, app.cfg.Schedule.StagingCron, app.logger),
		scheduler.NewScoringJob(app.runner, app.cfg.Schedule.ScoringCron, app.logger),
	}
	for _, job := range jobs {
		if err := sched.AddJob(job); err != nil {
			return fmt.Errorf("add job %s: %w", job.Name(), err)
		}
	}

	sched.Start()
	PrintSuccess("Scheduler started")
	for _, job := range jobs {
		PrintKeyValue(job.Name(), job.Schedule(), 14)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan
	fmt.Printf("\nReceived %v, stopping scheduler\n", sig)

	sched.Stop()
	return nil
}
