package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/ignition/internal/api"
	"github.com/wonny/ignition/internal/api/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "API 서버 시작",
	Long: `REST API 서버를 시작합니다.

Endpoints:
  GET  /health                   - Health check
  GET  /api/pipeline/status      - 파이프라인 상태
  POST /api/pipeline/run-chunk   - 청크 1개 스테이징
  POST /api/pipeline/run-all     - 전체 실행 (예산 내)
  POST /api/pipeline/reset       - 초기화 (?hard=true)
  GET  /api/signals              - 최신 시그널
  POST /api/signals/score        - 스코어링 실행
  GET  /api/signals/compare      - 필터 비교 리포트
  GET  /api/filters              - 필터 목록
  POST /api/filters/active       - 활성 필터 전환
  POST /api/filters/seed         - 프리셋 설치

Example:
  go run ./cmd/scanner serve
  go run ./cmd/scanner serve --port 8090`,
	RunE: runServe,
}

var servePort string

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default from config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if servePort != "" {
		app.cfg.Port = servePort
	}

	router := api.NewRouter(
		handlers.NewPipelineHandler(app.runner, app.cfg.Pipeline.RunBudget, app.logger),
		handlers.NewSignalsHandler(app.runner, app.signalStore, app.logger),
		handlers.NewFiltersHandler(app.filterStore, app.runner, app.logger),
		app.logger,
	)
	server := api.New(app.cfg, app.logger, router)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		fmt.Printf("\nReceived %v, shutting down\n", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(ctx)
}
