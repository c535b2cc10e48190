package commands

import (
	"github.com/spf13/cobra"
)

var (
	// Global flags
	configFile string
	verbose    bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "scanner",
	Short: "Ignition - 미국 소형주 스퀴즈/모멘텀 스캐너",
	Long: `Ignition unified CLI

증분 스테이징 파이프라인으로 거래소 심볼 전체를 청크 단위로 수집하고,
점화(ignition) 조건을 통과한 티커를 스코어링해 트레이드 시그널로 랭킹.

Usage:
  go run ./cmd/scanner [command]

Examples:
  go run ./cmd/scanner stage
  go run ./cmd/scanner run --budget 4m
  go run ./cmd/scanner score
  go run ./cmd/scanner filters list
  go run ./cmd/scanner serve`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default is .env)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
