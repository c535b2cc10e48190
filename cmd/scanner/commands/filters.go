package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wonny/ignition/internal/contracts"
	"github.com/wonny/ignition/internal/filters"
)

// filtersCmd represents the filters command group
var filtersCmd = &cobra.Command{
	Use:   "filters",
	Short: "필터 관리 (list | use | seed)",
	Long: `적격 판정 필터를 관리합니다.

Subcommands:
  list  저장된 필터와 활성 필터 표시
  use   활성 필터 전환 (미익스포트 행의 계산 상태 무효화)
  seed  기본 프리셋 설치

Example:
  go run ./cmd/scanner filters list
  go run ./cmd/scanner filters use momentum-base
  go run ./cmd/scanner filters seed`,
}

var filtersListCmd = &cobra.Command{
	Use:   "list",
	Short: "저장된 필터 목록",
	RunE:  runFiltersList,
}

var filtersUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "활성 필터 전환",
	Args:  cobra.ExactArgs(1),
	RunE:  runFiltersUse,
}

var filtersSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "기본 프리셋 설치",
	RunE:  runFiltersSeed,
}

func init() {
	rootCmd.AddCommand(filtersCmd)
	filtersCmd.AddCommand(filtersListCmd)
	filtersCmd.AddCommand(filtersUseCmd)
	filtersCmd.AddCommand(filtersSeedCmd)
}

func runFiltersList(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	ctx := context.Background()
	specs, err := app.filterStore.List(ctx)
	if err != nil {
		return err
	}

	activeName := ""
	if active, err := app.filterStore.GetActive(ctx); err == nil {
		activeName = active.Name
	}

	PrintHeader("Filters")
	widths := []int{16, 7, 8, 12, 10, 10, 10}
	PrintTableHeader([]string{"NAME", "ACTIVE", "DEFAULT", "PRICE", "RVOL", "IGNITION", "SI%"}, widths)
	for _, spec := range specs {
		active := ""
		if spec.Name == activeName {
			active = "*"
		}
		isDefault := ""
		if spec.IsDefault {
			isDefault = "yes"
		}
		PrintTableRow([]string{
			spec.Name,
			active,
			isDefault,
			fmt.Sprintf("%.0f-%.0f", spec.PriceMin, spec.PriceMax),
			fmt.Sprintf("%.1f", spec.MinRVOLBase),
			fmt.Sprintf("%.1f", spec.IgnitionRVOL),
			fmt.Sprintf("%.0f", spec.MinShortInterestPct),
		}, widths)
	}
	return nil
}

func runFiltersUse(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	name := args[0]
	if err := app.runner.SwitchFilter(context.Background(), name); err != nil {
		if errors.Is(err, contracts.ErrNotFound) {
			PrintError(fmt.Sprintf("Filter not found: %s", name))
			return err
		}
		return err
	}

	PrintSuccess(fmt.Sprintf("Active filter: %s (unexported rows will recompute)", name))
	return nil
}

func runFiltersSeed(cmd *cobra.Command, args []string) error {
	app, err := buildApp()
	if err != nil {
		return err
	}
	defer app.Close()

	if err := filters.SeedDefaults(context.Background(), app.filterStore); err != nil {
		return err
	}

	PrintSuccess(fmt.Sprintf("Seeded %d preset filters", len(filters.Presets())))
	return nil
}
