package cli

import (
	"github.com/spf13/cobra"

	"cryptomax/internal/app"
)

var (
	collectLowRisk bool
	collectOut     string
)

var collectCmd = &cobra.Command{
	Use:   "collect",
	Short: "Run one collection pass over all registered providers",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := app.CollectOptions{
			LowRisk:      collectLowRisk,
			SnapshotPath: collectOut,
		}
		return getApp().Collect(cmd.Context(), opts)
	},
}

func init() {
	collectCmd.Flags().BoolVar(&collectLowRisk, "low-risk", false, "Filter results to listings referencing known stablecoins (for example USDC, USDT, or DAI)")
	collectCmd.Flags().StringVar(&collectOut, "out", "", "Snapshot output path (use '-' to skip writing a snapshot)")
}
