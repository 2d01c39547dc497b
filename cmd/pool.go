package cmd

import (
	"strings"

	"lendpool/pkg/number"

	"github.com/spf13/cobra"
)

var addPoolCmd = &cobra.Command{
	Use:     "add-pool",
	Aliases: []string{"ap"},
	Short:   "add lending pool",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		assetID, e := cmd.Flags().GetString("asset")
		if e != nil || assetID == "" {
			panic("invalid asset id")
		}
		symbol, e := cmd.Flags().GetString("symbol")
		if e != nil || symbol == "" {
			panic("invalid symbol")
		}
		baseRate, _ := cmd.Flags().GetString("base-rate")
		multiplier, _ := cmd.Flags().GetString("multiplier")
		jumpMultiplier, _ := cmd.Flags().GetString("jump-multiplier")
		optimal, _ := cmd.Flags().GetString("optimal")

		database := provideDatabase()
		defer database.Close()

		lendingSrv := provideLendingService(database)

		pool, err := lendingSrv.CreatePool(
			ctx,
			assetID,
			strings.ToUpper(symbol),
			number.Decimal(baseRate),
			number.Decimal(multiplier),
			number.Decimal(jumpMultiplier),
			number.Decimal(optimal),
		)
		if err != nil {
			cmd.PrintErrln("create pool error:", err)
			return
		}

		cmd.Println("pool created:", pool.AssetID, pool.Symbol)
	},
}

func init() {
	rootCmd.AddCommand(addPoolCmd)

	addPoolCmd.Flags().StringP("asset", "a", "", "pool asset id")
	addPoolCmd.Flags().StringP("symbol", "s", "", "pool asset symbol")
	addPoolCmd.Flags().String("base-rate", "200", "base borrow rate in basis points")
	addPoolCmd.Flags().String("multiplier", "1000", "rate slope below optimal utilization, in basis points")
	addPoolCmd.Flags().String("jump-multiplier", "5000", "rate slope above optimal utilization, in basis points")
	addPoolCmd.Flags().String("optimal", "8000", "optimal utilization in basis points")
}
