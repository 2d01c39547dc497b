package cmd

import (
	"lendpool/pkg/number"

	"github.com/spf13/cobra"
)

// credit a custodial balance by hand, mostly for bootstrapping test
// environments where no real custody rail exists.
var creditCmd = &cobra.Command{
	Use:   "credit",
	Short: "credit a custodial balance",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := cmd.Context()

		ownerID, e := cmd.Flags().GetString("owner")
		if e != nil || ownerID == "" {
			panic("invalid owner id")
		}
		assetID, e := cmd.Flags().GetString("asset")
		if e != nil || assetID == "" {
			panic("invalid asset id")
		}
		amountStr, _ := cmd.Flags().GetString("amount")
		amount := number.Decimal(amountStr)
		if !amount.IsPositive() || !number.IsIntegral(amount) {
			panic("amount must be a positive integer in the asset's smallest unit")
		}

		database := provideDatabase()
		defer database.Close()

		walletStore := provideWalletStore(database)
		if err := walletStore.Credit(ctx, ownerID, assetID, amount); err != nil {
			cmd.PrintErrln("credit error:", err)
			return
		}

		balance, err := walletStore.Find(ctx, ownerID, assetID)
		if err != nil {
			cmd.PrintErrln("find balance error:", err)
			return
		}

		cmd.Println("balance:", balance.Amount)
	},
}

func init() {
	rootCmd.AddCommand(creditCmd)

	creditCmd.Flags().StringP("owner", "o", "", "balance owner id")
	creditCmd.Flags().StringP("asset", "a", "", "asset id")
	creditCmd.Flags().String("amount", "0", "amount in the asset's smallest unit")
}
