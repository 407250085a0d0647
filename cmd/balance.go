package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdnguyendev/mbwatch/internal/bank"
	"github.com/tdnguyendev/mbwatch/internal/cli"
)

var balanceCmd = &cobra.Command{
	Use:   "balance <username> <password>",
	Short: "Show current account balances",
	Args:  cobra.ExactArgs(2),
	RunE:  runBalance,
}

func init() {
	rootCmd.AddCommand(balanceCmd)
}

func runBalance(cmd *cobra.Command, args []string) error {
	client, err := bank.NewClient(args[0], args[1])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	balances, err := client.Balance(ctx)
	if err != nil {
		return fmt.Errorf("fetching balances: %w", err)
	}

	rows := make([][]string, 0, len(balances))
	for _, b := range balances {
		available := cli.FormatVND(b.Available)
		if b.Currency != "" && b.Currency != "VND" {
			available = b.Available.String() + " " + b.Currency
		}
		rows = append(rows, []string{b.AccountNumber, b.Name, available})
	}
	if len(rows) == 0 {
		fmt.Println("  No accounts found")
		return nil
	}

	fmt.Println(cli.RenderTable(cli.Table{
		Title:   "Account balances",
		Headers: []string{"Account", "Name", "Available"},
		Rows:    rows,
	}))
	return nil
}
