package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/tdnguyendev/mbwatch/internal/bank"
	"github.com/tdnguyendev/mbwatch/internal/cli"
	"github.com/tdnguyendev/mbwatch/internal/message"
	"github.com/tdnguyendev/mbwatch/internal/model"
	"github.com/tdnguyendev/mbwatch/internal/telegram"
)

var flagSummaryNotify bool

var summaryCmd = &cobra.Command{
	Use:   "summary <username> <password>",
	Short: "Show today's transaction summary",
	Args:  cobra.ExactArgs(2),
	RunE:  runSummary,
}

func init() {
	summaryCmd.Flags().BoolVar(&flagSummaryNotify, "notify", false, "Also send the summary to the Telegram group")
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(cmd *cobra.Command, args []string) error {
	client, err := bank.NewClient(args[0], args[1])
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
	defer cancel()

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	txs, err := client.TransactionHistory(ctx, midnight, now)
	if err != nil {
		return fmt.Errorf("fetching today's transactions: %w", err)
	}

	summary := model.Summarize(now, txs)

	rows := [][]string{
		{"Date", summary.Date},
		{"Transactions", fmt.Sprintf("%d", summary.Count)},
		{"Total credited", cli.FormatVND(summary.TotalCredit)},
	}
	if len(txs) > 0 {
		rows = append(rows, []string{"---"})
		limit := len(txs)
		if limit > 10 {
			limit = 10
		}
		for _, tx := range txs[:limit] {
			amount := cli.FormatVND(tx.CreditAmount)
			if tx.CreditAmount.IsZero() && !tx.DebitAmount.IsZero() {
				amount = "-" + cli.FormatVND(tx.DebitAmount)
			}
			rows = append(rows, []string{tx.RefNo, amount})
		}
	}
	fmt.Println(cli.RenderTable(cli.Table{Title: "Daily summary", Rows: rows}))

	if flagSummaryNotify {
		cfg := loadConfigOrDefault()
		token, groupID, err := requireNotifierConfig(cfg)
		if err != nil {
			return err
		}
		if err := telegram.NewClient(token, groupID).SendMessage(ctx, message.DailySummary(summary)); err != nil {
			return fmt.Errorf("sending summary: %w", err)
		}
		if !flagQuiet {
			fmt.Println("  Summary sent to Telegram group")
		}
	}

	return nil
}
