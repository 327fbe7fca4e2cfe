package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/gagliardetto/solana-go"
	solanarpc "github.com/gagliardetto/solana-go/rpc"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newAccountCmd(g *globalFlags) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "account <address>",
		Short: "Fetch account state",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(g.verbose)

			cfg, err := resolveConfig(cmd, g, os.Getenv)
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			client, err := newLedgerClient(log, cfg)
			if err != nil {
				return err
			}
			defer client.Close()

			res, err := client.GetAccountInfo(ctx, args[0])
			if err != nil {
				log.Error("Failed to get account info", "address", args[0], "error", err)
				return err
			}

			switch output {
			case "json":
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(res)
			case "table":
				printAccountTable(cmd.OutOrStdout(), args[0], res)
				return nil
			default:
				return fmt.Errorf("invalid output format: %s", output)
			}
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "table", "output format (table, json)")
	return cmd
}

func printAccountTable(w io.Writer, address string, res *solanarpc.GetAccountInfoResult) {
	account := res.Value
	rentEpoch := "-"
	if account.RentEpoch != nil {
		rentEpoch = account.RentEpoch.String()
	}
	dataLen := 0
	if account.Data != nil {
		dataLen = len(account.Data.GetBinary())
	}

	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_CENTER)
	table.SetAutoFormatHeaders(false)
	table.SetBorder(true)
	table.SetRowLine(true)
	table.SetHeader([]string{"Field", "Value"})
	table.AppendBulk([][]string{
		{"Address", address},
		{"Slot", strconv.FormatUint(res.Context.Slot, 10)},
		{"Owner", account.Owner.String()},
		{"Lamports", strconv.FormatUint(account.Lamports, 10)},
		{"SOL", strconv.FormatFloat(float64(account.Lamports)/float64(solana.LAMPORTS_PER_SOL), 'f', 9, 64)},
		{"Executable", strconv.FormatBool(account.Executable)},
		{"Rent Epoch", rentEpoch},
		{"Data Length", strconv.Itoa(dataLen)},
	})
	table.Render()
}
