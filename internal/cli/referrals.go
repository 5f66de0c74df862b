package cli

import (
	"context"
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/cyphera/wallet-rpc/internal/approvals"
	"github.com/cyphera/wallet-rpc/internal/constants"
	"github.com/cyphera/wallet-rpc/internal/helpers"
	"github.com/cyphera/wallet-rpc/internal/referrals"
	"github.com/cyphera/wallet-rpc/internal/rpcerrors"
)

const defaultLedgerPath = "referrals.yaml"

// recordFunc is one of the Ledger record methods.
type recordFunc func(l *referrals.Ledger, ctx context.Context, address string) error

// NewReferralsCommand creates the referrals command group. Decisions are
// kept in a YAML ledger file.
func NewReferralsCommand(rootOpts *RootOptions) *cobra.Command {
	var ledgerPath string

	cmd := &cobra.Command{
		Use:   "referrals",
		Short: "Manage partner referral decisions",
	}
	cmd.PersistentFlags().StringVar(&ledgerPath, "ledger", defaultLedgerPath, "path to the referral ledger file")

	ledger := func() *referrals.Ledger {
		return referrals.NewLedger(referrals.NewFileStore(ledgerPath))
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:          "status <address>",
			Short:        "Show the recorded decision for an address",
			Args:         addressArg,
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				status, err := ledger().Status(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printEntries(cmd, rootOpts, []referrals.Entry{{Address: helpers.NormalizeAddress(args[0]), Status: status}})
			},
		},
		newRecordCommand("approve", "Record an approved referral", rootOpts, ledger, (*referrals.Ledger).RecordApproved, referrals.StatusApproved),
		newRecordCommand("decline", "Record a declined referral", rootOpts, ledger, (*referrals.Ledger).RecordDeclined, referrals.StatusDeclined),
		newRecordCommand("pass", "Record that the prompt was skipped", rootOpts, ledger, (*referrals.Ledger).RecordPassed, referrals.StatusPassed),
		&cobra.Command{
			Use:          "list",
			Short:        "List every recorded decision",
			Args:         cobra.NoArgs,
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				entries, err := ledger().List(cmd.Context())
				if err != nil {
					return err
				}
				return printEntries(cmd, rootOpts, entries)
			},
		},
		&cobra.Command{
			Use:   "prompt <address>",
			Short: "Ask for referral consent on the terminal",
			Long: `Show the referral consent dialog on the terminal and record the answer.
"y" approves, "n" declines and anything else leaves the ledger untouched.
Addresses with a recorded decision are not prompted again.`,
			Args:         addressArg,
			SilenceUsage: true,
			RunE: func(cmd *cobra.Command, args []string) error {
				prompter := approvals.NewCliPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
				return runPrompt(cmd, rootOpts, ledger(), prompter, args[0])
			},
		},
	)

	return cmd
}

func newRecordCommand(use, short string, rootOpts *RootOptions, ledger func() *referrals.Ledger, record recordFunc, status referrals.Status) *cobra.Command {
	return &cobra.Command{
		Use:          use + " <address>",
		Short:        short,
		Args:         addressArg,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := record(ledger(), cmd.Context(), args[0]); err != nil {
				return err
			}
			return printEntries(cmd, rootOpts, []referrals.Entry{{Address: helpers.NormalizeAddress(args[0]), Status: status}})
		},
	}
}

func runPrompt(cmd *cobra.Command, rootOpts *RootOptions, ledger *referrals.Ledger, prompter approvals.Approver, address string) error {
	ctx := cmd.Context()
	normalized := helpers.NormalizeAddress(address)

	status, err := ledger.Status(ctx, normalized)
	if err != nil {
		return err
	}
	if status.Recorded() {
		if rootOpts.Verbose {
			fmt.Fprintf(cmd.ErrOrStderr(), "Decision already recorded for %s\n", normalized)
		}
		return printEntries(cmd, rootOpts, []referrals.Entry{{Address: normalized, Status: status}})
	}

	result, err := prompter.RequestApproval(ctx, approvals.Request{
		Origin:      constants.HyperliquidOrigin,
		Type:        constants.ApprovalTypeReferralConsent,
		RequestData: map[string]interface{}{"selectedAddress": normalized},
	})
	if err != nil {
		if rpcerrors.IsCode(err, rpcerrors.CodeUserRejectedRequest) {
			return errors.New("consent dialog cancelled, nothing recorded")
		}
		return err
	}

	status = referrals.StatusDeclined
	record := ledger.RecordDeclined
	if result != nil && result.Approved {
		status = referrals.StatusApproved
		record = ledger.RecordApproved
	}
	if err := record(ctx, normalized); err != nil {
		return err
	}
	return printEntries(cmd, rootOpts, []referrals.Entry{{Address: normalized, Status: status}})
}

func addressArg(cmd *cobra.Command, args []string) error {
	if err := cobra.ExactArgs(1)(cmd, args); err != nil {
		return err
	}
	if !helpers.IsAddressValid(args[0]) {
		return fmt.Errorf("invalid address %q", args[0])
	}
	return nil
}

func printEntries(cmd *cobra.Command, rootOpts *RootOptions, entries []referrals.Entry) error {
	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), entries)
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ADDRESS\tSTATUS")
	for _, e := range entries {
		status := string(e.Status)
		if status == "" {
			status = "none"
		}
		fmt.Fprintf(w, "%s\t%s\n", e.Address, status)
	}
	return w.Flush()
}
