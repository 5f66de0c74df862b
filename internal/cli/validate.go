package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/cyphera/wallet-rpc/internal/securityalerts"
)

// ValidateOptions are the flags of the validate command.
type ValidateOptions struct {
	ChainID     string
	Method      string
	Params      string
	URL         string
	ShieldURL   string
	ShieldToken string
}

// NewValidateCommand creates the validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ValidateOptions{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a request against the security alerts API",
		Long: `Send a JSON-RPC method and params to the security alerts API and
print the response unchanged.

Passing --shield-token routes the request to the shield host with the
token as a bearer credential.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, rootOpts, opts)
		},
	}

	cmd.Flags().StringVar(&opts.ChainID, "chain-id", "0x1", "hex chain id")
	cmd.Flags().StringVar(&opts.Method, "method", "", "JSON-RPC method to validate")
	cmd.Flags().StringVar(&opts.Params, "params", "[]", "JSON array of method params")
	cmd.Flags().StringVar(&opts.URL, "url", os.Getenv("SECURITY_ALERTS_API_URL"), "security alerts API host")
	cmd.Flags().StringVar(&opts.ShieldURL, "shield-url", os.Getenv("SECURITY_ALERTS_API_URL_SHIELD"), "shield tier host")
	cmd.Flags().StringVar(&opts.ShieldToken, "shield-token", "", "bearer token for the shield tier")
	_ = cmd.MarkFlagRequired("method")

	return cmd
}

func runValidate(cmd *cobra.Command, rootOpts *RootOptions, opts *ValidateOptions) error {
	var params []interface{}
	if err := json.Unmarshal([]byte(opts.Params), &params); err != nil {
		return fmt.Errorf("--params must be a JSON array: %w", err)
	}

	client, err := securityalerts.NewClient(securityalerts.Config{
		Enabled:   true,
		URL:       opts.URL,
		ShieldURL: opts.ShieldURL,
	})
	if err != nil {
		return err
	}

	var shield *securityalerts.ShieldParams
	if opts.ShieldToken != "" {
		shield = &securityalerts.ShieldParams{
			Status: securityalerts.ShieldEnabled(true),
			Tokens: securityalerts.StaticToken(opts.ShieldToken),
		}
	}

	if rootOpts.Verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), "Validating %s on chain %s\n", opts.Method, opts.ChainID)
	}

	body, err := client.Validate(cmd.Context(), opts.ChainID, securityalerts.Request{
		Method: opts.Method,
		Params: params,
	}, shield)
	if err != nil {
		return err
	}

	if rootOpts.Format == "json" {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, body, "", "  "); err != nil {
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(body))
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), out.String())
	return err
}
