package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/arigopay/backend/internal/services"
	"github.com/spf13/cobra"
)

func newSignCmd() *cobra.Command {
	var payloadFile, secret string

	cmd := &cobra.Command{
		Use:   "sign",
		Short: "Print the signature header for a webhook payload",
		Long: `Compute the x-paystack-signature value for a payload so webhook deliveries
can be replayed locally, e.g.

  arigopay sign --file charge.json
  curl -H "x-paystack-signature: $(arigopay sign -f charge.json)" --data-binary @charge.json localhost:8080/webhook`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if secret == "" {
				cfg, err := loadConfig()
				if err != nil {
					return err
				}
				secret = cfg.Paystack.SecretKey
			}
			return runSign(cmd.InOrStdin(), cmd.OutOrStdout(), payloadFile, secret)
		},
	}

	cmd.Flags().StringVarP(&payloadFile, "file", "f", "-", "Payload file, - for stdin")
	cmd.Flags().StringVar(&secret, "secret", "", "Secret key (defaults to paystack.secret_key)")
	return cmd
}

func runSign(stdin io.Reader, out io.Writer, payloadFile, secret string) error {
	verifier, err := services.NewWebhookVerifier(secret)
	if err != nil {
		return err
	}

	var body []byte
	if payloadFile == "-" {
		body, err = io.ReadAll(stdin)
	} else {
		body, err = os.ReadFile(payloadFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read payload: %w", err)
	}

	_, err = fmt.Fprintln(out, verifier.Sign(body))
	return err
}
