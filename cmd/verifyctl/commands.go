package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/suyashdwivedi2003/login-page/pkg/config"
	"github.com/suyashdwivedi2003/login-page/pkg/notification"
)

func newRootCmd(out io.Writer) *cobra.Command {
	var clientConfig config.ClientConfig
	envErr := cleanenv.ReadEnv(&clientConfig)

	cl := &client{}

	root := &cobra.Command{
		Use:           "verifyctl",
		Short:         "Client for the email verification service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if envErr != nil {
				return fmt.Errorf("failed to read client config: %w", envErr)
			}
			if errs := clientConfig.Validate(); len(errs) > 0 {
				return errs
			}

			cl.BaseURL = clientConfig.URL
			cl.HTTP = &http.Client{
				Timeout: clientConfig.Timeout,
				// /verify answers with a redirect on success
				CheckRedirect: func(req *http.Request, via []*http.Request) error {
					return http.ErrUseLastResponse
				},
			}
			return nil
		},
	}
	root.SetOut(out)
	root.PersistentFlags().StringVar(&clientConfig.URL, "url", clientConfig.URL, "Base URL of the verification service (env VERIFY_URL)")
	root.PersistentFlags().DurationVar(&clientConfig.Timeout, "timeout", clientConfig.Timeout, "HTTP timeout (env VERIFY_TIMEOUT)")

	root.AddCommand(
		newSendCmd(cl),
		newStatusCmd(cl),
		newVerifyCmd(cl),
		newMailTestCmd(),
	)
	return root
}

func newSendCmd(cl *client) *cobra.Command {
	return &cobra.Command{
		Use:   "send EMAIL",
		Short: "Request a verification link for EMAIL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, _ := json.Marshal(map[string]string{"email": args[0]})
			resp, b, err := cl.do(http.MethodPost, "/auth/send-verification", body)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("send failed: status=%d message=%q", resp.StatusCode, message(b))
			}
			fmt.Fprintln(cmd.OutOrStdout(), message(b))
			return nil
		},
	}
}

func newStatusCmd(cl *client) *cobra.Command {
	return &cobra.Command{
		Use:   "status EMAIL",
		Short: "Show the verification status of EMAIL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, b, err := cl.do(http.MethodGet, "/auth/verification-status?email="+url.QueryEscape(args[0]), nil)
			if err != nil {
				return err
			}
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("status failed: status=%d message=%q", resp.StatusCode, message(b))
			}
			printJSON(cmd.OutOrStdout(), b)
			return nil
		},
	}
}

func newVerifyCmd(cl *client) *cobra.Command {
	return &cobra.Command{
		Use:   "verify TOKEN",
		Short: "Consume a verification token, as following the mailed link would",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, b, err := cl.do(http.MethodGet, "/verify?token="+url.QueryEscape(args[0]), nil)
			if err != nil {
				return err
			}
			switch {
			case resp.StatusCode == http.StatusFound || resp.StatusCode == http.StatusSeeOther:
				fmt.Fprintf(cmd.OutOrStdout(), "verified (redirect to %s)\n", resp.Header.Get("Location"))
				return nil
			case resp.StatusCode == http.StatusOK:
				return fmt.Errorf("not verified: %s", message(b))
			default:
				return fmt.Errorf("verify failed: status=%d message=%q", resp.StatusCode, message(b))
			}
		},
	}
}

func newMailTestCmd() *cobra.Command {
	var to string

	cmd := &cobra.Command{
		Use:   "mail-test",
		Short: "Send a test message through the SMTP account configured in the environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				return fmt.Errorf("--to is required")
			}
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("failed to load .env: %w", err)
			}

			var emailConfig config.EmailConfig
			if err := cleanenv.ReadEnv(&emailConfig); err != nil {
				return fmt.Errorf("failed to read email config: %w", err)
			}
			if errs := emailConfig.Validate(); len(errs) > 0 {
				return errs
			}

			notifier, err := notification.NewEmailNotifier(emailConfig.ToSMTPConfig())
			if err != nil {
				return err
			}

			receipt, err := notifier.Send(context.Background(), notification.Message{
				To:      to,
				Subject: "Test email from verifyctl",
				Text:    "This is a test email from the verification service mail checker.",
			})
			if err != nil {
				return fmt.Errorf("failed to send email: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Email sent successfully (message id %s)\n", receipt.MessageID)
			return nil
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "Recipient address")
	return cmd
}
