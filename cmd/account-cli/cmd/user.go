package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/cobra"

	"github.com/nfrund/accounttabs/internal/domain/auth_errors"
	"github.com/nfrund/accounttabs/internal/forms"
)

func newUserCmd() *cobra.Command {
	user := &cobra.Command{
		Use:   "user",
		Short: "Manage customer accounts",
	}
	user.AddCommand(newUserCreateCmd(), newUserResetLinkCmd())
	return user
}

func newUserCreateCmd() *cobra.Command {
	var emailAddr, password string

	create := &cobra.Command{
		Use:   "create",
		Short: "Create a customer account",
		Long: `Create a customer account the same way the register form does: the
username is derived from the email address and a password is generated
(and emailed) when none is given.

Examples:
  account-cli user create --email bob@example.com --password Secret123
  account-cli user create --email carol@example.com`,
		RunE: func(cmd *cobra.Command, args []string) error {
			emailAddr = strings.ToLower(strings.TrimSpace(emailAddr))
			if err := validator.New().Var(emailAddr, "required,email"); err != nil {
				return errors.New(forms.MsgInvalidEmail)
			}

			ctx := cmd.Context()
			svc, closeStore, err := openService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			exists, err := svc.EmailExists(ctx, emailAddr)
			if err != nil {
				return err
			}
			if exists {
				return errors.New(forms.MsgEmailRegistered)
			}

			username, err := forms.DeriveUsername(ctx, emailAddr, svc.UsernameExists)
			if err != nil {
				return err
			}

			generated := password == ""
			if generated {
				if password, err = svc.GeneratePassword(); err != nil {
					return err
				}
			}

			account, err := svc.CreateAccount(ctx, emailAddr, username, password, generated)
			if err != nil {
				return errors.New(auth_errors.Message(err, forms.MsgRegistrationFailed))
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created account %s <%s>\n", account.Username, account.Email)
			if generated {
				fmt.Fprintln(cmd.OutOrStdout(), "A generated password was emailed to the customer.")
			}
			return nil
		},
	}
	create.Flags().StringVar(&emailAddr, "email", "", "Email address of the new account")
	create.Flags().StringVar(&password, "password", "", "Password; generated and emailed when empty")
	_ = create.MarkFlagRequired("email")
	return create
}

func newUserResetLinkCmd() *cobra.Command {
	var login string

	reset := &cobra.Command{
		Use:   "reset-link",
		Short: "Email a password reset link to a customer",
		Long: `Issue a fresh password reset key for the account and email the link,
exactly like the lost password form. Any earlier key stops working.

Example:
  account-cli user reset-link --login bob`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc, closeStore, err := openService(ctx)
			if err != nil {
				return err
			}
			defer closeStore()

			if err := svc.IssueResetToken(ctx, login); err != nil {
				return errors.New(auth_errors.Message(err, forms.MsgResetRequestFailed))
			}
			fmt.Fprintln(cmd.OutOrStdout(), forms.MsgResetEmailSent)
			return nil
		},
	}
	reset.Flags().StringVar(&login, "login", "", "Username or email address of the account")
	_ = reset.MarkFlagRequired("login")
	return reset
}
