package cmd

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nfrund/accounttabs/internal/domain"
	"github.com/nfrund/accounttabs/internal/tabs"
)

// tabsOutput is the JSON printed by the tabs command.
type tabsOutput struct {
	ActiveTab       domain.Tab `json:"active_tab"`
	ResetTabVisible bool       `json:"reset_tab_visible"`
}

func newTabsCmd() *cobra.Command {
	var query string
	var errorNotices []string

	cmd := &cobra.Command{
		Use:   "tabs",
		Short: "Show which account tab a request would open",
		Long: `Compute the tab state for an account page query string and a set of
pending error notices. A reset key pair in the query is checked against the
configured account store.

Examples:
  account-cli tabs --query "action=lostpassword"
  account-cli tabs --error "An account is already registered, please register with another email."
  account-cli tabs --query "key=abc&login=bob"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			values, err := url.ParseQuery(strings.TrimPrefix(query, "?"))
			if err != nil {
				return err
			}
			q := tabs.ParseQuery(values)

			notices := make([]domain.Notice, 0, len(errorNotices))
			for _, msg := range errorNotices {
				notices = append(notices, domain.NewError(domain.FormNone, msg))
			}

			var checker tabs.TokenChecker
			if q.HasResetPair() {
				svc, closeStore, err := openService(cmd.Context())
				if err != nil {
					return err
				}
				defer closeStore()
				checker = svc
			}

			state := tabs.Compute(cmd.Context(), q, notices, checker)
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(tabsOutput{ActiveTab: state.ActiveTab, ResetTabVisible: state.ResetTabVisible})
		},
	}
	cmd.Flags().StringVar(&query, "query", "", "Query string of the account page request")
	cmd.Flags().StringArrayVar(&errorNotices, "error", nil, "Pending error notice text (repeatable)")
	return cmd
}
