package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/janhq/dm-server/pkg/dmclient"
)

var usersCmd = &cobra.Command{
	Use:   "users [search]",
	Short: "Search users by name or email",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		term := ""
		if len(args) == 1 {
			term = args[0]
		}
		users, err := s.client.SearchUsers(cmd.Context(), term)
		if err != nil {
			return err
		}
		printUsers(cmd, users)
		return nil
	},
}

var conversationsCmd = &cobra.Command{
	Use:   "conversations",
	Short: "List users you have exchanged messages with",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		users, err := s.client.Conversations(cmd.Context())
		if err != nil {
			return err
		}
		printUsers(cmd, users)
		return nil
	},
}

var deleteConversationCmd = &cobra.Command{
	Use:   "delete-conversation <conversationId>",
	Short: "Delete a conversation and all of its messages",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		n, err := s.client.DeleteConversation(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted conversation %s (%d messages)\n", args[0], n)
		return nil
	},
}

func printUsers(cmd *cobra.Command, users []dmclient.User) {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tEMAIL")
	for _, u := range users {
		fmt.Fprintf(w, "%s\t%s\t%s\n", u.ID, u.Name, u.Email)
	}
	_ = w.Flush()
}
