package main

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/janhq/dm-server/internal/domain/message"
	"github.com/janhq/dm-server/pkg/dmclient"
)

var sendCmd = &cobra.Command{
	Use:   "send <receiver> <content>",
	Short: "Send a message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		replyTo, _ := cmd.Flags().GetString("reply-to")
		msg, err := s.client.Send(cmd.Context(), dmclient.SendRequest{
			Receiver:         args[0],
			Content:          args[1],
			ReplyToMessageID: replyTo,
		})
		if err != nil {
			return sendFailure(err, args[0], replyTo)
		}
		printMessage(cmd.OutOrStdout(), dmclient.Decode(*msg), "")
		return nil
	},
}

// sendFailure names the missing party when the server answers 404.
func sendFailure(err error, receiver, replyTo string) error {
	var apiErr *dmclient.APIError
	if !errors.As(err, &apiErr) || apiErr.Status != http.StatusNotFound {
		return err
	}
	if apiErr.Message == message.ReceiverNotFound || replyTo == "" {
		return fmt.Errorf("no user with id %q; use `dmctl users` to look one up: %w", receiver, err)
	}
	return fmt.Errorf("message %q to reply to was not found: %w", replyTo, err)
}

var messagesCmd = &cobra.Command{
	Use:   "messages <receiver>",
	Short: "Show messages exchanged with a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		msgs, err := s.client.Messages(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, m := range dmclient.DecodeAll(msgs) {
			printMessage(cmd.OutOrStdout(), m, "")
		}
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history <conversationId>",
	Short: "Show a conversation with sender names",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		msgs, err := s.client.ConversationMessages(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		for _, m := range msgs {
			decoded := dmclient.Decode(dmclient.Message{
				ID:               m.ID,
				Sender:           m.Sender.ID,
				Receiver:         m.Receiver,
				Content:          m.Content,
				Timestamp:        m.Timestamp,
				ConversationID:   m.ConversationID,
				ReplyToMessageID: m.ReplyToMessageID,
			})
			printMessage(cmd.OutOrStdout(), decoded, m.Sender.Name)
		}
		return nil
	},
}

var deleteMessageCmd = &cobra.Command{
	Use:   "delete-message <messageId>",
	Short: "Delete one message",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		if err := s.client.DeleteMessage(cmd.Context(), args[0]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted message %s\n", args[0])
		return nil
	},
}

var clearCmd = &cobra.Command{
	Use:   "clear <conversationId> <otherUserId>",
	Short: "Delete every message of a conversation and keep it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := openSession(cmd)
		if err != nil {
			return err
		}
		defer s.close()

		n, err := s.client.ClearConversation(cmd.Context(), args[0], args[1])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "cleared %d messages\n", n)
		return nil
	},
}

func init() {
	sendCmd.Flags().String("reply-to", "", "ID of the message being replied to")
}

// printMessage writes one message line, with the quoted excerpt above it
// for replies. sender overrides the sender id when non-empty.
func printMessage(w io.Writer, m dmclient.DecodedMessage, sender string) {
	if sender == "" {
		sender = m.Sender
	}
	if m.IsReply() {
		fmt.Fprintf(w, "    > %s\n", m.Excerpt)
	}
	fmt.Fprintf(w, "[%s] %s: %s  (%s)\n", m.Timestamp.Local().Format(time.DateTime), sender, m.Body, m.ID)
}

