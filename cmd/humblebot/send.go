package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"humblebot/internal/config"
	chatModels "humblebot/internal/domain/models/chat"
	chatSvc "humblebot/internal/domain/services/chat"
)

var sendCmd = &cobra.Command{
	Use:   "send <text>",
	Short: "Send one message and print the reply",
	Long: `Sends a single message through a fresh session and prints the reply.
Exits non-zero with the session's error message when the backend fails.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSend,
}

func runSend(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" {
		return errors.New("message is empty")
	}
	if utf8.RuneCountInString(text) > config.MaxMessageLength {
		return fmt.Errorf("message is longer than %d characters", config.MaxMessageLength)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	snap, err := sendAndWait(ctx, s.chat, text)
	if err != nil {
		return err
	}
	if snap.HasError() {
		return errors.New(snap.ErrorText())
	}

	reply, _ := snap.LastReply()
	fmt.Fprintln(cmd.OutOrStdout(), reply.Text)
	return nil
}

// sendAndWait sends text and blocks until the session settles with the outcome
func sendAndWait(ctx context.Context, session chatSvc.Session, text string) (chatModels.Snapshot, error) {
	updates, unsubscribe := session.Subscribe()
	defer unsubscribe()

	session.SendMessage(ctx, text)

	for {
		select {
		case <-ctx.Done():
			return chatModels.Snapshot{}, ctx.Err()
		case snap, ok := <-updates:
			if !ok {
				return chatModels.Snapshot{}, errors.New("session closed before the reply arrived")
			}
			// The first value may predate the send; wait for the settled state that includes it
			if !snap.Busy && len(snap.Messages) > 0 {
				return snap, nil
			}
		}
	}
}
