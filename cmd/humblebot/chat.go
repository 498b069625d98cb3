package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"humblebot/internal/catalog"
	"humblebot/internal/config"
	"humblebot/internal/service/backend"
	chatService "humblebot/internal/service/chat"
	"humblebot/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat interface (default)",
	Args:  cobra.NoArgs,
	RunE:  runChat,
}

// session bundles what every session-driven command needs
type session struct {
	cfg       *config.Config
	logger    *slog.Logger
	selection *backend.Selection
	chat      *chatService.Service
	closeLog  func()
}

// openSession loads config, sets up file logging and the backend, and starts a session.
// Logs go to a rotated file so they never mix with terminal output.
func openSession(ctx context.Context) (*session, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}

	logFile, err := config.SetupLogFile(cfg.LogDir, cfg.MaxLogFiles)
	if err != nil {
		return nil, fmt.Errorf("setup log file: %w", err)
	}
	logger := config.NewLogger(cfg, logFile)

	cat, err := catalog.NewRegistry()
	if err != nil {
		logFile.Close()
		return nil, fmt.Errorf("load backend catalog: %w", err)
	}

	selection, err := backend.Setup(ctx, cfg, cat, logger)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	policy, err := chatService.ParseLateResultPolicy(cfg.LateResultPolicy)
	if err != nil {
		logFile.Close()
		return nil, err
	}

	return &session{
		cfg:       cfg,
		logger:    logger,
		selection: selection,
		chat:      chatService.NewService(selection.Backend, logger, chatService.WithLateResultPolicy(policy)),
		closeLog:  func() { _ = logFile.Close() },
	}, nil
}

func (s *session) Close() {
	s.chat.Close()
	s.closeLog()
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s, err := openSession(ctx)
	if err != nil {
		return err
	}
	defer s.Close()

	subtitle := s.selection.Name
	if s.selection.Model != "" {
		subtitle += " · " + s.selection.Model
	}

	model := tui.New(ctx, s.chat, tui.Options{Subtitle: subtitle})
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("chat interface: %w", err)
	}
	return nil
}
