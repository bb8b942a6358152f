// Package tui implements the terminal admin console: browse the synced
// collections, upload and delete sermons, and watch live updates arrive.
package tui

import (
	"context"
	"errors"

	"github.com/chapelworks/mediasync/internal/logger"
	"github.com/chapelworks/mediasync/internal/service"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrUserQuit reports that the user exited the program from the UI.
var ErrUserQuit = errors.New("quit by user")

type TUI struct {
	services *service.ClientServices
}

func New(services *service.ClientServices, _ *logger.Logger) (*TUI, error) {
	return &TUI{services: services}, nil
}

// Run drives the main screen until the user quits. Browsing works
// without a session; login is an in-app overlay.
func (t *TUI) Run(ctx context.Context) error {
	model := newAppModel(ctx, t.services)
	finalModel, err := tea.NewProgram(model, tea.WithAltScreen()).Run()
	if err != nil {
		return err
	}

	result, ok := finalModel.(appModel)
	if !ok {
		return tea.ErrProgramKilled
	}
	if result.quitByUser {
		return ErrUserQuit
	}
	return nil
}
