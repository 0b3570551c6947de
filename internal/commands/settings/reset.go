// Package settingscmd exposes settings maintenance as go-command handlers.
package settingscmd

import (
	"context"

	command "github.com/goliatone/go-command"

	"github.com/cloudevolvers/go-contentstore/internal/commands"
	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/internal/settings"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

const (
	resetHomepageMessageType = "contentstore.settings.reset_homepage"
	resetOperation           = "settings.reset_homepage"
)

// ResetHomepageCommand restores the homepage settings defaults.
type ResetHomepageCommand struct {
	// Report receives the stored settings.
	Report func(*settings.Homepage) `json:"-"`
}

// Type implements command.Message.
func (ResetHomepageCommand) Type() string { return resetHomepageMessageType }

// Validate implements command validation. The command has no inputs.
func (ResetHomepageCommand) Validate() error { return nil }

// HomepageResetter is the settings service surface the handler needs.
type HomepageResetter interface {
	Reset(ctx context.Context) (*settings.Homepage, error)
}

var _ command.Commander[ResetHomepageCommand] = (*ResetHomepageHandler)(nil)

// ResetHomepageHandler runs ResetHomepageCommand.
type ResetHomepageHandler struct {
	inner *commands.Handler[ResetHomepageCommand]
}

// NewResetHomepageHandler binds the handler to service.
func NewResetHomepageHandler(service HomepageResetter, logger interfaces.Logger, opts ...commands.HandlerOption[ResetHomepageCommand]) *ResetHomepageHandler {
	if logger == nil {
		logger = logging.NoOp()
	}
	exec := func(ctx context.Context, msg ResetHomepageCommand) error {
		home, err := service.Reset(ctx)
		if err != nil {
			return err
		}
		if msg.Report != nil {
			msg.Report(home)
		}
		return nil
	}
	handlerOpts := append([]commands.HandlerOption[ResetHomepageCommand]{
		commands.WithLogger[ResetHomepageCommand](logger),
		commands.WithOperation[ResetHomepageCommand](resetOperation),
	}, opts...)
	return &ResetHomepageHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ResetHomepageCommand].
func (h *ResetHomepageHandler) Execute(ctx context.Context, msg ResetHomepageCommand) error {
	return h.inner.Execute(ctx, msg)
}
