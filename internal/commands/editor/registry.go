package editorcmd

import (
	"errors"

	"github.com/goliatone/go-command/dispatcher"

	"github.com/goliatone/go-mdstyle/internal/commands"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// CommandRegistry is the minimal registration contract expected when wiring command handlers.
type CommandRegistry interface {
	RegisterCommand(handler any) error
}

// HandlerSet groups the editor command handlers.
type HandlerSet struct {
	Edit    *DocumentEditedHandler
	Clear   *ClearStylesHandler
	Palette *ChangePaletteHandler
}

// RegisterEditorCommands builds the editor handlers over session and
// registers them with reg when it is non-nil.
func RegisterEditorCommands(reg CommandRegistry, session *Session, provider interfaces.LoggerProvider) (*HandlerSet, error) {
	if session == nil {
		return nil, errors.New("editor command registration: session is nil")
	}

	logger := commands.CommandLogger(provider, "editor")
	set := &HandlerSet{
		Edit:    NewDocumentEditedHandler(session, logger),
		Clear:   NewClearStylesHandler(session.Engine(), logger),
		Palette: NewChangePaletteHandler(session.Engine(), logger),
	}

	if reg != nil {
		for _, handler := range []any{set.Edit, set.Clear, set.Palette} {
			if err := reg.RegisterCommand(handler); err != nil {
				return nil, err
			}
		}
	}
	return set, nil
}

// Subscribe attaches the handlers to the go-command dispatcher so editor
// events can be sent with dispatcher.Dispatch. The returned function removes
// the subscriptions.
func (s *HandlerSet) Subscribe() func() {
	subs := []interface{ Unsubscribe() }{
		dispatcher.SubscribeCommand(s.Edit),
		dispatcher.SubscribeCommand(s.Clear),
		dispatcher.SubscribeCommand(s.Palette),
	}
	return func() {
		for _, sub := range subs {
			sub.Unsubscribe()
		}
	}
}
