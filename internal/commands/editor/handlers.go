package editorcmd

import (
	"context"
	"strings"

	command "github.com/goliatone/go-command"

	"github.com/goliatone/go-mdstyle/internal/commands"
	"github.com/goliatone/go-mdstyle/internal/highlight"
	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

const (
	editOperation    = "editor.document_edited"
	clearOperation   = "editor.clear_styles"
	paletteOperation = "editor.change_palette"
)

var (
	_ command.Commander[DocumentEditedCommand] = (*DocumentEditedHandler)(nil)
	_ command.Commander[ClearStylesCommand]    = (*ClearStylesHandler)(nil)
	_ command.Commander[ChangePaletteCommand]  = (*ChangePaletteHandler)(nil)
)

// DocumentEditedHandler feeds edits into the session pipelines.
type DocumentEditedHandler struct {
	inner *commands.Handler[DocumentEditedCommand]
}

func NewDocumentEditedHandler(session *Session, logger interfaces.Logger, opts ...commands.HandlerOption[DocumentEditedCommand]) *DocumentEditedHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg DocumentEditedCommand) error {
		snap, err := session.Edit(ctx, msg.DocumentID, msg.Text, msg.Force)
		if err != nil {
			return err
		}
		logging.WithFields(baseLogger, map[string]any{
			"document_id": msg.DocumentID,
			"span_count":  len(snap.Text.Spans),
			"fresh":       snap.Fresh,
		}).Debug("editor.command.document_edited.completed")
		return nil
	}

	handlerOpts := []commands.HandlerOption[DocumentEditedCommand]{
		commands.WithLogger[DocumentEditedCommand](baseLogger),
		commands.WithOperation[DocumentEditedCommand](editOperation),
		commands.WithMessageFields(func(msg DocumentEditedCommand) map[string]any {
			fields := commands.DocumentFields(msg.DocumentID, msg.Text)
			if msg.Force {
				fields["force"] = true
			}
			return fields
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[DocumentEditedCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &DocumentEditedHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[DocumentEditedCommand].
func (h *DocumentEditedHandler) Execute(ctx context.Context, msg DocumentEditedCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ClearStylesHandler empties the shared highlight cache.
type ClearStylesHandler struct {
	inner *commands.Handler[ClearStylesCommand]
}

func NewClearStylesHandler(engine *highlight.Engine, logger interfaces.Logger, opts ...commands.HandlerOption[ClearStylesCommand]) *ClearStylesHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ClearStylesCommand) error {
		return engine.ClearCache(ctx)
	}

	handlerOpts := []commands.HandlerOption[ClearStylesCommand]{
		commands.WithLogger[ClearStylesCommand](baseLogger),
		commands.WithOperation[ClearStylesCommand](clearOperation),
		commands.WithMessageFields(func(msg ClearStylesCommand) map[string]any {
			if reason := strings.TrimSpace(msg.Reason); reason != "" {
				return map[string]any{"reason": reason}
			}
			return nil
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ClearStylesCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ClearStylesHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ClearStylesCommand].
func (h *ClearStylesHandler) Execute(ctx context.Context, msg ClearStylesCommand) error {
	return h.inner.Execute(ctx, msg)
}

// ChangePaletteHandler installs the default style configuration of a palette.
type ChangePaletteHandler struct {
	inner *commands.Handler[ChangePaletteCommand]
}

func NewChangePaletteHandler(engine *highlight.Engine, logger interfaces.Logger, opts ...commands.HandlerOption[ChangePaletteCommand]) *ChangePaletteHandler {
	baseLogger := commands.EnsureLogger(logger)

	exec := func(ctx context.Context, msg ChangePaletteCommand) error {
		palette, err := highlight.ParsePalette(strings.TrimSpace(msg.Palette))
		if err != nil {
			return err
		}
		return engine.SetStyleConfig(ctx, highlight.DefaultStyleConfig(palette))
	}

	handlerOpts := []commands.HandlerOption[ChangePaletteCommand]{
		commands.WithLogger[ChangePaletteCommand](baseLogger),
		commands.WithOperation[ChangePaletteCommand](paletteOperation),
		commands.WithMessageFields(func(msg ChangePaletteCommand) map[string]any {
			return map[string]any{"palette": strings.TrimSpace(msg.Palette)}
		}),
		commands.WithTelemetry(commands.DefaultTelemetry[ChangePaletteCommand](baseLogger)),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &ChangePaletteHandler{inner: commands.NewHandler(exec, handlerOpts...)}
}

// Execute satisfies command.Commander[ChangePaletteCommand].
func (h *ChangePaletteHandler) Execute(ctx context.Context, msg ChangePaletteCommand) error {
	return h.inner.Execute(ctx, msg)
}
