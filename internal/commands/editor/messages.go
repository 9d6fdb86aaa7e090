package editorcmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"

	"github.com/goliatone/go-mdstyle/internal/highlight"
)

const (
	documentEditedMessageType = "mdstyle.editor.document_edited"
	clearStylesMessageType    = "mdstyle.editor.clear_styles"
	changePaletteMessageType  = "mdstyle.editor.change_palette"
)

// DocumentEditedCommand carries the full text of a document after an edit.
type DocumentEditedCommand struct {
	DocumentID uuid.UUID `json:"document_id"`
	// Text is the raw document, frontmatter included.
	Text string `json:"text"`
	// Force bypasses the debounce window.
	Force bool `json:"force,omitempty"`
}

// Type implements command.Message.
func (DocumentEditedCommand) Type() string { return documentEditedMessageType }

func (cmd DocumentEditedCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.DocumentID, validation.By(func(value any) error {
			if id, _ := value.(uuid.UUID); id == uuid.Nil {
				return validation.NewError("mdstyle.editor.document_edited.document_id_required", "document id is required")
			}
			return nil
		})),
	)
}

// ClearStylesCommand drops every cached highlight result.
type ClearStylesCommand struct {
	Reason string `json:"reason,omitempty"`
}

// Type implements command.Message.
func (ClearStylesCommand) Type() string { return clearStylesMessageType }

func (cmd ClearStylesCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Reason, validation.Length(0, 200)),
	)
}

// ChangePaletteCommand swaps the style configuration for the default one of
// another palette.
type ChangePaletteCommand struct {
	Palette string `json:"palette"`
}

// Type implements command.Message.
func (ChangePaletteCommand) Type() string { return changePaletteMessageType }

func (cmd ChangePaletteCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Palette, validation.Required, validation.By(func(value any) error {
			if _, err := highlight.ParsePalette(strings.TrimSpace(value.(string))); err != nil {
				return validation.NewError("mdstyle.editor.change_palette.palette_invalid", "palette must be light or dark")
			}
			return nil
		})),
	)
}
