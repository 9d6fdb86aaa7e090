package editorcmd

import (
	"strings"
	"testing"

	"github.com/google/uuid"
)

func TestDocumentEditedCommandValidateRequiresDocumentID(t *testing.T) {
	cmd := DocumentEditedCommand{Text: "# hi"}
	if err := cmd.Validate(); err == nil {
		t.Fatal("expected error when document id missing")
	}

	cmd.DocumentID = uuid.New()
	if err := cmd.Validate(); err != nil {
		t.Fatalf("unexpected error with document id: %v", err)
	}

	cmd.Text = ""
	if err := cmd.Validate(); err != nil {
		t.Fatalf("empty text should be accepted: %v", err)
	}
}

func TestClearStylesCommandValidateReasonLength(t *testing.T) {
	if err := (ClearStylesCommand{}).Validate(); err != nil {
		t.Fatalf("unexpected error without reason: %v", err)
	}
	if err := (ClearStylesCommand{Reason: strings.Repeat("x", 201)}).Validate(); err == nil {
		t.Fatal("expected error for long reason")
	}
}

func TestChangePaletteCommandValidate(t *testing.T) {
	for _, palette := range []string{"", "sepia"} {
		if err := (ChangePaletteCommand{Palette: palette}).Validate(); err == nil {
			t.Fatalf("expected error for palette %q", palette)
		}
	}
	if err := (ChangePaletteCommand{Palette: " Dark "}).Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
