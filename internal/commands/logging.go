package commands

import (
	"strings"

	"github.com/goliatone/go-mdstyle/internal/logging"
	"github.com/goliatone/go-mdstyle/pkg/interfaces"
)

// CommandLogger returns the editor module logger tagged with the command
// group handling the message.
func CommandLogger(provider interfaces.LoggerProvider, group string) interfaces.Logger {
	name := strings.TrimSpace(group)
	if name == "" {
		name = "core"
	}
	return logging.WithFields(logging.EditorLogger(provider), map[string]any{
		"component":     "command",
		"command_group": name,
	})
}
