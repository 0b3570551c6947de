package commands

import (
	"strings"

	"github.com/cloudevolvers/go-contentstore/internal/logging"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

const commandModuleRoot = "contentstore.commands"

// CommandLogger returns a module logger for the command handlers of module.
func CommandLogger(provider interfaces.LoggerProvider, module string) interfaces.Logger {
	name := strings.TrimSpace(module)
	if name == "" {
		name = "core"
	}
	logger := logging.ModuleLogger(provider, commandModuleRoot+"."+name)
	return logging.WithFields(logger, map[string]any{
		"component":      "command",
		"command_module": name,
	})
}
