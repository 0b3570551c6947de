package markdowncmd

import (
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

const importDirectoryMessageType = "contentstore.markdown.import_directory"

// ImportDirectoryCommand imports every Markdown file under Directory as a
// blog post.
type ImportDirectoryCommand struct {
	Directory string `json:"directory"`
	// Pattern filters file names, "*.md" when empty.
	Pattern string `json:"pattern,omitempty"`
	DryRun  bool   `json:"dry_run,omitempty"`
	// Report receives the import summary, including partial results of a
	// failed run.
	Report func(*interfaces.ImportResult) `json:"-"`
}

// Type implements command.Message.
func (ImportDirectoryCommand) Type() string { return importDirectoryMessageType }

// Validate ensures a directory was given.
func (cmd ImportDirectoryCommand) Validate() error {
	return validation.ValidateStruct(&cmd,
		validation.Field(&cmd.Directory, validation.By(func(value any) error {
			if strings.TrimSpace(value.(string)) == "" {
				return validation.NewError("contentstore.markdown.import_directory.directory_required", "directory is required")
			}
			return nil
		})),
	)
}
