package main

import (
	"fmt"

	"github.com/spf13/cobra"

	contentstore "github.com/cloudevolvers/go-contentstore"
	"github.com/cloudevolvers/go-contentstore/pkg/interfaces"
)

func newImportCommand(a *app) *cobra.Command {
	var (
		pattern string
		dryRun  bool
	)
	cmd := &cobra.Command{
		Use:   "import [dir]",
		Short: "Import Markdown files with front matter as blog posts",
		Long: `Import walks dir (default markdown.dir) for Markdown files and upserts
each one as a blog post in the default language, matching existing posts by
slug. Unchanged posts are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a.cfg.Markdown.Enabled = true
			if len(args) == 1 {
				a.cfg.Markdown.Dir = args[0]
			}
			if pattern != "" {
				a.cfg.Markdown.Pattern = pattern
			}
			module, err := a.module()
			if err != nil {
				return err
			}
			defer module.Close()

			var report *interfaces.ImportResult
			err = module.ImportMarkdown(cmd.Context(), contentstore.ImportDirectoryCommand{
				Directory: ".",
				Pattern:   a.cfg.Markdown.Pattern,
				DryRun:    dryRun,
				Report:    func(result *interfaces.ImportResult) { report = result },
			})
			if report != nil {
				printImportReport(cmd, report, dryRun)
			}
			if err != nil {
				return fmt.Errorf("import markdown: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "pattern", "", "file name pattern (default markdown.pattern)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	return cmd
}

func printImportReport(cmd *cobra.Command, report *interfaces.ImportResult, dryRun bool) {
	out := cmd.OutOrStdout()
	prefix := ""
	if dryRun {
		prefix = "[dry-run] "
	}
	for _, slug := range report.Created {
		fmt.Fprintf(out, "%screated %s\n", prefix, slug)
	}
	for _, slug := range report.Updated {
		fmt.Fprintf(out, "%supdated %s\n", prefix, slug)
	}
	for _, slug := range report.Skipped {
		fmt.Fprintf(out, "%sskipped %s\n", prefix, slug)
	}
	for _, err := range report.Errors {
		fmt.Fprintf(cmd.ErrOrStderr(), "%sfailed: %v\n", prefix, err)
	}
	fmt.Fprintf(out, "%s%d created, %d updated, %d skipped, %d failed\n", prefix,
		len(report.Created), len(report.Updated), len(report.Skipped), len(report.Errors))
}
