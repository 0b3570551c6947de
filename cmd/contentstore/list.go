package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	contentstore "github.com/cloudevolvers/go-contentstore"
)

func newListCommand(a *app) *cobra.Command {
	var (
		lang   string
		query  contentstore.ListQuery
		hidden bool
	)
	cmd := &cobra.Command{
		Use:       "list <blog|services|showcase>",
		Short:     "Print the records of a collection as JSON",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"blog", "services", "showcase"},
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := a.module()
			if err != nil {
				return err
			}
			defer module.Close()

			if lang == "" {
				lang = a.cfg.DefaultLanguage
			}
			query.IncludeHidden = hidden
			ctx := cmd.Context()

			var (
				items any
				total int
			)
			switch strings.ToLower(args[0]) {
			case "blog", "posts":
				result, err := module.Posts().List(ctx, lang, query)
				if err != nil {
					return err
				}
				items, total = result.Items, result.Total
			case "services":
				result, err := module.Offerings().List(ctx, lang, query)
				if err != nil {
					return err
				}
				items, total = result.Items, result.Total
			case "showcase":
				result, err := module.Showcase().List(ctx, lang, query)
				if err != nil {
					return err
				}
				items, total = result.Items, result.Total
			default:
				return fmt.Errorf("unknown collection %q", args[0])
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"language": lang,
				"items":    items,
				"total":    total,
			})
		},
	}
	cmd.Flags().StringVar(&lang, "lang", "", "language to list (default is the configured default language)")
	cmd.Flags().StringVar(&query.Search, "search", "", "case-insensitive text filter")
	cmd.Flags().StringVar(&query.Category, "category", "", "category filter, \"all\" disables it")
	cmd.Flags().IntVar(&query.Limit, "limit", 0, "maximum records to print, 0 for all")
	cmd.Flags().BoolVar(&hidden, "all", false, "include unpublished or retired records")
	return cmd
}

func printJSON(w io.Writer, payload any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}
