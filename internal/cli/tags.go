package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/syncgo/internal/catalog"
)

// CatalogView lists the suggested tags, categories and reactions.
type CatalogView struct {
	Tags       []string           `json:"tags"`
	Categories []catalog.Category `json:"categories"`
	Reactions  []string           `json:"reactions"`
}

// NewTagsCommand creates the tags command.
func NewTagsCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "tags",
		Short:         "List suggested hashtags, categories and reactions",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			view := CatalogView{
				Tags:       catalog.CommonTags,
				Categories: catalog.Categories,
				Reactions:  catalog.ReactionEmojis,
			}
			return rootOpts.formatter(cmd).Success(view, func(w io.Writer) {
				fmt.Fprintln(w, "Hashtags:")
				for _, t := range view.Tags {
					fmt.Fprintf(w, "  #%s\n", t)
				}
				fmt.Fprintln(w, "Categories:")
				for _, c := range view.Categories {
					fmt.Fprintf(w, "  %-12s %s\n", c.Value, c.Label)
				}
				fmt.Fprintln(w, "Reactions:")
				for _, r := range view.Reactions {
					fmt.Fprintf(w, "  %s\n", r)
				}
			})
		},
	}
}
