package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dhamidi/mangata/asciidoc/attrlist"
)

func newAttrlistCmd() *cobra.Command {
	var infer bool

	cmd := &cobra.Command{
		Use:   "attrlist <text>",
		Short: "Parse a block attribute list and print it as JSON",
		Example: `  mangata attrlist 'source,ruby,role=example'
  mangata attrlist '[quote, Ada Lovelace]'`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := strings.Join(args, " ")
			if strings.HasPrefix(text, "[") && strings.HasSuffix(text, "]") {
				text = text[1 : len(text)-1]
			}

			attrs := attrlist.Parse(text)
			if infer {
				attrlist.InferMetadata(attrs)
			}

			data, err := json.MarshalIndent(attrs, "", "  ")
			if err != nil {
				return fmt.Errorf("encode attributes: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&infer, "infer", false, "derive style, id, roles and options from shorthand syntax")

	return cmd
}
