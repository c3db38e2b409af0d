package main

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/google/renameio"
	"github.com/spf13/cobra"

	"github.com/dhamidi/mangata/asciidoc"
	"github.com/dhamidi/mangata/format"
)

func newParseCmd(cfg *config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Parse an AsciiDoc document and dump its node tree",
		Long: `Parse an AsciiDoc document and write its node tree in one of the
output formats. Without a file, or with "-", the document is read from
standard input. Recovery diagnostics are written to standard error.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.bind(cmd.Flags(), "format", "attribute", "attributes-file", "max-depth")

			name := "-"
			if len(args) == 1 {
				name = args[0]
			}
			source, err := readSource(cmd, name)
			if err != nil {
				return err
			}

			opts, err := cfg.parseOptions()
			if err != nil {
				return err
			}
			doc, err := asciidoc.Parse(source, opts...)
			if err != nil {
				return fmt.Errorf("parse %s: %w", name, err)
			}
			for _, d := range doc.Diagnostics {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s:%s\n", name, d)
			}

			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				return encodeTo(cmd.OutOrStdout(), cfg.v.GetString("format"), doc)
			}

			var buf bytes.Buffer
			if err := encodeTo(&buf, cfg.v.GetString("format"), doc); err != nil {
				return err
			}
			if err := renameio.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}
			log.Infof("wrote %s", output)
			return nil
		},
	}

	cmd.Flags().StringP("format", "f", "json", fmt.Sprintf("output format %v", format.Names))
	cmd.Flags().StringP("output", "o", "", "write output to file instead of stdout")
	addParseFlags(cmd)

	return cmd
}

// addParseFlags registers the flags that feed config.parseOptions.
func addParseFlags(cmd *cobra.Command) {
	cmd.Flags().StringArrayP("attribute", "a", nil, "preset document attribute as name=value (repeatable)")
	cmd.Flags().String("attributes-file", "", "TOML or YAML file of preset attributes")
	cmd.Flags().Int("max-depth", 0, "maximum nesting depth of sections and blocks (0 for no limit)")
}

func readSource(cmd *cobra.Command, name string) (string, error) {
	var (
		data []byte
		err  error
	)
	if name == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(name)
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", name, err)
	}
	return string(data), nil
}

func encodeTo(w io.Writer, name string, doc *asciidoc.Document) error {
	enc, err := format.New(name, w)
	if err != nil {
		return err
	}
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("encode %s: %w", name, err)
	}
	return nil
}
