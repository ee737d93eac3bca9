package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hipifygo/hipify/internal/frontend"
	"github.com/hipifygo/hipify/internal/lsp"
	"github.com/hipifygo/hipify/internal/rename"
)

func lspCmd() *cobra.Command {
	var extraMappings []string

	cmd := &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server that diagnoses CUDA vocabulary over stdio",
		Long:  `Start a language server (LSP) that reports unsupported/unrecognized SRC references and hover mappings (stdio mode).`,
		RunE: func(_ *cobra.Command, _ []string) error {
			tables := rename.Load()

			for _, path := range extraMappings {
				if err := tables.LoadExtension(path); err != nil {
					return fmt.Errorf("load extension %s: %w", path, err)
				}
			}

			parser, err := frontend.NewParser()
			if err != nil {
				return fmt.Errorf("init parser: %w", err)
			}

			lsp.NewServer(tables, parser).Run()

			return nil
		},
	}

	cmd.Flags().StringSliceVar(&extraMappings, "extra-mappings", nil, "YAML rename-table extension files")

	return cmd
}
