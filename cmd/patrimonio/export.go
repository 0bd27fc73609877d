package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/lamic-ufsm/patrimonio/pkg/clients/patrimonio"
)

var exportKinds = map[string]patrimonio.ExportKind{
	"xlsx":  patrimonio.ExportSpreadsheet,
	"excel": patrimonio.ExportSpreadsheet,
	"pdf":   patrimonio.ExportDocument,
}

func newExportCmd(a *app) *cobra.Command {
	var (
		dir     string
		showURL bool
	)

	cmd := &cobra.Command{
		Use:       "exportar <xlsx|pdf>",
		Short:     "Baixa o inventário em planilha ou PDF",
		Args:      cobra.ExactArgs(1),
		ValidArgs: []string{"xlsx", "excel", "pdf"},
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, ok := exportKinds[args[0]]
			if !ok {
				return fmt.Errorf("formato desconhecido %q: use xlsx ou pdf", args[0])
			}
			if showURL {
				fmt.Fprintln(a.out, a.client.ExportURL(kind))
				return nil
			}

			filename, data, err := a.client.Export(cmd.Context(), kind)
			if err != nil {
				return err
			}
			path := filepath.Join(dir, filepath.Base(filename))
			if err := os.WriteFile(path, data, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", path, err)
			}
			a.logger.Debug("export saved", zap.String("path", path), zap.Int("bytes", len(data)))
			fmt.Fprintf(a.out, "Arquivo salvo em %s\n", path)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "diretório de destino")
	cmd.Flags().BoolVar(&showURL, "url", false, "apenas imprime o endereço de download")
	return cmd
}
