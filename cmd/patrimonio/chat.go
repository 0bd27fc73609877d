package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/lamic-ufsm/patrimonio/internal/domain/models"
	"github.com/lamic-ufsm/patrimonio/internal/frontend/assistant"
	"github.com/lamic-ufsm/patrimonio/pkg/currency"
)

const exitCommand = "/sair"

func newChatCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "chat",
		Short: "Conversa com o assistente de patrimônio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := a.newView()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}

			panel := assistant.NewPanel(a.client, func(record models.AssetRecord) {
				view.ApplyExternalInsert(record)
				fmt.Fprintf(a.out, "  + %s - %s (%s) %s\n", record.AssetNumberPrimary, record.Name, record.Room, currency.Format(record.TotalValue))
			}, a.logger)

			fmt.Fprintf(a.out, "Assistente: %s\n", assistant.Greeting)
			fmt.Fprintf(a.out, "(digite %s para encerrar)\n", exitCommand)
			for {
				fmt.Fprint(a.out, "> ")
				line, err := a.readLine()
				if errors.Is(err, io.EOF) || line == exitCommand {
					break
				}
				if err != nil {
					return err
				}
				if line == "" {
					continue
				}

				fmt.Fprintln(a.out, assistant.TypingIndicator)
				if err := panel.Send(cmd.Context(), line); err != nil {
					return err
				}
				turns := panel.Turns()
				fmt.Fprintf(a.out, "Assistente: %s\n", turns[len(turns)-1].Text)
			}

			fmt.Fprintf(a.out, "Inventário com %d itens.\n", len(view.Items()))
			return nil
		},
	}
}
