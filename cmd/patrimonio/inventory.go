package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/lamic-ufsm/patrimonio/internal/frontend/inventory"
	"github.com/lamic-ufsm/patrimonio/pkg/currency"
)

// formFlags are the flags shared by add and edit.
type formFlags struct {
	number    string
	secondary string
	name      string
	room      string
	quantity  int
	value     string
}

func (f *formFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.number, "numero", "", "nº de patrimônio LAMIC")
	cmd.Flags().StringVar(&f.secondary, "ufsm", "", "nº de patrimônio UFSM")
	cmd.Flags().StringVar(&f.name, "nome", "", "nome ou descrição")
	cmd.Flags().StringVar(&f.room, "sala", "", "sala")
	cmd.Flags().IntVar(&f.quantity, "quantidade", 1, "quantidade")
	cmd.Flags().StringVar(&f.value, "valor", "", "valor total digitado em centavos, ex.: 150000 para R$ 1.500,00")
}

// apply copies the flags the user set onto form.
func (f *formFlags) apply(cmd *cobra.Command, form *inventory.Form) {
	flags := cmd.Flags()
	if flags.Changed("numero") {
		form.AssetNumberPrimary = f.number
	}
	if flags.Changed("ufsm") {
		form.AssetNumberSecondary = f.secondary
	}
	if flags.Changed("nome") {
		form.Name = f.name
	}
	if flags.Changed("sala") {
		form.Room = f.room
	}
	if flags.Changed("quantidade") {
		form.Quantity = f.quantity
	}
	if flags.Changed("valor") {
		form.SetValueDigits(f.value)
	}
}

func newRoomsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "salas",
		Short: "Lista as salas disponíveis",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rooms, err := a.client.ListRooms(cmd.Context())
			if err != nil {
				return err
			}
			for _, room := range rooms {
				fmt.Fprintln(a.out, room)
			}
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "listar",
		Short: "Lista os itens do inventário",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := a.newView()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			view.SetQuery(query)
			return view.Render(a.out)
		},
	}
	cmd.Flags().StringVarP(&query, "filtro", "f", "", "filtra por nome, patrimônio ou sala")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var flags formFlags

	cmd := &cobra.Command{
		Use:   "adicionar",
		Short: "Cadastra um item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			view := a.newView()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			view.UpdateForm(func(form *inventory.Form) { flags.apply(cmd, form) })
			form := view.Form()
			if err := submit(cmd, view); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Item %s salvo (%s).\n", form.AssetNumberPrimary, currency.Format(form.TotalValue))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var flags formFlags

	cmd := &cobra.Command{
		Use:   "editar <id>",
		Short: "Altera um item existente",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := a.newView()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			record, ok := view.Find(args[0])
			if !ok {
				return fmt.Errorf("item %s não encontrado", args[0])
			}

			view.BeginEdit(record)
			view.UpdateForm(func(form *inventory.Form) { flags.apply(cmd, form) })
			if err := submit(cmd, view); err != nil {
				return err
			}
			fmt.Fprintf(a.out, "Item %s atualizado.\n", record.ID)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "excluir <id>",
		Short: "Exclui um item após confirmação",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			view := a.newView()
			if err := view.Load(cmd.Context()); err != nil {
				return err
			}
			record, ok := view.Find(args[0])
			if !ok {
				return fmt.Errorf("item %s não encontrado", args[0])
			}

			fmt.Fprintf(a.out, "%s - %s (%s)\n", record.AssetNumberPrimary, record.Name, record.Room)
			confirmed, err := view.Delete(cmd.Context(), record.Room, record.ID)
			if err != nil {
				return err
			}
			if !confirmed {
				fmt.Fprintln(a.out, "Cancelado.")
				return nil
			}
			fmt.Fprintln(a.out, "Item deletado com sucesso")
			return nil
		},
	}
}

// submit saves the form, listing the valid rooms when the form is rejected.
func submit(cmd *cobra.Command, view *inventory.View) error {
	err := view.Submit(cmd.Context())
	if errors.Is(err, inventory.ErrInvalidForm) {
		return fmt.Errorf("%w\nsalas válidas: %s", err, strings.Join(view.Rooms(), ", "))
	}
	return err
}
