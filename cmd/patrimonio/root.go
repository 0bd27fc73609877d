package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/lamic-ufsm/patrimonio/internal/config"
	"github.com/lamic-ufsm/patrimonio/internal/frontend/inventory"
	"github.com/lamic-ufsm/patrimonio/pkg/clients/patrimonio"
	"github.com/lamic-ufsm/patrimonio/pkg/logger"
)

// app is the state shared by every subcommand once the root pre-run has completed.
type app struct {
	in     *bufio.Reader
	out    io.Writer
	logger *zap.Logger
	client *patrimonio.APIClient

	envFile string
	apiURL  string
	verbose bool
}

func newRootCmd(in io.Reader, out io.Writer) *cobra.Command {
	a := &app{in: bufio.NewReader(in), out: out}

	rootCmd := &cobra.Command{
		Use:           "patrimonio",
		Short:         "Cliente do inventário de patrimônio do LAMIC",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}
	rootCmd.SetIn(in)
	rootCmd.SetOut(out)

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env", "", "arquivo .env com a configuração")
	rootCmd.PersistentFlags().StringVar(&a.apiURL, "api", "", "endereço do backend (padrão: PATRIMONIO_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "mostra logs de depuração")

	rootCmd.AddCommand(
		newRoomsCmd(a),
		newListCmd(a),
		newAddCmd(a),
		newEditCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newChatCmd(a),
	)
	return rootCmd
}

func (a *app) init(cmd *cobra.Command) error {
	cfg, err := config.Load(a.envFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	level := zapcore.WarnLevel
	if a.verbose {
		level = zapcore.DebugLevel
	}
	base, err := logger.NewConsole(level)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = base.Named(cmd.Name())

	baseURL := cfg.Client.BaseURL
	if a.apiURL != "" {
		baseURL = a.apiURL
	}
	a.client = patrimonio.NewClient(baseURL)
	a.logger.Debug("client configured", zap.String("base_url", baseURL))
	return nil
}

// newView builds an inventory view whose delete confirmation is asked on the terminal.
func (a *app) newView() *inventory.View {
	return inventory.NewView(a.client, inventory.ConfirmFunc(a.confirm), a.logger)
}

func (a *app) confirm(prompt string) bool {
	fmt.Fprintf(a.out, "%s [s/N] ", prompt)
	answer, err := a.readLine()
	if err != nil {
		return false
	}
	switch strings.ToLower(answer) {
	case "s", "sim", "y", "yes":
		return true
	}
	return false
}

// readLine returns the next trimmed input line. io.EOF is only returned when no
// text precedes it.
func (a *app) readLine() (string, error) {
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}
