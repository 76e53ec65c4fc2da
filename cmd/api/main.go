package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"quizsalon/internal/infra/config"
	"quizsalon/internal/infra/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const releaseVersion = "1.0.0"

// @title QuizSalon API
// @version 1.0
// @description Backend do quiz multijogador em tempo real (salões, partidas, classement).
// @contact.name Suporte QuizSalon
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @externalDocs.description  Protocolo WebSocket em /ws (não interativo via Swagger)
func main() {
	cfg := config.Load()
	logger.Init(cfg.Log.Format, cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd(cfg).ExecuteContext(ctx)
	stop()
	cobra.CheckErr(err)
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	serveCmd := newServeCmd(cfg)

	root := &cobra.Command{
		Use:           "quizsalon",
		Short:         "Servidor do quiz multijogador em tempo real.",
		Args:          cobra.NoArgs,
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE:          serveCmd.RunE,
	}
	// serve é o comando padrão: as flags dele valem também na raiz
	root.Flags().AddFlagSet(serveCmd.Flags())

	root.AddCommand(serveCmd, newMigrateCmd(cfg))

	root.CompletionOptions.HiddenDefaultCmd = true
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	root.SetVersionTemplate("quizsalon v{{.Version}}\n")
	return root
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Aplica as migrações e inicia o servidor HTTP/WebSocket.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(cmd.Context(), cfg)
		},
	}

	fs := cmd.Flags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVarP(&cfg.Port, "port", "p", cfg.Port, "porta HTTP (env: PORT)")
	fs.StringVar(&cfg.PublicURL, "public-url", cfg.PublicURL, "URL pública usada nos QR codes (env: PUBLIC_URL)")
	return cmd
}

func newMigrateCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica as migrações pendentes e sai.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := openDatabase(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer conn.Close()
			logger.Info("Migrações aplicadas", "driver", cfg.Database.Driver)
			return nil
		},
	}
}
