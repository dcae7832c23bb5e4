package main

import (
	"context"
	"os"
	"path"
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/vfg2006/nicmap-api/infrastructure/database/postgres"
	"github.com/vfg2006/nicmap-api/infrastructure/integrator/zippopotam"
	"github.com/vfg2006/nicmap-api/infrastructure/integrator/zippopotam/zippopotamclient"
	"github.com/vfg2006/nicmap-api/infrastructure/repository"
	"github.com/vfg2006/nicmap-api/internal/api"
	"github.com/vfg2006/nicmap-api/internal/config"
	"github.com/vfg2006/nicmap-api/internal/scheduler"
	"github.com/vfg2006/nicmap-api/internal/usecases/dealing"
)

func main() {
	// Inicializa configuração de logs
	configureLogger()

	cfg, err := config.NewConfig()
	if err != nil {
		logrus.Fatal(err)
	}

	// Define o nível de log com base na configuração
	logLevel, err := logrus.ParseLevel(cfg.App.LogLevel)
	if err != nil {
		logrus.Warnf("Nível de log inválido: %s, usando 'info'", cfg.App.LogLevel)
		logLevel = logrus.InfoLevel
	}
	logrus.SetLevel(logLevel)
	logrus.Infof("Nível de log configurado para: %s", logLevel)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dealRepo := dealrepo(ctx, cfg)

	zippopotamClient := zippopotamclient.NewClient(cfg)
	geocoder := zippopotam.New(cfg, zippopotamClient)

	dealService := dealing.NewService(cfg, dealRepo, geocoder)

	dealStatsSyncService := scheduler.NewDealStatsSyncService(dealRepo, cfg)
	if err := dealStatsSyncService.Start(ctx); err != nil {
		logrus.WithError(err).Error("Erro ao iniciar o agendador de snapshot de ofertas")
	} else {
		logrus.Info("Agendador de snapshot de ofertas iniciado com sucesso")
	}

	server, err := api.New(cfg, dealService, geocoder, dealStatsSyncService)
	if err != nil {
		logrus.Fatal(err)
	}

	if err := server.Run(ctx); err != nil {
		logrus.Error(err)
	}
}

// configureLogger configura o formato e comportamento dos logs
func configureLogger() {
	_, file, _, _ := runtime.Caller(0)
	dir := path.Dir(file)
	os.Chdir(dir)

	logrus.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
}

// dealrepo escolhe o repositório de ofertas conforme a configuração
func dealrepo(ctx context.Context, cfg *config.Config) repository.DealRepository {
	window := cfg.Deals.ExpirationWindow()

	if !cfg.Database.Enabled {
		logrus.Info("Banco de dados desabilitado, usando repositório em memória")
		return repository.NewMemoryDealRepository(window)
	}

	conn, err := postgres.NewConnection(ctx, cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("Erro ao conectar ao PostgreSQL")
	}

	if err := conn.Ping(ctx); err != nil {
		logrus.WithError(err).Fatal("Erro ao testar conexão com PostgreSQL")
	}

	logrus.Info("Conexão com PostgreSQL estabelecida com sucesso")
	return repository.NewPostgresDealRepository(conn, window)
}
