package main

import (
	"context"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/contabhub/financeiro-server/api"
	"github.com/contabhub/financeiro-server/internal/batch"
	"github.com/contabhub/financeiro-server/internal/config"
	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/logging"
	"github.com/contabhub/financeiro-server/internal/service"
	"github.com/contabhub/financeiro-server/internal/session"
)

func main() {
	envConfig, err := config.ProcessEnvironmentVariables()
	if err != nil {
		logrus.WithError(err).Fatal("config.ProcessEnvironmentVariables")
		return
	}

	logger := logging.SetupLogging(envConfig.LogLevel)
	logger.Info("financeiro-server starting")

	erpClient := erp.NewClient(envConfig.ERPBaseURL, time.Duration(envConfig.ERPTimeoutSeconds)*time.Second, logger)

	rotas := service.NewRotas(erpClient)
	executor := batch.NewExecutor(8)
	executor.Start()
	defer executor.Stop()

	syncService := service.NewSyncService(erpClient, logrus.NewEntry(logger))

	if envConfig.SyncSchedule != "" {
		startScheduledSync(logger, envConfig, syncService)
	}

	wg := sync.WaitGroup{}
	wg.Add(1)

	go func() {
		httpRest := api.Rest{
			Logger:      logger,
			Port:        envConfig.Port,
			ERP:         erpClient,
			Rotas:       rotas,
			Listagem:    service.NewListagemService(erpClient),
			Lancamentos: service.NewLancamentoService(erpClient),
			Lotes:       service.NewLoteService(rotas, executor, logger),
			Conciliacao: service.NewConciliacaoService(erpClient, rotas, logger),
			Importacao:  service.NewImportacaoService(erpClient),
			Referencias: service.NewReferenciasService(erpClient),
			Captura:     service.NewCapturaService(erpClient),
			Sync:        syncService,
		}
		httpRest.Serve()
	}()

	wg.Wait()
}

// startScheduledSync runs the open-finance refresh on the configured cron
// schedule using the service credentials from the environment.
func startScheduledSync(logger *logrus.Logger, envConfig *config.Config, syncService *service.SyncService) {
	sess, err := session.FromHeaders("Bearer "+envConfig.SyncServiceToken, envConfig.SyncCompanyID, envConfig.SyncUserID)
	if err != nil {
		logger.WithError(err).Error("ScheduledSync.credentials missing, scheduler disabled")
		return
	}

	scheduler := cron.New()
	_, err = scheduler.AddFunc(envConfig.SyncSchedule, func() {
		if _, err := syncService.SincronizarTodas(context.Background(), sess); err != nil {
			logger.WithError(err).Error("ScheduledSync.run error")
		}
	})
	if err != nil {
		logger.WithError(err).Error("ScheduledSync.bad schedule, scheduler disabled")
		return
	}

	scheduler.Start()
	logger.WithField("schedule", envConfig.SyncSchedule).Info("ScheduledSync.started")
}
