package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/sirupsen/logrus"
	"github.com/vfg2006/nicmap-api/infrastructure/repository"
	"github.com/vfg2006/nicmap-api/internal/config"
	"github.com/vfg2006/nicmap-api/internal/usecases/dealing"
	"github.com/vfg2006/nicmap-api/pkg/utils"
)

// DealStatsSnapshot é a fotografia das ofertas no instante do snapshot
type DealStatsSnapshot struct {
	Total   int `json:"total"`
	Active  int `json:"active"`
	Expired int `json:"expired"`
	Killed  int `json:"killed"`
}

// DealStatsSyncService publica periodicamente nos logs um snapshot das ofertas
// (ativas, expiradas, removidas por denúncia). O job é somente leitura: a
// expiração continua lazy, avaliada a cada leitura, e nada aqui muta ou apaga
// ofertas.
type DealStatsSyncService struct {
	scheduler           *gocron.Scheduler
	cfg                 *config.Config
	dealRepo            repository.DealRepository
	lifecycle           dealing.Lifecycle
	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

// NewDealStatsSyncService cria uma nova instância do serviço de snapshot de ofertas
func NewDealStatsSyncService(
	dealRepo repository.DealRepository,
	cfg *config.Config,
) *DealStatsSyncService {
	logrus.WithFields(logrus.Fields{
		"cron_schedule": cfg.DealStatsSync.CronSchedule,
		"sync_enabled":  cfg.DealStatsSync.Enabled,
	}).Info("Configuração do agendador de snapshot de ofertas carregada")

	return &DealStatsSyncService{
		scheduler: gocron.NewScheduler(time.UTC),
		cfg:       cfg,
		dealRepo:  dealRepo,
		lifecycle: dealing.NewLifecycle(cfg.Deals),
	}
}

// Start inicia o agendador
func (s *DealStatsSyncService) Start(ctx context.Context) error {
	if !s.cfg.DealStatsSync.Enabled {
		logrus.Info("Snapshot de ofertas desabilitado por configuração")
		return nil
	}

	logrus.WithField("cron", s.cfg.DealStatsSync.CronSchedule).Info("Iniciando agendador de snapshot de ofertas")

	_, err := s.scheduler.Cron(s.cfg.DealStatsSync.CronSchedule).Do(func() {
		s.snapshotDealStats()
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar o snapshot de ofertas: %w", err)
	}

	s.scheduler.StartAsync()

	go func() {
		<-ctx.Done()
		logrus.Info("Parando agendador de snapshot de ofertas")
		s.scheduler.Stop()
	}()

	return nil
}

// TriggerManualSync executa o snapshot fora do agendamento
func (s *DealStatsSyncService) TriggerManualSync() {
	go s.snapshotDealStats()
}

// GetStatus retorna o estado atual do agendador para o endpoint de status
func (s *DealStatsSyncService) GetStatus() map[string]any {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]any{
		"enabled":           s.cfg.DealStatsSync.Enabled,
		"cron_schedule":     s.cfg.DealStatsSync.CronSchedule,
		"running":           s.syncRunning,
		"last_started_at":   s.lastSyncStartedAt,
		"last_completed_at": s.lastSyncCompletedAt,
	}
}

func (s *DealStatsSyncService) snapshotDealStats() {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Info("Snapshot de ofertas já em andamento, ignorando")
		return
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	runID, _ := utils.GenerateRunID()

	snapshot, err := s.computeSnapshot(time.Now().UTC())
	if err != nil {
		logrus.WithError(err).WithField("run_id", runID).Error("Erro ao calcular o snapshot de ofertas")
		return
	}

	logrus.WithFields(logrus.Fields{
		"run_id":  runID,
		"total":   snapshot.Total,
		"active":  snapshot.Active,
		"expired": snapshot.Expired,
		"killed":  snapshot.Killed,
	}).Info("Snapshot de ofertas")
}

// computeSnapshot percorre todas as ofertas e classifica cada uma. Uma oferta
// expirada e denunciada conta nas duas categorias.
func (s *DealStatsSyncService) computeSnapshot(now time.Time) (*DealStatsSnapshot, error) {
	deals, err := s.dealRepo.List()
	if err != nil {
		return nil, err
	}

	snapshot := &DealStatsSnapshot{Total: len(deals)}
	for _, deal := range deals {
		if s.lifecycle.IsActive(deal, now) {
			snapshot.Active++
		}
		if s.lifecycle.IsExpired(deal, now) {
			snapshot.Expired++
		}
		if s.lifecycle.IsKilled(deal) {
			snapshot.Killed++
		}
	}

	return snapshot, nil
}
