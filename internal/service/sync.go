package service

import (
	"context"
	"errors"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

const (
	syncTentativas = 3 // first try plus two retries
	syncBackoff    = time.Second
	syncLimite     = 5 * time.Minute
)

var ErrSyncEmAndamento = errors.New("sincronização já em andamento")

type syncGateway interface {
	ListContasAPI(ctx context.Context, sess session.Session) ([]erp.ContaAPI, error)
	SyncContaAPI(ctx context.Context, sess session.Session, contaID string, clienteID int64) error
}

// SyncContaResultado reports the outcome for one open-finance account.
type SyncContaResultado struct {
	ContaID    string `json:"conta_id"`
	Nome       string `json:"nome"`
	Tentativas int    `json:"tentativas"`
	Erro       string `json:"erro,omitempty"`
}

// SyncResumo aggregates a full sync pass.
type SyncResumo struct {
	Contas   []SyncContaResultado `json:"contas"`
	Sucessos int                  `json:"sucessos"`
	Falhas   int                  `json:"falhas"`
	Duracao  time.Duration        `json:"-"`
	Parcial  bool                 `json:"parcial"` // true when the time limit cut the pass short
}

// SyncService refreshes every open-finance account upstream. A pass retries
// each account with a fixed backoff and the whole pass is bounded by a hard
// time limit so a stuck upstream can never wedge the in-progress flag.
type SyncService struct {
	erp         syncGateway
	log         *logrus.Entry
	emAndamento atomic.Bool
	backoff     time.Duration
	limite      time.Duration
}

func NewSyncService(gateway syncGateway, log *logrus.Entry) *SyncService {
	return &SyncService{
		erp:     gateway,
		log:     log,
		backoff: syncBackoff,
		limite:  syncLimite,
	}
}

// EmAndamento reports whether a pass is currently running.
func (s *SyncService) EmAndamento() bool {
	return s.emAndamento.Load()
}

// SincronizarTodas runs one sync pass over every account. Only one pass may
// run at a time; concurrent calls get ErrSyncEmAndamento.
func (s *SyncService) SincronizarTodas(ctx context.Context, sess session.Session) (*SyncResumo, error) {
	if !s.emAndamento.CompareAndSwap(false, true) {
		return nil, ErrSyncEmAndamento
	}
	defer s.emAndamento.Store(false)

	ctx, cancel := context.WithTimeout(ctx, s.limite)
	defer cancel()

	inicio := time.Now()
	contas, err := s.erp.ListContasAPI(ctx, sess)
	if err != nil {
		return nil, err
	}

	resumo := &SyncResumo{Contas: make([]SyncContaResultado, 0, len(contas))}
	for _, conta := range contas {
		if ctx.Err() != nil {
			resumo.Parcial = true
			break
		}
		resultado := s.sincronizarConta(ctx, sess, conta)
		if resultado.Erro == "" {
			resumo.Sucessos++
		} else {
			resumo.Falhas++
		}
		resumo.Contas = append(resumo.Contas, resultado)
	}
	resumo.Duracao = time.Since(inicio)

	s.log.WithFields(logrus.Fields{
		"contas":   len(resumo.Contas),
		"sucessos": resumo.Sucessos,
		"falhas":   resumo.Falhas,
		"parcial":  resumo.Parcial,
		"duracao":  resumo.Duracao.String(),
	}).Info("Sync.Complete")

	return resumo, nil
}

func (s *SyncService) sincronizarConta(ctx context.Context, sess session.Session, conta erp.ContaAPI) SyncContaResultado {
	resultado := SyncContaResultado{ContaID: conta.ID, Nome: conta.Nome}
	var err error
	for tentativa := 1; tentativa <= syncTentativas; tentativa++ {
		resultado.Tentativas = tentativa
		err = s.erp.SyncContaAPI(ctx, sess, conta.ID, conta.ClienteID)
		if err == nil {
			return resultado
		}
		s.log.WithFields(logrus.Fields{
			"conta":     conta.ID,
			"tentativa": tentativa,
			"error":     err.Error(),
		}).Warn("Sync.Retry")
		if tentativa == syncTentativas || ctx.Err() != nil {
			break
		}
		select {
		case <-ctx.Done():
			resultado.Erro = ctx.Err().Error()
			return resultado
		case <-time.After(s.backoff):
		}
	}
	resultado.Erro = err.Error()
	return resultado
}
