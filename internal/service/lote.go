package service

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/sirupsen/logrus"

	"github.com/contabhub/financeiro-server/internal/batch"
	"github.com/contabhub/financeiro-server/internal/session"
)

// LoteItem is one selected row. Origin travels with the id because routing
// depends on it.
type LoteItem struct {
	ID     int64
	Origem Origem
}

// LoteRequest mutates a selection set: either a status change or a delete.
type LoteRequest struct {
	Itens    []LoteItem
	Situacao Situacao // target status; empty means delete
	Excluir  bool
	// Atomico reproduces the legacy surface behavior: a single failure marks
	// the whole batch failed and no local state should be patched.
	Atomico bool
}

// LoteResultado aggregates the per-item outcomes of one batch run.
type LoteResultado struct {
	RunID    uuid.UUID
	Itens    []LoteItemResultado
	Sucessos int
	Falhas   int
	// Falhou is the batch-level verdict: any failure under Atomico, all
	// failures otherwise.
	Falhou bool
}

type LoteItemResultado struct {
	ID   int64
	Erro string
}

// LoteService fans a selection set out through the worker pool, one routed
// request per id.
type LoteService struct {
	rotas    *Rotas
	executor *batch.Executor
	log      *logrus.Logger
	now      func() time.Time
}

func NewLoteService(rotas *Rotas, executor *batch.Executor, log *logrus.Logger) *LoteService {
	return &LoteService{rotas: rotas, executor: executor, log: log, now: time.Now}
}

type loteAction struct {
	item    LoteItem
	perform func(ctx context.Context) error
}

func (a *loteAction) ID() int64                         { return a.item.ID }
func (a *loteAction) Perform(ctx context.Context) error { return a.perform(ctx) }

func (s *LoteService) Processar(ctx context.Context, sess session.Session, req LoteRequest) (*LoteResultado, error) {
	if len(req.Itens) == 0 {
		return nil, fmt.Errorf("%w: seleção vazia", ErrEntradaInvalida)
	}
	if !req.Excluir && req.Situacao == "" {
		return nil, fmt.Errorf("%w: informe situação alvo ou exclusão", ErrEntradaInvalida)
	}

	runID := uuid.Must(uuid.NewV4())
	hoje := s.now()

	actions := make([]batch.Action, len(req.Itens))
	for i, item := range req.Itens {
		item := item
		var perform func(ctx context.Context) error
		if req.Excluir {
			perform = func(ctx context.Context) error {
				return s.rotas.Excluir(ctx, sess, item.Origem, item.ID)
			}
		} else {
			perform = func(ctx context.Context) error {
				return s.rotas.AlterarSituacao(ctx, sess, item.Origem, item.ID, req.Situacao, hoje)
			}
		}
		actions[i] = &loteAction{item: item, perform: perform}
	}

	results := s.executor.Process(ctx, actions)

	resultado := &LoteResultado{RunID: runID, Itens: make([]LoteItemResultado, 0, len(results))}
	for _, r := range results {
		itemRes := LoteItemResultado{ID: r.ID}
		if r.Err != nil {
			itemRes.Erro = r.Err.Error()
			resultado.Falhas++
		} else {
			resultado.Sucessos++
		}
		resultado.Itens = append(resultado.Itens, itemRes)
	}

	if req.Atomico {
		resultado.Falhou = resultado.Falhas > 0
	} else {
		resultado.Falhou = resultado.Sucessos == 0
	}

	s.log.WithFields(logrus.Fields{
		"runId":    runID.String(),
		"itens":    len(req.Itens),
		"sucessos": resultado.Sucessos,
		"falhas":   resultado.Falhas,
	}).Info("LoteService.Processar.Complete")

	return resultado, nil
}
