package service

import (
	"context"
	"fmt"
	"time"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

// transacaoMutator covers the endpoint families deletes and status patches
// route to.
type transacaoMutator interface {
	PatchTransacao(ctx context.Context, sess session.Session, id int64, patch erp.PatchTransacao) error
	DeleteTransacao(ctx context.Context, sess session.Session, id int64) error
	DeleteTransacaoAPI(ctx context.Context, sess session.Session, id int64) error
}

// RotaMutacao binds one origin to its delete and patch endpoints. A nil Patch
// means the family offers no status change.
type RotaMutacao struct {
	Excluir         func(ctx context.Context, sess session.Session, id int64) error
	AlterarSituacao func(ctx context.Context, sess session.Session, id int64, patch erp.PatchTransacao) error
}

// Rotas is the single origin dispatch table. Every call site that deletes or
// patches a transaction goes through here so the three families can never
// drift apart.
type Rotas struct {
	porOrigem map[Origem]RotaMutacao
	padrao    RotaMutacao
}

func NewRotas(client transacaoMutator) *Rotas {
	compartilhada := RotaMutacao{
		Excluir:         client.DeleteTransacao,
		AlterarSituacao: client.PatchTransacao,
	}
	return &Rotas{
		porOrigem: map[Origem]RotaMutacao{
			// Open-finance rows live in their own endpoint family and are
			// settled feed entries, so no status patch is offered.
			OrigemPluggy: {
				Excluir: client.DeleteTransacaoAPI,
			},
			OrigemOFX:     compartilhada,
			OrigemEmpresa: compartilhada,
		},
		padrao: compartilhada,
	}
}

func (r *Rotas) rota(origem Origem) RotaMutacao {
	if rota, ok := r.porOrigem[origem]; ok {
		return rota
	}
	return r.padrao
}

// Excluir deletes one transaction through its origin's endpoint family.
func (r *Rotas) Excluir(ctx context.Context, sess session.Session, origem Origem, id int64) error {
	return r.rota(origem).Excluir(ctx, sess, id)
}

// AlterarSituacao patches one transaction's status, applying the uniform
// data_transacao rule.
func (r *Rotas) AlterarSituacao(ctx context.Context, sess session.Session, origem Origem, id int64, alvo Situacao, hoje time.Time) error {
	rota := r.rota(origem)
	if rota.AlterarSituacao == nil {
		return fmt.Errorf("rotas: origem %q não oferece alteração de situação", origem)
	}
	return rota.AlterarSituacao(ctx, sess, id, PatchParaSituacao(alvo, hoje))
}

// PatchParaSituacao builds the status patch body. Moving to recebido stamps
// today's date as the payment date; moving back to em aberto or vencidos
// clears it.
func PatchParaSituacao(alvo Situacao, hoje time.Time) erp.PatchTransacao {
	patch := erp.PatchTransacao{Situacao: string(alvo)}
	if alvo == SituacaoRecebido {
		data := hoje.Format("2006-01-02")
		patch.DataTransacao = &data
	}
	return patch
}
