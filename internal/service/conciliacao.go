package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/schollz/closestmatch"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/session"
)

// Matching accepts a feed entry whose amount differs by less than one cent.
var conciliacaoToleranciaValor = decimal.New(1, -2)

// EstadoRevogacao is the tagged state of one revocation run. The flow is
// confirmando → resolvendo_id (only when the link id is missing) → revogando →
// revogada | revogada_e_excluida, with id_nao_resolvido, cancelada and falha
// as terminal side exits.
type EstadoRevogacao string

const (
	EstadoRevogada          EstadoRevogacao = "revogada"
	EstadoRevogadaEExcluida EstadoRevogacao = "revogada_e_excluida"
	EstadoIDNaoResolvido    EstadoRevogacao = "id_nao_resolvido"
	EstadoCancelada         EstadoRevogacao = "cancelada"
	EstadoFalha             EstadoRevogacao = "falha"
)

// conciliacaoGateway is the slice of the ERP gateway the revocation flow uses.
type conciliacaoGateway interface {
	ListContasAPI(ctx context.Context, sess session.Session) ([]erp.ContaAPI, error)
	ListFeed(ctx context.Context, sess session.Session, accountID string, page int) (*erp.FeedPage, error)
	RevogarConciliacao(ctx context.Context, sess session.Session, rev erp.Revogacao) error
}

// RevogacaoRequest describes one revocation. TransacaoAPIIDManual carries the
// operator-supplied id on a re-submit after id_nao_resolvido; nil means none
// was offered.
type RevogacaoRequest struct {
	Transacao            Transacao
	Observacao           string
	ExcluirAposRevogar   bool
	TransacaoAPIIDManual *string
}

// RevogacaoResultado reports the terminal state plus the resolved link id and
// the account it was found in, when applicable.
type RevogacaoResultado struct {
	Estado         EstadoRevogacao
	TransacaoAPIID int64
	ContaID        string
	Mensagem       string
}

type ConciliacaoService struct {
	erp   conciliacaoGateway
	rotas *Rotas
	log   *logrus.Logger
	now   func() time.Time
}

func NewConciliacaoService(gateway conciliacaoGateway, rotas *Rotas, log *logrus.Logger) *ConciliacaoService {
	return &ConciliacaoService{erp: gateway, rotas: rotas, log: log, now: time.Now}
}

// Revogar walks the revocation state machine for one reconciled transaction.
// Errors are returned only for genuine failures; unresolved ids and cancelled
// runs come back as states so the caller can continue the flow.
func (s *ConciliacaoService) Revogar(ctx context.Context, sess session.Session, req RevogacaoRequest) (*RevogacaoResultado, error) {
	t := req.Transacao

	if t.Situacao != SituacaoConciliado {
		return &RevogacaoResultado{
			Estado:   EstadoCancelada,
			Mensagem: "transação não está conciliada",
		}, nil
	}

	apiID := t.TransacaoAPIID
	contaID := ""

	if req.TransacaoAPIIDManual != nil {
		manual := strings.TrimSpace(*req.TransacaoAPIIDManual)
		parsed, err := strconv.ParseInt(manual, 10, 64)
		if manual == "" || err != nil || parsed <= 0 {
			// Empty or non-numeric manual input means the operator gave up.
			return &RevogacaoResultado{Estado: EstadoCancelada, Mensagem: "id informado inválido"}, nil
		}
		apiID = parsed
	}

	if apiID == 0 {
		resolvido, conta, err := s.resolverID(ctx, sess, t)
		if err != nil {
			return &RevogacaoResultado{Estado: EstadoFalha}, err
		}
		if resolvido == 0 {
			return &RevogacaoResultado{
				Estado:   EstadoIDNaoResolvido,
				Mensagem: "nenhuma transação correspondente encontrada nas contas conectadas",
			}, nil
		}
		apiID = resolvido
		contaID = conta
	}

	err := s.erp.RevogarConciliacao(ctx, sess, erp.Revogacao{
		TransacaoAPIID: apiID,
		TransacaoID:    t.ID,
		UsuarioID:      sess.UserID,
		Observacao:     req.Observacao,
	})
	if err != nil {
		return &RevogacaoResultado{Estado: EstadoFalha, TransacaoAPIID: apiID}, err
	}

	resultado := &RevogacaoResultado{TransacaoAPIID: apiID, ContaID: contaID}

	if req.ExcluirAposRevogar {
		if err := s.rotas.Excluir(ctx, sess, t.Origem, t.ID); err != nil {
			resultado.Estado = EstadoFalha
			return resultado, err
		}
		resultado.Estado = EstadoRevogadaEExcluida
		return resultado, nil
	}

	// Revocation reverts the row to open; amount and description stay as
	// they are. This bypasses the normal transition table on purpose.
	if err := s.rotas.AlterarSituacao(ctx, sess, t.Origem, t.ID, SituacaoEmAberto, s.now()); err != nil {
		resultado.Estado = EstadoFalha
		return resultado, err
	}
	resultado.Estado = EstadoRevogada
	return resultado, nil
}

// resolverID searches every linked account's feed for the bank-side
// counterpart of t. Returns 0 when no account yields a match.
func (s *ConciliacaoService) resolverID(ctx context.Context, sess session.Session, t Transacao) (int64, string, error) {
	contas, err := s.erp.ListContasAPI(ctx, sess)
	if err != nil {
		return 0, "", err
	}

	for _, conta := range contas {
		id, err := s.procurarNaConta(ctx, sess, conta.ID, t)
		if err != nil {
			// One broken account should not hide a match in the next one.
			s.log.WithError(err).WithField("conta", conta.ID).Warn("ConciliacaoService.resolverID.conta")
			continue
		}
		if id != 0 {
			return id, conta.ID, nil
		}
	}
	return 0, "", nil
}

func (s *ConciliacaoService) procurarNaConta(ctx context.Context, sess session.Session, contaID string, t Transacao) (int64, error) {
	page := 1
	for {
		feed, err := s.erp.ListFeed(ctx, sess, contaID, page)
		if err != nil {
			return 0, err
		}

		for _, candidato := range ordenarPorSimilaridade(t.Descricao, feed.Transacoes) {
			if CandidatoCorresponde(t, candidato) {
				return candidato.ID, nil
			}
		}

		if page >= feed.TotalPaginas || len(feed.Transacoes) == 0 {
			return 0, nil
		}
		page++
	}
}

// ordenarPorSimilaridade ranks a feed page by fuzzy closeness to the local
// description so the likeliest candidates face the acceptance test first. The
// test itself decides; ranking only orders it.
func ordenarPorSimilaridade(descricao string, feed []erp.TransacaoAPI) []erp.TransacaoAPI {
	if len(feed) < 2 {
		return feed
	}

	porDescricao := make(map[string][]erp.TransacaoAPI, len(feed))
	chaves := make([]string, 0, len(feed))
	for _, tx := range feed {
		chave := NormalizarTexto(tx.Description)
		if _, visto := porDescricao[chave]; !visto {
			chaves = append(chaves, chave)
		}
		porDescricao[chave] = append(porDescricao[chave], tx)
	}

	cm := closestmatch.New(chaves, []int{3, 4, 5})
	ranqueadas := cm.ClosestN(NormalizarTexto(descricao), len(chaves))

	out := make([]erp.TransacaoAPI, 0, len(feed))
	visitadas := make(map[string]bool, len(chaves))
	for _, chave := range ranqueadas {
		if visitadas[chave] {
			continue
		}
		visitadas[chave] = true
		out = append(out, porDescricao[chave]...)
	}
	// closestmatch may drop entries it cannot score; keep them at the end.
	for _, chave := range chaves {
		if !visitadas[chave] {
			out = append(out, porDescricao[chave]...)
		}
	}
	return out
}

// CandidatoCorresponde accepts a feed entry when the amounts differ by less
// than one cent and the descriptions overlap: containment either way, or any
// local token longer than three characters appearing in the remote text.
func CandidatoCorresponde(t Transacao, candidato erp.TransacaoAPI) bool {
	if !candidato.Amount.Valid {
		return false
	}
	if candidato.Amount.Decimal.Sub(t.Valor).Abs().GreaterThanOrEqual(conciliacaoToleranciaValor) {
		return false
	}

	local := NormalizarTexto(t.Descricao)
	remota := NormalizarTexto(candidato.Description)
	if local == "" || remota == "" {
		return false
	}

	if strings.Contains(remota, local) || strings.Contains(local, remota) {
		return true
	}

	for _, token := range strings.Fields(local) {
		if len(token) > 3 && strings.Contains(remota, token) {
			return true
		}
	}
	return false
}
