package api

import (
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"
	"github.com/sirupsen/logrus"

	"github.com/contabhub/financeiro-server/internal/erp"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/captura"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/conciliacao"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/exportacao"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/importacao"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/referencias"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/sincronizacao"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/status"
	"github.com/contabhub/financeiro-server/internal/handlers/v1/transacao"
	"github.com/contabhub/financeiro-server/internal/logging"
	"github.com/contabhub/financeiro-server/internal/service"
)

type Rest struct {
	Logger *logrus.Logger
	Port   string

	ERP         *erp.Client
	Rotas       *service.Rotas
	Listagem    *service.ListagemService
	Lancamentos *service.LancamentoService
	Lotes       *service.LoteService
	Conciliacao *service.ConciliacaoService
	Importacao  *service.ImportacaoService
	Referencias *service.ReferenciasService
	Captura     *service.CapturaService
	Sync        *service.SyncService
}

func (r *Rest) Serve() {
	mux := http.NewServeMux()

	humaAPI := humago.New(mux, huma.DefaultConfig("financeiro-server", "1.0.0"))
	humaAPI.UseMiddleware(logging.NewHumaMiddleware(r.Logger))

	transacao.NewListTransacoesHandler(r.Listagem).Register(humaAPI)
	transacao.NewCreateLancamentoHandler(r.Lancamentos).Register(humaAPI)
	transacao.NewEditLancamentoHandler(r.Lancamentos).Register(humaAPI)
	transacao.NewPatchSituacaoHandler(r.Rotas).Register(humaAPI)
	transacao.NewDeleteTransacaoHandler(r.Rotas).Register(humaAPI)
	transacao.NewLoteHandler(r.Lotes).Register(humaAPI)
	conciliacao.NewRevogarHandler(r.Conciliacao).Register(humaAPI)
	importacao.NewImportOFXHandler(r.Importacao).Register(humaAPI)
	importacao.NewPreviewPlanilhaHandler(r.Importacao).Register(humaAPI)
	importacao.NewImportPlanilhaHandler(r.Importacao).Register(humaAPI)
	exportacao.NewExportHandler(r.ERP).Register(humaAPI)
	referencias.NewHandler(r.Referencias).Register(humaAPI)
	captura.NewEnviarPDFHandler(r.Captura).Register(humaAPI)
	captura.NewFinalizarHandler(r.Captura).Register(humaAPI)
	captura.NewDescartarHandler(r.Captura).Register(humaAPI)
	sincronizacao.NewHandler(r.Sync).Register(humaAPI)

	statusHandler := status.NewHandler()
	mux.HandleFunc("/status", logging.LoggingWrapper("Status", r.Logger, statusHandler.Handler))

	server := http.Server{
		Addr:              ":" + r.Port,
		Handler:           mux,
		ReadTimeout:       time.Duration(30) * time.Second,
		WriteTimeout:      time.Duration(30) * time.Second,
		IdleTimeout:       time.Duration(10) * time.Second,
		ReadHeaderTimeout: time.Duration(10) * time.Second,
	}

	r.Logger.Info("HttpServer.Serve.listening")
	err := server.ListenAndServe()
	if err != nil {
		r.Logger.WithError(err).Error("HttpServer.Serve.listen error")
	}
	r.Logger.Info("HttpServer.Serve.shutting down")
}
