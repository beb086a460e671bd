// Pacote httpapi expõe os handlers REST e traduz requisições HTTP para os
// serviços de bolão, pontuação e fechamento.
package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/carl0sfelipe/mega-sena/internal/app/bolao"
	"github.com/carl0sfelipe/mega-sena/internal/app/fechamento"
	"github.com/carl0sfelipe/mega-sena/internal/app/pontuacao"
	"github.com/carl0sfelipe/mega-sena/internal/domain"
	"github.com/carl0sfelipe/mega-sena/internal/platform/metrics"
)

// API empacota os handlers HTTP ligados aos serviços e ao logger.
type API struct {
	boloes      *bolao.Service
	engine      *pontuacao.Engine
	sorteador   *pontuacao.Sorteador
	analisador  *pontuacao.Analisador
	fechamentos *fechamento.Service
	logger      *slog.Logger
	adminToken  string
}

func New(
	boloes *bolao.Service,
	engine *pontuacao.Engine,
	sorteador *pontuacao.Sorteador,
	analisador *pontuacao.Analisador,
	fechamentos *fechamento.Service,
	logger *slog.Logger,
	adminToken string,
) *API {
	return &API{
		boloes:      boloes,
		engine:      engine,
		sorteador:   sorteador,
		analisador:  analisador,
		fechamentos: fechamentos,
		logger:      logger,
		adminToken:  adminToken,
	}
}

func (a *API) Register(mux *http.ServeMux) {
	// Mantemos as rotas centralizadas para facilitar testes e reuso em servidores diferentes.
	mux.HandleFunc("/healthz", a.handleHealthz)
	mux.HandleFunc("/bolao", a.handleBolao)
	mux.HandleFunc("/boloes/", a.handleBolaoDetalhes)
	mux.HandleFunc("/participacoes", a.handleParticipacoes)
	mux.HandleFunc("/participacoes/", a.handleParticipacaoDetalhes)
	mux.HandleFunc("/numeros/sugestao", a.sugerirNumeros)
	mux.HandleFunc("/numeros/analise", a.analisarNumeros)
	mux.HandleFunc("/concursos", a.registrarConcurso)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (a *API) handleBolao(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		a.obterBolaoAberto(w, r)
	case http.MethodPost:
		a.criarBolao(w, r)
	default:
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
	}
}

func (a *API) handleBolaoDetalhes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/boloes/")
	partes := strings.Split(path, "/")
	if len(partes) == 0 || partes[0] == "" {
		http.NotFound(w, r)
		return
	}

	id := domain.BolaoID(partes[0])

	switch {
	case len(partes) == 2 && partes[1] == "pontuacoes" && r.Method == http.MethodGet:
		a.obterPontuacoes(w, r, id)
	case len(partes) == 2 && partes[1] == "participacoes" && r.Method == http.MethodGet:
		a.listarParticipacoes(w, r, id)
	case len(partes) == 2 && partes[1] == "fechamento" && r.Method == http.MethodPost:
		a.fecharBolao(w, r, id)
	case len(partes) == 2 && partes[1] == "fechamento" && r.Method == http.MethodGet:
		a.obterFechamento(w, r, id)
	case len(partes) == 3 && partes[1] == "fechamento" && partes[2] == "verificacao" && r.Method == http.MethodGet:
		a.verificarFechamento(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (a *API) handleParticipacoes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
		return
	}
	a.participar(w, r)
}

func (a *API) handleParticipacaoDetalhes(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/participacoes/")
	partes := strings.Split(path, "/")
	if len(partes) != 2 || partes[0] == "" {
		http.NotFound(w, r)
		return
	}

	id := domain.ParticipacaoID(partes[0])

	switch {
	case partes[1] == "numeros" && r.Method == http.MethodPut:
		a.escolherNumeros(w, r, id)
	case partes[1] == "pagamento" && r.Method == http.MethodPost:
		a.confirmarPagamento(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

type criarBolaoRequest struct {
	Nome      string `json:"nome"`
	ValorCota string `json:"valor_cota"`
}

func (a *API) criarBolao(w http.ResponseWriter, r *http.Request) {
	if !a.autorizarAdmin(w, r) {
		return
	}

	var req criarBolaoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload invalido", http.StatusBadRequest)
		return
	}

	valor, err := decimal.NewFromString(req.ValorCota)
	if err != nil {
		http.Error(w, "valor da cota invalido", http.StatusBadRequest)
		return
	}

	criado, err := a.boloes.CriarBolao(r.Context(), req.Nome, valor)
	if err != nil {
		a.logger.Warn("falha ao criar bolao", "err", err)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusCreated, criado)
}

func (a *API) obterBolaoAberto(w http.ResponseWriter, r *http.Request) {
	aberto, err := a.boloes.ObterBolaoAberto(r.Context())
	if err != nil {
		responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, aberto)
}

type participarRequest struct {
	BolaoID string `json:"bolao_id"`
	UserID  string `json:"user_id"`
	Nome    string `json:"nome"`
	Cotas   int    `json:"cotas"`
}

func (a *API) participar(w http.ResponseWriter, r *http.Request) {
	var req participarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload invalido", http.StatusBadRequest)
		return
	}

	participacao, err := a.boloes.Participar(r.Context(), domain.BolaoID(req.BolaoID), req.UserID, req.Nome, req.Cotas)
	if err != nil {
		a.logger.Warn("falha ao registrar participacao", "err", err, "bolao", req.BolaoID, "user", req.UserID)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusCreated, participacao)
}

type numerosRequest struct {
	Numeros []int `json:"numeros"`
}

func (a *API) escolherNumeros(w http.ResponseWriter, r *http.Request, id domain.ParticipacaoID) {
	var req numerosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		metrics.ObserveEscolha("invalid_payload")
		http.Error(w, "payload invalido", http.StatusBadRequest)
		return
	}

	if err := a.boloes.EscolherNumeros(r.Context(), id, req.Numeros); err != nil {
		metrics.ObserveEscolha(statusFromError(err))
		a.logger.Warn("falha ao escolher numeros", "err", err, "participacao", id)
		responderErro(w, err)
		return
	}

	metrics.ObserveEscolha("accepted")
	responderJSON(w, http.StatusOK, map[string]string{"status": "registrado"})
}

type pagamentoRequest struct {
	Status string `json:"status"`
}

func (a *API) confirmarPagamento(w http.ResponseWriter, r *http.Request, id domain.ParticipacaoID) {
	var req pagamentoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload invalido", http.StatusBadRequest)
		return
	}

	if err := a.boloes.ConfirmarPagamento(r.Context(), id, domain.StatusPagamento(req.Status)); err != nil {
		a.logger.Warn("falha ao atualizar pagamento", "err", err, "participacao", id)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

func (a *API) listarParticipacoes(w http.ResponseWriter, r *http.Request, id domain.BolaoID) {
	participacoes, err := a.boloes.ListarParticipacoes(r.Context(), id)
	if err != nil {
		responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, participacoes)
}

func (a *API) obterPontuacoes(w http.ResponseWriter, r *http.Request, id domain.BolaoID) {
	recalcular := r.URL.Query().Get("recalcular") == "1" || r.URL.Query().Get("recalcular") == "true"

	pontuacoes, err := a.engine.ObterPontuacoes(r.Context(), id, recalcular)
	if err != nil {
		a.logger.Error("erro ao obter pontuacoes", "err", err, "bolao", id)
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, pontuacoes)
}

func (a *API) sugerirNumeros(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
		return
	}

	aberto, err := a.boloes.ObterBolaoAberto(r.Context())
	if err != nil {
		responderErro(w, err)
		return
	}

	pontuacoes, err := a.engine.ObterPontuacoes(r.Context(), aberto.ID, false)
	if err != nil {
		a.logger.Error("erro ao obter pontuacoes para sugestao", "err", err, "bolao", aberto.ID)
		responderErro(w, err)
		return
	}

	numeros := a.sorteador.GerarNumeros(pontuacoes, domain.NumerosPorAposta)
	responderJSON(w, http.StatusOK, map[string]any{"numeros": numeros})
}

func (a *API) analisarNumeros(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
		return
	}

	var req numerosRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload invalido", http.StatusBadRequest)
		return
	}
	if err := domain.ValidarNumeros(req.Numeros); err != nil {
		responderErro(w, err)
		return
	}

	padroes := a.analisador.DetectarPadroes(req.Numeros)
	responderJSON(w, http.StatusOK, map[string]any{
		"padroes":   padroes,
		"pontuacao": a.analisador.PontuacaoPadroes(req.Numeros),
	})
}

func (a *API) fecharBolao(w http.ResponseWriter, r *http.Request, id domain.BolaoID) {
	if !a.autorizarAdmin(w, r) {
		return
	}

	resultado, err := a.fechamentos.FecharBolao(r.Context(), id, r.Header.Get("X-Admin-User"))
	if err != nil {
		metrics.ObserveFechamento(statusFromError(err))
		a.logger.Warn("falha ao fechar bolao", "err", err, "bolao", id)
		responderErro(w, err)
		return
	}

	metrics.ObserveFechamento("closed")
	a.logger.Info("bolao fechado", "bolao", id, "hash", resultado.Hash, "apostas", len(resultado.Apostas))
	responderJSON(w, http.StatusOK, map[string]any{
		"hash":     resultado.Hash,
		"registro": resultado.Registro,
		"apostas":  resultado.Apostas,
	})
}

func (a *API) obterFechamento(w http.ResponseWriter, r *http.Request, id domain.BolaoID) {
	info, err := a.fechamentos.ObterFechamento(r.Context(), id)
	if err != nil {
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusOK, map[string]any{
		"status":     info.Status,
		"hash":       info.Hash,
		"fechado_em": info.FechadoEm,
		"registro":   info.Registro,
	})
}

func (a *API) verificarFechamento(w http.ResponseWriter, r *http.Request, id domain.BolaoID) {
	integro, err := a.fechamentos.VerificarIntegridade(r.Context(), id)
	if err != nil {
		responderErro(w, err)
		return
	}
	responderJSON(w, http.StatusOK, map[string]bool{"integro": integro})
}

type concursoRequest struct {
	Numero  int   `json:"numero"`
	Dezenas []int `json:"dezenas"`
}

func (a *API) registrarConcurso(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "metodo nao suportado", http.StatusMethodNotAllowed)
		return
	}
	if !a.autorizarAdmin(w, r) {
		return
	}

	var req concursoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "payload invalido", http.StatusBadRequest)
		return
	}

	concurso, err := a.boloes.RegistrarConcurso(r.Context(), req.Numero, req.Dezenas)
	if err != nil {
		responderErro(w, err)
		return
	}

	responderJSON(w, http.StatusCreated, concurso)
}

// autorizarAdmin protege operações de organizador quando ADMIN_TOKEN está
// configurado; sem token configurado a checagem é desligada (uso local).
func (a *API) autorizarAdmin(w http.ResponseWriter, r *http.Request) bool {
	if a.adminToken == "" {
		return true
	}
	if r.Header.Get("X-Admin-Token") != a.adminToken {
		http.Error(w, "nao autorizado", http.StatusUnauthorized)
		return false
	}
	return true
}

func responderJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func responderErro(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var saldo *fechamento.SaldoInsuficienteError
	switch {
	case errors.As(err, &saldo):
		responderJSON(w, http.StatusConflict, map[string]string{
			"erro":   err.Error(),
			"faltam": saldo.Faltam.StringFixed(2),
		})
		return
	case errors.Is(err, domain.ErrNumerosInvalidos),
		errors.Is(err, bolao.ErrBolaoInvalido),
		errors.Is(err, bolao.ErrParticipacaoInvalida),
		errors.Is(err, bolao.ErrConcursoInvalido):
		status = http.StatusBadRequest
	case errors.Is(err, bolao.ErrBolaoNaoEncontrado),
		errors.Is(err, bolao.ErrParticipacaoNaoEncontrada),
		errors.Is(err, fechamento.ErrBolaoNaoEncontrado),
		errors.Is(err, domain.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, bolao.ErrBolaoAbertoExistente),
		errors.Is(err, bolao.ErrBolaoFechado),
		errors.Is(err, bolao.ErrFechamentoEmAndamento),
		errors.Is(err, fechamento.ErrBolaoJaFechado),
		errors.Is(err, fechamento.ErrBolaoAberto),
		errors.Is(err, fechamento.ErrFechamentoEmAndamento):
		status = http.StatusConflict
	}

	responderJSON(w, status, map[string]string{"erro": err.Error()})
}

func statusFromError(err error) string {
	var saldo *fechamento.SaldoInsuficienteError
	switch {
	case errors.As(err, &saldo):
		return "insufficient_funds"
	case errors.Is(err, fechamento.ErrBolaoJaFechado), errors.Is(err, bolao.ErrBolaoFechado):
		return "closed"
	case errors.Is(err, fechamento.ErrFechamentoEmAndamento), errors.Is(err, bolao.ErrFechamentoEmAndamento):
		return "locked"
	case errors.Is(err, domain.ErrNumerosInvalidos):
		return "invalid"
	case errors.Is(err, bolao.ErrBolaoNaoEncontrado), errors.Is(err, fechamento.ErrBolaoNaoEncontrado):
		return "not_found"
	default:
		return "error"
	}
}
