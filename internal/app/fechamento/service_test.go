package fechamento

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/carl0sfelipe/mega-sena/internal/app/pontuacao"
	"github.com/carl0sfelipe/mega-sena/internal/domain"
	"github.com/carl0sfelipe/mega-sena/internal/platform/ids"
)

type bolaoRepoMemoria struct {
	boloes       map[domain.BolaoID]domain.Bolao
	falhasUpdate int
}

func newBolaoRepoMemoria() *bolaoRepoMemoria {
	return &bolaoRepoMemoria{boloes: make(map[domain.BolaoID]domain.Bolao)}
}

func (r *bolaoRepoMemoria) Create(_ context.Context, b domain.Bolao) error {
	r.boloes[b.ID] = b
	return nil
}

func (r *bolaoRepoMemoria) Update(_ context.Context, b domain.Bolao) error {
	if r.falhasUpdate > 0 {
		r.falhasUpdate--
		return errors.New("banco indisponivel")
	}
	if _, ok := r.boloes[b.ID]; !ok {
		return domain.ErrNotFound
	}
	r.boloes[b.ID] = b
	return nil
}

func (r *bolaoRepoMemoria) FindByID(_ context.Context, id domain.BolaoID) (domain.Bolao, error) {
	b, ok := r.boloes[id]
	if !ok {
		return domain.Bolao{}, domain.ErrNotFound
	}
	return b, nil
}

func (r *bolaoRepoMemoria) FindAberto(_ context.Context) (domain.Bolao, error) {
	for _, b := range r.boloes {
		if b.Status == domain.BolaoAberto {
			return b, nil
		}
	}
	return domain.Bolao{}, domain.ErrNotFound
}

type participacaoRepoMemoria struct {
	lista []domain.Participacao
}

func (r *participacaoRepoMemoria) Create(_ context.Context, p domain.Participacao) error {
	r.lista = append(r.lista, p)
	return nil
}

func (r *participacaoRepoMemoria) FindByID(_ context.Context, id domain.ParticipacaoID) (domain.Participacao, error) {
	for _, p := range r.lista {
		if p.ID == id {
			return p, nil
		}
	}
	return domain.Participacao{}, domain.ErrNotFound
}

func (r *participacaoRepoMemoria) ListByBolao(_ context.Context, bolaoID domain.BolaoID) ([]domain.Participacao, error) {
	var out []domain.Participacao
	for _, p := range r.lista {
		if p.BolaoID == bolaoID {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *participacaoRepoMemoria) ListConfirmadas(_ context.Context, bolaoID domain.BolaoID) ([]domain.Participacao, error) {
	var out []domain.Participacao
	for _, p := range r.lista {
		if p.BolaoID == bolaoID && p.StatusPagamento == domain.PagamentoConfirmado {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *participacaoRepoMemoria) UpdateNumeros(_ context.Context, id domain.ParticipacaoID, numeros domain.ListaNumeros, quando time.Time) error {
	for i := range r.lista {
		if r.lista[i].ID == id {
			r.lista[i].Numeros = numeros
			r.lista[i].AtualizadoEm = quando
			return nil
		}
	}
	return domain.ErrNotFound
}

func (r *participacaoRepoMemoria) UpdateStatusPagamento(_ context.Context, id domain.ParticipacaoID, status domain.StatusPagamento, quando time.Time) error {
	for i := range r.lista {
		if r.lista[i].ID == id {
			r.lista[i].StatusPagamento = status
			r.lista[i].AtualizadoEm = quando
			return nil
		}
	}
	return domain.ErrNotFound
}

type pontuacaoRepoMemoria struct {
	linhas map[domain.BolaoID]map[int]domain.PontuacaoNumero
}

func newPontuacaoRepoMemoria() *pontuacaoRepoMemoria {
	return &pontuacaoRepoMemoria{linhas: make(map[domain.BolaoID]map[int]domain.PontuacaoNumero)}
}

func (r *pontuacaoRepoMemoria) UpsertTodas(_ context.Context, pontuacoes []domain.PontuacaoNumero) error {
	for _, p := range pontuacoes {
		if r.linhas[p.BolaoID] == nil {
			r.linhas[p.BolaoID] = make(map[int]domain.PontuacaoNumero)
		}
		r.linhas[p.BolaoID][p.Numero] = p
	}
	return nil
}

func (r *pontuacaoRepoMemoria) ListByBolao(_ context.Context, bolaoID domain.BolaoID) ([]domain.PontuacaoNumero, error) {
	var out []domain.PontuacaoNumero
	for numero := domain.NumeroMinimo; numero <= domain.NumeroMaximo; numero++ {
		if linha, ok := r.linhas[bolaoID][numero]; ok {
			out = append(out, linha)
		}
	}
	return out, nil
}

type concursoRepoMemoria struct {
	concursos []domain.Concurso
}

func (r *concursoRepoMemoria) Create(_ context.Context, c domain.Concurso) error {
	r.concursos = append(r.concursos, c)
	return nil
}

func (r *concursoRepoMemoria) ListAll(_ context.Context) ([]domain.Concurso, error) {
	return r.concursos, nil
}

type apostaRepoMemoria struct {
	apostas []domain.ApostaFinal
	falha   error
}

func (r *apostaRepoMemoria) BulkCreate(_ context.Context, apostas []domain.ApostaFinal) error {
	if r.falha != nil {
		return r.falha
	}
	r.apostas = append(r.apostas, apostas...)
	return nil
}

func (r *apostaRepoMemoria) DeleteByBolao(_ context.Context, bolaoID domain.BolaoID) error {
	restantes := r.apostas[:0]
	for _, a := range r.apostas {
		if a.BolaoID != bolaoID {
			restantes = append(restantes, a)
		}
	}
	r.apostas = restantes
	return nil
}

func (r *apostaRepoMemoria) ListByBolao(_ context.Context, bolaoID domain.BolaoID) ([]domain.ApostaFinal, error) {
	var out []domain.ApostaFinal
	for _, a := range r.apostas {
		if a.BolaoID == bolaoID {
			out = append(out, a)
		}
	}
	return out, nil
}

type travaMemoria struct {
	negar      bool
	adquiridas []string
	liberadas  []string
}

func (t *travaMemoria) Adquirir(_ context.Context, chave string) (bool, error) {
	if t.negar {
		return false, nil
	}
	t.adquiridas = append(t.adquiridas, chave)
	return true, nil
}

func (t *travaMemoria) Liberar(_ context.Context, chave string) error {
	t.liberadas = append(t.liberadas, chave)
	return nil
}

type relogioFixo struct {
	agora time.Time
}

func (r relogioFixo) Agora() time.Time { return r.agora }

type fechamentoDeps struct {
	boloes        *bolaoRepoMemoria
	participacoes *participacaoRepoMemoria
	apostas       *apostaRepoMemoria
	trava         *travaMemoria
	clock         relogioFixo
	service       *Service
}

func newFechamentoDeps() *fechamentoDeps {
	boloes := newBolaoRepoMemoria()
	participacoes := &participacaoRepoMemoria{}
	apostas := &apostaRepoMemoria{}
	trava := &travaMemoria{}
	clock := relogioFixo{agora: time.Date(2026, 8, 20, 21, 0, 0, 0, time.UTC)}

	engine := pontuacao.NewEngine(
		&concursoRepoMemoria{},
		participacoes,
		newPontuacaoRepoMemoria(),
		pontuacao.NewAnalisador(pontuacao.PenalidadesPadrao()),
		pontuacao.PesosPadrao(),
		clock,
	)
	sorteador := pontuacao.NewSorteadorComFonte(rand.New(rand.NewSource(1)))

	service := NewService(boloes, participacoes, apostas, engine, sorteador, trava, clock, ids.DefaultGenerator())
	return &fechamentoDeps{
		boloes:        boloes,
		participacoes: participacoes,
		apostas:       apostas,
		trava:         trava,
		clock:         clock,
		service:       service,
	}
}

func (d *fechamentoDeps) criarBolao(valorCota string) domain.BolaoID {
	id := domain.BolaoID("bolao-teste")
	d.boloes.boloes[id] = domain.Bolao{
		ID:        id,
		Nome:      "Bolao de Teste",
		ValorCota: decimal.RequireFromString(valorCota),
		Status:    domain.BolaoAberto,
	}
	return id
}

func (d *fechamentoDeps) confirmada(bolaoID domain.BolaoID, nome string, cotas int, numeros ...int) {
	d.participacoes.lista = append(d.participacoes.lista, domain.Participacao{
		ID:              domain.ParticipacaoID(nome),
		BolaoID:         bolaoID,
		UserID:          "user-" + nome,
		Nome:            nome,
		StatusPagamento: domain.PagamentoConfirmado,
		QuantidadeCotas: cotas,
		Numeros:         numeros,
	})
}

func TestFecharBolaoFluxoCompleto(t *testing.T) {
	deps := newFechamentoDeps()
	// 4 cotas de 12.00 = 48.00: aposta de 7 dezenas (42.00) + 1 extra (6.00).
	bolaoID := deps.criarBolao("12.00")
	deps.confirmada(bolaoID, "alice", 1, 4, 18, 27, 33, 49, 56)
	deps.confirmada(bolaoID, "bruno", 1, 4, 11, 27, 38, 44, 60)
	deps.confirmada(bolaoID, "clara", 1, 4, 18, 29, 36, 44, 57)
	deps.confirmada(bolaoID, "davi", 1, 8, 17, 27, 39, 46, 58)

	resultado, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	if resultado.Hash == "" {
		t.Fatal("fechamento nao produziu hash")
	}
	if len(resultado.Apostas) != 2 {
		t.Fatalf("esperava 2 apostas (principal + extra), veio %d", len(resultado.Apostas))
	}
	if resultado.Apostas[0].Tipo != "principal_7_dezenas" {
		t.Fatalf("tipo da principal errado: %s", resultado.Apostas[0].Tipo)
	}
	if len(resultado.Apostas[0].Numeros) != 7 {
		t.Fatalf("principal deveria ter 7 dezenas, veio %d", len(resultado.Apostas[0].Numeros))
	}
	if resultado.Apostas[1].Tipo != "extra" {
		t.Fatalf("tipo da extra errado: %s", resultado.Apostas[1].Tipo)
	}
	if len(resultado.Apostas[1].Numeros) != 6 {
		t.Fatalf("extra deveria ter 6 dezenas, veio %d", len(resultado.Apostas[1].Numeros))
	}

	// Extra nao reusa dezenas da principal enquanto houver dezenas ineditas.
	naPrincipal := make(map[int]bool)
	for _, n := range resultado.Apostas[0].Numeros {
		naPrincipal[n] = true
	}
	for _, n := range resultado.Apostas[1].Numeros {
		if naPrincipal[n] {
			t.Fatalf("extra reusou a dezena %d da principal", n)
		}
	}

	// Registro financeiro bate com a resolucao.
	if resultado.Registro.Financeiro.DezenasPrincipal != 7 {
		t.Fatalf("registro com nivel errado: %d", resultado.Registro.Financeiro.DezenasPrincipal)
	}
	if resultado.Registro.TotalArrecadado.StringFixed(2) != "48.00" {
		t.Fatalf("total errado no registro: %s", resultado.Registro.TotalArrecadado.StringFixed(2))
	}
	if resultado.Registro.TotalCotas != 4 {
		t.Fatalf("cotas erradas no registro: %d", resultado.Registro.TotalCotas)
	}
	if len(resultado.Registro.Participantes) != 4 {
		t.Fatalf("registro deveria listar 4 participantes, veio %d", len(resultado.Registro.Participantes))
	}

	// Estado persistido: bolao fechado com hash e registro, apostas gravadas.
	bolao := deps.boloes.boloes[bolaoID]
	if bolao.Status != domain.BolaoFechado {
		t.Fatalf("bolao deveria estar fechado, esta %s", bolao.Status)
	}
	if bolao.HashFechamento != resultado.Hash {
		t.Fatal("hash persistido diverge do devolvido")
	}
	if bolao.RegistroFechamento == "" {
		t.Fatal("registro nao foi persistido")
	}
	if len(deps.apostas.apostas) != 2 {
		t.Fatalf("esperava 2 apostas persistidas, veio %d", len(deps.apostas.apostas))
	}

	// Trava foi adquirida e liberada.
	if len(deps.trava.adquiridas) != 1 || len(deps.trava.liberadas) != 1 {
		t.Fatalf("trava mal gerida: adquiridas=%v liberadas=%v", deps.trava.adquiridas, deps.trava.liberadas)
	}
}

func TestFecharBolaoConsolidacaoDeterministica(t *testing.T) {
	deps := newFechamentoDeps()
	// 3 cotas de 2.00 = 6.00: so a aposta simples de 6 dezenas.
	bolaoID := deps.criarBolao("2.00")
	deps.confirmada(bolaoID, "alice", 1, 33, 34, 38, 41, 47, 53)
	deps.confirmada(bolaoID, "bruno", 1, 33, 34, 38, 42, 48, 54)
	deps.confirmada(bolaoID, "clara", 1, 33, 39, 40, 43, 49, 55)

	resultado, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	// Votos: 33 tem 3, 34 e 38 tem 2. O desempate entre as dezenas de 1 voto e
	// por pontuacao (40 e 55 perdem por penalidade) e depois pela menor dezena.
	esperado := []int{33, 34, 38, 39, 41, 42}
	principal := resultado.Apostas[0].Numeros
	if len(principal) != len(esperado) {
		t.Fatalf("esperava %v, veio %v", esperado, principal)
	}
	for i, n := range esperado {
		if principal[i] != n {
			t.Fatalf("esperava %v, veio %v", esperado, principal)
		}
	}

	// Mesmo cenario fecha identico num servico novo.
	outro := newFechamentoDeps()
	outroID := outro.criarBolao("2.00")
	outro.confirmada(outroID, "alice", 1, 33, 34, 38, 41, 47, 53)
	outro.confirmada(outroID, "bruno", 1, 33, 34, 38, 42, 48, 54)
	outro.confirmada(outroID, "clara", 1, 33, 39, 40, 43, 49, 55)

	repetido, err := outro.service.FecharBolao(context.Background(), outroID, "admin-1")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	for i, n := range resultado.Apostas[0].Numeros {
		if repetido.Apostas[0].Numeros[i] != n {
			t.Fatalf("consolidacao nao deterministica: %v vs %v", resultado.Apostas[0].Numeros, repetido.Apostas[0].Numeros)
		}
	}
}

func TestFecharBolaoAutofillPersistido(t *testing.T) {
	deps := newFechamentoDeps()
	bolaoID := deps.criarBolao("3.00")
	deps.confirmada(bolaoID, "alice", 1, 4, 18, 27, 33, 49, 56)
	deps.confirmada(bolaoID, "bruno", 1) // confirmado sem dezenas

	resultado, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	persistido, err := deps.participacoes.FindByID(context.Background(), "bruno")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if len(persistido.Numeros) != domain.NumerosPorAposta {
		t.Fatalf("autofill deveria persistir %d dezenas, veio %d", domain.NumerosPorAposta, len(persistido.Numeros))
	}

	// O registro retrata as dezenas geradas, nao a ausencia delas.
	var noRegistro []int
	for _, p := range resultado.Registro.Participantes {
		if p.Nome == "bruno" {
			noRegistro = p.Numeros
		}
	}
	if len(noRegistro) != domain.NumerosPorAposta {
		t.Fatalf("registro deveria conter as dezenas do autofill, veio %v", noRegistro)
	}
	for i, n := range persistido.Numeros.Ordenada() {
		if noRegistro[i] != n {
			t.Fatalf("registro %v diverge do persistido %v", noRegistro, persistido.Numeros)
		}
	}
}

func TestFecharBolaoSaldoInsuficienteMantemAberto(t *testing.T) {
	deps := newFechamentoDeps()
	bolaoID := deps.criarBolao("1.00")
	deps.confirmada(bolaoID, "alice", 3, 4, 18, 27, 33, 49, 56)

	_, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1")
	var saldoErr *SaldoInsuficienteError
	if !errors.As(err, &saldoErr) {
		t.Fatalf("esperava SaldoInsuficienteError, veio %v", err)
	}
	if saldoErr.Faltam.StringFixed(2) != "3.00" {
		t.Fatalf("esperava faltar 3.00, veio %s", saldoErr.Faltam.StringFixed(2))
	}

	// Falha antes do flip: bolao segue aberto, sem apostas, trava liberada.
	if deps.boloes.boloes[bolaoID].Status != domain.BolaoAberto {
		t.Fatal("bolao deveria permanecer aberto")
	}
	if len(deps.apostas.apostas) != 0 {
		t.Fatalf("nenhuma aposta deveria ter sido gravada, veio %d", len(deps.apostas.apostas))
	}
	if len(deps.trava.liberadas) != 1 {
		t.Fatal("trava deveria ter sido liberada apos a falha")
	}

	// Mais cotas entram e a repeticao fecha normalmente.
	deps.confirmada(bolaoID, "bruno", 3, 4, 11, 27, 38, 44, 60)
	if _, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1"); err != nil {
		t.Fatalf("repeticao deveria fechar: %v", err)
	}
	if deps.boloes.boloes[bolaoID].Status != domain.BolaoFechado {
		t.Fatal("bolao deveria estar fechado apos a repeticao")
	}
}

func TestFecharBolaoJaFechado(t *testing.T) {
	deps := newFechamentoDeps()
	bolaoID := deps.criarBolao("6.00")
	deps.confirmada(bolaoID, "alice", 1, 4, 18, 27, 33, 49, 56)

	if _, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if _, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1"); !errors.Is(err, ErrBolaoJaFechado) {
		t.Fatalf("esperava ErrBolaoJaFechado, veio %v", err)
	}
}

func TestFecharBolaoTravaOcupada(t *testing.T) {
	deps := newFechamentoDeps()
	bolaoID := deps.criarBolao("6.00")
	deps.confirmada(bolaoID, "alice", 1, 4, 18, 27, 33, 49, 56)
	deps.trava.negar = true

	if _, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1"); !errors.Is(err, ErrFechamentoEmAndamento) {
		t.Fatalf("esperava ErrFechamentoEmAndamento, veio %v", err)
	}
	if deps.boloes.boloes[bolaoID].Status != domain.BolaoAberto {
		t.Fatal("bolao deveria permanecer aberto")
	}
}

func TestFecharBolaoFalhaNasApostasMantemAberto(t *testing.T) {
	deps := newFechamentoDeps()
	bolaoID := deps.criarBolao("6.00")
	deps.confirmada(bolaoID, "alice", 1, 4, 18, 27, 33, 49, 56)
	deps.apostas.falha = errors.New("banco indisponivel")

	if _, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1"); err == nil {
		t.Fatal("esperava erro de persistencia")
	}
	if deps.boloes.boloes[bolaoID].Status != domain.BolaoAberto {
		t.Fatal("falha antes do flip deveria deixar o bolao aberto")
	}

	// Banco volta e a repeticao completa o fechamento.
	deps.apostas.falha = nil
	if _, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1"); err != nil {
		t.Fatalf("repeticao deveria fechar: %v", err)
	}
	if deps.boloes.boloes[bolaoID].Status != domain.BolaoFechado {
		t.Fatal("bolao deveria estar fechado apos a repeticao")
	}
}

func TestFecharBolaoFalhaNoFlipNaoDuplicaApostas(t *testing.T) {
	deps := newFechamentoDeps()
	bolaoID := deps.criarBolao("6.00")
	deps.confirmada(bolaoID, "alice", 1, 4, 18, 27, 33, 49, 56)

	// As apostas sao gravadas antes do flip de status; se o flip falhar, a
	// repeticao nao pode deixar a tabela com o dobro de apostas do registro.
	deps.boloes.falhasUpdate = 1
	if _, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1"); err == nil {
		t.Fatal("esperava erro no flip de status")
	}
	if deps.boloes.boloes[bolaoID].Status != domain.BolaoAberto {
		t.Fatal("falha no flip deveria deixar o bolao aberto")
	}
	if len(deps.apostas.apostas) != 1 {
		t.Fatalf("primeira tentativa deveria ter gravado 1 aposta, veio %d", len(deps.apostas.apostas))
	}

	resultado, err := deps.service.FecharBolao(context.Background(), bolaoID, "admin-1")
	if err != nil {
		t.Fatalf("repeticao deveria fechar: %v", err)
	}
	if deps.boloes.boloes[bolaoID].Status != domain.BolaoFechado {
		t.Fatal("bolao deveria estar fechado apos a repeticao")
	}
	if len(deps.apostas.apostas) != len(resultado.Registro.Apostas) {
		t.Fatalf("apostas persistidas (%d) divergem do registro (%d)", len(deps.apostas.apostas), len(resultado.Registro.Apostas))
	}
	if len(deps.apostas.apostas) != 1 {
		t.Fatalf("repeticao duplicou apostas: %d", len(deps.apostas.apostas))
	}
}

func TestFecharBolaoNaoEncontrado(t *testing.T) {
	deps := newFechamentoDeps()
	if _, err := deps.service.FecharBolao(context.Background(), "inexistente", "admin-1"); !errors.Is(err, ErrBolaoNaoEncontrado) {
		t.Fatalf("esperava ErrBolaoNaoEncontrado, veio %v", err)
	}
}

func TestObterFechamento(t *testing.T) {
	deps := newFechamentoDeps()
	bolaoID := deps.criarBolao("6.00")
	deps.confirmada(bolaoID, "alice", 1, 4, 18, 27, 33, 49, 56)
	ctx := context.Background()

	aberto, err := deps.service.ObterFechamento(ctx, bolaoID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if aberto.Status != domain.BolaoAberto || aberto.Hash != "" || aberto.Registro != nil {
		t.Fatalf("bolao aberto nao deveria expor fechamento: %+v", aberto)
	}

	resultado, err := deps.service.FecharBolao(ctx, bolaoID, "admin-1")
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	fechado, err := deps.service.ObterFechamento(ctx, bolaoID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if fechado.Status != domain.BolaoFechado {
		t.Fatalf("esperava status fechado, veio %s", fechado.Status)
	}
	if fechado.Hash != resultado.Hash {
		t.Fatal("hash exposto diverge do fechamento")
	}
	if fechado.Registro == nil {
		t.Fatal("registro deveria estar disponivel apos o fechamento")
	}
	if fechado.FechadoEm != deps.clock.agora.UTC().Format(time.RFC3339) {
		t.Fatalf("FechadoEm errado: %s", fechado.FechadoEm)
	}
	if len(fechado.Registro.Apostas) != len(resultado.Registro.Apostas) {
		t.Fatal("registro relido diverge do gravado")
	}

	if _, err := deps.service.ObterFechamento(ctx, "inexistente"); !errors.Is(err, ErrBolaoNaoEncontrado) {
		t.Fatalf("esperava ErrBolaoNaoEncontrado, veio %v", err)
	}
}

func TestVerificarIntegridade(t *testing.T) {
	deps := newFechamentoDeps()
	bolaoID := deps.criarBolao("6.00")
	deps.confirmada(bolaoID, "alice", 1, 4, 18, 27, 33, 49, 56)
	ctx := context.Background()

	if _, err := deps.service.VerificarIntegridade(ctx, bolaoID); !errors.Is(err, ErrBolaoAberto) {
		t.Fatalf("bolao aberto deveria dar ErrBolaoAberto, veio %v", err)
	}

	if _, err := deps.service.FecharBolao(ctx, bolaoID, "admin-1"); err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}

	ok, err := deps.service.VerificarIntegridade(ctx, bolaoID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if !ok {
		t.Fatal("registro recem-gravado deveria verificar")
	}

	// Hash adulterado no banco e detectado.
	bolao := deps.boloes.boloes[bolaoID]
	bolao.HashFechamento = "0000000000000000000000000000000000000000000000000000000000000000"
	deps.boloes.boloes[bolaoID] = bolao

	ok, err = deps.service.VerificarIntegridade(ctx, bolaoID)
	if err != nil {
		t.Fatalf("erro inesperado: %v", err)
	}
	if ok {
		t.Fatal("hash adulterado deveria falhar na verificacao")
	}
}
