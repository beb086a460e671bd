package fechamento

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/carl0sfelipe/mega-sena/internal/app/pontuacao"
	"github.com/carl0sfelipe/mega-sena/internal/domain"
	"github.com/carl0sfelipe/mega-sena/internal/platform/ids"
)

var (
	ErrBolaoNaoEncontrado    = errors.New("bolao nao encontrado")
	ErrBolaoJaFechado        = errors.New("bolao ja fechado")
	ErrFechamentoEmAndamento = errors.New("fechamento em andamento")
	ErrBolaoAberto           = errors.New("bolao ainda aberto")
)

// Service orquestra o fechamento: trava, resolução financeira, autofill,
// consolidação, apostas extras, registro e hash. O flip de status é a última
// escrita; qualquer falha antes dela deixa o bolão aberto e a repetição é segura.
type Service struct {
	boloes        domain.BolaoRepository
	participacoes domain.ParticipacaoRepository
	apostas       domain.ApostaRepository
	engine        *pontuacao.Engine
	sorteador     *pontuacao.Sorteador
	trava         domain.Trava
	clock         domain.Clock
	ids           *ids.Generator
	niveis        []NivelAposta
}

func NewService(
	boloes domain.BolaoRepository,
	participacoes domain.ParticipacaoRepository,
	apostas domain.ApostaRepository,
	engine *pontuacao.Engine,
	sorteador *pontuacao.Sorteador,
	trava domain.Trava,
	clock domain.Clock,
	idsGen *ids.Generator,
) *Service {
	if idsGen == nil {
		idsGen = ids.DefaultGenerator()
	}
	return &Service{
		boloes:        boloes,
		participacoes: participacoes,
		apostas:       apostas,
		engine:        engine,
		sorteador:     sorteador,
		trava:         trava,
		clock:         clock,
		ids:           idsGen,
		niveis:        TabelaNiveis(),
	}
}

// ResultadoFechamento devolve ao chamador o que foi persistido.
type ResultadoFechamento struct {
	Hash     string
	Registro domain.RegistroFechamento
	Apostas  []domain.ApostaFinal
}

// InfoFechamento expõe o estado de fechamento de um bolão.
type InfoFechamento struct {
	Status    domain.StatusBolao
	Hash      string
	FechadoEm string
	Registro  *domain.RegistroFechamento
}

// FecharBolao executa a transição aberto→fechado. Irreversível: segunda chamada
// recebe ErrBolaoJaFechado; chamada concorrente esbarra na trava.
func (s *Service) FecharBolao(ctx context.Context, bolaoID domain.BolaoID, adminID string) (ResultadoFechamento, error) {
	if s.trava != nil {
		ok, err := s.trava.Adquirir(ctx, domain.ChaveFechamento(bolaoID))
		if err != nil {
			return ResultadoFechamento{}, fmt.Errorf("fechamento: adquirir trava: %w", err)
		}
		if !ok {
			return ResultadoFechamento{}, ErrFechamentoEmAndamento
		}
		defer func() {
			_ = s.trava.Liberar(context.WithoutCancel(ctx), domain.ChaveFechamento(bolaoID))
		}()
	}

	bolao, err := s.boloes.FindByID(ctx, bolaoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ResultadoFechamento{}, ErrBolaoNaoEncontrado
		}
		return ResultadoFechamento{}, err
	}
	if bolao.Status != domain.BolaoAberto {
		return ResultadoFechamento{}, ErrBolaoJaFechado
	}

	confirmadas, err := s.participacoes.ListConfirmadas(ctx, bolaoID)
	if err != nil {
		return ResultadoFechamento{}, fmt.Errorf("fechamento: listar confirmadas: %w", err)
	}

	total, totalCotas := TotalArrecadado(bolao.ValorCota, confirmadas)
	resolucao, err := ResolverNivel(total, s.niveis)
	if err != nil {
		return ResultadoFechamento{}, err
	}

	pontuacoes, err := s.engine.ObterPontuacoes(ctx, bolaoID, false)
	if err != nil {
		return ResultadoFechamento{}, err
	}

	agora := s.clock.Agora()

	// Participantes confirmados sem dezenas recebem palpite automático, persistido
	// antes do registro para que snapshot e banco contem a mesma história.
	for i := range confirmadas {
		if len(confirmadas[i].Numeros) > 0 {
			continue
		}
		gerados := s.sorteador.GerarNumeros(pontuacoes, domain.NumerosPorAposta)
		if err := s.participacoes.UpdateNumeros(ctx, confirmadas[i].ID, gerados, agora); err != nil {
			return ResultadoFechamento{}, fmt.Errorf("fechamento: autofill participacao %s: %w", confirmadas[i].ID, err)
		}
		confirmadas[i].Numeros = gerados
	}

	principal := s.consolidarPrincipal(confirmadas, pontuacoes, resolucao.Nivel.Dezenas)

	usados := make(map[int]bool, domain.TotalNumeros)
	for _, n := range principal {
		usados[n] = true
	}
	extras := make([][]int, 0, resolucao.QtdApostasExtras)
	for i := 0; i < resolucao.QtdApostasExtras; i++ {
		extra := s.gerarApostaExtra(pontuacoes, usados)
		for _, n := range extra {
			usados[n] = true
		}
		extras = append(extras, extra)
	}

	registro := s.montarRegistro(bolao, adminID, agora, confirmadas, totalCotas, resolucao, principal, extras)
	hash, err := HashRegistro(registro)
	if err != nil {
		return ResultadoFechamento{}, err
	}

	registroJSON, err := json.Marshal(registro)
	if err != nil {
		return ResultadoFechamento{}, fmt.Errorf("fechamento: serializar registro: %w", err)
	}

	// Uma tentativa anterior pode ter gravado apostas e falhado antes do flip de
	// status. Limpamos antes de regravar para a tabela ficar igual ao registro.
	if err := s.apostas.DeleteByBolao(ctx, bolaoID); err != nil {
		return ResultadoFechamento{}, fmt.Errorf("fechamento: limpar apostas anteriores: %w", err)
	}
	apostas := s.montarApostas(bolao, resolucao, principal, extras)
	if err := s.apostas.BulkCreate(ctx, apostas); err != nil {
		return ResultadoFechamento{}, fmt.Errorf("fechamento: gravar apostas: %w", err)
	}

	// Última escrita: só aqui o bolão deixa de estar aberto.
	bolao.Status = domain.BolaoFechado
	bolao.HashFechamento = hash
	bolao.RegistroFechamento = string(registroJSON)
	bolao.FechadoPor = adminID
	bolao.FechadoEm = &agora
	bolao.AtualizadoEm = agora
	if err := s.boloes.Update(ctx, bolao); err != nil {
		return ResultadoFechamento{}, fmt.Errorf("fechamento: atualizar bolao: %w", err)
	}

	return ResultadoFechamento{Hash: hash, Registro: registro, Apostas: apostas}, nil
}

// consolidarPrincipal ranqueia as 60 dezenas por votos dos confirmados, usando a
// pontuação como desempate e a própria dezena como critério final, o que torna a
// ordenação totalmente determinística.
func (s *Service) consolidarPrincipal(confirmadas []domain.Participacao, pontuacoes []domain.PontuacaoNumero, dezenas int) []int {
	votos := make(map[int]int, domain.TotalNumeros)
	for _, p := range confirmadas {
		for _, numero := range p.Numeros {
			votos[numero]++
		}
	}

	scores := make(map[int]int, len(pontuacoes))
	for _, p := range pontuacoes {
		scores[p.Numero] = p.PontuacaoFinal
	}

	candidatos := make([]int, 0, domain.TotalNumeros)
	for numero := domain.NumeroMinimo; numero <= domain.NumeroMaximo; numero++ {
		candidatos = append(candidatos, numero)
	}
	sort.Slice(candidatos, func(i, j int) bool {
		a, b := candidatos[i], candidatos[j]
		if votos[a] != votos[b] {
			return votos[a] > votos[b]
		}
		if scores[a] != scores[b] {
			return scores[a] > scores[b]
		}
		return a < b
	})

	principal := candidatos[:dezenas]
	ordenado := make([]int, len(principal))
	copy(ordenado, principal)
	sort.Ints(ordenado)
	return ordenado
}

// gerarApostaExtra prefere as seis dezenas de maior pontuação ainda não usadas
// neste fechamento. Quando restam menos de seis inéditas o conjunto de usadas é
// zerado (reuso permitido); pontuação incompleta cai no sorteio uniforme.
func (s *Service) gerarApostaExtra(pontuacoes []domain.PontuacaoNumero, usados map[int]bool) []int {
	disponiveis := make([]domain.PontuacaoNumero, 0, len(pontuacoes))
	for _, p := range pontuacoes {
		if !usados[p.Numero] {
			disponiveis = append(disponiveis, p)
		}
	}
	if len(disponiveis) < domain.NumerosPorAposta {
		for n := range usados {
			delete(usados, n)
		}
		disponiveis = disponiveis[:0]
		disponiveis = append(disponiveis, pontuacoes...)
	}
	if len(disponiveis) < domain.NumerosPorAposta {
		return s.sorteador.GerarUniforme(domain.NumerosPorAposta)
	}

	sort.Slice(disponiveis, func(i, j int) bool {
		if disponiveis[i].PontuacaoFinal != disponiveis[j].PontuacaoFinal {
			return disponiveis[i].PontuacaoFinal > disponiveis[j].PontuacaoFinal
		}
		return disponiveis[i].Numero < disponiveis[j].Numero
	})

	extra := make([]int, domain.NumerosPorAposta)
	for i := 0; i < domain.NumerosPorAposta; i++ {
		extra[i] = disponiveis[i].Numero
	}
	sort.Ints(extra)
	return extra
}

func (s *Service) montarRegistro(
	bolao domain.Bolao,
	adminID string,
	agora time.Time,
	confirmadas []domain.Participacao,
	totalCotas int,
	resolucao ResolucaoFinanceira,
	principal []int,
	extras [][]int,
) domain.RegistroFechamento {
	participantes := make([]domain.ParticipacaoFechada, len(confirmadas))
	indice := make(map[int][]string, domain.TotalNumeros)
	for i, p := range confirmadas {
		participantes[i] = domain.ParticipacaoFechada{
			ParticipacaoID:  p.ID,
			UserID:          p.UserID,
			Nome:            p.Nome,
			Cotas:           p.QuantidadeCotas,
			StatusPagamento: p.StatusPagamento,
			Numeros:         p.Numeros.Ordenada(),
		}
		for _, numero := range p.Numeros {
			indice[numero] = append(indice[numero], p.Nome)
		}
	}

	apostas := make([]domain.ApostaRegistro, 0, 1+len(extras))
	apostas = append(apostas, domain.ApostaRegistro{
		Tipo:    tipoPrincipal(resolucao.Nivel.Dezenas),
		Numeros: principal,
		Custo:   resolucao.Nivel.Custo,
	})
	custoExtra := s.niveis[len(s.niveis)-1].Custo
	for _, extra := range extras {
		apostas = append(apostas, domain.ApostaRegistro{
			Tipo:    "extra",
			Numeros: extra,
			Custo:   custoExtra,
		})
	}

	return domain.RegistroFechamento{
		BolaoID:              bolao.ID,
		Nome:                 bolao.Nome,
		FechadoEm:            agora,
		FechadoPor:           adminID,
		ValorCota:            bolao.ValorCota,
		TotalArrecadado:      resolucao.Total,
		TotalCotas:           totalCotas,
		Participantes:        participantes,
		NumerosParticipantes: indice,
		Financeiro: domain.ResumoFinanceiro{
			DezenasPrincipal:   resolucao.Nivel.Dezenas,
			CustoPrincipal:     resolucao.Nivel.Custo,
			QtdApostasExtras:   resolucao.QtdApostasExtras,
			CustoApostasExtras: resolucao.CustoApostasExtras,
			Sobra:              resolucao.Sobra,
		},
		Apostas: apostas,
	}
}

func (s *Service) montarApostas(bolao domain.Bolao, resolucao ResolucaoFinanceira, principal []int, extras [][]int) []domain.ApostaFinal {
	agora := s.clock.Agora()
	apostas := make([]domain.ApostaFinal, 0, 1+len(extras))
	apostas = append(apostas, domain.ApostaFinal{
		ID:       domain.ApostaID(s.ids.New()),
		BolaoID:  bolao.ID,
		Tipo:     tipoPrincipal(resolucao.Nivel.Dezenas),
		Numeros:  principal,
		Custo:    resolucao.Nivel.Custo,
		Ordem:    0,
		CriadoEm: agora,
	})
	custoExtra := s.niveis[len(s.niveis)-1].Custo
	for i, extra := range extras {
		apostas = append(apostas, domain.ApostaFinal{
			ID:       domain.ApostaID(s.ids.New()),
			BolaoID:  bolao.ID,
			Tipo:     "extra",
			Numeros:  extra,
			Custo:    custoExtra,
			Ordem:    i + 1,
			CriadoEm: agora,
		})
	}
	return apostas
}

func tipoPrincipal(dezenas int) string {
	return fmt.Sprintf("principal_%d_dezenas", dezenas)
}

// ObterFechamento devolve status, hash e registro (quando fechado).
func (s *Service) ObterFechamento(ctx context.Context, bolaoID domain.BolaoID) (InfoFechamento, error) {
	bolao, err := s.boloes.FindByID(ctx, bolaoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return InfoFechamento{}, ErrBolaoNaoEncontrado
		}
		return InfoFechamento{}, err
	}

	info := InfoFechamento{Status: bolao.Status, Hash: bolao.HashFechamento}
	if bolao.Status != domain.BolaoFechado {
		return info, nil
	}

	if bolao.FechadoEm != nil {
		info.FechadoEm = bolao.FechadoEm.UTC().Format(time.RFC3339)
	}
	var registro domain.RegistroFechamento
	if err := json.Unmarshal([]byte(bolao.RegistroFechamento), &registro); err != nil {
		return InfoFechamento{}, fmt.Errorf("fechamento: registro corrompido: %w", err)
	}
	info.Registro = &registro
	return info, nil
}

// VerificarIntegridade recomputa o hash do registro gravado e compara com o
// hash persistido no bolão.
func (s *Service) VerificarIntegridade(ctx context.Context, bolaoID domain.BolaoID) (bool, error) {
	bolao, err := s.boloes.FindByID(ctx, bolaoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return false, ErrBolaoNaoEncontrado
		}
		return false, err
	}
	if bolao.Status != domain.BolaoFechado {
		return false, ErrBolaoAberto
	}

	var registro domain.RegistroFechamento
	if err := json.Unmarshal([]byte(bolao.RegistroFechamento), &registro); err != nil {
		return false, fmt.Errorf("fechamento: registro corrompido: %w", err)
	}
	return VerificarHash(registro, bolao.HashFechamento)
}
