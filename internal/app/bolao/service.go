// Pacote bolao implementa as regras de negócio do bolão: criação, adesão,
// escolha de dezenas e confirmação de pagamento.
package bolao

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/carl0sfelipe/mega-sena/internal/domain"
	"github.com/carl0sfelipe/mega-sena/internal/platform/ids"
	"github.com/carl0sfelipe/mega-sena/internal/platform/logger"
)

var (
	ErrBolaoInvalido             = errors.New("bolao invalido")
	ErrBolaoAbertoExistente      = errors.New("ja existe bolao aberto")
	ErrBolaoNaoEncontrado        = errors.New("bolao nao encontrado")
	ErrBolaoFechado              = errors.New("bolao fechado")
	ErrParticipacaoInvalida      = errors.New("participacao invalida")
	ErrParticipacaoNaoEncontrada = errors.New("participacao nao encontrada")
	ErrConcursoInvalido          = errors.New("concurso invalido")
	ErrFechamentoEmAndamento     = errors.New("fechamento em andamento")
)

// Service concentra o ciclo de vida de bolão e participações e publica eventos
// de recálculo quando as dezenas escolhidas mudam.
type Service struct {
	boloes        domain.BolaoRepository
	participacoes domain.ParticipacaoRepository
	concursos     domain.ConcursoRepository
	fila          domain.Fila
	trava         domain.Trava
	clock         domain.Clock
	ids           *ids.Generator
}

func NewService(
	boloes domain.BolaoRepository,
	participacoes domain.ParticipacaoRepository,
	concursos domain.ConcursoRepository,
	fila domain.Fila,
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
		concursos:     concursos,
		fila:          fila,
		trava:         trava,
		clock:         clock,
		ids:           idsGen,
	}
}

// CriarBolao abre um bolão novo. Invariante global: no máximo um bolão aberto
// por vez, checado aqui e reforçado por índice parcial no Postgres.
func (s *Service) CriarBolao(ctx context.Context, nome string, valorCota decimal.Decimal) (domain.Bolao, error) {
	if nome == "" {
		return domain.Bolao{}, fmt.Errorf("%w: nome obrigatorio", ErrBolaoInvalido)
	}
	if !valorCota.IsPositive() {
		return domain.Bolao{}, fmt.Errorf("%w: valor da cota deve ser positivo", ErrBolaoInvalido)
	}

	_, err := s.boloes.FindAberto(ctx)
	switch {
	case err == nil:
		return domain.Bolao{}, ErrBolaoAbertoExistente
	case !errors.Is(err, domain.ErrNotFound):
		return domain.Bolao{}, err
	}

	agora := s.clock.Agora()
	bolao := domain.Bolao{
		ID:           domain.BolaoID(s.ids.New()),
		Nome:         nome,
		ValorCota:    valorCota,
		Status:       domain.BolaoAberto,
		CriadoEm:     agora,
		AtualizadoEm: agora,
	}
	if err := s.boloes.Create(ctx, bolao); err != nil {
		return domain.Bolao{}, err
	}
	return bolao, nil
}

func (s *Service) ObterBolaoAberto(ctx context.Context) (domain.Bolao, error) {
	bolao, err := s.boloes.FindAberto(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Bolao{}, ErrBolaoNaoEncontrado
		}
		return domain.Bolao{}, err
	}
	return bolao, nil
}

// Participar registra a adesão de um usuário com a quantidade de cotas pedida.
// O pagamento nasce pendente; só a confirmação coloca a cota no caixa.
func (s *Service) Participar(ctx context.Context, bolaoID domain.BolaoID, userID, nome string, cotas int) (domain.Participacao, error) {
	if userID == "" || nome == "" {
		return domain.Participacao{}, fmt.Errorf("%w: usuario e nome obrigatorios", ErrParticipacaoInvalida)
	}
	if cotas < 1 {
		return domain.Participacao{}, fmt.Errorf("%w: minimo de uma cota", ErrParticipacaoInvalida)
	}

	bolao, err := s.boloes.FindByID(ctx, bolaoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Participacao{}, ErrBolaoNaoEncontrado
		}
		return domain.Participacao{}, err
	}
	if bolao.Status != domain.BolaoAberto {
		return domain.Participacao{}, ErrBolaoFechado
	}

	agora := s.clock.Agora()
	participacao := domain.Participacao{
		ID:              domain.ParticipacaoID(s.ids.New()),
		BolaoID:         bolaoID,
		UserID:          userID,
		Nome:            nome,
		StatusPagamento: domain.PagamentoPendente,
		QuantidadeCotas: cotas,
		CriadoEm:        agora,
		AtualizadoEm:    agora,
	}
	if err := s.participacoes.Create(ctx, participacao); err != nil {
		return domain.Participacao{}, err
	}
	return participacao, nil
}

// EscolherNumeros valida e grava as dezenas do participante e dispara o
// recálculo de popularidade. Rejeição é síncrona e nunca parcial.
func (s *Service) EscolherNumeros(ctx context.Context, participacaoID domain.ParticipacaoID, numeros []int) error {
	if err := domain.ValidarNumeros(numeros); err != nil {
		return err
	}

	participacao, err := s.participacoes.FindByID(ctx, participacaoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrParticipacaoNaoEncontrada
		}
		return err
	}

	bolao, err := s.boloes.FindByID(ctx, participacao.BolaoID)
	if err != nil {
		return err
	}
	if bolao.Status != domain.BolaoAberto {
		return ErrBolaoFechado
	}

	liberar, err := s.travarFechamento(ctx, participacao.BolaoID)
	if err != nil {
		return err
	}
	defer liberar()

	agora := s.clock.Agora()
	ordenados := domain.ListaNumeros(numeros).Ordenada()
	if err := s.participacoes.UpdateNumeros(ctx, participacaoID, ordenados, agora); err != nil {
		return err
	}

	s.publicarRecalculo(ctx, participacao.BolaoID, "numeros_alterados")
	return nil
}

// ConfirmarPagamento avança o status pendente→declarado→confirmado. Regressões
// são rejeitadas; confirmação publica recálculo porque a popularidade só conta
// participantes confirmados.
func (s *Service) ConfirmarPagamento(ctx context.Context, participacaoID domain.ParticipacaoID, status domain.StatusPagamento) error {
	if status != domain.PagamentoDeclarado && status != domain.PagamentoConfirmado {
		return fmt.Errorf("%w: status de pagamento desconhecido", ErrParticipacaoInvalida)
	}

	participacao, err := s.participacoes.FindByID(ctx, participacaoID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return ErrParticipacaoNaoEncontrada
		}
		return err
	}

	bolao, err := s.boloes.FindByID(ctx, participacao.BolaoID)
	if err != nil {
		return err
	}
	if bolao.Status != domain.BolaoAberto {
		return ErrBolaoFechado
	}

	if participacao.StatusPagamento == domain.PagamentoConfirmado {
		return fmt.Errorf("%w: pagamento ja confirmado", ErrParticipacaoInvalida)
	}
	if participacao.StatusPagamento == domain.PagamentoDeclarado && status == domain.PagamentoDeclarado {
		return fmt.Errorf("%w: pagamento ja declarado", ErrParticipacaoInvalida)
	}

	liberar, err := s.travarFechamento(ctx, participacao.BolaoID)
	if err != nil {
		return err
	}
	defer liberar()

	agora := s.clock.Agora()
	if err := s.participacoes.UpdateStatusPagamento(ctx, participacaoID, status, agora); err != nil {
		return err
	}

	if status == domain.PagamentoConfirmado {
		s.publicarRecalculo(ctx, participacao.BolaoID, "pagamento_confirmado")
	}
	return nil
}

// ListarParticipacoes devolve todas as participações do bolão, confirmadas ou não.
func (s *Service) ListarParticipacoes(ctx context.Context, bolaoID domain.BolaoID) ([]domain.Participacao, error) {
	if _, err := s.boloes.FindByID(ctx, bolaoID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, ErrBolaoNaoEncontrado
		}
		return nil, err
	}
	return s.participacoes.ListByBolao(ctx, bolaoID)
}

// RegistrarConcurso grava um sorteio histórico usado pela frequência.
func (s *Service) RegistrarConcurso(ctx context.Context, numero int, dezenas []int) (domain.Concurso, error) {
	if numero <= 0 {
		return domain.Concurso{}, fmt.Errorf("%w: numero do concurso deve ser positivo", ErrConcursoInvalido)
	}
	if len(dezenas) != domain.NumerosPorAposta {
		return domain.Concurso{}, fmt.Errorf("%w: concurso tem exatamente %d dezenas", ErrConcursoInvalido, domain.NumerosPorAposta)
	}
	if err := domain.ValidarNumeros(dezenas); err != nil {
		return domain.Concurso{}, fmt.Errorf("%w: %v", ErrConcursoInvalido, err)
	}

	agora := s.clock.Agora()
	concurso := domain.Concurso{
		ID:         domain.ConcursoID(s.ids.New()),
		Numero:     numero,
		Dezenas:    domain.ListaNumeros(dezenas).Ordenada(),
		SorteadoEm: agora,
		CriadoEm:   agora,
	}
	if err := s.concursos.Create(ctx, concurso); err != nil {
		return domain.Concurso{}, err
	}
	return concurso, nil
}

// travarFechamento segura a trava de fechamento durante uma mutação de
// participação. O status do bolão só vira fechado na última escrita do
// fechamento, então o guard de status sozinho não enxerga um fechamento em
// curso; a trava enxerga. Mutação rejeitada pode ser repetida depois.
func (s *Service) travarFechamento(ctx context.Context, bolaoID domain.BolaoID) (func(), error) {
	if s.trava == nil {
		return func() {}, nil
	}
	chave := domain.ChaveFechamento(bolaoID)
	ok, err := s.trava.Adquirir(ctx, chave)
	if err != nil {
		return nil, fmt.Errorf("bolao: adquirir trava de fechamento: %w", err)
	}
	if !ok {
		return nil, ErrFechamentoEmAndamento
	}
	return func() {
		_ = s.trava.Liberar(context.WithoutCancel(ctx), chave)
	}, nil
}

func (s *Service) publicarRecalculo(ctx context.Context, bolaoID domain.BolaoID, motivo string) {
	if s.fila == nil {
		return
	}
	evento := domain.EventoRecalculo{
		BolaoID:  bolaoID,
		Motivo:   motivo,
		CriadoEm: s.clock.Agora(),
	}
	// Falha de publicação não derruba a operação: pontuação é dado consultivo,
	// a fonte de verdade continua sendo a tabela de participações.
	if err := s.fila.PublicarRecalculo(ctx, evento); err != nil {
		logger.Error("falha ao publicar recalculo", "bolao", bolaoID, "motivo", motivo, "err", err)
	}
}
