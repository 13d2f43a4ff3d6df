package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"

	"straublot/internal/config"
	"straublot/internal/dto"
	"straublot/internal/infra"
	"straublot/internal/model"
	"straublot/internal/repository"
	"straublot/internal/taxa"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

var (
	ErrSemPermissao          = errors.New("seu perfil não tem acesso a esta operação")
	ErrVencimentoObrigatorio = errors.New("informe a data de vencimento do cheque")
	ErrPercentualObrigatorio = errors.New("informe o percentual da taxa")
	ErrDocumentoInvalido     = errors.New("CPF deve ter 11 dígitos e CNPJ 14")
	ErrDataInvalida          = errors.New("data inválida: use dd/mm/aaaa ou aaaa-mm-dd")
	ErrTipoInvalido          = errors.New("tipo de operação desconhecido")
)

// ErroCalculo reports whether err is a rejection from the fee calculator or
// from input checks done before it. Handlers answer those with 400.
func ErroCalculo(err error) bool {
	for _, e := range []error{
		taxa.ErrValorNegativo, taxa.ErrPrazoInvalido, taxa.ErrPercentualNegativo,
		ErrVencimentoObrigatorio, ErrPercentualObrigatorio, ErrDocumentoInvalido,
		ErrDataInvalida, ErrTipoInvalido,
	} {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

type OperacaoService interface {
	// Simular computes the breakdown without saving anything.
	Simular(ctx context.Context, sessao model.Sessao, req dto.OperacaoRequest) (*dto.CalculoResponse, error)
	// Registrar computes the breakdown and appends the operation row.
	Registrar(ctx context.Context, sessao model.Sessao, req dto.OperacaoRequest) (*dto.RegistrarOperacaoResponse, error)
	Listar(ctx context.Context, filtro dto.FiltroOperacoes) (*dto.ListaOperacoesResponse, error)
	Exportar(ctx context.Context, filtro dto.FiltroOperacoes) ([]byte, error)
	// Comprovante renders the PDF receipt of the row at linha.
	Comprovante(ctx context.Context, linha int) ([]byte, error)
}

type operacaoService struct {
	repo            repository.OperacaoRepository
	loc             *time.Location
	taxaBancoDebito decimal.Decimal
	nomeLoja        string
	now             func() time.Time
}

func NewOperacaoService(repo repository.OperacaoRepository, cfg *config.Config) OperacaoService {
	return &operacaoService{
		repo:            repo,
		loc:             cfg.Location(),
		taxaBancoDebito: cfg.TaxaBancoDebito,
		nomeLoja:        cfg.NomeLoja,
		now:             time.Now,
	}
}

func (s *operacaoService) Simular(_ context.Context, sessao model.Sessao, req dto.OperacaoRequest) (*dto.CalculoResponse, error) {
	tipo, err := autorizar(sessao, req.Tipo)
	if err != nil {
		return nil, err
	}
	if _, err := normalizarDocumento(req.CPFCNPJ); err != nil {
		return nil, err
	}
	calc, err := s.calcular(tipo, req, s.hoje())
	if err != nil {
		return nil, err
	}
	resp := calculoParaDTO(tipo, calc)
	return &resp, nil
}

func (s *operacaoService) Registrar(ctx context.Context, sessao model.Sessao, req dto.OperacaoRequest) (*dto.RegistrarOperacaoResponse, error) {
	tipo, err := autorizar(sessao, req.Tipo)
	if err != nil {
		return nil, err
	}
	documento, err := normalizarDocumento(req.CPFCNPJ)
	if err != nil {
		return nil, err
	}
	agora := s.hoje()
	calc, err := s.calcular(tipo, req, agora)
	if err != nil {
		return nil, err
	}

	op := &model.Operacao{
		Data:         agora.Format(model.FormatoData),
		Hora:         agora.Format(model.FormatoHora),
		Operador:     sessao.Nome,
		Tipo:         tipo,
		TipoRotulo:   tipo.Rotulo(),
		Cliente:      strings.TrimSpace(req.Cliente),
		CPFCNPJ:      documento,
		ValorBruto:   calc.ValorBruto,
		TaxaCliente:  calc.TaxaCliente,
		TaxaBanco:    calc.TaxaBanco,
		ValorLiquido: calc.ValorLiquido,
		Lucro:        calc.Lucro,
		Status:       model.StatusConcluido,
		Observacoes:  strings.TrimSpace(req.Observacoes),
	}
	switch tipo {
	case model.TipoChequePreDatado:
		venc, _ := time.ParseInLocation("2006-01-02", req.DataVencimento, s.loc)
		op.DataVencimentoCheque = venc.Format(model.FormatoData)
	case model.TipoChequeManual:
		op.TaxaPercentual = calc.Percentual.String()
	}

	if err := s.repo.Create(ctx, op); err != nil {
		log.Error().Err(err).Str("tipo", string(tipo)).Msg("failed to append operation")
		return nil, err
	}

	log.Info().
		Str("tipo", string(tipo)).
		Str("operador", op.Operador).
		Str("valor_bruto", op.ValorBruto.StringFixed(2)).
		Msg("operation registered")

	return &dto.RegistrarOperacaoResponse{
		Calculo:  calculoParaDTO(tipo, calc),
		Operacao: operacaoParaDTO(*op),
	}, nil
}

func (s *operacaoService) Listar(ctx context.Context, filtro dto.FiltroOperacoes) (*dto.ListaOperacoesResponse, error) {
	ops, err := s.filtrar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	resp := &dto.ListaOperacoesResponse{
		Operacoes:         make([]dto.OperacaoResponse, 0, len(ops)),
		Total:             len(ops),
		TotalValorBruto:   decimal.Zero,
		TotalValorLiquido: decimal.Zero,
		TotalLucro:        decimal.Zero,
	}
	for _, op := range ops {
		resp.Operacoes = append(resp.Operacoes, operacaoParaDTO(op))
		resp.TotalValorBruto = resp.TotalValorBruto.Add(op.ValorBruto)
		resp.TotalValorLiquido = resp.TotalValorLiquido.Add(op.ValorLiquido)
		resp.TotalLucro = resp.TotalLucro.Add(op.Lucro)
	}
	return resp, nil
}

func (s *operacaoService) Exportar(ctx context.Context, filtro dto.FiltroOperacoes) ([]byte, error) {
	ops, err := s.filtrar(ctx, filtro)
	if err != nil {
		return nil, err
	}
	return infra.ExportarOperacoesXLSX(ops)
}

func (s *operacaoService) Comprovante(ctx context.Context, linha int) ([]byte, error) {
	op, err := s.repo.FindByLinha(ctx, linha)
	if err != nil {
		return nil, err
	}
	return infra.GerarComprovantePDF(*op, s.nomeLoja, NumeroComprovante(*op))
}

// NumeroComprovante derives a stable receipt number from the row, so printing
// the same row twice yields the same number.
func NumeroComprovante(op model.Operacao) string {
	chave := fmt.Sprintf("%d|%s|%s|%s|%s", op.Linha, op.Data, op.Hora, op.TipoRotulo, op.ValorBruto.StringFixed(2))
	id := uuid.NewSHA1(uuid.NameSpaceOID, []byte(chave)).String()
	return strings.ToUpper(id[:8])
}

func (s *operacaoService) hoje() time.Time { return s.now().In(s.loc) }

func (s *operacaoService) calcular(tipo model.TipoOperacao, req dto.OperacaoRequest, hoje time.Time) (*taxa.Calculo, error) {
	switch tipo {
	case model.TipoCartaoDebito:
		return taxa.CartaoDebitoComTaxaBanco(req.Valor, s.taxaBancoDebito)
	case model.TipoCartaoCredito:
		return taxa.CartaoCredito(req.Valor)
	case model.TipoChequeVista:
		return taxa.ChequeVista(req.Valor)
	case model.TipoChequePreDatado:
		if req.DataVencimento == "" {
			return nil, ErrVencimentoObrigatorio
		}
		venc, err := time.ParseInLocation("2006-01-02", req.DataVencimento, s.loc)
		if err != nil {
			return nil, ErrDataInvalida
		}
		return taxa.ChequePreDatado(req.Valor, venc, hoje)
	case model.TipoChequeManual:
		if req.Percentual == nil {
			return nil, ErrPercentualObrigatorio
		}
		return taxa.ChequeTaxaManual(req.Valor, *req.Percentual)
	case model.TipoSuprimento:
		return taxa.Suprimento(req.Valor)
	}
	return nil, ErrTipoInvalido
}

func (s *operacaoService) filtrar(ctx context.Context, filtro dto.FiltroOperacoes) ([]model.Operacao, error) {
	inicio, err := parseDataFiltro(filtro.DataInicio, s.loc)
	if err != nil {
		return nil, err
	}
	fim, err := parseDataFiltro(filtro.DataFim, s.loc)
	if err != nil {
		return nil, err
	}
	var tipo model.TipoOperacao
	if filtro.Tipo != "" {
		tipo = model.TipoOperacao(filtro.Tipo)
		if !tipo.Valido() {
			return nil, ErrTipoInvalido
		}
	}
	operador := strings.ToLower(strings.TrimSpace(filtro.Operador))

	ops, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	// newest first
	out := make([]model.Operacao, 0, len(ops))
	for i := len(ops) - 1; i >= 0; i-- {
		op := ops[i]
		if tipo != "" && op.Tipo != tipo {
			continue
		}
		if operador != "" && !strings.Contains(strings.ToLower(op.Operador), operador) {
			continue
		}
		if !inicio.IsZero() || !fim.IsZero() {
			d, err := time.ParseInLocation(model.FormatoData, op.Data, s.loc)
			if err != nil {
				continue
			}
			if !inicio.IsZero() && d.Before(inicio) {
				continue
			}
			if !fim.IsZero() && d.After(fim) {
				continue
			}
		}
		out = append(out, op)
	}
	return out, nil
}

func parseDataFiltro(v string, loc *time.Location) (time.Time, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return time.Time{}, nil
	}
	for _, layout := range []string{model.FormatoData, "2006-01-02"} {
		if t, err := time.ParseInLocation(layout, v, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, ErrDataInvalida
}

// autorizar resolves the operation type and checks the session may perform
// it: supply needs the suprimento module, everything else operacoes_caixa.
func autorizar(sessao model.Sessao, codigo string) (model.TipoOperacao, error) {
	tipo := model.TipoOperacao(codigo)
	if !tipo.Valido() {
		return "", ErrTipoInvalido
	}
	modulo := model.ModuloOperacoesCaixa
	if tipo == model.TipoSuprimento {
		modulo = model.ModuloSuprimento
	}
	if !sessao.Permite(modulo) {
		return "", ErrSemPermissao
	}
	return tipo, nil
}

// normalizarDocumento keeps only the digits of a CPF/CNPJ.
func normalizarDocumento(doc string) (string, error) {
	digitos := strings.Map(func(r rune) rune {
		if unicode.IsDigit(r) {
			return r
		}
		return -1
	}, doc)
	switch len(digitos) {
	case 0:
		if strings.TrimSpace(doc) != "" {
			return "", ErrDocumentoInvalido
		}
		return "", nil
	case 11, 14:
		return digitos, nil
	}
	return "", ErrDocumentoInvalido
}

func calculoParaDTO(tipo model.TipoOperacao, c *taxa.Calculo) dto.CalculoResponse {
	resp := dto.CalculoResponse{
		Tipo:                  string(tipo),
		TipoRotulo:            tipo.Rotulo(),
		ValorBruto:            c.ValorBruto,
		TaxaCliente:           c.TaxaCliente,
		TaxaBanco:             c.TaxaBanco,
		Lucro:                 c.Lucro,
		ValorLiquido:          c.ValorLiquido,
		ValorLiquidoFormatado: model.FormatarReais(c.ValorLiquido),
	}
	switch tipo {
	case model.TipoChequePreDatado:
		dias, base, diaria := c.DiasPrazo, c.TaxaBase, c.TaxaDiaria
		resp.DiasPrazo, resp.TaxaBase, resp.TaxaDiaria = &dias, &base, &diaria
	case model.TipoChequeManual:
		p := c.Percentual
		resp.Percentual = &p
	}
	return resp
}

func operacaoParaDTO(op model.Operacao) dto.OperacaoResponse {
	return dto.OperacaoResponse{
		Linha:                op.Linha,
		Data:                 op.Data,
		Hora:                 op.Hora,
		Operador:             op.Operador,
		Tipo:                 string(op.Tipo),
		TipoRotulo:           op.TipoRotulo,
		Cliente:              op.Cliente,
		CPFCNPJ:              op.CPFCNPJ,
		ValorBruto:           op.ValorBruto,
		TaxaCliente:          op.TaxaCliente,
		TaxaBanco:            op.TaxaBanco,
		ValorLiquido:         op.ValorLiquido,
		Lucro:                op.Lucro,
		Status:               op.Status,
		DataVencimentoCheque: op.DataVencimentoCheque,
		TaxaPercentual:       op.TaxaPercentual,
		Observacoes:          op.Observacoes,
	}
}
