package model

// Module keys gate which pages a session can reach. The lotérica, cofre and
// relatórios keys are reserved for pages that have no business rules yet.
const (
	ModuloDashboardCaixa     = "dashboard_caixa"
	ModuloOperacoesCaixa     = "operacoes_caixa"
	ModuloSuprimento         = "suprimento"
	ModuloHistorico          = "historico"
	ModuloDashboardLoterica  = "dashboard_loterica"
	ModuloFechamentoLoterica = "fechamento_loterica"
	ModuloCofre              = "cofre"
	ModuloRelatorios         = "relatorios"
)

const (
	PerfilOperadorCaixa    = "operador_caixa"
	PerfilOperadorLoterica = "operador_loterica"
	PerfilGerente          = "gerente"
)

// Perfil is one of the fixed shared-password roles.
type Perfil struct {
	Chave   string
	Nome    string
	Modulos []string
}

// Perfis is the static access table. Password hashes live in configuration.
var Perfis = []Perfil{
	{
		Chave:   PerfilOperadorCaixa,
		Nome:    "Operador do Caixa",
		Modulos: []string{ModuloDashboardCaixa, ModuloOperacoesCaixa, ModuloHistorico},
	},
	{
		Chave:   PerfilOperadorLoterica,
		Nome:    "Operador da Lotérica",
		Modulos: []string{ModuloDashboardLoterica, ModuloFechamentoLoterica, ModuloHistorico},
	},
	{
		Chave: PerfilGerente,
		Nome:  "Gerente",
		Modulos: []string{
			ModuloDashboardCaixa, ModuloOperacoesCaixa, ModuloSuprimento, ModuloHistorico,
			ModuloDashboardLoterica, ModuloFechamentoLoterica, ModuloCofre, ModuloRelatorios,
		},
	},
}

func PerfilPorChave(chave string) (Perfil, bool) {
	for _, p := range Perfis {
		if p.Chave == chave {
			return p, true
		}
	}
	return Perfil{}, false
}

// Sessao is the identity established at login and rebuilt on every request
// from the bearer token. Handlers pass it explicitly to services.
type Sessao struct {
	Perfil  string
	Nome    string
	Modulos []string
}

// Permite reports whether the session may reach modulo.
func (s Sessao) Permite(modulo string) bool {
	for _, m := range s.Modulos {
		if m == modulo {
			return true
		}
	}
	return false
}
