package dto

// ─── Request DTOs ────────────────────────────────────────────────────────────

type LoginRequest struct {
	Perfil string `json:"perfil" validate:"required,oneof=operador_caixa operador_loterica gerente"`
	Senha  string `json:"senha"  validate:"required,min=1"`
}

// ─── Response DTOs ───────────────────────────────────────────────────────────

type PerfilResponse struct {
	Chave string `json:"chave"`
	Nome  string `json:"nome"`
}

type SessaoResponse struct {
	Perfil  string   `json:"perfil"`
	Nome    string   `json:"nome"`
	Modulos []string `json:"modulos"`
}

type LoginResponse struct {
	AccessToken string         `json:"access_token"`
	TokenType   string         `json:"token_type"`
	ExpiresIn   int            `json:"expires_in"` // seconds
	Sessao      SessaoResponse `json:"sessao"`
}
