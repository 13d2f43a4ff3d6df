package service

import (
	"context"
	"errors"
	"time"

	"straublot/internal/config"
	"straublot/internal/dto"
	"straublot/internal/model"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

var ErrCredenciaisInvalidas = errors.New("perfil ou senha inválidos")

type AuthService interface {
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	ListarPerfis() []dto.PerfilResponse
}

type authService struct {
	cfg    *config.Config
	hashes map[string]string
	now    func() time.Time
}

func NewAuthService(cfg *config.Config) AuthService {
	return &authService{cfg: cfg, hashes: cfg.SenhaHashes(), now: time.Now}
}

func (s *authService) Login(_ context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	perfil, ok := model.PerfilPorChave(req.Perfil)
	if !ok {
		return nil, ErrCredenciaisInvalidas
	}
	hash := s.hashes[perfil.Chave]
	if hash == "" {
		log.Warn().Str("perfil", perfil.Chave).Msg("login attempt for role without configured password")
		return nil, ErrCredenciaisInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Senha)); err != nil {
		return nil, ErrCredenciaisInvalidas
	}

	ttl := time.Duration(s.cfg.JWTExpirationHours) * time.Hour
	token, err := s.generateToken(perfil, ttl)
	if err != nil {
		return nil, err
	}

	log.Info().Str("perfil", perfil.Chave).Msg("login")
	return &dto.LoginResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int(ttl.Seconds()),
		Sessao:      SessaoParaDTO(model.Sessao{Perfil: perfil.Chave, Nome: perfil.Nome, Modulos: perfil.Modulos}),
	}, nil
}

func (s *authService) ListarPerfis() []dto.PerfilResponse {
	resp := make([]dto.PerfilResponse, len(model.Perfis))
	for i, p := range model.Perfis {
		resp[i] = dto.PerfilResponse{Chave: p.Chave, Nome: p.Nome}
	}
	return resp
}

func (s *authService) generateToken(perfil model.Perfil, duration time.Duration) (string, error) {
	now := s.now()
	claims := jwt.MapClaims{
		"jti":     uuid.NewString(),
		"perfil":  perfil.Chave,
		"nome":    perfil.Nome,
		"modulos": perfil.Modulos,
		"exp":     now.Add(duration).Unix(),
		"iat":     now.Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func SessaoParaDTO(s model.Sessao) dto.SessaoResponse {
	modulos := make([]string, len(s.Modulos))
	copy(modulos, s.Modulos)
	return dto.SessaoResponse{Perfil: s.Perfil, Nome: s.Nome, Modulos: modulos}
}
