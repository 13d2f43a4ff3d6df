package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata" // FUSO_HORARIO must resolve on hosts without zoneinfo

	"straublot/internal/model"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

const (
	BackendSheets = "sheets"
	BackendXLSX   = "xlsx"
	BackendSQL    = "sql"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field maps 1:1 to an env var of the same name.
type Config struct {
	// Server
	Port     int    `mapstructure:"PORT"`
	Env      string `mapstructure:"APP_ENV"` // development | production
	LogLevel string `mapstructure:"LOG_LEVEL"`
	NomeLoja string `mapstructure:"NOME_LOJA"`

	// Comma-separated; empty allows every origin.
	CORSOrigins string `mapstructure:"CORS_ORIGINS"`

	// Auth
	JWTSecret                 string `mapstructure:"JWT_SECRET"`
	JWTExpirationHours        int    `mapstructure:"JWT_EXPIRATION_HOURS"`
	SenhaHashOperadorCaixa    string `mapstructure:"SENHA_HASH_OPERADOR_CAIXA"`
	SenhaHashOperadorLoterica string `mapstructure:"SENHA_HASH_OPERADOR_LOTERICA"`
	SenhaHashGerente          string `mapstructure:"SENHA_HASH_GERENTE"`

	// Spreadsheet backend
	PlanilhaBackend       string        `mapstructure:"PLANILHA_BACKEND"` // sheets | xlsx | sql
	PlanilhaURL           string        `mapstructure:"PLANILHA_URL"`
	GoogleCredentialsFile string        `mapstructure:"GOOGLE_CREDENTIALS_FILE"`
	GoogleCredentialsJSON string        `mapstructure:"GOOGLE_CREDENTIALS_JSON"`
	PlanilhaXLSXPath      string        `mapstructure:"PLANILHA_XLSX_PATH"`
	DatabaseURL           string        `mapstructure:"DATABASE_URL"`
	PlanilhaCacheTTL      time.Duration `mapstructure:"PLANILHA_CACHE_TTL"`
	CBFailureThreshold    int           `mapstructure:"CB_FAILURE_THRESHOLD"`
	CBOpenTimeout         time.Duration `mapstructure:"CB_OPEN_TIMEOUT"`

	// Redis (optional shared cache)
	RedisURL string `mapstructure:"REDIS_URL"`

	// Business
	FusoHorario       string          `mapstructure:"FUSO_HORARIO"`
	SaldoMinimoAlerta decimal.Decimal `mapstructure:"-"`
	TaxaBancoDebito   decimal.Decimal `mapstructure:"-"`
}

var keys = map[string]interface{}{
	"PORT":                         8000,
	"APP_ENV":                      "development",
	"LOG_LEVEL":                    "info",
	"NOME_LOJA":                    "Lotérica",
	"CORS_ORIGINS":                 "",
	"JWT_SECRET":                   "",
	"JWT_EXPIRATION_HOURS":         12,
	"SENHA_HASH_OPERADOR_CAIXA":    "",
	"SENHA_HASH_OPERADOR_LOTERICA": "",
	"SENHA_HASH_GERENTE":           "",
	"PLANILHA_BACKEND":             BackendSheets,
	"PLANILHA_URL":                 "",
	"GOOGLE_CREDENTIALS_FILE":      "credentials.json",
	"GOOGLE_CREDENTIALS_JSON":      "",
	"PLANILHA_XLSX_PATH":           "data/loterica.xlsx",
	"DATABASE_URL":                 "data/loterica.db",
	"PLANILHA_CACHE_TTL":           "30s",
	"CB_FAILURE_THRESHOLD":         3,
	"CB_OPEN_TIMEOUT":              "30s",
	"REDIS_URL":                    "",
	"FUSO_HORARIO":                 "America/Sao_Paulo",
	"SALDO_MINIMO_ALERTA":          "2000",
	"TAXA_BANCO_DEBITO":            "1.00",
}

// Load reads configuration from environment variables (and optional .env file).
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Every key needs a default so Unmarshal sees env-only values.
	for k, d := range keys {
		v.SetDefault(k, d)
	}

	// Optional .env file for local development; a missing file is fine
	_ = v.ReadInConfig()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}

	var err error
	if cfg.SaldoMinimoAlerta, err = decimal.NewFromString(strings.TrimSpace(v.GetString("SALDO_MINIMO_ALERTA"))); err != nil {
		return nil, fmt.Errorf("SALDO_MINIMO_ALERTA: %w", err)
	}
	if cfg.TaxaBancoDebito, err = decimal.NewFromString(strings.TrimSpace(v.GetString("TAXA_BANCO_DEBITO"))); err != nil {
		return nil, fmt.Errorf("TAXA_BANCO_DEBITO: %w", err)
	}
	cfg.PlanilhaBackend = strings.ToLower(strings.TrimSpace(cfg.PlanilhaBackend))
	return cfg, nil
}

// Validate checks the combinations Load cannot express as defaults.
func (c *Config) Validate() error {
	var errs []error

	switch c.PlanilhaBackend {
	case BackendSheets:
		if c.PlanilhaURL == "" {
			errs = append(errs, errors.New("PLANILHA_URL é obrigatória para o backend sheets"))
		}
	case BackendXLSX:
		if c.PlanilhaXLSXPath == "" {
			errs = append(errs, errors.New("PLANILHA_XLSX_PATH é obrigatório para o backend xlsx"))
		}
	case BackendSQL:
		if c.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL é obrigatória para o backend sql"))
		}
	default:
		errs = append(errs, fmt.Errorf("PLANILHA_BACKEND desconhecido: %q", c.PlanilhaBackend))
	}

	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET é obrigatório"))
	} else if c.IsProduction() && len(c.JWTSecret) < 32 {
		errs = append(errs, errors.New("JWT_SECRET precisa de ao menos 32 caracteres em produção"))
	}
	if c.JWTExpirationHours <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRATION_HOURS deve ser positivo"))
	}
	if _, err := time.LoadLocation(c.FusoHorario); err != nil {
		errs = append(errs, fmt.Errorf("FUSO_HORARIO inválido: %w", err))
	}
	if c.TaxaBancoDebito.IsNegative() {
		errs = append(errs, errors.New("TAXA_BANCO_DEBITO não pode ser negativa"))
	}

	return errors.Join(errs...)
}

func (c *Config) IsProduction() bool { return c.Env == "production" }

// Location returns the shop's timezone; "today" is always computed in it.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.FusoHorario)
	if err != nil {
		return time.UTC
	}
	return loc
}

// SenhaHashes maps role keys to their bcrypt hashes.
func (c *Config) SenhaHashes() map[string]string {
	return map[string]string{
		model.PerfilOperadorCaixa:    c.SenhaHashOperadorCaixa,
		model.PerfilOperadorLoterica: c.SenhaHashOperadorLoterica,
		model.PerfilGerente:          c.SenhaHashGerente,
	}
}
