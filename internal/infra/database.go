package infra

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"straublot/internal/model"
	"straublot/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// NewDatabase opens a GORM connection. postgres:// and postgresql:// DSNs use
// the Postgres driver; anything else is treated as a SQLite file path.
func NewDatabase(dsn string) (*gorm.DB, error) {
	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if dialector.Name() == "sqlite" {
		// single writer
		sqlDB.SetMaxOpenConns(1)
	} else {
		sqlDB.SetMaxOpenConns(25)
		sqlDB.SetMaxIdleConns(5)
	}

	if err := RunMigrations(db); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}
	return db, nil
}

// RunMigrations creates the two tables that hold spreadsheet-shaped data.
func RunMigrations(db *gorm.DB) error {
	return db.AutoMigrate(&TabelaPlanilha{}, &LinhaPlanilha{})
}

// TabelaPlanilha is one worksheet: its name and ordered header.
type TabelaPlanilha struct {
	Nome      string `gorm:"primaryKey;size:100"`
	Colunas   string `gorm:"type:text;not null"` // JSON array
	CreatedAt time.Time
}

func (TabelaPlanilha) TableName() string { return "planilha_tabelas" }

// LinhaPlanilha is one data row, stored as a JSON object keyed by header.
type LinhaPlanilha struct {
	ID        uint64 `gorm:"primaryKey;autoIncrement"`
	Tabela    string `gorm:"size:100;not null;index"`
	Dados     string `gorm:"type:text;not null"`
	CreatedAt time.Time
}

func (LinhaPlanilha) TableName() string { return "planilha_linhas" }

// SQLPlanilha stores worksheets in a relational database. Rows are returned in
// insertion order, so row numbers behave like the spreadsheet's.
type SQLPlanilha struct {
	db *gorm.DB
}

func NewSQLPlanilha(db *gorm.DB) *SQLPlanilha { return &SQLPlanilha{db: db} }

func (s *SQLPlanilha) GetRows(ctx context.Context, tabela string) ([]model.Registro, error) {
	colunas, err := s.colunas(ctx, tabela)
	if err != nil {
		return nil, err
	}
	if colunas == nil {
		return nil, nil
	}

	var linhas []LinhaPlanilha
	if err := s.db.WithContext(ctx).Where("tabela = ?", tabela).Order("id ASC").Find(&linhas).Error; err != nil {
		return nil, indisponivel(err)
	}
	rows := make([]model.Registro, 0, len(linhas))
	for _, l := range linhas {
		var dados map[string]string
		if err := json.Unmarshal([]byte(l.Dados), &dados); err != nil {
			return nil, fmt.Errorf("linha %d corrompida: %w", l.ID, err)
		}
		r := make(model.Registro, len(colunas))
		for _, c := range colunas {
			r[c] = dados[c]
		}
		rows = append(rows, r)
	}
	return rows, nil
}

func (s *SQLPlanilha) AppendRow(ctx context.Context, tabela string, registro model.Registro) error {
	colunas, err := s.colunas(ctx, tabela)
	if err != nil {
		return err
	}
	if colunas == nil {
		return fmt.Errorf("aba %q não existe: %w", tabela, repository.ErrTabelaNaoProvisionada)
	}

	dados := make(map[string]string, len(colunas))
	for _, c := range colunas {
		dados[c] = registro[c]
	}
	b, err := json.Marshal(dados)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Create(&LinhaPlanilha{Tabela: tabela, Dados: string(b)}).Error; err != nil {
		return indisponivel(err)
	}
	return nil
}

func (s *SQLPlanilha) EnsureTable(ctx context.Context, tabela string, colunas []string) error {
	b, err := json.Marshal(colunas)
	if err != nil {
		return err
	}
	err = s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&TabelaPlanilha{Nome: tabela, Colunas: string(b)}).Error
	if err != nil {
		return indisponivel(err)
	}
	return nil
}

// Ping checks the database connection.
func (s *SQLPlanilha) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (s *SQLPlanilha) colunas(ctx context.Context, tabela string) ([]string, error) {
	var t TabelaPlanilha
	err := s.db.WithContext(ctx).Where("nome = ?", tabela).Take(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, indisponivel(err)
	}
	var colunas []string
	if err := json.Unmarshal([]byte(t.Colunas), &colunas); err != nil {
		return nil, fmt.Errorf("cabeçalho de %q corrompido: %w", tabela, err)
	}
	return colunas, nil
}

var _ repository.Planilha = (*SQLPlanilha)(nil)
