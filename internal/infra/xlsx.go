package infra

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"straublot/internal/model"
	"straublot/internal/repository"

	"github.com/xuri/excelize/v2"
)

// Workbook is a local .xlsx file used as the spreadsheet backend when the
// shop runs offline or in development. Every write rewrites the file through
// a temp file and rename.
type Workbook struct {
	mu   sync.Mutex
	path string
	f    *excelize.File
	nova bool // created in memory, still holding the default sheet
}

// OpenWorkbook opens path, creating an empty workbook when it does not exist.
func OpenWorkbook(path string) (*Workbook, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("xlsx: create dir: %w", err)
	}
	f, err := excelize.OpenFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Workbook{path: path, f: excelize.NewFile(), nova: true}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("xlsx: open %s: %w", path, err)
	}
	return &Workbook{path: path, f: f}, nil
}

func (w *Workbook) GetRows(_ context.Context, tabela string) ([]model.Registro, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if idx, _ := w.f.GetSheetIndex(tabela); idx < 0 || w.nova {
		return nil, nil
	}
	linhas, err := w.f.GetRows(tabela)
	if err != nil {
		return nil, fmt.Errorf("xlsx: read %s: %w", tabela, err)
	}
	if len(linhas) == 0 {
		return nil, nil
	}
	rows := make([]model.Registro, 0, len(linhas)-1)
	for _, l := range linhas[1:] {
		rows = append(rows, model.RegistroDeLinha(linhas[0], l))
	}
	return rows, nil
}

func (w *Workbook) AppendRow(_ context.Context, tabela string, registro model.Registro) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if idx, _ := w.f.GetSheetIndex(tabela); idx < 0 || w.nova {
		return fmt.Errorf("aba %q não existe: %w", tabela, repository.ErrTabelaNaoProvisionada)
	}
	linhas, err := w.f.GetRows(tabela)
	if err != nil {
		return fmt.Errorf("xlsx: read %s: %w", tabela, err)
	}
	if len(linhas) == 0 {
		return fmt.Errorf("aba %q sem cabeçalho: %w", tabela, repository.ErrTabelaNaoProvisionada)
	}

	valores := registro.Valores(linhas[0])
	cell, _ := excelize.CoordinatesToCellName(1, len(linhas)+1)
	if err := w.f.SetSheetRow(tabela, cell, &valores); err != nil {
		return fmt.Errorf("xlsx: write row: %w", err)
	}
	return w.salvar()
}

func (w *Workbook) EnsureTable(_ context.Context, tabela string, colunas []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	switch idx, _ := w.f.GetSheetIndex(tabela); {
	case w.nova:
		// Reuse the default sheet for the first table.
		if err := w.f.SetSheetName(w.f.GetSheetName(0), tabela); err != nil {
			return fmt.Errorf("xlsx: rename sheet: %w", err)
		}
		w.nova = false
	case idx < 0:
		if _, err := w.f.NewSheet(tabela); err != nil {
			return fmt.Errorf("xlsx: new sheet: %w", err)
		}
	}

	linhas, err := w.f.GetRows(tabela)
	if err != nil {
		return fmt.Errorf("xlsx: read %s: %w", tabela, err)
	}
	if len(linhas) > 0 && len(linhas[0]) > 0 {
		return nil
	}
	cab := append([]string(nil), colunas...)
	if err := w.f.SetSheetRow(tabela, "A1", &cab); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}
	return w.salvar()
}

// Ping reports whether the workbook directory is still reachable.
func (w *Workbook) Ping(_ context.Context) error {
	_, err := os.Stat(filepath.Dir(w.path))
	return err
}

func (w *Workbook) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.f.Close()
}

// must be called under lock
func (w *Workbook) salvar() error {
	var buf bytes.Buffer
	if _, err := w.f.WriteTo(&buf); err != nil {
		return fmt.Errorf("xlsx: encode: %w", err)
	}
	tmp := w.path + ".tmp"
	if err := os.WriteFile(tmp, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("xlsx: write file: %w", err)
	}
	if err := os.Rename(tmp, w.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("xlsx: finalize file: %w", err)
	}
	return nil
}
