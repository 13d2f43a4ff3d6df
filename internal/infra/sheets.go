package infra

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"straublot/internal/model"
	"straublot/internal/repository"

	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"
)

var spreadsheetURLRe = regexp.MustCompile(`/spreadsheets/d/([a-zA-Z0-9_-]+)`)
var spreadsheetIDRe = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// SpreadsheetIDDaURL extracts the spreadsheet ID from a share URL. A bare ID
// is returned unchanged.
func SpreadsheetIDDaURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if m := spreadsheetURLRe.FindStringSubmatch(raw); m != nil {
		return m[1], nil
	}
	if spreadsheetIDRe.MatchString(raw) {
		return raw, nil
	}
	return "", fmt.Errorf("URL de planilha inválida: %q", raw)
}

// LerCredenciais returns the service-account JSON, preferring the inline
// secret over the file path.
func LerCredenciais(arquivo, inline string) ([]byte, error) {
	if strings.TrimSpace(inline) != "" {
		return []byte(inline), nil
	}
	if arquivo == "" {
		return nil, errors.New("credenciais do Google não configuradas (GOOGLE_CREDENTIALS_JSON ou GOOGLE_CREDENTIALS_FILE)")
	}
	b, err := os.ReadFile(arquivo)
	if err != nil {
		return nil, fmt.Errorf("ler credenciais: %w", err)
	}
	return b, nil
}

// GoogleSheets is the remote spreadsheet backend. Each worksheet is a table
// whose first row is the header.
type GoogleSheets struct {
	srv           *sheets.Service
	spreadsheetID string
	cb            *CircuitBreaker

	mu         sync.Mutex
	cabecalhos map[string][]string
}

// NewGoogleSheets authenticates with a service-account credential and opens
// the spreadsheet at planilhaURL.
func NewGoogleSheets(ctx context.Context, planilhaURL string, credenciais []byte, cb *CircuitBreaker) (*GoogleSheets, error) {
	id, err := SpreadsheetIDDaURL(planilhaURL)
	if err != nil {
		return nil, err
	}
	conf, err := google.JWTConfigFromJSON(credenciais, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("credenciais de service account inválidas: %w", err)
	}
	return NewGoogleSheetsComOpcoes(ctx, id, cb, option.WithHTTPClient(conf.Client(ctx)))
}

// NewGoogleSheetsComOpcoes builds the backend from raw client options.
func NewGoogleSheetsComOpcoes(ctx context.Context, spreadsheetID string, cb *CircuitBreaker, opts ...option.ClientOption) (*GoogleSheets, error) {
	srv, err := sheets.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Sheets service: %w", err)
	}
	if cb == nil {
		cb = NewCircuitBreaker(DefaultCBConfig("sheets"))
	}
	return &GoogleSheets{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		cb:            cb,
		cabecalhos:    make(map[string][]string),
	}, nil
}

func (g *GoogleSheets) GetRows(ctx context.Context, tabela string) ([]model.Registro, error) {
	var values [][]interface{}
	err := g.cb.Execute(func() error {
		resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, intervalo(tabela)).
			ValueRenderOption("UNFORMATTED_VALUE").
			DateTimeRenderOption("FORMATTED_STRING").
			Context(ctx).Do()
		if abaInexistente(err) {
			return nil
		}
		if err != nil {
			return err
		}
		values = resp.Values
		return nil
	})
	if err != nil {
		return nil, indisponivel(err)
	}
	if len(values) == 0 {
		return nil, nil
	}

	cabecalho := linhaDeTexto(values[0])
	g.guardarCabecalho(tabela, cabecalho)

	rows := make([]model.Registro, 0, len(values)-1)
	for _, v := range values[1:] {
		rows = append(rows, model.RegistroDeLinha(cabecalho, linhaDeTexto(v)))
	}
	return rows, nil
}

func (g *GoogleSheets) AppendRow(ctx context.Context, tabela string, registro model.Registro) error {
	cabecalho, err := g.cabecalho(ctx, tabela)
	if err != nil {
		return err
	}
	if len(cabecalho) == 0 {
		return fmt.Errorf("aba %q sem cabeçalho: %w", tabela, repository.ErrTabelaNaoProvisionada)
	}

	valores := registro.Valores(cabecalho)
	linha := make([]interface{}, len(valores))
	for i, v := range valores {
		linha[i] = v
	}

	err = g.cb.Execute(func() error {
		_, err := g.srv.Spreadsheets.Values.Append(g.spreadsheetID, intervalo(tabela), &sheets.ValueRange{
			Values: [][]interface{}{linha},
		}).ValueInputOption("RAW").InsertDataOption("INSERT_ROWS").Context(ctx).Do()
		return err
	})
	if err != nil {
		return indisponivel(err)
	}
	return nil
}

func (g *GoogleSheets) EnsureTable(ctx context.Context, tabela string, colunas []string) error {
	existe, err := g.abaExiste(ctx, tabela)
	if err != nil {
		return err
	}
	if !existe {
		err = g.cb.Execute(func() error {
			_, err := g.srv.Spreadsheets.BatchUpdate(g.spreadsheetID, &sheets.BatchUpdateSpreadsheetRequest{
				Requests: []*sheets.Request{{
					AddSheet: &sheets.AddSheetRequest{Properties: &sheets.SheetProperties{Title: tabela}},
				}},
			}).Context(ctx).Do()
			return err
		})
		if err != nil {
			return indisponivel(err)
		}
		log.Info().Str("tabela", tabela).Msg("worksheet created")
	}

	g.esquecerCabecalho(tabela)
	atual, err := g.cabecalho(ctx, tabela)
	if err != nil {
		return err
	}
	if len(atual) > 0 {
		return nil
	}

	linha := make([]interface{}, len(colunas))
	for i, c := range colunas {
		linha[i] = c
	}
	err = g.cb.Execute(func() error {
		_, err := g.srv.Spreadsheets.Values.Update(g.spreadsheetID, intervalo(tabela)+"!A1", &sheets.ValueRange{
			Values: [][]interface{}{linha},
		}).ValueInputOption("RAW").Context(ctx).Do()
		return err
	})
	if err != nil {
		return indisponivel(err)
	}
	g.guardarCabecalho(tabela, colunas)
	return nil
}

// Ping checks that the spreadsheet is reachable with the configured credential.
func (g *GoogleSheets) Ping(ctx context.Context) error {
	return g.cb.Execute(func() error {
		_, err := g.srv.Spreadsheets.Get(g.spreadsheetID).Fields("spreadsheetId").Context(ctx).Do()
		return err
	})
}

// Circuito exposes the breaker state for the health endpoint.
func (g *GoogleSheets) Circuito() CBState { return g.cb.State() }

func (g *GoogleSheets) abaExiste(ctx context.Context, tabela string) (bool, error) {
	var ss *sheets.Spreadsheet
	err := g.cb.Execute(func() error {
		var err error
		ss, err = g.srv.Spreadsheets.Get(g.spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
		return err
	})
	if err != nil {
		return false, indisponivel(err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == tabela {
			return true, nil
		}
	}
	return false, nil
}

func (g *GoogleSheets) cabecalho(ctx context.Context, tabela string) ([]string, error) {
	g.mu.Lock()
	c, ok := g.cabecalhos[tabela]
	g.mu.Unlock()
	if ok {
		return c, nil
	}

	var values [][]interface{}
	err := g.cb.Execute(func() error {
		resp, err := g.srv.Spreadsheets.Values.Get(g.spreadsheetID, intervalo(tabela)+"!1:1").Context(ctx).Do()
		if abaInexistente(err) {
			return nil
		}
		if err != nil {
			return err
		}
		values = resp.Values
		return nil
	})
	if err != nil {
		return nil, indisponivel(err)
	}
	if len(values) == 0 {
		return nil, nil
	}
	c = linhaDeTexto(values[0])
	g.guardarCabecalho(tabela, c)
	return c, nil
}

func (g *GoogleSheets) guardarCabecalho(tabela string, c []string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.cabecalhos[tabela] = c
}

func (g *GoogleSheets) esquecerCabecalho(tabela string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.cabecalhos, tabela)
}

// intervalo quotes a worksheet title as an A1 range covering the whole sheet.
func intervalo(tabela string) string {
	return "'" + strings.ReplaceAll(tabela, "'", "''") + "'"
}

func abaInexistente(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) &&
		gerr.Code == http.StatusBadRequest &&
		strings.Contains(gerr.Message, "Unable to parse range")
}

func indisponivel(err error) error {
	return fmt.Errorf("%w: %w", repository.ErrPlanilhaIndisponivel, err)
}

func linhaDeTexto(linha []interface{}) []string {
	out := make([]string, len(linha))
	for i, v := range linha {
		out[i] = celula(v)
	}
	return out
}

func celula(v interface{}) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	default:
		return fmt.Sprint(x)
	}
}
