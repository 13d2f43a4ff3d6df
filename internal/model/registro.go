package model

// Registro is one worksheet row keyed by column header.
type Registro map[string]string

// Valores returns the row's cells ordered by colunas. Missing keys are empty.
func (r Registro) Valores(colunas []string) []string {
	out := make([]string, len(colunas))
	for i, c := range colunas {
		out[i] = r[c]
	}
	return out
}

// RegistroDeLinha zips a header row with a data row. Short rows are padded
// with empty cells; extra cells without a header are dropped.
func RegistroDeLinha(cabecalho, linha []string) Registro {
	r := make(Registro, len(cabecalho))
	for i, c := range cabecalho {
		if c == "" {
			continue
		}
		if i < len(linha) {
			r[c] = linha[i]
		} else {
			r[c] = ""
		}
	}
	return r
}
