package operadora

import "github.com/Leiritrix/api-vendas/internal/models"

// EtiquetasRequeridas devolve as etiquetas exigidas para a combinação categoria/tipo de energia.
// Lista vazia significa que ainda não é possível escolher operadora.
func EtiquetasRequeridas(c models.Categoria, t models.TipoEnergia) []models.Etiqueta {
	switch c {
	case models.CategoriaTelecomunicacoes:
		return []models.Etiqueta{models.EtiquetaTelecomunicacoes}
	case models.CategoriaPaineisSolares:
		return []models.Etiqueta{models.EtiquetaPaineisSolares}
	case models.CategoriaEnergia:
		switch t {
		case models.EnergiaEletricidade:
			return []models.Etiqueta{models.EtiquetaEletricidade}
		case models.EnergiaGas:
			return []models.Etiqueta{models.EtiquetaGas}
		case models.EnergiaDual:
			return []models.Etiqueta{models.EtiquetaEletricidade, models.EtiquetaGas}
		}
	}
	return nil
}

// Compativel verifica se a operadora serve a categoria/tipo de energia.
// Dual exige as duas etiquetas; os restantes casos basta uma.
func Compativel(o Operadora, c models.Categoria, t models.TipoEnergia) bool {
	req := EtiquetasRequeridas(c, t)
	if len(req) == 0 || len(o.Categories) == 0 {
		return false
	}
	if c == models.CategoriaEnergia && t == models.EnergiaDual {
		for _, e := range req {
			if !o.temEtiqueta(e) {
				return false
			}
		}
		return true
	}
	for _, e := range req {
		if o.temEtiqueta(e) {
			return true
		}
	}
	return false
}

// Filtrar devolve, pela ordem recebida, as operadoras compatíveis.
func Filtrar(ops []Operadora, c models.Categoria, t models.TipoEnergia) []Operadora {
	out := make([]Operadora, 0, len(ops))
	for _, o := range ops {
		if Compativel(o, c, t) {
			out = append(out, o)
		}
	}
	return out
}

// Contem indica se id está entre as operadoras dadas.
func Contem(ops []Operadora, id string) bool {
	for _, o := range ops {
		if o.ID == id {
			return true
		}
	}
	return false
}
