package venda

import (
	"bytes"
	"fmt"
	"net/http"

	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const folhaVendas = "Vendas"

var cabecalhoExportacao = []string{
	"Data", "Cliente", "NIF", "Email", "Telefone", "Morada", "Código Postal", "Localidade",
	"Categoria", "Tipo de Venda", "Tipo de Energia", "Parceiro", "Operadora", "Vendedor",
	"Valor do Contrato", "Fidelização (meses)", "Fim da Fidelização", "Estado",
}

var largurasExportacao = []float64{12, 30, 12, 28, 16, 36, 14, 18, 18, 16, 16, 24, 24, 24, 16, 12, 16, 16}

// GerarExportacao escreve as vendas numa folha de cálculo xlsx.
func GerarExportacao(vendas []Venda) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(folhaVendas)
	if err != nil {
		return nil, fmt.Errorf("criar folha: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("remover folha por omissão: %w", err)
	}

	estilo, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#C8F31D"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("estilo do cabeçalho: %w", err)
	}

	for i, titulo := range cabecalhoExportacao {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(folhaVendas, cell, titulo); err != nil {
			return nil, fmt.Errorf("cabeçalho %s: %w", cell, err)
		}
		if err := f.SetCellStyle(folhaVendas, cell, cell, estilo); err != nil {
			return nil, err
		}
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(folhaVendas, col, col, largurasExportacao[i]); err != nil {
			return nil, err
		}
	}

	for i, v := range vendas {
		linha := linhaExportacao(v)
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(folhaVendas, cell, &linha); err != nil {
			return nil, fmt.Errorf("linha %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("escrever xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

func linhaExportacao(v Venda) []interface{} {
	var operadoraNome, fimFidelizacao string
	if v.Operadora != nil {
		operadoraNome = v.Operadora.Name
	}
	if v.LoyaltyEndDate != nil {
		fimFidelizacao = v.LoyaltyEndDate.Format("2006-01-02")
	}
	valorContrato, _ := v.ContractValue.Float64()
	return []interface{}{
		v.CreatedAt.Format("2006-01-02"),
		v.ClientName,
		v.ClientNIF,
		deref(v.ClientEmail),
		deref(v.ClientPhone),
		v.StreetAddress,
		v.PostalCode,
		v.City,
		string(v.Category),
		string(deref(v.SaleType)),
		string(deref(v.EnergyType)),
		nomeParceiro(v),
		operadoraNome,
		nomeVendedor(v),
		valorContrato,
		v.LoyaltyMonths,
		fimFidelizacao,
		string(v.Status),
	}
}

// GET /vendas/exportar
func (h *Handler) ExportarVendas(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(dbutil.ComContexto(h.DB, r.Context()), filtroDoPedido(r))
	if err != nil {
		h.Logger.Error("erro ao listar vendas para exportação", zap.Error(err))
		http.Error(w, "Erro ao carregar vendas", http.StatusInternalServerError)
		return
	}
	conteudo, err := GerarExportacao(list)
	if err != nil {
		h.Logger.Error("erro ao gerar exportação", zap.Error(err))
		http.Error(w, "Erro ao gerar ficheiro", http.StatusInternalServerError)
		return
	}
	nome := fmt.Sprintf("vendas_%s.xlsx", h.Agora().Format("20060102"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, nome))
	w.WriteHeader(http.StatusOK)
	w.Write(conteudo)
}
