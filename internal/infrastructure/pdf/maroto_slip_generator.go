// Package pdf genera el comprobante imprimible de recepciones y entregas.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tipo de operación   │  Referencia + Estado         │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ORIGEN / DESTINO                                           │
//	│  CONTACTO + fechas                                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  QR de la referencia + firmas                               │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoSlipGenerator implementa usecase.SlipGenerator usando Maroto v2.
type MarotoSlipGenerator struct {
	company string
}

// NewMarotoSlipGenerator construye el generador; company va en el encabezado.
func NewMarotoSlipGenerator(company string) *MarotoSlipGenerator {
	return &MarotoSlipGenerator{company: company}
}

// GenerateSlip genera el PDF y devuelve sus bytes.
func (g *MarotoSlipGenerator) GenerateSlip(_ context.Context, op entity.Operation) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(slipTitle(op)+" "+op.Reference, true).
		WithAuthor(g.company, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(op, g.company))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(routeRow(op))
	m.AddRows(detailsRow(op))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(line.NewRow(3))
	m.AddRows(qrRow(op))
	m.AddRows(line.NewRow(10))
	m.AddRows(signatureRow(op))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: empresa + tipo de operación (izq) y referencia + estado (der).
func headerRow(op entity.Operation, company string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(company, "Stockboard"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(slipTitle(op), props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New(op.Reference, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 1,
			}),
			text.New("Estado: "+string(op.Status), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// routeRow: origen y destino.
func routeRow(op entity.Operation) core.Row {
	block := func(label, value string) core.Col {
		return col.New(6).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(value, "-"), props.Text{Size: 10, Top: 6}),
		)
	}
	return row.New(14).Add(
		block("ORIGEN", op.From),
		block("DESTINO", op.To),
	)
}

// detailsRow: contacto y fechas.
func detailsRow(op entity.Operation) core.Row {
	return row.New(14).Add(
		col.New(6).Add(
			text.New("CONTACTO", props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 1}),
			text.New(nonEmpty(op.Contact, "-"), props.Text{Size: 10, Top: 6}),
		),
		col.New(6).Add(
			text.New("Programada: "+formatDate(op.ScheduleDate.Format(entity.DateLayout)), props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Creada: "+op.CreatedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

// qrRow: QR con la referencia para escanear en bodega.
func qrRow(op entity.Operation) core.Row {
	return row.New(40).Add(
		col.New(3).Add(code.NewQr(op.Reference, props.Rect{
			Percent: 95,
			Center:  true,
		})),
		col.New(9).Add(
			text.New("Escanea el código QR para ubicar\nesta operación en el tablero.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
		),
	)
}

// signatureRow: firmas de quien entrega y quien recibe.
func signatureRow(op entity.Operation) core.Row {
	sign := func(label string) core.Col {
		return col.New(6).Add(
			text.New("______________________________", props.Text{Size: 9, Align: align.Center}),
			text.New(label, props.Text{Size: 8, Align: align.Center, Top: 6, Color: colorGray}),
		)
	}
	if op.Direction == entity.DirectionOut {
		return row.New(14).Add(sign("Despachado por"), sign("Recibido por (cliente)"))
	}
	return row.New(14).Add(sign("Entregado por (proveedor)"), sign("Recibido en bodega"))
}

// ── helpers ───────────────────────────────────────────────────────────────────

func slipTitle(op entity.Operation) string {
	if op.Direction == entity.DirectionOut {
		return "COMPROBANTE DE ENTREGA"
	}
	return "COMPROBANTE DE RECEPCIÓN"
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

// formatDate "2025-11-25" → "25/11/2025"; cualquier otro valor se devuelve igual.
func formatDate(s string) string {
	if len(s) != len(entity.DateLayout) || s[4] != '-' || s[7] != '-' {
		return s
	}
	return s[8:10] + "/" + s[5:7] + "/" + s[0:4]
}
