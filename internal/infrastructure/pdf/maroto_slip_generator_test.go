package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

func TestGenerateSlip_DevuelvePDF(t *testing.T) {
	g := NewMarotoSlipGenerator("Stockboard")
	for _, dir := range []entity.Direction{entity.DirectionIn, entity.DirectionOut} {
		op := entity.Operation{
			ID:           "op-1",
			Direction:    dir,
			Reference:    "WH/" + string(dir) + "/0001",
			From:         "Vendor",
			To:           "WH/Stock1",
			Contact:      "Azure Interior",
			ScheduleDate: time.Date(2025, 11, 25, 0, 0, 0, 0, time.UTC),
			Status:       entity.StatusReady,
			CreatedAt:    time.Date(2025, 11, 20, 9, 0, 0, 0, time.UTC),
		}
		out, err := g.GenerateSlip(context.Background(), op)
		require.NoError(t, err)
		assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe iniciar con %%PDF")
	}
}

func TestFormatDate(t *testing.T) {
	assert.Equal(t, "25/11/2025", formatDate("2025-11-25"))
	assert.Equal(t, "mañana", formatDate("mañana"))
}

func TestSlipTitle(t *testing.T) {
	assert.Equal(t, "COMPROBANTE DE ENTREGA", slipTitle(entity.Operation{Direction: entity.DirectionOut}))
	assert.Equal(t, "COMPROBANTE DE RECEPCIÓN", slipTitle(entity.Operation{Direction: entity.DirectionIn}))
}
