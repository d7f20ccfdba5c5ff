package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
)

// SlipGenerator genera el comprobante PDF de una recepción o entrega.
type SlipGenerator interface {
	GenerateSlip(ctx context.Context, op entity.Operation) ([]byte, error)
}

// SlipUseCase comprobante imprimible de recepciones y entregas.
type SlipUseCase struct {
	store     repository.RecordStore
	generator SlipGenerator
}

// NewSlipUseCase construye el caso de uso.
func NewSlipUseCase(store repository.RecordStore, generator SlipGenerator) *SlipUseCase {
	return &SlipUseCase{store: store, generator: generator}
}

// DownloadSlip genera el PDF de la operación id.
//
// Retorna:
//   - (pdfBytes, filename, nil)   si todo sale bien.
//   - *domain.NotFoundError       si la operación no existe.
//   - *domain.ValidationError     si kind no es receipt ni delivery.
func (uc *SlipUseCase) DownloadSlip(ctx context.Context, kind entity.Kind, id string) (pdfBytes []byte, filename string, err error) {
	if _, ok := entity.DirectionOf(kind); !ok {
		return nil, "", unknownKind(kind)
	}
	rec, err := uc.store.Get(ctx, kind, id)
	if err != nil {
		return nil, "", err
	}
	op, ok := rec.(entity.Operation)
	if !ok {
		return nil, "", unexpectedRecord(kind, rec)
	}
	pdfBytes, err = uc.generator.GenerateSlip(ctx, op)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generar comprobante: %w", err)
	}
	return pdfBytes, SlipFilename(op), nil
}

// SlipFilename WH/IN/0001 → WH-IN-0001.pdf
func SlipFilename(op entity.Operation) string {
	return strings.ReplaceAll(op.Reference, "/", "-") + ".pdf"
}
