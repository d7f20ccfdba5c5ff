package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
	"github.com/jhoicas/stockboard-api/internal/domain/inventory"
	"github.com/jhoicas/stockboard-api/internal/domain/repository"
	"github.com/jhoicas/stockboard-api/pkg/logger"
	"github.com/jhoicas/stockboard-api/pkg/metrics"
)

// RecordUseCase API de mutación sobre el Record Store: alta, edición y baja por tipo,
// avance de estado de recepciones y entregas, y movimientos de stock.
// Cada mutación valida primero y luego escribe dentro de una transacción del store,
// así que se aplica completa o se rechaza sin efectos.
type RecordUseCase struct {
	store   repository.RecordStore
	tx      repository.TxRunner
	log     *logger.Logger
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewRecordUseCase construye el caso de uso. log y m pueden ser nil.
func NewRecordUseCase(store repository.RecordStore, tx repository.TxRunner, log *logger.Logger, m *metrics.Metrics) *RecordUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &RecordUseCase{
		store:   store,
		tx:      tx,
		log:     log.Component("records"),
		metrics: m,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithClock reemplaza el reloj (tests).
func (uc *RecordUseCase) WithClock(now func() time.Time) *RecordUseCase {
	uc.now = now
	return uc
}

// MovementResult movimiento registrado y producto con el stock ya ajustado.
type MovementResult struct {
	Transaction entity.Transaction
	StockItem   entity.StockItem
}

// CreateRecord valida fields según kind e inserta el registro nuevo.
func (uc *RecordUseCase) CreateRecord(ctx context.Context, kind entity.Kind, fields map[string]string) (entity.Record, error) {
	switch kind {
	case entity.KindWarehouse:
		return uc.createWarehouse(ctx, fields)
	case entity.KindStockItem:
		return uc.createStockItem(ctx, fields)
	case entity.KindReceipt, entity.KindDelivery:
		return uc.createOperation(ctx, kind, fields)
	case entity.KindTransaction:
		res, err := uc.RecordMovement(ctx, fields)
		if err != nil {
			return nil, err
		}
		return res.Transaction, nil
	}
	return nil, unknownKind(kind)
}

// UpdateRecord aplica patch sobre el registro id. Solo se validan las claves presentes;
// el resto conserva su valor actual.
func (uc *RecordUseCase) UpdateRecord(ctx context.Context, kind entity.Kind, id string, patch map[string]string) (entity.Record, error) {
	switch kind {
	case entity.KindTransaction:
		return nil, &domain.ValidationError{Field: "kind", Reason: "los movimientos son inmutables"}
	case entity.KindReceipt, entity.KindDelivery:
		if _, ok := patch["status"]; ok {
			return nil, &domain.ValidationError{Field: "status", Reason: "el estado solo cambia con advance"}
		}
	case entity.KindWarehouse, entity.KindStockItem:
	default:
		return nil, unknownKind(kind)
	}

	var updated entity.Record
	err := uc.mutate(ctx, kind, "update", func(store repository.RecordStore) error {
		rec, err := store.Update(ctx, kind, id, func(cur entity.Record) (entity.Record, error) {
			return uc.applyPatch(cur, patch)
		})
		updated = rec
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteRecord elimina el registro id. Es idempotente.
// Los movimientos son inmutables y los productos no se eliminan.
func (uc *RecordUseCase) DeleteRecord(ctx context.Context, kind entity.Kind, id string) error {
	switch kind {
	case entity.KindTransaction:
		return &domain.ValidationError{Field: "kind", Reason: "los movimientos son inmutables"}
	case entity.KindStockItem:
		return &domain.ValidationError{Field: "kind", Reason: "los productos no se eliminan"}
	case entity.KindWarehouse, entity.KindReceipt, entity.KindDelivery:
	default:
		return unknownKind(kind)
	}
	return uc.mutate(ctx, kind, "delete", func(store repository.RecordStore) error {
		return store.Remove(ctx, kind, id)
	})
}

// AdvanceReceiptStatus avanza una recepción un paso en Draft→Pending→Ready→Delivered.
func (uc *RecordUseCase) AdvanceReceiptStatus(ctx context.Context, id string) (entity.Operation, error) {
	return uc.advance(ctx, entity.KindReceipt, id)
}

// AdvanceDeliveryStatus avanza una entrega un paso en Draft→Pending→Ready→Delivered.
func (uc *RecordUseCase) AdvanceDeliveryStatus(ctx context.Context, id string) (entity.Operation, error) {
	return uc.advance(ctx, entity.KindDelivery, id)
}

// AdvanceStatus despacha según kind (receipt o delivery).
func (uc *RecordUseCase) AdvanceStatus(ctx context.Context, kind entity.Kind, id string) (entity.Operation, error) {
	switch kind {
	case entity.KindReceipt:
		return uc.AdvanceReceiptStatus(ctx, id)
	case entity.KindDelivery:
		return uc.AdvanceDeliveryStatus(ctx, id)
	}
	return entity.Operation{}, unknownKind(kind)
}

func (uc *RecordUseCase) advance(ctx context.Context, kind entity.Kind, id string) (entity.Operation, error) {
	var op entity.Operation
	err := uc.mutate(ctx, kind, "advance", func(store repository.RecordStore) error {
		rec, err := store.Update(ctx, kind, id, func(cur entity.Record) (entity.Record, error) {
			o, ok := cur.(entity.Operation)
			if !ok {
				return nil, unexpectedRecord(kind, cur)
			}
			next, ok := inventory.NextStatus(o.Status)
			if !ok {
				return nil, &domain.InvalidTransitionError{Kind: string(kind), ID: id, From: string(o.Status)}
			}
			o.Status = next
			return o, nil
		})
		if err != nil {
			return err
		}
		op = rec.(entity.Operation)
		return nil
	})
	return op, err
}

// RecordMovement registra un movimiento de stock y ajusta el producto en la misma transacción.
// product puede ser el nombre o el SKU del producto. Una salida mayor al stock disponible
// devuelve domain.ErrInsufficientStock.
func (uc *RecordUseCase) RecordMovement(ctx context.Context, fields map[string]string) (*MovementResult, error) {
	var f movementForm
	if err := decodeForm(fields, &f); err != nil {
		uc.metrics.ObserveMutation(string(entity.KindTransaction), "create", outcome(err))
		return nil, err
	}
	now := uc.now()
	date := dateOnly(now)
	if f.Date != "" {
		date, _ = time.ParseInLocation(entity.DateLayout, f.Date, time.UTC)
	}
	txType := entity.TransactionType(f.Type)
	qty := atoi(f.Quantity)

	var res MovementResult
	err := uc.mutate(ctx, entity.KindTransaction, "create", func(store repository.RecordStore) error {
		item, err := findStockItem(ctx, store, f.Product)
		if err != nil {
			return err
		}
		if txType == entity.TransactionOut && qty > item.CurrentStock {
			return fmt.Errorf("%w: %s tiene %d, se pidieron %d", domain.ErrInsufficientStock, item.SKU, item.CurrentStock, qty)
		}
		if txType == entity.TransactionIn && item.CurrentStock > inventory.MaxQuantity-qty {
			return &domain.ValidationError{
				Field:  "quantity",
				Reason: fmt.Sprintf("el stock resultante supera %d", inventory.MaxQuantity),
			}
		}

		ref := f.Reference
		if ref == "" {
			existing, err := listAs[entity.Transaction](ctx, store, entity.KindTransaction)
			if err != nil {
				return err
			}
			refs := make([]string, 0, len(existing))
			for _, t := range existing {
				refs = append(refs, t.Reference)
			}
			ref = inventory.NextTransactionReference(txType, date.Year(), refs)
		}

		txn := entity.Transaction{
			ID:        uuid.NewString(),
			Type:      txType,
			Product:   item.ProductName,
			Quantity:  qty,
			Date:      date,
			Reference: ref,
		}
		if err := store.Insert(ctx, txn); err != nil {
			return err
		}

		rec, err := store.Update(ctx, entity.KindStockItem, item.ID, func(cur entity.Record) (entity.Record, error) {
			s := cur.(entity.StockItem)
			if txType == entity.TransactionIn {
				s.CurrentStock += qty
			} else {
				s.CurrentStock -= qty
			}
			s.Status = inventory.DeriveStatus(s.CurrentStock, s.MinStock)
			s.LastUpdated = now
			return s, nil
		})
		if err != nil {
			return err
		}
		res = MovementResult{Transaction: txn, StockItem: rec.(entity.StockItem)}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &res, nil
}

func (uc *RecordUseCase) createWarehouse(ctx context.Context, fields map[string]string) (entity.Record, error) {
	var f warehouseForm
	if err := decodeForm(fields, &f); err != nil {
		uc.metrics.ObserveMutation(string(entity.KindWarehouse), "create", outcome(err))
		return nil, err
	}
	now := uc.now()
	w := entity.Warehouse{
		ID:        uuid.NewString(),
		Name:      f.Name,
		ShortCode: strings.ToUpper(f.ShortCode),
		Address:   f.Address,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := uc.insert(ctx, w); err != nil {
		return nil, err
	}
	return w, nil
}

func (uc *RecordUseCase) createStockItem(ctx context.Context, fields map[string]string) (entity.Record, error) {
	var f stockForm
	err := decodeForm(fields, &f)
	if err == nil {
		err = checkThresholds(f)
	}
	if err != nil {
		uc.metrics.ObserveMutation(string(entity.KindStockItem), "create", outcome(err))
		return nil, err
	}
	item := buildStockItem(uuid.NewString(), f, uc.now())
	if err := uc.insert(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (uc *RecordUseCase) createOperation(ctx context.Context, kind entity.Kind, fields map[string]string) (entity.Record, error) {
	dir, _ := entity.DirectionOf(kind)
	var f operationForm
	err := decodeForm(fields, &f)
	if err == nil && f.Reference != "" {
		err = checkReference(dir, f.Reference)
	}
	if err != nil {
		uc.metrics.ObserveMutation(string(kind), "create", outcome(err))
		return nil, err
	}
	if f.Status == "" {
		f.Status = string(entity.StatusDraft)
	}
	op := buildOperation(uuid.NewString(), dir, f, uc.now())

	err = uc.mutate(ctx, kind, "create", func(store repository.RecordStore) error {
		if op.Reference == "" {
			existing, err := listAs[entity.Operation](ctx, store, kind)
			if err != nil {
				return err
			}
			refs := make([]string, 0, len(existing))
			for _, o := range existing {
				refs = append(refs, o.Reference)
			}
			op.Reference = inventory.NextReference(dir, refs)
		}
		return store.Insert(ctx, op)
	})
	if err != nil {
		return nil, err
	}
	return op, nil
}

func (uc *RecordUseCase) insert(ctx context.Context, rec entity.Record) error {
	return uc.mutate(ctx, rec.Kind(), "create", func(store repository.RecordStore) error {
		return store.Insert(ctx, rec)
	})
}

// mutate corre fn en una transacción del store y registra métricas y log del resultado.
func (uc *RecordUseCase) mutate(ctx context.Context, kind entity.Kind, op string, fn func(store repository.RecordStore) error) error {
	err := uc.tx.Run(ctx, fn)
	result := outcome(err)
	uc.metrics.ObserveMutation(string(kind), op, result)
	switch result {
	case "ok":
		uc.log.Debug().Str("kind", string(kind)).Str("op", op).Msg("mutación aplicada")
	case "error":
		uc.log.Error().Err(err).Str("kind", string(kind)).Str("op", op).Msg("mutación fallida")
	default:
		uc.log.Debug().Err(err).Str("kind", string(kind)).Str("op", op).Str("outcome", result).Msg("mutación rechazada")
	}
	return err
}

// applyPatch superpone patch a los campos actuales de cur y reconstruye el registro.
func (uc *RecordUseCase) applyPatch(cur entity.Record, patch map[string]string) (entity.Record, error) {
	now := uc.now()
	switch r := cur.(type) {
	case entity.Warehouse:
		var f warehouseForm
		if err := decodeForm(overlay(warehouseFields(r), patch), &f); err != nil {
			return nil, err
		}
		r.Name = f.Name
		r.ShortCode = strings.ToUpper(f.ShortCode)
		r.Address = f.Address
		r.UpdatedAt = now
		return r, nil
	case entity.StockItem:
		var f stockForm
		if err := decodeForm(overlay(stockFields(r), patch), &f); err != nil {
			return nil, err
		}
		if err := checkThresholds(f); err != nil {
			return nil, err
		}
		return buildStockItem(r.ID, f, now), nil
	case entity.Operation:
		var f operationForm
		if err := decodeForm(overlay(operationFields(r), patch), &f); err != nil {
			return nil, err
		}
		if f.Reference == "" {
			return nil, &domain.ValidationError{Field: "reference", Reason: "es requerido"}
		}
		if err := checkReference(r.Direction, f.Reference); err != nil {
			return nil, err
		}
		updated := buildOperation(r.ID, r.Direction, f, r.CreatedAt)
		return updated, nil
	}
	return nil, unexpectedRecord(cur.Kind(), cur)
}

func buildStockItem(id string, f stockForm, now time.Time) entity.StockItem {
	current, minStock := atoi(f.CurrentStock), atoi(f.MinStock)
	return entity.StockItem{
		ID:           id,
		ProductName:  f.ProductName,
		SKU:          f.SKU,
		CurrentStock: current,
		MinStock:     minStock,
		MaxStock:     atoi(f.MaxStock),
		Unit:         f.Unit,
		Status:       inventory.DeriveStatus(current, minStock),
		LastUpdated:  now,
	}
}

// buildOperation arma la operación a partir de un formulario ya validado.
func buildOperation(id string, dir entity.Direction, f operationForm, createdAt time.Time) entity.Operation {
	date, _ := time.ParseInLocation(entity.DateLayout, f.ScheduleDate, time.UTC)
	return entity.Operation{
		ID:           id,
		Direction:    dir,
		Reference:    f.Reference,
		From:         f.From,
		To:           f.To,
		Contact:      f.Contact,
		ScheduleDate: date,
		Status:       entity.OperationStatus(f.Status),
		CreatedAt:    createdAt,
	}
}

func checkThresholds(f stockForm) error {
	if atoi(f.MaxStock) < atoi(f.MinStock) {
		return &domain.ValidationError{Field: "maxStock", Reason: "debe ser mayor o igual a minStock"}
	}
	return nil
}

func checkReference(dir entity.Direction, ref string) error {
	d, _, ok := inventory.ParseReference(ref)
	if !ok || d != dir {
		return &domain.ValidationError{Field: "reference", Reason: "formato " + inventory.FormatReference(dir, 1)}
	}
	return nil
}

func warehouseFields(w entity.Warehouse) map[string]string {
	return map[string]string{"name": w.Name, "shortCode": w.ShortCode, "address": w.Address}
}

func stockFields(s entity.StockItem) map[string]string {
	return map[string]string{
		"productName":  s.ProductName,
		"sku":          s.SKU,
		"currentStock": strconv.Itoa(s.CurrentStock),
		"minStock":     strconv.Itoa(s.MinStock),
		"maxStock":     strconv.Itoa(s.MaxStock),
		"unit":         s.Unit,
	}
}

func operationFields(o entity.Operation) map[string]string {
	return map[string]string{
		"reference":    o.Reference,
		"from":         o.From,
		"to":           o.To,
		"contact":      o.Contact,
		"scheduleDate": o.ScheduleDate.Format(entity.DateLayout),
		"status":       string(o.Status),
	}
}

func overlay(base, patch map[string]string) map[string]string {
	for k, v := range patch {
		base[k] = v
	}
	return base
}

func findStockItem(ctx context.Context, store repository.RecordStore, product string) (entity.StockItem, error) {
	items, err := listAs[entity.StockItem](ctx, store, entity.KindStockItem)
	if err != nil {
		return entity.StockItem{}, err
	}
	for _, it := range items {
		if strings.EqualFold(it.SKU, product) || strings.EqualFold(it.ProductName, product) {
			return it, nil
		}
	}
	return entity.StockItem{}, &domain.NotFoundError{Kind: string(entity.KindStockItem), ID: product}
}

// listAs lista kind y convierte cada registro a T.
func listAs[T entity.Record](ctx context.Context, store repository.RecordStore, kind entity.Kind) ([]T, error) {
	recs, err := store.List(ctx, kind)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(recs))
	for _, r := range recs {
		v, ok := r.(T)
		if !ok {
			return nil, unexpectedRecord(kind, r)
		}
		out = append(out, v)
	}
	return out, nil
}

func dateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func unknownKind(kind entity.Kind) error {
	return &domain.ValidationError{Field: "kind", Reason: fmt.Sprintf("tipo desconocido %q", kind)}
}

func unexpectedRecord(kind entity.Kind, rec entity.Record) error {
	return fmt.Errorf("registro inesperado para %s: %T", kind, rec)
}

// outcome clasifica el resultado de una mutación para las métricas.
func outcome(err error) string {
	var invalidTransition *domain.InvalidTransitionError
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrInvalidInput):
		return "validation"
	case errors.Is(err, domain.ErrDuplicate):
		return "duplicate"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.As(err, &invalidTransition):
		return "invalid_transition"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	}
	return "error"
}
