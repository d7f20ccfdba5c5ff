package http

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/stockboard-api/internal/application/dto"
	"github.com/jhoicas/stockboard-api/internal/application/usecase"
	"github.com/jhoicas/stockboard-api/internal/domain/entity"
)

// RecordHandler endpoints CRUD de los cinco tipos de registro. Cada ruta fija su kind.
type RecordHandler struct {
	records *usecase.RecordUseCase
	slips   *usecase.SlipUseCase
}

// NewRecordHandler construye el handler.
func NewRecordHandler(records *usecase.RecordUseCase, slips *usecase.SlipUseCase) *RecordHandler {
	return &RecordHandler{records: records, slips: slips}
}

// List lista registros del kind filtrados por ?q=. Con ?view=kanban agrupa por estado
// (solo stock, recepciones y entregas).
func (h *RecordHandler) List(kind entity.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		q := c.Query("q")
		kanban := c.Query("view") == "kanban"
		switch kind {
		case entity.KindStockItem:
			if kanban {
				groups, err := h.records.StockGroups(ctx, q)
				if err != nil {
					return respondError(c, err)
				}
				return c.JSON(dto.Kanban(groups, dto.FromStockItem))
			}
			items, err := h.records.ListStock(ctx, q)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(listOf(items, dto.FromStockItem))
		case entity.KindTransaction:
			items, err := h.records.ListTransactions(ctx, q)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(listOf(items, dto.FromTransaction))
		case entity.KindReceipt, entity.KindDelivery:
			if kanban {
				groups, err := h.records.OperationGroups(ctx, kind, q)
				if err != nil {
					return respondError(c, err)
				}
				return c.JSON(dto.Kanban(groups, dto.FromOperation))
			}
			items, err := h.records.ListOperations(ctx, kind, q)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(listOf(items, dto.FromOperation))
		case entity.KindWarehouse:
			items, err := h.records.ListWarehouses(ctx, q)
			if err != nil {
				return respondError(c, err)
			}
			return c.JSON(listOf(items, dto.FromWarehouse))
		}
		return fiber.ErrNotFound
	}
}

// Create crea un registro del kind. Para transacciones registra el movimiento
// y devuelve también el producto actualizado.
func (h *RecordHandler) Create(kind entity.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fields, err := bodyFields(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		if kind == entity.KindTransaction {
			res, err := h.records.RecordMovement(c.UserContext(), fields)
			if err != nil {
				return respondError(c, err)
			}
			return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
				Transaction: dto.FromTransaction(res.Transaction),
				StockItem:   dto.FromStockItem(res.StockItem),
			})
		}
		rec, err := h.records.CreateRecord(c.UserContext(), kind, fields)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(dto.FromRecord(rec))
	}
}

// Get devuelve un registro por id.
func (h *RecordHandler) Get(kind entity.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		rec, err := h.records.GetRecord(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.FromRecord(rec))
	}
}

// Update aplica un patch parcial: los campos ausentes conservan su valor.
func (h *RecordHandler) Update(kind entity.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		patch, err := bodyFields(c)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
		}
		rec, err := h.records.UpdateRecord(c.UserContext(), kind, c.Params("id"), patch)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.FromRecord(rec))
	}
}

// Delete elimina un registro; borrar un id inexistente también responde 204.
func (h *RecordHandler) Delete(kind entity.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if err := h.records.DeleteRecord(c.UserContext(), kind, c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// Advance avanza la recepción o entrega al siguiente estado.
func (h *RecordHandler) Advance(kind entity.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		op, err := h.records.AdvanceStatus(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(dto.FromOperation(op))
	}
}

// Slip descarga el comprobante PDF de la operación.
func (h *RecordHandler) Slip(kind entity.Kind) fiber.Handler {
	return func(c *fiber.Ctx) error {
		pdf, filename, err := h.slips.DownloadSlip(c.UserContext(), kind, c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
		return c.Send(pdf)
	}
}

// StockSummary tarjetas de resumen del tablero de stock.
// GET /api/stock/summary
func (h *RecordHandler) StockSummary(c *fiber.Ctx) error {
	s, err := h.records.StockSummary(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.FromSummary(s))
}

// StockGroups conteo de productos por estado de stock.
// GET /api/stock/groups
func (h *RecordHandler) StockGroups(c *fiber.Ctx) error {
	groups, err := h.records.StockGroups(c.UserContext(), c.Query("q"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.Counts(groups))
}

func listOf[T, R any](items []T, fn func(T) R) dto.ListResponse[R] {
	out := dto.MapSlice(items, fn)
	return dto.ListResponse[R]{Items: out, Total: len(out)}
}

// bodyFields lee el cuerpo como mapa campo→texto. Acepta JSON plano o
// application/x-www-form-urlencoded. Los números JSON conservan su texto original.
func bodyFields(c *fiber.Ctx) (map[string]string, error) {
	fields := map[string]string{}
	ctype := strings.ToLower(string(c.Request().Header.ContentType()))
	if strings.HasPrefix(ctype, fiber.MIMEApplicationForm) {
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			fields[string(k)] = string(v)
		})
		return fields, nil
	}
	if len(c.Body()) == 0 {
		return fields, nil
	}
	var raw map[string]json.RawMessage
	if err := c.App().Config().JSONDecoder(c.Body(), &raw); err != nil {
		return nil, err
	}
	for k, v := range raw {
		s, err := fieldText(v)
		if err != nil {
			return nil, fmt.Errorf("campo %s: %w", k, err)
		}
		fields[k] = s
	}
	return fields, nil
}

func fieldText(v json.RawMessage) (string, error) {
	text := strings.TrimSpace(string(v))
	switch {
	case text == "" || text == "null":
		return "", nil
	case text[0] == '"':
		var s string
		if err := json.Unmarshal(v, &s); err != nil {
			return "", err
		}
		return s, nil
	case text == "true" || text == "false":
		return text, nil
	case text[0] == '-' || (text[0] >= '0' && text[0] <= '9'):
		if !json.Valid(v) {
			return "", fmt.Errorf("número inválido %q", text)
		}
		return text, nil
	}
	return "", fmt.Errorf("valor no escalar %s", text)
}
