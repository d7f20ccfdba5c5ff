package usecase

import (
	"fmt"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"

	"github.com/jhoicas/stockboard-api/internal/domain"
	"github.com/jhoicas/stockboard-api/internal/domain/inventory"
)

// Formularios por tipo de registro. Los campos llegan como texto (igual que un form HTML)
// y el orden de declaración define qué campo se reporta primero.

type warehouseForm struct {
	Name      string `mapstructure:"name" validate:"required"`
	ShortCode string `mapstructure:"shortCode" validate:"required,max=5,alphanum"`
	Address   string `mapstructure:"address" validate:"required"`
}

type stockForm struct {
	ProductName  string `mapstructure:"productName" validate:"required"`
	SKU          string `mapstructure:"sku" validate:"required"`
	CurrentStock string `mapstructure:"currentStock" validate:"required,count"`
	MinStock     string `mapstructure:"minStock" validate:"required,count"`
	MaxStock     string `mapstructure:"maxStock" validate:"required,count"`
	Unit         string `mapstructure:"unit" validate:"required"`
	// Status se acepta pero se ignora: siempre se deriva del stock.
	Status string `mapstructure:"status"`
}

type operationForm struct {
	Reference    string `mapstructure:"reference"`
	From         string `mapstructure:"from" validate:"required"`
	To           string `mapstructure:"to" validate:"required"`
	Contact      string `mapstructure:"contact" validate:"required"`
	ScheduleDate string `mapstructure:"scheduleDate" validate:"required,datetime=2006-01-02"`
	Status       string `mapstructure:"status" validate:"omitempty,oneof=Draft Pending Ready Delivered"`
}

type movementForm struct {
	Type      string `mapstructure:"type" validate:"required,oneof=in out"`
	Product   string `mapstructure:"product" validate:"required"`
	Quantity  string `mapstructure:"quantity" validate:"required,positive"`
	Date      string `mapstructure:"date" validate:"omitempty,datetime=2006-01-02"`
	Reference string `mapstructure:"reference"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// count: entero en [0, MaxQuantity]; positive: entero en [1, MaxQuantity].
	_ = v.RegisterValidation("count", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n >= 0 && n <= inventory.MaxQuantity
	})
	_ = v.RegisterValidation("positive", func(fl validator.FieldLevel) bool {
		n, err := strconv.Atoi(fl.Field().String())
		return err == nil && n > 0 && n <= inventory.MaxQuantity
	})
	return v
}

// decodeForm vuelca fields (recortados) en out y lo valida. Claves desconocidas o el primer
// campo inválido se devuelven como *domain.ValidationError.
func decodeForm(fields map[string]string, out any) error {
	input := make(map[string]string, len(fields))
	for k, v := range fields {
		input[k] = strings.TrimSpace(v)
	}
	var md mapstructure.Metadata
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:   out,
		Metadata: &md,
		TagName:  "mapstructure",
	})
	if err != nil {
		return fmt.Errorf("crear decoder: %w", err)
	}
	if err := dec.Decode(input); err != nil {
		return &domain.ValidationError{Field: "fields", Reason: err.Error()}
	}
	if len(md.Unused) > 0 {
		slices.Sort(md.Unused)
		return &domain.ValidationError{Field: md.Unused[0], Reason: "campo desconocido"}
	}
	if err := validate.Struct(out); err != nil {
		return firstValidationError(err)
	}
	return nil
}

func firstValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return &domain.ValidationError{Field: "fields", Reason: err.Error()}
	}
	fe := errs[0]
	return &domain.ValidationError{Field: fe.Field(), Reason: validationMessage(fe)}
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "es requerido"
	case "max":
		return fmt.Sprintf("máximo %s caracteres", fe.Param())
	case "alphanum":
		return "solo letras y números"
	case "count":
		return fmt.Sprintf("debe ser un entero entre 0 y %d", inventory.MaxQuantity)
	case "positive":
		return fmt.Sprintf("debe ser un entero entre 1 y %d", inventory.MaxQuantity)
	case "datetime":
		return "formato YYYY-MM-DD"
	case "oneof":
		return "debe ser uno de: " + fe.Param()
	}
	return "valor inválido"
}

// atoi solo se usa tras validar con count/positive.
func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
