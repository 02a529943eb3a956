package product

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
)

// Payload is the request body accepted by the create and update endpoints.
type Payload struct {
	Name          string          `json:"name" validate:"required,max=200"`
	CostPrice     decimal.Decimal `json:"costPrice" validate:"gt=0"`
	SellingPrice  decimal.Decimal `json:"sellingPrice" validate:"gt=0"`
	StockQuantity int             `json:"stockQuantity" validate:"gte=0"`
	ReorderLevel  int             `json:"reorderLevel" validate:"gte=0"`
}

// Product converts the payload into an unsaved Product.
func (p Payload) Product() Product {
	return Product{
		Name:          strings.TrimSpace(p.Name),
		CostPrice:     p.CostPrice,
		SellingPrice:  p.SellingPrice,
		StockQuantity: p.StockQuantity,
		ReorderLevel:  p.ReorderLevel,
	}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// decimals are validated through their float value so numeric tags apply
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// validatePayload returns every validation failure keyed by JSON field name.
func validatePayload(p *Payload) map[string]string {
	errs := map[string]string{}
	p.Name = strings.TrimSpace(p.Name)

	err := validate.Struct(p)
	if err == nil {
		return errs
	}
	ves, ok := err.(validator.ValidationErrors)
	if !ok {
		errs["payload"] = err.Error()
		return errs
	}
	for _, fe := range ves {
		errs[fe.Field()] = describe(fe)
	}
	return errs
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("%s must be >= %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("%s is invalid", fe.Field())
	}
}
