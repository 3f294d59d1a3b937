package domain

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

// fieldMessages keeps the wording clients of the API already depend on.
var fieldMessages = map[string]string{
	"warehouseId":     "warehouse ID must be >= 1",
	"productId":       "product ID must be >= 1",
	"warehouseName":   "warehouse name must be between 5 and 25 characters",
	"street":          "street must be between 5 and 50 characters",
	"city":            "city must be between 5 and 25 characters",
	"country":         "country must be between 2 and 25 characters",
	"qoh":             "quantity on hand must be between 0 and 1m",
	"transactionId":   "transaction ID must be >= 0",
	"transactionType": "transaction type must be AddStock or RemoveStock",
	"amount":          "amount must be between 0 and 1m",
	"productName":     "product name must be supplied",
	"lastDelivery":    "last delivery date must be supplied",
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func ValidateWarehouse(w Warehouse) error {
	errs := structErrors(w)
	for i, tx := range w.Transactions {
		if tx.WarehouseID != w.WarehouseID || tx.ProductID != w.ProductID {
			errs = append(errs, FieldError{
				Value: tx.TransactionID,
				Msg:   "transaction must reference the owning warehouse and product",
				Param: fmt.Sprintf("transactions[%d]", i),
			})
		}
	}
	return toError(errs)
}

func ValidateProduct(p Product) error {
	return toError(structErrors(p))
}

func ValidateTransaction(t InventoryTransaction) error {
	return toError(structErrors(t))
}

func structErrors(v any) []FieldError {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Msg: err.Error(), Param: "body"}}
	}

	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Value: fe.Value(),
			Msg:   messageFor(fe),
			Param: paramFor(fe.Namespace()),
		})
	}
	return out
}

func messageFor(fe validator.FieldError) string {
	if msg, ok := fieldMessages[fe.Field()]; ok {
		return msg
	}
	return fmt.Sprintf("%s failed on the %s rule", fe.Field(), fe.Tag())
}

// paramFor drops the root type name: "Warehouse.address.city" -> "address.city".
func paramFor(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		return namespace[i+1:]
	}
	return namespace
}

func toError(errs []FieldError) error {
	if len(errs) == 0 {
		return nil
	}
	return NewValidationError(errs...)
}
