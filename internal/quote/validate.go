package quote

import (
	"errors"
	"math"
	"net/http"
	"reflect"
	"strings"

	validator "github.com/go-playground/validator/v10"

	"github.com/noah-isme/backend-studio/internal/common"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	return v
}

// Validate checks the booking input before any calculation is attempted.
// Invalid input is rejected up front so no partial computation ever runs.
func (in Input) Validate() error {
	if math.IsNaN(in.MiscCharge) || math.IsInf(in.MiscCharge, 0) {
		return common.NewAppError("VALIDATION_ERROR", "miscCharge must be a finite amount", http.StatusBadRequest, nil)
	}
	if err := validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fe.Field())
			}
			return common.NewAppError(
				"VALIDATION_ERROR",
				"missing or invalid fields: "+strings.Join(fields, ", "),
				http.StatusBadRequest,
				err,
			)
		}
		return err
	}
	return nil
}
