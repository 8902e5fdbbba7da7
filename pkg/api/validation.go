package api

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"rental-booking/pkg/catalog"
	"rental-booking/pkg/wizard"
)

var registerOnce sync.Once

// RegisterValidators adds the booking rules to gin's validator so request
// bodies are checked while binding
func RegisterValidators() error {
	var err error
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			err = fmt.Errorf("error registering validators: unexpected validator engine")
			return
		}

		// Report fields by their JSON names
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		rules := map[string]func(string) bool{
			"ddmmyyyy":  wizard.IsDisplayDate,
			"halfhour":  catalog.IsTimeOption,
			"driverage": catalog.IsAgeOption,
		}
		for tag, check := range rules {
			check := check
			// An empty string clears the field and is always accepted
			if err = v.RegisterValidation(tag, func(fl validator.FieldLevel) bool {
				s := fl.Field().String()
				return s == "" || check(s)
			}); err != nil {
				err = fmt.Errorf("error registering %s validator: %w", tag, err)
				return
			}
		}
	})
	return err
}
