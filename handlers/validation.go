package handlers

import (
	"fmt"

	"medipulse/models"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// RegisterValidators adds the slot key tags to gin's validator:
// `binding:"slotdate"` for D_M_YYYY keys and `binding:"slottime"` for HH:MM AM/PM.
func RegisterValidators() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	if err := v.RegisterValidation("slotdate", func(fl validator.FieldLevel) bool {
		return models.ValidSlotDate(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("slottime", func(fl validator.FieldLevel) bool {
		return models.ValidSlotTime(fl.Field().String())
	})
}
