package service

import (
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/noah-isme/exam-scheduler-api/internal/scheduling"
)

// registerSchedulingValidations installs the exam_date and clock tags used by scheduling payloads.
func registerSchedulingValidations(validate *validator.Validate) {
	_ = validate.RegisterValidation("exam_date", func(fl validator.FieldLevel) bool {
		_, err := time.Parse("2006-01-02", scheduling.CalendarDate(fl.Field().String()))
		return err == nil
	})
	_ = validate.RegisterValidation("clock", func(fl validator.FieldLevel) bool {
		_, ok := scheduling.ParseClock(fl.Field().String())
		return ok
	})
}
