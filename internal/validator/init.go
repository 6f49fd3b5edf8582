package validator

import (
	"ctchen222/Rock-Paper-Scissors/internal/game"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())

	// "move" accepts exactly the three playable move names.
	_ = validate.RegisterValidation("move", func(fl validator.FieldLevel) bool {
		return game.Move(fl.Field().String()).Valid()
	})
}

func GetValidator() *validator.Validate {
	return validate
}
