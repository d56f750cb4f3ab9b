package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/gearcash-api/internal/application/dto"
	"github.com/jhoicas/gearcash-api/internal/domain/security"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Nombres de campo según el tag json, para que el mensaje coincida con el body.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("strong_password", func(fl validator.FieldLevel) bool {
		return security.IsStrongPassword(fl.Field().String())
	})
	return v
}

// bindAndValidate parsea el body JSON y aplica los tags validate.
// Si falla escribe la respuesta 400 y devuelve false: el handler debe retornar sin escribir otra.
func bindAndValidate(c *fiber.Ctx, in any) (bool, error) {
	if ok, err := bindBody(c, in); !ok {
		return false, err
	}
	if err := validate.Struct(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validationMessage(err)})
	}
	return true, nil
}

func validationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fe.Field()+" es requerido")
		case "email":
			msgs = append(msgs, fe.Field()+" debe ser un email válido")
		case "min":
			msgs = append(msgs, fmt.Sprintf("%s debe tener al menos %s caracteres", fe.Field(), fe.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("%s admite como máximo %s caracteres", fe.Field(), fe.Param()))
		case "oneof":
			msgs = append(msgs, fmt.Sprintf("%s debe ser uno de: %s", fe.Field(), fe.Param()))
		case "strong_password":
			msgs = append(msgs, fe.Field()+": "+security.PasswordRequirements)
		default:
			msgs = append(msgs, fe.Field()+" inválido")
		}
	}
	return strings.Join(msgs, "; ")
}

// bindBody solo parsea el body; la validación queda a cargo del caso de uso.
func bindBody(c *fiber.Ctx, in any) (bool, error) {
	if err := c.BodyParser(in); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	return true, nil
}
