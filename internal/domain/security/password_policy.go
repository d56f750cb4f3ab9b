// Package security contiene las reglas de dominio sobre credenciales:
// política de contraseña fuerte. Funciones puras, sin I/O.
package security

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jhoicas/gearcash-api/internal/domain"
)

// MinPasswordLength longitud mínima de una contraseña, contada en caracteres (runas).
const MinPasswordLength = 8

// SpecialCharacters conjunto de caracteres especiales aceptados por la política.
const SpecialCharacters = `!@#$%^&*()_+-=[]{};':"\|,.<>/?`

// PasswordRequirements mensaje legible con la política completa.
const PasswordRequirements = "la contraseña debe tener mínimo 8 caracteres e incluir 1 mayúscula, 1 minúscula, 1 número y 1 carácter especial (" + SpecialCharacters + ")"

// IsStrongPassword indica si la contraseña cumple la política.
// Los caracteres fuera de ASCII cuentan para la longitud pero no para ninguna clase.
func IsStrongPassword(password string) bool {
	return ValidatePassword(password) == nil
}

// ValidatePassword valida la contraseña y devuelve un error que envuelve domain.ErrValidation
// con todas las reglas incumplidas.
func ValidatePassword(password string) error {
	var errs []error
	if utf8.RuneCountInString(password) < MinPasswordLength {
		errs = append(errs, fmt.Errorf("mínimo %d caracteres", MinPasswordLength))
	}

	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= '0' && r <= '9':
			digit = true
		case r < utf8.RuneSelf && strings.ContainsRune(SpecialCharacters, r):
			special = true
		}
	}
	if !upper {
		errs = append(errs, errors.New("al menos una letra mayúscula"))
	}
	if !lower {
		errs = append(errs, errors.New("al menos una letra minúscula"))
	}
	if !digit {
		errs = append(errs, errors.New("al menos un número"))
	}
	if !special {
		errs = append(errs, errors.New("al menos un carácter especial"))
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: contraseña débil: %w", domain.ErrValidation, errors.Join(errs...))
}
