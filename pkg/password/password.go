// Package password hashea y verifica contraseñas con bcrypt.
// El hash incluye su propia sal y costo, así que verificar no necesita estado externo.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost costo bcrypt por defecto (factor de trabajo 10).
const DefaultCost = 10

// ErrPasswordTooLong bcrypt solo admite hasta 72 bytes.
var ErrPasswordTooLong = errors.New("password: supera 72 bytes")

// Hasher contrato de hash de credenciales.
type Hasher interface {
	Hash(plain string) (string, error)
	Verify(plain, hash string) bool
}

// BcryptHasher implementa Hasher con bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher construye el hasher. Un costo fuera de rango usa DefaultCost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost devuelve el costo configurado.
func (h *BcryptHasher) Cost() int { return h.cost }

// Hash genera el hash bcrypt de plain.
func (h *BcryptHasher) Hash(plain string) (string, error) {
	if len(plain) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), h.cost)
	if err != nil {
		return "", fmt.Errorf("bcrypt: %w", err)
	}
	return string(hash), nil
}

// Verify compara en tiempo constante. Un hash malformado cuenta como no coincidente.
func (h *BcryptHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
