package service

import (
	"crypto/subtle"

	"golang.org/x/crypto/bcrypt"
)

func hashPassword(plain string, cost int) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// checkPassword сравнивает пароль с сохранённым значением. Не-bcrypt значение
// считается паролем открытым текстом из старых записей (legacy=true).
func checkPassword(stored, plain string) (ok, legacy bool) {
	if _, err := bcrypt.Cost([]byte(stored)); err == nil {
		return bcrypt.CompareHashAndPassword([]byte(stored), []byte(plain)) == nil, false
	}
	return subtle.ConstantTimeCompare([]byte(stored), []byte(plain)) == 1, true
}
