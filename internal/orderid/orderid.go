// Package orderid строит короткие номера заказов: хвост телефона клиента,
// хвост миллисекундного времени и двузначное случайное число.
//
// Уникальность не гарантируется: совпадение хвоста телефона, трёх последних
// цифр времени и случайного числа даёт одинаковый номер, и перед вставкой
// ничего не проверяется.
package orderid

import (
	"fmt"
	"math/rand/v2"
	"regexp"
	"strconv"
	"time"

	"github.com/psds-microservice/repair-service/internal/errs"
)

const (
	Length      = 10
	phoneDigits = 7
	clockDigits = 3
	drawRange   = 100
)

var nonDigitRegexp = regexp.MustCompile(`\D`)

// Build собирает номер из телефона, времени в миллисекундах и случайного числа из [0, 100).
// Если в телефоне меньше 7 цифр, первая часть короче и в итоговые 10 символов
// попадает больше времени и случайного хвоста; результат тогда может быть короче 10.
func Build(phone string, nowMillis int64, draw int) (string, error) {
	if phone == "" {
		return "", errs.ErrPhoneRequired
	}
	digits := tail(nonDigitRegexp.ReplaceAllString(phone, ""), phoneDigits)
	clock := tail(strconv.FormatInt(nowMillis, 10), clockDigits)
	id := digits + clock + fmt.Sprintf("%02d", draw)
	return tail(id, Length), nil
}

func tail(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}

// Generator — источник номеров с подменяемыми часами и генератором случайных чисел.
type Generator struct {
	now  func() time.Time
	draw func(n int) int
}

func NewGenerator() *Generator {
	return &Generator{now: time.Now, draw: rand.IntN}
}

// NewGeneratorWith нужен тестам и командам, которым важна воспроизводимость.
func NewGeneratorWith(now func() time.Time, draw func(n int) int) *Generator {
	return &Generator{now: now, draw: draw}
}

func (g *Generator) Next(phone string) (string, error) {
	return Build(phone, g.now().UnixMilli(), g.draw(drawRange))
}
