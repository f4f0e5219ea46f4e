// Package money define el valor monetario del dominio: decimal exacto + moneda ISO-4217.
// Nunca se representa como float. El redondeo usa la escala estándar de la moneda.
package money

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/product-engine/internal/domain"
)

// Money es un tipo valor; las operaciones devuelven copias.
// La aritmética no verifica moneda: el llamador valida antes con SameCurrency.
type Money struct {
	amount   decimal.Decimal
	currency currency.Unit
}

// New construye un Money redondeado a la escala de la moneda.
func New(amount decimal.Decimal, cur currency.Unit) Money {
	return Money{amount: amount, currency: cur}.Round()
}

// Zero devuelve el valor cero en la moneda indicada.
func Zero(cur currency.Unit) Money {
	return Money{amount: decimal.Zero, currency: cur}
}

// Parse construye un Money desde texto ("10.50", "PHP").
func Parse(amount, code string) (Money, error) {
	cur, err := ParseCurrency(code)
	if err != nil {
		return Money{}, err
	}
	d, err := decimal.NewFromString(strings.TrimSpace(amount))
	if err != nil {
		return Money{}, fmt.Errorf("%w: monto %q: %v", domain.ErrInvalidInput, amount, err)
	}
	return New(d, cur), nil
}

// MustParse es Parse para literales conocidos (tests, valores por defecto).
func MustParse(amount, code string) Money {
	m, err := Parse(amount, code)
	if err != nil {
		panic(err)
	}
	return m
}

// ParseCurrency valida un código ISO-4217.
func ParseCurrency(code string) (currency.Unit, error) {
	cur, err := currency.ParseISO(strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return currency.Unit{}, fmt.Errorf("%w: moneda %q", domain.ErrInvalidInput, code)
	}
	return cur, nil
}

func (m Money) Amount() decimal.Decimal { return m.amount }
func (m Money) Currency() currency.Unit { return m.currency }
func (m Money) IsZero() bool            { return m.amount.IsZero() }
func (m Money) IsNegative() bool        { return m.amount.IsNegative() }
func (m Money) Scale() int32            { return scaleOf(m.currency) }
func (m Money) Neg() Money              { return Money{amount: m.amount.Neg(), currency: m.currency} }
func (m Money) Zero() Money             { return Zero(m.currency) }

// Add suma dos montos de la misma moneda.
func (m Money) Add(o Money) Money {
	return Money{amount: m.amount.Add(o.amount), currency: m.currency}
}

// Sub resta o de m.
func (m Money) Sub(o Money) Money {
	return Money{amount: m.amount.Sub(o.amount), currency: m.currency}
}

// Mul multiplica por un escalar y redondea a la escala de la moneda.
func (m Money) Mul(factor decimal.Decimal) Money {
	return Money{amount: m.amount.Mul(factor), currency: m.currency}.Round()
}

// Div divide por un escalar y redondea. Dividir por cero devuelve cero.
func (m Money) Div(divisor decimal.Decimal) Money {
	if divisor.IsZero() {
		return m.Zero()
	}
	return Money{amount: m.amount.Div(divisor), currency: m.currency}.Round()
}

// Ratio devuelve m / o sin redondeo monetario (razón adimensional). Cero si o es cero.
func (m Money) Ratio(o Money) decimal.Decimal {
	if o.amount.IsZero() {
		return decimal.Zero
	}
	return m.amount.Div(o.amount)
}

// Cmp compara los montos (-1, 0, 1).
func (m Money) Cmp(o Money) int { return m.amount.Cmp(o.amount) }

// Equal compara moneda y monto.
func (m Money) Equal(o Money) bool {
	return m.currency == o.currency && m.amount.Equal(o.amount)
}

// Round aplica la escala estándar de la moneda (PHP/USD: 2, JPY: 0).
func (m Money) Round() Money {
	return Money{amount: m.amount.Round(scaleOf(m.currency)), currency: m.currency}
}

func (m Money) String() string {
	return m.currency.String() + " " + m.amount.StringFixed(scaleOf(m.currency))
}

// SameCurrency verifica que todos los montos compartan la moneda de m.
func (m Money) SameCurrency(others ...Money) error {
	for _, o := range others {
		if o.currency != m.currency {
			return fmt.Errorf("%w: %w: %s vs %s",
				domain.ErrInvalidInput, domain.ErrCurrencyMismatch, m.currency, o.currency)
		}
	}
	return nil
}

func scaleOf(cur currency.Unit) int32 {
	scale, _ := currency.Standard.Rounding(cur)
	return int32(scale)
}

type moneyJSON struct {
	Amount   decimal.Decimal `json:"amount"`
	Currency string          `json:"currency"`
}

// MarshalJSON serializa {"amount":"10.00","currency":"PHP"}.
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Amount   string `json:"amount"`
		Currency string `json:"currency"`
	}{
		Amount:   m.amount.StringFixed(scaleOf(m.currency)),
		Currency: m.currency.String(),
	})
}

// UnmarshalJSON acepta el monto como texto o número; la moneda es obligatoria.
func (m *Money) UnmarshalJSON(data []byte) error {
	var raw moneyJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: money: %v", domain.ErrInvalidInput, err)
	}
	cur, err := ParseCurrency(raw.Currency)
	if err != nil {
		return err
	}
	*m = New(raw.Amount, cur)
	return nil
}
