package capacity

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jhoicas/product-engine/internal/domain"
)

const monthLayout = "2006-01"

// YearMonth es un mes calendario (formato YYYY-MM).
type YearMonth struct {
	Year  int
	Month time.Month
}

// NewYearMonth normaliza el mes (p. ej. mes 13 pasa al año siguiente).
func NewYearMonth(year int, month time.Month) YearMonth {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	return YearMonth{Year: t.Year(), Month: t.Month()}
}

// ParseYearMonth acepta exactamente "YYYY-MM".
func ParseYearMonth(s string) (YearMonth, error) {
	if len(s) != len(monthLayout) {
		return YearMonth{}, fmt.Errorf("%w: mes %q debe tener formato YYYY-MM", domain.ErrInvalidInput, s)
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return YearMonth{}, fmt.Errorf("%w: mes %q debe tener formato YYYY-MM", domain.ErrInvalidInput, s)
	}
	return YearMonth{Year: t.Year(), Month: t.Month()}, nil
}

// MustParseYearMonth para literales en tests y valores por defecto.
func MustParseYearMonth(s string) YearMonth {
	ym, err := ParseYearMonth(s)
	if err != nil {
		panic(err)
	}
	return ym
}

// YearMonthOf devuelve el mes calendario de t (en UTC).
func YearMonthOf(t time.Time) YearMonth {
	u := t.UTC()
	return YearMonth{Year: u.Year(), Month: u.Month()}
}

// AddMonths desplaza n meses (n puede ser negativo).
func (ym YearMonth) AddMonths(n int) YearMonth {
	return NewYearMonth(ym.Year, ym.Month+time.Month(n))
}

// Compare devuelve -1, 0 o 1.
func (ym YearMonth) Compare(o YearMonth) int {
	a, b := ym.index(), o.index()
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func (ym YearMonth) Before(o YearMonth) bool { return ym.Compare(o) < 0 }
func (ym YearMonth) IsZero() bool            { return ym.Year == 0 && ym.Month == 0 }

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d-%02d", ym.Year, int(ym.Month))
}

// inRange reporta si el mes se puede escribir como YYYY-MM (años 0000 a 9999).
func (ym YearMonth) inRange() bool {
	return ym.Year >= 0 && ym.Year <= 9999 && ym.Month >= time.January && ym.Month <= time.December
}

func (ym YearMonth) index() int { return ym.Year*12 + int(ym.Month) - 1 }

func (ym YearMonth) MarshalJSON() ([]byte, error) {
	return json.Marshal(ym.String())
}

func (ym *YearMonth) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: mes: %v", domain.ErrInvalidInput, err)
	}
	parsed, err := ParseYearMonth(s)
	if err != nil {
		return err
	}
	*ym = parsed
	return nil
}
