// Package capacity modela el plan mensual de abastecimiento de un producto y su redimensionamiento.
package capacity

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/jhoicas/product-engine/internal/domain"
)

// MonthlyCapacity es una entrada del plan: unidades comprometidas para un mes.
type MonthlyCapacity struct {
	Month      YearMonth `json:"month"`
	Capacity   int64     `json:"capacity"`
	Adjustment *int64    `json:"adjustment,omitempty"`
}

// ResizeMode política de redimensionamiento del plan.
type ResizeMode string

const (
	// ResizeDefault recorta o rellena conservando los valores de cada mes.
	ResizeDefault ResizeMode = "default"
	// ResizeDistribute conserva el total y lo reparte de forma uniforme.
	ResizeDistribute ResizeMode = "distribute"
)

// Valid reporta si el modo es uno de los conocidos.
func (m ResizeMode) Valid() bool {
	switch m {
	case ResizeDefault, ResizeDistribute:
		return true
	default:
		return false
	}
}

// ParseResizeMode convierte texto (sin distinguir mayúsculas) en ResizeMode.
func ParseResizeMode(s string) (ResizeMode, error) {
	m := ResizeMode(strings.ToLower(strings.TrimSpace(s)))
	if !m.Valid() {
		return "", fmt.Errorf("%w: modo de redimensionamiento %q", domain.ErrInvalidInput, s)
	}
	return m, nil
}

func (m *ResizeMode) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: modo: %v", domain.ErrInvalidInput, err)
	}
	parsed, err := ParseResizeMode(s)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

// Validate exige meses estrictamente crecientes (sin duplicados) dentro de 0000-01..9999-12,
// capacidades no negativas y un total representable en int64.
func Validate(plan []MonthlyCapacity) error {
	var total int64
	for i, entry := range plan {
		if entry.Month.IsZero() {
			return fmt.Errorf("%w: plan[%d] sin mes", domain.ErrInvalidInput, i)
		}
		if !entry.Month.inRange() {
			return fmt.Errorf("%w: plan[%d] mes %s fuera de rango", domain.ErrInvalidInput, i, entry.Month)
		}
		if entry.Capacity < 0 {
			return fmt.Errorf("%w: plan[%d] capacidad negativa (%d)", domain.ErrInvalidInput, i, entry.Capacity)
		}
		if entry.Capacity > math.MaxInt64-total {
			return fmt.Errorf("%w: plan[%d] la capacidad total excede int64", domain.ErrInvalidInput, i)
		}
		total += entry.Capacity
		if i > 0 && !plan[i-1].Month.Before(entry.Month) {
			return fmt.Errorf("%w: plan[%d] mes %s no es posterior a %s",
				domain.ErrInvalidInput, i, entry.Month, plan[i-1].Month)
		}
	}
	return nil
}

// Total suma las capacidades del plan. Sólo es exacto para planes que pasan Validate.
func Total(plan []MonthlyCapacity) int64 {
	var total int64
	for _, entry := range plan {
		total += entry.Capacity
	}
	return total
}

// Generate crea n meses consecutivos desde start con la misma capacidad.
// No valida el resultado: meses posteriores a 9999-12 los rechaza Validate.
func Generate(start YearMonth, n int, capacity int64) []MonthlyCapacity {
	plan := make([]MonthlyCapacity, n)
	for i := range plan {
		plan[i] = MonthlyCapacity{Month: start.AddMonths(i), Capacity: capacity}
	}
	return plan
}

// Clone copia el plan, incluido el puntero de ajuste, para no compartir memoria con el original.
func Clone(plan []MonthlyCapacity) []MonthlyCapacity {
	if plan == nil {
		return nil
	}
	out := make([]MonthlyCapacity, len(plan))
	for i, entry := range plan {
		out[i] = entry
		if entry.Adjustment != nil {
			adj := *entry.Adjustment
			out[i].Adjustment = &adj
		}
	}
	return out
}
