package capacity

import (
	"fmt"

	"github.com/jhoicas/product-engine/internal/domain"
)

// Resize devuelve un plan nuevo de targetLength meses según el modo. plan no se modifica.
//
//	DEFAULT:    recorta la cola o rellena repitiendo la capacidad del último mes.
//	DISTRIBUTE: reparte el total en partes iguales; el residuo va a los primeros meses.
//
// startMonth sólo se usa en DISTRIBUTE (inicio de la serie) o cuando el plan está vacío.
// Si targetLength coincide con la longitud del plan y no se pide otro mes de inicio, el resultado es una copia.
func Resize(plan []MonthlyCapacity, targetLength int, mode ResizeMode, startMonth *YearMonth) ([]MonthlyCapacity, error) {
	if targetLength < 0 {
		return nil, fmt.Errorf("%w: longitud objetivo negativa (%d)", domain.ErrInvalidInput, targetLength)
	}
	if err := Validate(plan); err != nil {
		return nil, err
	}
	if startMonth != nil && startMonth.IsZero() {
		return nil, fmt.Errorf("%w: mes de inicio vacío", domain.ErrInvalidInput)
	}

	var (
		out []MonthlyCapacity
		err error
	)
	switch mode {
	case ResizeDefault:
		if targetLength == len(plan) {
			return Clone(plan), nil
		}
		out, err = resizeDefault(plan, targetLength, startMonth)
	case ResizeDistribute:
		if targetLength == len(plan) && (startMonth == nil || (len(plan) > 0 && *startMonth == plan[0].Month)) {
			return Clone(plan), nil
		}
		out, err = resizeDistribute(plan, targetLength, startMonth)
	default:
		return nil, fmt.Errorf("%w: modo de redimensionamiento %q", domain.ErrInvalidInput, mode)
	}
	if err != nil {
		return nil, err
	}
	// Relleno más allá de 9999-12 o un total que ya no cabe en int64.
	if err := Validate(out); err != nil {
		return nil, fmt.Errorf("plan redimensionado: %w", err)
	}
	return out, nil
}

func resizeDefault(plan []MonthlyCapacity, targetLength int, startMonth *YearMonth) ([]MonthlyCapacity, error) {
	if targetLength <= len(plan) {
		return Clone(plan[:targetLength]), nil
	}

	out := make([]MonthlyCapacity, 0, targetLength)
	out = append(out, Clone(plan)...)

	var next YearMonth
	var carry int64
	if len(plan) == 0 {
		if startMonth == nil {
			return nil, fmt.Errorf("%w: plan vacío requiere mes de inicio", domain.ErrInvalidInput)
		}
		next = *startMonth
	} else {
		last := plan[len(plan)-1]
		next = last.Month.AddMonths(1)
		carry = last.Capacity
	}

	for len(out) < targetLength {
		out = append(out, MonthlyCapacity{Month: next, Capacity: carry})
		next = next.AddMonths(1)
	}
	return out, nil
}

func resizeDistribute(plan []MonthlyCapacity, targetLength int, startMonth *YearMonth) ([]MonthlyCapacity, error) {
	var start YearMonth
	switch {
	case startMonth != nil:
		start = *startMonth
	case len(plan) > 0:
		start = plan[0].Month
	default:
		return nil, fmt.Errorf("%w: plan vacío requiere mes de inicio", domain.ErrInvalidInput)
	}
	if targetLength == 0 {
		return []MonthlyCapacity{}, nil
	}

	total := Total(plan)
	n := int64(targetLength)
	base, remainder := total/n, total%n

	out := Generate(start, targetLength, base)
	for i := int64(0); i < remainder; i++ {
		out[i].Capacity++
	}
	return out, nil
}
