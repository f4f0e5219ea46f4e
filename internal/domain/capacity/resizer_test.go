package capacity_test

import (
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-engine/internal/domain"
	"github.com/jhoicas/product-engine/internal/domain/capacity"
)

// ── helpers ───────────────────────────────────────────────────────────────────

func ym(s string) capacity.YearMonth { return capacity.MustParseYearMonth(s) }

func ymPtr(s string) *capacity.YearMonth {
	v := ym(s)
	return &v
}

func entry(month string, units int64) capacity.MonthlyCapacity {
	return capacity.MonthlyCapacity{Month: ym(month), Capacity: units}
}

func basePlan() []capacity.MonthlyCapacity {
	return []capacity.MonthlyCapacity{entry("2024-01", 100), entry("2024-02", 120)}
}

func capacities(plan []capacity.MonthlyCapacity) []int64 {
	out := make([]int64, len(plan))
	for i, e := range plan {
		out[i] = e.Capacity
	}
	return out
}

func months(plan []capacity.MonthlyCapacity) []string {
	out := make([]string, len(plan))
	for i, e := range plan {
		out[i] = e.Month.String()
	}
	return out
}

// ── DEFAULT ───────────────────────────────────────────────────────────────────

func TestResize_DefaultRellenaConUltimaCapacidad(t *testing.T) {
	out, err := capacity.Resize(basePlan(), 4, capacity.ResizeDefault, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03", "2024-04"}, months(out))
	assert.Equal(t, []int64{100, 120, 120, 120}, capacities(out))
}

func TestResize_DefaultRecortaLaCola(t *testing.T) {
	out, err := capacity.Resize(basePlan(), 1, capacity.ResizeDefault, nil)
	require.NoError(t, err)
	assert.Equal(t, []capacity.MonthlyCapacity{entry("2024-01", 100)}, out)
}

func TestResize_DefaultConservaAjustes(t *testing.T) {
	adj := int64(-5)
	plan := basePlan()
	plan[1].Adjustment = &adj

	out, err := capacity.Resize(plan, 3, capacity.ResizeDefault, nil)
	require.NoError(t, err)

	require.NotNil(t, out[1].Adjustment)
	assert.Equal(t, int64(-5), *out[1].Adjustment)
	assert.Nil(t, out[2].Adjustment, "los meses nuevos no heredan el ajuste")

	*out[1].Adjustment = 99
	assert.Equal(t, int64(-5), *plan[1].Adjustment, "el plan original no debe compartir memoria")
}

func TestResize_DefaultCruzaElAnio(t *testing.T) {
	plan := []capacity.MonthlyCapacity{entry("2024-11", 10)}
	out, err := capacity.Resize(plan, 4, capacity.ResizeDefault, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-11", "2024-12", "2025-01", "2025-02"}, months(out))
}

func TestResize_DefaultPlanVacioRequiereInicio(t *testing.T) {
	_, err := capacity.Resize(nil, 2, capacity.ResizeDefault, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	out, err := capacity.Resize(nil, 2, capacity.ResizeDefault, ymPtr("2025-06"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2025-06", "2025-07"}, months(out))
	assert.Equal(t, []int64{0, 0}, capacities(out))
}

// ── DISTRIBUTE ────────────────────────────────────────────────────────────────

func TestResize_DistributeConservaElTotal(t *testing.T) {
	out, err := capacity.Resize(basePlan(), 3, capacity.ResizeDistribute, nil)
	require.NoError(t, err)

	assert.Equal(t, []int64{74, 73, 73}, capacities(out))
	assert.Equal(t, []string{"2024-01", "2024-02", "2024-03"}, months(out))
}

func TestResize_DistributeTotalInvarianteParaVariasLongitudes(t *testing.T) {
	plan := []capacity.MonthlyCapacity{
		entry("2023-10", 7), entry("2023-11", 0), entry("2024-01", 311), entry("2024-05", 2),
	}
	want := capacity.Total(plan)

	for n := 1; n <= 13; n++ {
		out, err := capacity.Resize(plan, n, capacity.ResizeDistribute, nil)
		require.NoError(t, err)
		require.Len(t, out, n)
		assert.Equal(t, want, capacity.Total(out), "n=%d", n)
		assert.NoError(t, capacity.Validate(out), "n=%d", n)

		if n == len(plan) {
			continue // misma longitud: no-op
		}
		// reparto uniforme con sesgo a la izquierda
		for i := 1; i < len(out); i++ {
			assert.LessOrEqual(t, out[i].Capacity, out[i-1].Capacity)
			assert.LessOrEqual(t, out[0].Capacity-out[i].Capacity, int64(1))
		}
	}
}

func TestResize_DistributeConMesDeInicio(t *testing.T) {
	out, err := capacity.Resize(basePlan(), 2, capacity.ResizeDistribute, ymPtr("2024-06"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-06", "2024-07"}, months(out))
	assert.Equal(t, []int64{110, 110}, capacities(out))
}

func TestResize_DistributeLongitudCeroDevuelveVacio(t *testing.T) {
	out, err := capacity.Resize(basePlan(), 0, capacity.ResizeDistribute, nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestResize_DistributePlanVacio(t *testing.T) {
	_, err := capacity.Resize(nil, 3, capacity.ResizeDistribute, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput, "plan vacío sin mes de inicio debe fallar")

	out, err := capacity.Resize([]capacity.MonthlyCapacity{}, 3, capacity.ResizeDistribute, ymPtr("2024-12"))
	require.NoError(t, err)
	assert.Equal(t, []string{"2024-12", "2025-01", "2025-02"}, months(out))
	assert.Equal(t, []int64{0, 0, 0}, capacities(out))
}

// ── no-op e invariantes ───────────────────────────────────────────────────────

func TestResize_MismaLongitudEsNoOp(t *testing.T) {
	for _, mode := range []capacity.ResizeMode{capacity.ResizeDefault, capacity.ResizeDistribute} {
		plan := basePlan()
		out, err := capacity.Resize(plan, len(plan), mode, nil)
		require.NoError(t, err)
		assert.Equal(t, plan, out, "modo %s", mode)
	}
}

func TestResize_NoModificaLaEntrada(t *testing.T) {
	plan := basePlan()
	snapshot := capacity.Clone(plan)

	_, err := capacity.Resize(plan, 5, capacity.ResizeDistribute, nil)
	require.NoError(t, err)
	_, err = capacity.Resize(plan, 1, capacity.ResizeDefault, nil)
	require.NoError(t, err)

	assert.Equal(t, snapshot, plan)
}

// ── errores de validación ─────────────────────────────────────────────────────

func TestResize_ErrorSiLongitudNegativa(t *testing.T) {
	_, err := capacity.Resize(basePlan(), -1, capacity.ResizeDefault, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResize_ErrorSiMesesDesordenadosODuplicados(t *testing.T) {
	desordenado := []capacity.MonthlyCapacity{entry("2024-03", 1), entry("2024-02", 1)}
	duplicado := []capacity.MonthlyCapacity{entry("2024-03", 1), entry("2024-03", 1)}

	for _, plan := range [][]capacity.MonthlyCapacity{desordenado, duplicado} {
		_, err := capacity.Resize(plan, 3, capacity.ResizeDistribute, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	}
}

func TestResize_ErrorSiModoDesconocido(t *testing.T) {
	_, err := capacity.Resize(basePlan(), 3, capacity.ResizeMode("weekly"), nil)
	assert.True(t, errors.Is(err, domain.ErrInvalidInput))
}

func TestResize_ErrorSiElTotalDesbordaInt64(t *testing.T) {
	desborde := []capacity.MonthlyCapacity{entry("2024-01", math.MaxInt64), entry("2024-02", 1)}

	_, err := capacity.Resize(desborde, 3, capacity.ResizeDistribute, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.ErrorIs(t, capacity.Validate(desborde), domain.ErrInvalidInput)

	// El relleno repetiría MaxInt64 y el total dejaría de ser representable.
	_, err = capacity.Resize([]capacity.MonthlyCapacity{entry("2024-01", math.MaxInt64)}, 2, capacity.ResizeDefault, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestResize_DistributeConTotalMaximo(t *testing.T) {
	plan := []capacity.MonthlyCapacity{entry("2024-01", math.MaxInt64)}

	got, err := capacity.Resize(plan, 3, capacity.ResizeDistribute, nil)

	require.NoError(t, err)
	assert.Equal(t, int64(math.MaxInt64), capacity.Total(got))
	for _, e := range got {
		assert.GreaterOrEqual(t, e.Capacity, int64(0))
	}
}

func TestResize_ErrorSiElPlanPasaDe9999(t *testing.T) {
	_, err := capacity.Resize([]capacity.MonthlyCapacity{entry("9999-11", 5)}, 3, capacity.ResizeDefault, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = capacity.Resize(nil, 2, capacity.ResizeDistribute, ymPtr("9999-12"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.ErrorIs(t, capacity.Validate(capacity.Generate(ym("9999-12"), 2, 0)), domain.ErrInvalidInput)

	got, err := capacity.Resize([]capacity.MonthlyCapacity{entry("9999-11", 5)}, 2, capacity.ResizeDefault, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"9999-11", "9999-12"}, months(got))
}

// ── YearMonth ─────────────────────────────────────────────────────────────────

func TestYearMonth_ParseYFormato(t *testing.T) {
	m, err := capacity.ParseYearMonth("2024-02")
	require.NoError(t, err)
	assert.Equal(t, capacity.YearMonth{Year: 2024, Month: time.February}, m)
	assert.Equal(t, "2023-12", m.AddMonths(-2).String())

	for _, bad := range []string{"2024-2", "2024/02", "2024-13", "", "24-02"} {
		_, err := capacity.ParseYearMonth(bad)
		assert.ErrorIs(t, err, domain.ErrInvalidInput, "entrada %q", bad)
	}
}

func TestMonthlyCapacity_JSON(t *testing.T) {
	var got []capacity.MonthlyCapacity
	err := json.Unmarshal([]byte(`[{"month":"2024-01","capacity":100,"adjustment":3}]`), &got)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, ym("2024-01"), got[0].Month)
	require.NotNil(t, got[0].Adjustment)
	assert.Equal(t, int64(3), *got[0].Adjustment)

	raw, err := json.Marshal(entry("2024-07", 5))
	require.NoError(t, err)
	assert.JSONEq(t, `{"month":"2024-07","capacity":5}`, string(raw))
}

func TestParseResizeMode(t *testing.T) {
	m, err := capacity.ParseResizeMode("DISTRIBUTE")
	require.NoError(t, err)
	assert.Equal(t, capacity.ResizeDistribute, m)

	_, err = capacity.ParseResizeMode("spread")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
