package config_test

import (
	"os"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/product-engine/pkg/config"
)

func TestLoad_ValoresPorDefecto(t *testing.T) {
	chdir(t, t.TempDir()) // sin .env en el directorio de trabajo

	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "PHP", cfg.Product.DefaultCurrency)
	assert.Equal(t, "default", cfg.Product.DefaultResizeMode)
	assert.Equal(t, 12, cfg.Product.PlanHorizonMonths)
}

func TestLoad_VariablesDeEntornoTienenPrioridad(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("PRODUCT_DEFAULT_CURRENCY", "usd")
	t.Setenv("PRODUCT_RESIZE_MODE", "DISTRIBUTE")
	t.Setenv("PRODUCT_PLAN_HORIZON_MONTHS", "6")

	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.App.Env)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "USD", cfg.Product.DefaultCurrency)
	assert.Equal(t, "distribute", cfg.Product.DefaultResizeMode)
	assert.Equal(t, 6, cfg.Product.PlanHorizonMonths)
}

func TestLoad_HorizonteInvalidoUsaDefecto(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PRODUCT_PLAN_HORIZON_MONTHS", "doce")

	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)
	assert.Equal(t, 12, cfg.Product.PlanHorizonMonths)
}

// chdir changes the working directory for the duration of the test,
// like testing.T.Chdir (Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}
