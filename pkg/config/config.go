package config

import (
	"strconv"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración de la aplicación (lectura vía Viper desde env y opcionalmente archivo).
type Config struct {
	App     AppConfig
	Log     LogConfig
	Product ProductConfig
	Report  ReportConfig
}

// AppConfig configuración general de la aplicación.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// LogConfig nivel del logger (trace, debug, info, warn, error).
type LogConfig struct {
	Level string
}

// ProductConfig valores por defecto del catálogo.
type ProductConfig struct {
	DefaultCurrency   string // ISO-4217, p. ej. PHP
	DefaultResizeMode string // default | distribute
	PlanHorizonMonths int    // meses del plan inicial sugerido
}

// ReportConfig metadatos de los reportes exportados (PDF / XLSX).
type ReportConfig struct {
	Author string
	Title  string
}

// Load lee la configuración desde variables de entorno (y opcionalmente desde archivo).
// Las env vars tienen prioridad. Nombres esperados: APP_ENV, LOG_LEVEL, PRODUCT_DEFAULT_CURRENCY, etc.
func Load() (*Config, error) {
	return LoadFrom(viper.New())
}

// LoadFrom permite inyectar una instancia de Viper (tests).
func LoadFrom(v *viper.Viper) (*Config, error) {
	// Opcional: archivo de configuración (.env o config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // ignoramos error si no existe

	v.SetConfigName("config")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "product-engine"),
		},
		Log: LogConfig{
			Level: getString(v, "LOG_LEVEL", "info"),
		},
		Product: ProductConfig{
			DefaultCurrency:   strings.ToUpper(getString(v, "PRODUCT_DEFAULT_CURRENCY", "PHP")),
			DefaultResizeMode: strings.ToLower(getString(v, "PRODUCT_RESIZE_MODE", "default")),
			PlanHorizonMonths: getInt(v, "PRODUCT_PLAN_HORIZON_MONTHS", 12),
		},
		Report: ReportConfig{
			Author: getString(v, "REPORT_AUTHOR", "product-engine"),
			Title:  getString(v, "REPORT_TITLE", "Ficha financiera de producto"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		return v.GetString(key)
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		switch v.Get(key).(type) {
		case int:
			return v.GetInt(key)
		case string:
			n, err := strconv.Atoi(v.GetString(key))
			if err != nil {
				return def
			}
			return n
		default:
			return v.GetInt(key)
		}
	}
	return def
}
