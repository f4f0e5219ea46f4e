package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/spf13/pflag"

	"github.com/jhoicas/product-engine/internal/application/report"
	"github.com/jhoicas/product-engine/internal/application/usecase"
	"github.com/jhoicas/product-engine/internal/domain/entity"
	infrapdf "github.com/jhoicas/product-engine/internal/infrastructure/pdf"
	infraxlsx "github.com/jhoicas/product-engine/internal/infrastructure/xlsx"
	"github.com/jhoicas/product-engine/pkg/clock"
	"github.com/jhoicas/product-engine/pkg/config"
	"github.com/jhoicas/product-engine/pkg/logger"
)

// Códigos de salida.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

var errUsage = errors.New("uso incorrecto")

// app dependencias compartidas por los subcomandos.
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	product *usecase.ProductUseCase
	reports *report.ReportUseCase
	stdin   io.Reader
	stdout  io.Writer
}

type command func(a *app, fs *pflag.FlagSet, args []string) error

var commands = map[string]command{
	"new":     cmdNew,
	"finance": cmdFinance,
	"resize":  cmdResize,
	"status":  cmdStatus,
	"cogs":    cmdCOGS,
	"export":  cmdExport,
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" {
		usage(stderr)
		return exitUsage
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "productctl: subcomando desconocido %q\n", args[0])
		usage(stderr)
		return exitUsage
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(stderr, "productctl: cargar configuración: %v\n", err)
		return exitError
	}
	log := logger.New(logger.Config{
		Env:    cfg.App.Env,
		Level:  cfg.Log.Level,
		Output: stderr,
	})

	clk := clock.System{}
	a := &app{
		cfg: cfg,
		log: log,
		product: usecase.NewProductUseCase(clk, log, usecase.ProductDefaults{
			Currency:   cfg.Product.DefaultCurrency,
			ResizeMode: cfg.Product.DefaultResizeMode,
		}),
		reports: report.NewReportUseCase(
			infrapdf.NewFinanceSheetGenerator(cfg.Report.Title, cfg.Report.Author, clk),
			infraxlsx.NewWorkbookExporter(),
			log,
		),
		stdin:  stdin,
		stdout: stdout,
	}

	fs := pflag.NewFlagSet(args[0], pflag.ContinueOnError)
	fs.SetOutput(stderr)
	if err := cmd(a, fs, args[1:]); err != nil {
		if errors.Is(err, errUsage) || errors.Is(err, pflag.ErrHelp) {
			if !errors.Is(err, pflag.ErrHelp) {
				fmt.Fprintf(stderr, "productctl %s: %v\n", args[0], err)
			}
			return exitUsage
		}
		log.Error().Err(err).Str("command", args[0]).Msg("comando fallido")
		return exitError
	}
	return exitOK
}

func usage(w io.Writer) {
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	fmt.Fprintln(w, "uso: productctl <subcomando> [flags]")
	fmt.Fprintln(w, "subcomandos:")
	for _, name := range names {
		fmt.Fprintf(w, "  %s\n", name)
	}
}

// parse interpreta los flags; cualquier error de flags es de uso.
func parse(fs *pflag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return err
		}
		return fmt.Errorf("%w: %v", errUsage, err)
	}
	return nil
}

// load lee el documento de --file ("-" = stdin).
func (a *app) load(path string) (*entity.Product, error) {
	if path == "" {
		return nil, fmt.Errorf("%w: --file requerido", errUsage)
	}
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(a.stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("leer %s: %w", path, err)
	}
	return a.product.Import(data)
}

// emitProduct escribe el documento de producto en stdout.
func (a *app) emitProduct(p *entity.Product) error {
	data, err := a.product.Export(p)
	if err != nil {
		return err
	}
	return a.write(data)
}

func (a *app) emit(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return a.write(data)
}

func (a *app) write(data []byte) error {
	if _, err := a.stdout.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("escribir salida: %w", err)
	}
	return nil
}

// decimalFlag implementa pflag.Value para montos y cantidades decimales.
type decimalFlag struct {
	value decimal.Decimal
	set   bool
}

func (f *decimalFlag) String() string {
	if !f.set {
		return ""
	}
	return f.value.String()
}

func (f *decimalFlag) Set(s string) error {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("decimal inválido %q", s)
	}
	f.value, f.set = d, true
	return nil
}

func (f *decimalFlag) Type() string { return "decimal" }

// ptr devuelve nil si el flag no se indicó.
func (f *decimalFlag) ptr() *decimal.Decimal {
	if !f.set {
		return nil
	}
	v := f.value
	return &v
}
