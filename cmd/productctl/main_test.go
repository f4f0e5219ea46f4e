package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type result struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, stdin string, args ...string) result {
	t.Helper()
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "error")
	t.Setenv("PRODUCT_DEFAULT_CURRENCY", "PHP")
	t.Setenv("PRODUCT_PLAN_HORIZON_MONTHS", "0")
	var out, errOut bytes.Buffer
	code := run(args, strings.NewReader(stdin), &out, &errOut)
	return result{code: code, stdout: out.String(), stderr: errOut.String()}
}

// newDoc crea un producto físico con stock 5, SRP 10 y una línea de costo de 4.
func newDoc(t *testing.T) string {
	t.Helper()
	r := runCLI(t, "", "new", "--name", "Café Molido", "--category", "Bebidas", "--srp", "10", "--stock", "5")
	require.Equal(t, exitOK, r.code, r.stderr)
	r = runCLI(t, r.stdout, "cogs", "--file", "-", "--add", "Granos", "--id", "beans", "--unit-cost", "4", "--qty", "1")
	require.Equal(t, exitOK, r.code, r.stderr)
	return r.stdout
}

func decode(t *testing.T, s string) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(s), &m))
	return m
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests
// ──────────────────────────────────────────────────────────────────────────────

func TestRun_Uso(t *testing.T) {
	assert.Equal(t, exitUsage, runCLI(t, "").code)
	r := runCLI(t, "", "publish")
	assert.Equal(t, exitUsage, r.code)
	assert.Contains(t, r.stderr, "subcomando desconocido")
	assert.Equal(t, exitUsage, runCLI(t, "", "new", "--name", "x").code, "falta --srp")
	assert.Equal(t, exitUsage, runCLI(t, "", "new", "--srp", "abc").code)
	assert.Equal(t, exitUsage, runCLI(t, "", "finance").code, "falta --file")
}

func TestRun_New(t *testing.T) {
	r := runCLI(t, "", "new", "--name", "Café Molido", "--category", "Bebidas", "--srp", "10", "--plan-months", "2", "--plan-start", "2024-01")
	require.Equal(t, exitOK, r.code, r.stderr)

	doc := decode(t, r.stdout)
	assert.Equal(t, "MajikProduct", doc["__type"])
	assert.Equal(t, "cafe-molido", doc["slug"])
	assert.Equal(t, "Draft", doc["status"])
	meta := doc["metadata"].(map[string]any)
	assert.Len(t, meta["supplyPlan"], 2)
}

func TestRun_Finance(t *testing.T) {
	doc := newDoc(t)

	r := runCLI(t, doc, "finance", "--file", "-")
	require.Equal(t, exitOK, r.code, r.stderr)
	resp := decode(t, r.stdout)
	assert.Equal(t, true, resp["cached"])
	assert.Equal(t, "5", resp["quantity_sold"])

	r = runCLI(t, doc, "finance", "--file", "-", "--sold", "3", "--returns", "5")
	require.Equal(t, exitOK, r.code, r.stderr)
	resp = decode(t, r.stdout)
	assert.Equal(t, false, resp["cached"])
	profit := resp["finance"].(map[string]any)["profit"].(map[string]any)
	net := profit["net"].(map[string]any)["value"].(map[string]any)
	assert.Equal(t, "21.00", net["amount"])
}

func TestRun_Resize(t *testing.T) {
	doc := newDoc(t)

	r := runCLI(t, doc, "resize", "--file", "-", "--length", "3", "--start", "2024-01")
	require.Equal(t, exitOK, r.code, r.stderr)
	plan := decode(t, r.stdout)["metadata"].(map[string]any)["supplyPlan"].([]any)
	assert.Len(t, plan, 3)

	r = runCLI(t, doc, "resize", "--file", "-", "--length", "3", "--mode", "stretch")
	assert.Equal(t, exitError, r.code)
	assert.Equal(t, exitUsage, runCLI(t, doc, "resize", "--file", "-").code, "falta --length")
}

func TestRun_Status(t *testing.T) {
	doc := newDoc(t)

	r := runCLI(t, doc, "status", "--file", "-", "--to", "Active", "--visibility", "Public")
	require.Equal(t, exitOK, r.code, r.stderr)
	active := decode(t, r.stdout)
	assert.Equal(t, "Active", active["status"])

	r = runCLI(t, r.stdout, "status", "--file", "-", "--stock", "0")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Equal(t, "Out Of Stock", decode(t, r.stdout)["status"])

	r = runCLI(t, doc, "status", "--file", "-", "--to", "Out Of Stock")
	assert.Equal(t, exitError, r.code, "un borrador no puede agotarse")

	assert.Equal(t, exitUsage, runCLI(t, doc, "status", "--file", "-").code)
}

func TestRun_COGS(t *testing.T) {
	doc := newDoc(t)

	r := runCLI(t, doc, "cogs", "--file", "-", "--update", "beans", "--unit-cost", "6")
	require.Equal(t, exitOK, r.code, r.stderr)
	cogs := decode(t, r.stdout)["metadata"].(map[string]any)["cogs"].([]any)
	require.Len(t, cogs, 1)
	assert.Equal(t, "6.00", cogs[0].(map[string]any)["subtotal"].(map[string]any)["amount"])

	r = runCLI(t, doc, "cogs", "--file", "-", "--remove", "beans")
	require.Equal(t, exitOK, r.code, r.stderr)
	assert.Empty(t, decode(t, r.stdout)["metadata"].(map[string]any)["cogs"])

	assert.Equal(t, exitError, runCLI(t, doc, "cogs", "--file", "-", "--remove", "nope").code)
	assert.Equal(t, exitUsage, runCLI(t, doc, "cogs", "--file", "-", "--add", "x", "--remove", "beans").code)
}

func TestRun_Export(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "producto.json")
	require.NoError(t, os.WriteFile(path, []byte(newDoc(t)), 0o644))

	pdfPath := filepath.Join(dir, "ficha.pdf")
	r := runCLI(t, "", "export", "--file", path, "--pdf", pdfPath, "--xlsx", dir)
	require.Equal(t, exitOK, r.code, r.stderr)

	pdf, err := os.ReadFile(pdfPath)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(pdf, []byte("%PDF")))
	_, err = os.Stat(filepath.Join(dir, "producto_cafe-molido.xlsx"))
	assert.NoError(t, err, "con un directorio se usa el nombre sugerido")

	assert.Equal(t, exitUsage, runCLI(t, "", "export", "--file", path).code)
	assert.Equal(t, exitError, runCLI(t, "", "export", "--file", filepath.Join(dir, "no-existe.json"), "--pdf", pdfPath).code)
}
