// Command productctl edita documentos JSON de producto sin conexión: creación, finanzas,
// plan de abastecimiento, ciclo de vida y exportación a PDF / XLSX.
//
//	productctl new     --name N --category C --type Physical|Digital --srp 10 [--currency PHP] [--stock 5]
//	productctl finance --file p.json [--sold 3] [--returns 5] [--fees 1.5]
//	productctl resize  --file p.json --length 6 [--mode default|distribute] [--start 2024-01]
//	productctl status  --file p.json [--to Active] [--visibility Public] [--stock 0]
//	productctl cogs    --file p.json (--add ITEM --unit-cost 4 --qty 1 [--unit kg] | --remove ID)
//	productctl export  --file p.json [--pdf ficha.pdf] [--xlsx libro.xlsx]
//
// --file - lee de stdin. Los documentos resultantes se escriben en stdout; los logs en stderr.
package main

import (
	"os"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}
