//go:build ignore

// verify_report checks an exported workbook for operations whose id, name or
// definition cell is empty or flagged as unusual.
//
//	go run scripts/verify_report.go output/apk-recon-report.xlsx
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

func main() {
	filename := "output/apk-recon-report.xlsx"
	if len(os.Args) > 1 {
		filename = os.Args[1]
	}

	f, err := excelize.OpenFile(filename)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sheetName := "Operations"
	rows, err := f.GetRows(sheetName)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Printf("=== REPORT CHECK: %s ===\n", filename)
	fmt.Printf("Operations: %d\n\n", len(rows)-1)

	problems := 0
	seen := make(map[string]int)
	for i, row := range rows {
		if i == 0 {
			continue // header
		}
		cell := func(col int) string {
			if col < len(row) {
				return strings.TrimSpace(row[col])
			}
			return ""
		}

		id, name, def, note := cell(1), cell(2), cell(4), cell(5)
		for col, v := range map[string]string{"ID": id, "Name": name, "Definition": def} {
			if v == "" {
				fmt.Printf("❌ row %d: empty %s\n", i+1, col)
				problems++
			}
		}
		if note != "" {
			fmt.Printf("⚠️  row %d: %s (%s)\n", i+1, name, note)
		}
		if prev, ok := seen[id]; ok && id != "" {
			fmt.Printf("⚠️  row %d: id %s repeats row %d\n", i+1, id, prev)
		}
		seen[id] = i + 1
	}

	fmt.Println()
	if problems == 0 {
		fmt.Println("✅ Every operation has an id, a name and a definition")
		return
	}
	fmt.Printf("❌ %d empty cells found\n", problems)
	os.Exit(1)
}
