// Generates deterministic sample order files under testdata/orders.
// Run from the repo root: go run ./testdata/generate
package main

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"time"
)

type product struct {
	code        string
	description string
	unitPrice   float64
}

var catalogue = []product{
	{"194990", "LATEX BALLOON ASST 30CM", 4.99},
	{"231405", "FOIL BANNER HAPPY BIRTHDAY", 2.50},
	{"310244", "PAPER PLATES 23CM 8PK", 3.25},
	{"412009", "PARTY HATS CONE 6PK", 1.99},
	{"528871", "TABLECOVER PLASTIC 137X259", 2.75},
	{"603318", "NAPKINS 2PLY 33CM 16PK", 1.85},
	{"772450", "CANDLES SPIRAL 24PK", 1.20},
	{"881292", "GIFT BAG LARGE GLOSSY", 2.10},
}

var accounts = []struct {
	account  string
	name     string
	street   string
	locality string
	city     string
	postcode string
}{
	{"BRO001", "BROADWAY PARTY SUPPLIES", "12 BROADWAY PARADE", "", "LONDON", "N8 9DE"},
	{"HOG002", "WALTON SUMMIT TRADING", "UNIT 4 WALTON SUMMIT CENTRE", "BAMBER BRIDGE", "HOGHTON", "PR5 0RA"},
	{"CAR003", "CARDIFF CELEBRATIONS LTD", "88 QUEEN STREET", "", "CARDIFF", "CF10 2BX"},
	{"EDI004", "FESTIVE WAREHOUSE", "3 LEITH WALK", "", "EDINBURGH", "EH6 8LN"},
}

func main() {
	rng := rand.New(rand.NewSource(42))

	outDir := filepath.Join(findTestdataDir(), "orders")
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		log.Fatalf("create %s: %v", outDir, err)
	}

	base := time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC)

	for i := 1; i <= 4; i++ {
		var b strings.Builder
		orderCount := 1 + rng.Intn(3)
		for j := 0; j < orderCount; j++ {
			acct := accounts[rng.Intn(len(accounts))]
			orderDate := base.AddDate(0, 0, rng.Intn(14))
			dueDate := orderDate.AddDate(0, 0, 7+rng.Intn(21))
			orderID := fmt.Sprintf("SO%06d", 100000+rng.Intn(900000))

			lineCount := 1 + rng.Intn(4)
			lines := make([]string, 0, lineCount)
			var orderValue float64
			for k := 0; k < lineCount; k++ {
				p := catalogue[rng.Intn(len(catalogue))]
				qty := float64(1 + rng.Intn(48))
				lineValue := qty * p.unitPrice
				orderValue += lineValue
				lines = append(lines, detailLine(p, qty, lineValue, dueDate))
			}

			b.WriteString(headerLine(orderID, acct.account, acct.name, acct.street,
				acct.locality, acct.city, acct.postcode, orderValue, orderDate, dueDate))
			b.WriteString("\r\n")
			for _, l := range lines {
				b.WriteString(l)
				b.WriteString("\r\n")
			}
		}

		name := fmt.Sprintf("order_import_%s_%02d.txt", base.Format("20060102"), i)
		path := filepath.Join(outDir, name)
		if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
			log.Fatalf("write %s: %v", path, err)
		}
		log.Printf("wrote %s (%d orders)", path, orderCount)
	}

	// Admission-filter edge cases: an empty file and one that is not an
	// order export at all.
	empty := filepath.Join(outDir, "order_import_empty.txt")
	if err := os.WriteFile(empty, nil, 0o644); err != nil {
		log.Fatalf("write %s: %v", empty, err)
	}
	readme := filepath.Join(outDir, "readme_drop_folder.txt")
	if err := os.WriteFile(readme, []byte("Drop order exports in this folder.\r\n"), 0o644); err != nil {
		log.Fatalf("write %s: %v", readme, err)
	}
	log.Printf("wrote edge-case files")
}

// headerLine emits a 49-field soheader record. Fields the export leaves
// blank stay blank here too.
func headerLine(orderID, account, name, street, locality, city, postcode string,
	orderValue float64, orderDate, dueDate time.Time) string {

	f := make([]string, 49)
	f[0] = "soheader"
	f[1] = orderID
	f[2] = account
	f[3] = "REP01"
	f[4] = "0.00"
	f[5] = fmt.Sprintf("%.2f", orderValue)
	f[6] = dueDate.Format("20060102")
	f[7] = orderDate.Format("20060102")
	f[9] = "N"
	f[10] = name
	f[11] = street
	f[12] = locality
	f[13] = city + " " + postcode
	f[14] = "UNITED KINGDOM"
	f[17] = orderID
	f[23] = "SO"
	f[35] = orderDate.Format("20060102150405")
	return strings.Join(f, "~")
}

// detailLine emits a 23-field sodetail record.
func detailLine(p product, qty, lineValue float64, dueDate time.Time) string {
	f := make([]string, 23)
	f[0] = "sodetail"
	f[1] = p.code
	f[2] = p.description
	f[3] = fmt.Sprintf("%.0f", qty)
	f[4] = fmt.Sprintf("%.2f", lineValue)
	f[5] = "0.00"
	f[8] = fmt.Sprintf("%.2f", p.unitPrice)
	f[10] = dueDate.Format("20060102")
	f[13] = "EA"
	return strings.Join(f, "~")
}

func findTestdataDir() string {
	candidates := []string{
		"testdata",
		filepath.Join("..", "testdata"),
		filepath.Join("..", "..", "testdata"),
	}
	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && info.IsDir() {
			return c
		}
	}
	log.Fatal("could not locate testdata directory; run from the repo root")
	return ""
}
