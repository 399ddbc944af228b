// internal/adapters/out/invoice/pdf_renderer.go
package invoice

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	orderdom "storefront/internal/domain/order"
)

// PDFRenderer renders an order as a one-page A4 invoice.
type PDFRenderer struct {
	ShopName    string
	ShopContact string
}

func NewPDFRenderer(shopName, shopContact string) *PDFRenderer {
	if strings.TrimSpace(shopName) == "" {
		shopName = "Storefront"
	}
	return &PDFRenderer{ShopName: strings.TrimSpace(shopName), ShopContact: strings.TrimSpace(shopContact)}
}

const (
	colName  = 100.0
	colQty   = 20.0
	colPrice = 30.0
	colTotal = 30.0
	rowH     = 7.0
)

// Render implements usecase.InvoiceRenderer.
func (r *PDFRenderer) Render(o orderdom.Order) ([]byte, error) {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Invoice "+o.Number, true)
	pdf.SetAuthor(r.ShopName, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	cur := o.Totals.Currency

	pdf.AddPage()

	// header
	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 10, tr(r.ShopName), "", 1, "L", false, 0, "")
	if r.ShopContact != "" {
		pdf.SetFont("Helvetica", "", 9)
		pdf.CellFormat(0, 5, tr(r.ShopContact), "", 1, "L", false, 0, "")
	}
	pdf.Ln(4)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.CellFormat(0, 8, tr("Invoice "+o.Number), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, 5, "Date: "+o.CreatedAt.Format("2006-01-02 15:04 MST"), "", 1, "L", false, 0, "")
	pdf.Ln(3)

	// customer
	c := o.Customer
	pdf.SetFont("Helvetica", "B", 10)
	pdf.CellFormat(0, 6, "Bill to", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	for _, line := range []string{c.Name, c.Phone, c.Email, joinNonEmpty(", ", c.Address, c.City)} {
		if strings.TrimSpace(line) != "" {
			pdf.CellFormat(0, 5, tr(line), "", 1, "L", false, 0, "")
		}
	}
	pdf.Ln(5)

	// lines
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(240, 240, 240)
	pdf.CellFormat(colName, rowH, "Product", "1", 0, "L", true, 0, "")
	pdf.CellFormat(colQty, rowH, "Qty", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colPrice, rowH, "Price", "1", 0, "R", true, 0, "")
	pdf.CellFormat(colTotal, rowH, "Total", "1", 1, "R", true, 0, "")

	pdf.SetFont("Helvetica", "", 10)
	for _, li := range o.Lines {
		price := decimal.NewFromFloat(li.Product.Price)
		line := price.Mul(decimal.NewFromInt(int64(li.Quantity)))

		name := li.Product.Name
		if li.Product.Size != "" {
			name += " (" + li.Product.Size + ")"
		}
		pdf.CellFormat(colName, rowH, tr(truncate(name, 55)), "1", 0, "L", false, 0, "")
		pdf.CellFormat(colQty, rowH, fmt.Sprintf("%d", li.Quantity), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colPrice, rowH, price.StringFixed(2), "1", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, rowH, line.StringFixed(2), "1", 1, "R", false, 0, "")
	}

	// totals
	label := colName + colQty + colPrice
	shipping := o.Totals.Shipping.StringFixed(2)
	if o.Totals.FreeShipping {
		shipping = "free"
	}
	for _, row := range [][2]string{
		{"Subtotal", o.Totals.Subtotal.StringFixed(2)},
		{"Shipping", shipping},
		{"Total " + cur, o.Totals.Total.StringFixed(2)},
	} {
		style := ""
		if strings.HasPrefix(row[0], "Total") {
			style = "B"
		}
		pdf.SetFont("Helvetica", style, 10)
		pdf.CellFormat(label, rowH, row[0], "", 0, "R", false, 0, "")
		pdf.CellFormat(colTotal, rowH, row[1], "1", 1, "R", false, 0, "")
	}

	if strings.TrimSpace(c.Notes) != "" {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "I", 9)
		pdf.MultiCell(0, 5, tr("Notes: "+c.Notes), "", "L", false)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("invoice: render %s: %w", o.Number, err)
	}
	return buf.Bytes(), nil
}

func joinNonEmpty(sep string, parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, sep)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
