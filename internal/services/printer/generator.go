package printer

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
	"github.com/skip2/go-qrcode"
	"github.com/veldt-io/binstock/internal/location"
)

// SheetConfig holds layout configuration for a label sheet.
type SheetConfig struct {
	Cols       int     `json:"cols"`
	Rows       int     `json:"rows"`
	MarginTop  float64 `json:"marginTop"`
	MarginLeft float64 `json:"marginLeft"`
	GapX       float64 `json:"gapX"`
	GapY       float64 `json:"gapY"`
	// BaseURL is prefixed to QR payloads so a phone scan opens the bin.
	BaseURL string `json:"baseUrl"`
}

// DefaultSheetConfig lays one cabinet's 24 bins out on a single A4 page,
// matching the 6x4 bin grid.
func DefaultSheetConfig() SheetConfig {
	return SheetConfig{
		Cols:       location.MaxColumn,
		Rows:       location.MaxRow,
		MarginTop:  12,
		MarginLeft: 10,
		GapX:       4,
		GapY:       4,
	}
}

// GenerateBinLabelsPDF renders an A4 sheet with one QR label per bin of
// the given cabinet. The QR payload is the canonical single-string bin
// code; the caption is the codec's label, so the printed sheet matches
// what every screen shows.
func GenerateBinLabelsPDF(cabinet int, cfg SheetConfig) ([]byte, error) {
	if cabinet < location.MinCabinet || cabinet > location.MaxCabinet {
		return nil, fmt.Errorf("%w: cabinet %d", location.ErrOutOfRange, cabinet)
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetFont("Arial", "B", 10)

	pageWidth, pageHeight := 210.0, 297.0

	totalGapX := float64(cfg.Cols-1) * cfg.GapX
	totalGapY := float64(cfg.Rows-1) * cfg.GapY

	availW := pageWidth - (cfg.MarginLeft * 2)
	availH := pageHeight - (cfg.MarginTop * 2)

	labelW := (availW - totalGapX) / float64(cfg.Cols)
	labelH := (availH - totalGapY) / float64(cfg.Rows)

	labelsPerPage := cfg.Cols * cfg.Rows

	i := 0
	for row := location.MinRow; row <= location.MaxRow; row++ {
		for col := location.MinColumn; col <= location.MaxColumn; col++ {
			if i%labelsPerPage == 0 {
				pdf.AddPage()
			}

			indexOnPage := i % labelsPerPage
			gridCol := indexOnPage % cfg.Cols
			gridRow := indexOnPage / cfg.Cols

			x := cfg.MarginLeft + float64(gridCol)*(labelW+cfg.GapX)
			y := cfg.MarginTop + float64(gridRow)*(labelH+cfg.GapY)

			tuple, err := location.Encode(cabinet, row, col)
			if err != nil {
				return nil, err
			}
			coord := location.Coord{Cabinet: cabinet, Row: row, Column: col}

			qrContent := coord.Code()
			if cfg.BaseURL != "" {
				qrContent = cfg.BaseURL + "/" + qrContent
			}

			qrPng, err := qrcode.Encode(qrContent, qrcode.Medium, 256)
			if err != nil {
				return nil, err
			}

			imgName := fmt.Sprintf("qr_%d", i)
			imgOptions := gofpdf.ImageOptions{
				ImageType: "PNG",
				ReadDpi:   true,
			}
			_ = pdf.RegisterImageOptionsReader(imgName, imgOptions, bytes.NewReader(qrPng))

			// QR centered in the label, 70% of its height
			qrSize := labelH * 0.7
			if qrSize > labelW {
				qrSize = labelW * 0.9
			}

			qrX := x + (labelW-qrSize)/2
			qrY := y + (labelH-qrSize)/2 - 2

			pdf.ImageOptions(imgName, qrX, qrY, qrSize, qrSize, false, imgOptions, 0, "")

			pdf.SetXY(x, y+labelH-6)
			pdf.SetFontSize(7)
			pdf.CellFormat(labelW, 5, location.Label(tuple), "", 0, "C", false, 0, "")

			pdf.SetXY(x, y+1)
			pdf.SetFontSize(6)
			pdf.CellFormat(labelW, 3, coord.Code(), "", 0, "R", false, 0, "")

			i++
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// GenerateItemQR renders the QR PNG for one item id.
func GenerateItemQR(itemID, baseURL string) ([]byte, error) {
	content := itemID
	if baseURL != "" {
		content = baseURL + "/" + itemID
	}
	return qrcode.Encode(content, qrcode.Medium, 256)
}
