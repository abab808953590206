package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/signintech/gopdf"
	"github.com/xuri/excelize/v2"

	"summitreg/internal/db"
	"summitreg/internal/models"
)

var exportHeaders = []string{
	"ID", "Title", "First Name", "Second Name", "Email", "Phone",
	"Organization", "Job Title", "Category", "Interests",
	"National ID", "Printed", "Registered At",
}

func exportRows() ([][]string, error) {
	var regs []models.Registrant
	if err := db.DB.Order("id asc").Find(&regs).Error; err != nil {
		return nil, err
	}

	var cats []models.Category
	if err := db.DB.Find(&cats).Error; err != nil {
		return nil, err
	}
	catNames := make(map[uint]string, len(cats))
	for _, c := range cats {
		catNames[c.ID] = c.Name
	}

	rows := make([][]string, 0, len(regs))
	for _, r := range regs {
		printed := "no"
		if r.IsPrinted {
			printed = "yes"
		}
		rows = append(rows, []string{
			fmt.Sprint(r.ID), r.Title, r.FirstName, r.SecondName, r.Email, r.Phone,
			r.DisplayOrgType(), r.JobTitle, catNames[r.CategoryID], r.DisplayInterests(),
			r.NationalIDNumber, printed, r.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows, nil
}

func exportFilename(ext string) string {
	return fmt.Sprintf("registrants_%s.%s", time.Now().Format("2006-01-02"), ext)
}

// ExportCSV streams every registrant as a CSV download.
func ExportCSV(w http.ResponseWriter, r *http.Request) {
	rows, err := exportRows()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename("csv")+`"`)

	cw := csv.NewWriter(w)
	_ = cw.Write(exportHeaders)
	for _, row := range rows {
		_ = cw.Write(row)
	}
	cw.Flush()
}

// ExportXLSX serves the registrant list as an Excel workbook.
func ExportXLSX(w http.ResponseWriter, r *http.Request) {
	rows, err := exportRows()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	f := excelize.NewFile()
	defer f.Close()
	const sheet = "Registrants"
	f.SetSheetName("Sheet1", sheet)

	for col, h := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		f.SetCellValue(sheet, cell, h)
	}
	for i, row := range rows {
		for col, v := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			f.SetCellValue(sheet, cell, v)
		}
	}

	w.Header().Set("Content-Type",
		"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename("xlsx")+`"`)
	if err := f.Write(w); err != nil {
		Log.Error("write xlsx export", "error", err)
	}
}

// ExportPDF serves a printable registrant list.
func ExportPDF(w http.ResponseWriter, r *http.Request) {
	rows, err := exportRows()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "database error")
		return
	}

	data, err := registrantListPDF(rows)
	if err != nil {
		Log.Error("build pdf export", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to build PDF")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+exportFilename("pdf")+`"`)
	_, _ = w.Write(data)
}

// registrantListPDF lays out a landscape A4 table with the columns that fit
// on paper.
func registrantListPDF(rows [][]string) ([]byte, error) {
	pageW, pageH := gopdf.PageSizeA4.H, gopdf.PageSizeA4.W // landscape

	pdf := gopdf.GoPdf{}
	pdf.Start(gopdf.Config{PageSize: gopdf.Rect{W: pageW, H: pageH}})
	if err := pdf.AddTTFFont("sans", Renderer.Assets.FontRegular()); err != nil {
		return nil, err
	}
	if err := pdf.AddTTFFont("sans-bold", Renderer.Assets.FontBold()); err != nil {
		return nil, err
	}

	cols := []struct {
		header string
		idx    int
		width  float64
	}{
		{"ID", 0, 35},
		{"Name", -1, 160}, // joined title + names
		{"Email", 4, 170},
		{"Organization", 6, 150},
		{"Job Title", 7, 130},
		{"Category", 8, 90},
		{"Printed", 11, 50},
	}

	const margin = 36.0
	const rowH = 16.0
	y := margin

	writeHeader := func() error {
		pdf.AddPage()
		y = margin
		if err := pdf.SetFont("sans-bold", "", 9); err != nil {
			return err
		}
		x := margin
		for _, c := range cols {
			pdf.SetXY(x, y)
			_ = pdf.Cell(nil, c.header)
			x += c.width
		}
		y += rowH
		pdf.SetLineWidth(0.5)
		pdf.Line(margin, y-4, pageW-margin, y-4)
		return pdf.SetFont("sans", "", 8)
	}
	if err := writeHeader(); err != nil {
		return nil, err
	}

	for _, row := range rows {
		if y > pageH-margin {
			if err := writeHeader(); err != nil {
				return nil, err
			}
		}
		x := margin
		for _, c := range cols {
			v := ""
			if c.idx >= 0 {
				v = row[c.idx]
			} else {
				v = fmt.Sprintf("%s %s %s", row[1], row[2], row[3])
			}
			v = clipCell(v, 40)
			pdf.SetXY(x, y)
			_ = pdf.Cell(nil, v)
			x += c.width
		}
		y += rowH
	}

	data, err := pdf.GetBytesPdfReturnErr()
	if err != nil {
		return nil, fmt.Errorf("assemble pdf: %w", err)
	}
	return data, nil
}

// clipCell limits a table cell to n runes so multi-byte names are never cut
// mid-character.
func clipCell(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
