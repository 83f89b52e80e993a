// Package export формирует реестр тендеров (XLSX) и карточку тендера (PDF)
package export

import (
	"fmt"
	"io"

	"tendersdz/models"

	"github.com/xuri/excelize/v2"
)

const registerSheet = "Tenders"

var registerHeader = []string{"ID", "Reference", "Title", "Client", "Status", "Currency", "Submission deadline"}

// ClientNames строит словарь id -> имя клиента
func ClientNames(clients []models.Client) map[int]string {
	names := make(map[int]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}
	return names
}

// ClientName возвращает имя клиента или его id, если клиент не найден
func ClientName(names map[int]string, id int) string {
	if name, ok := names[id]; ok {
		return name
	}
	return fmt.Sprintf("#%d", id)
}

// TenderRegister пишет реестр тендеров в формате XLSX
func TenderRegister(w io.Writer, tenders []models.Tender, clients []models.Client) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(registerSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E0E0E0"}, Pattern: 1},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	for i, title := range registerHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(registerSheet, cell, title); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(registerHeader), 1)
	if err := f.SetCellStyle(registerSheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	names := ClientNames(clients)
	for i, t := range tenders {
		deadline := ""
		if t.SubmissionDeadline != nil {
			deadline = t.SubmissionDeadline.Date()
		}
		row := []any{
			t.ID,
			models.Deref(t.ReferenceNo),
			t.Title,
			ClientName(names, t.ClientID),
			t.Status.Label(),
			t.Currency,
			deadline,
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(registerSheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(registerSheet, "B", "B", 18)
	_ = f.SetColWidth(registerSheet, "C", "C", 48)
	_ = f.SetColWidth(registerSheet, "D", "D", 28)
	_ = f.SetColWidth(registerSheet, "G", "G", 20)

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
