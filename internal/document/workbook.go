package document

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// XLSXContentType is the MIME type of exported spreadsheets.
const XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const candidatesSheet = "Ứng viên"

var candidateHeaders = []string{
	"STT", "Họ tên", "Email", "Điện thoại", "Vị trí", "Nguồn", "Giai đoạn", "Trạng thái", "Ngày ứng tuyển", "CV",
}

var stageLabels = map[domain.Stage]string{
	domain.StageNew:        "Mới",
	domain.StageReviewing:  "Đang xem xét",
	domain.StageInterview1: "Phỏng vấn vòng 1",
	domain.StageInterview2: "Phỏng vấn vòng 2",
	domain.StageOffer:      "Đề nghị",
	domain.StageHired:      "Đã tuyển",
	domain.StageRejected:   "Đã loại",
}

// StageLabel returns the Vietnamese label for a pipeline stage.
func StageLabel(s domain.Stage) string {
	if label, ok := stageLabels[s]; ok {
		return label
	}
	return string(s)
}

// WriteCandidatesWorkbook writes an XLSX listing candidates. positionTitles maps position ids
// to display titles.
func WriteCandidatesWorkbook(w io.Writer, candidates []domain.Candidate, positionTitles map[string]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", candidatesSheet); err != nil {
		return err
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	linkStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Color: "0563C1", Underline: "single"},
	})
	if err != nil {
		return err
	}

	for col, header := range candidateHeaders {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(candidatesSheet, cell, header); err != nil {
			return err
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(candidateHeaders), 1)
	if err := f.SetCellStyle(candidatesSheet, "A1", lastHeader, headerStyle); err != nil {
		return err
	}

	for i, c := range candidates {
		row := i + 2
		values := []any{
			i + 1,
			c.FullName,
			c.Email,
			c.Phone,
			positionTitles[c.PositionID],
			c.Source,
			StageLabel(c.Stage),
			string(c.Status),
			c.AppliedAt.Format("02/01/2006"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(candidatesSheet, cell, v); err != nil {
				return err
			}
		}
		if c.CVURL != "" {
			cell := fmt.Sprintf("J%d", row)
			if err := f.SetCellValue(candidatesSheet, cell, "Xem CV"); err != nil {
				return err
			}
			if err := f.SetCellHyperLink(candidatesSheet, cell, c.CVURL, "External"); err != nil {
				return err
			}
			if err := f.SetCellStyle(candidatesSheet, cell, cell, linkStyle); err != nil {
				return err
			}
		}
	}

	widths := map[string]float64{"A": 6, "B": 26, "C": 30, "D": 16, "E": 28, "F": 14, "G": 20, "H": 14, "I": 16, "J": 10}
	for col, width := range widths {
		if err := f.SetColWidth(candidatesSheet, col, col, width); err != nil {
			return err
		}
	}
	if err := f.SetPanes(candidatesSheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return err
	}

	return f.Write(w)
}
