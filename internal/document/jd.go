package document

import (
	"embed"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/nguyenthenguyen/docx"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

//go:embed templates/jd_template.docx
var templateFS embed.FS

const jdTemplatePath = "templates/jd_template.docx"

// DocxContentType is the MIME type of rendered job descriptions.
const DocxContentType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// RenderJD fills the job description template with position data and writes the DOCX to w.
func RenderJD(w io.Writer, position *domain.Position, company string, now time.Time) error {
	if position == nil {
		return fmt.Errorf("position required")
	}
	tpl, err := docx.ReadDocxFromFS(jdTemplatePath, templateFS)
	if err != nil {
		return fmt.Errorf("open jd template: %w", err)
	}
	defer tpl.Close()

	doc := tpl.Editable()
	for placeholder, value := range jdValues(position) {
		if err := doc.Replace(placeholder, value, -1); err != nil {
			return fmt.Errorf("fill %s: %w", placeholder, err)
		}
	}
	if err := doc.ReplaceFooter("{COMPANY}", company); err != nil {
		return err
	}
	if err := doc.ReplaceFooter("{GENERATED_AT}", now.Format("02/01/2006 15:04")); err != nil {
		return err
	}
	return doc.Write(w)
}

func jdValues(p *domain.Position) map[string]string {
	deadline := "Không giới hạn"
	if p.Deadline != nil {
		deadline = p.Deadline.Format("02/01/2006")
	}
	return map[string]string{
		"{TITLE}":           p.Title,
		"{DEPARTMENT}":      p.Department,
		"{LEVEL}":           orDash(p.Level),
		"{EMPLOYMENT_TYPE}": orDash(p.EmploymentType),
		"{LOCATION}":        orDash(p.Location),
		"{QUANTITY}":        strconv.Itoa(p.Quantity),
		"{SALARY}":          orValue(p.SalaryRange, "Thỏa thuận"),
		"{DEADLINE}":        deadline,
		"{DESCRIPTION}":     orDash(p.Description),
		"{REQUIREMENTS}":    orDash(p.Requirements),
		"{BENEFITS}":        orDash(p.Benefits),
	}
}

// JDFilename returns the attachment name for a position's job description.
func JDFilename(p *domain.Position) string {
	slug := strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, p.Title)
	slug = strings.Trim(slug, "_")
	if slug == "" {
		slug = p.ID
	}
	return "JD_" + slug + ".docx"
}

func orDash(s string) string {
	return orValue(s, "-")
}

func orValue(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
