package mail

import (
	"bytes"
	"fmt"
	"html/template"
	"strings"
	texttemplate "text/template"
	"time"

	"github.com/hr-portal/recruitment-service/internal/domain"
)

// TemplateData carries the values interpolated into email templates.
type TemplateData struct {
	CompanyName   string
	RecipientName string
	CandidateName string
	PositionTitle string
	Round         int
	StartTime     time.Time
	EndTime       time.Time
	Mode          domain.InterviewMode
	Location      string
	MeetingLink   string
	Note          string
	ResetLink     string
	ExpiresIn     time.Duration
	Subject       string
	Body          string
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

var templateFuncs = template.FuncMap{
	"datetime": func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.Format("15:04 02/01/2006")
	},
	"minutes": func(d time.Duration) int { return int(d.Minutes()) },
	"online":  func(m domain.InterviewMode) bool { return m == domain.InterviewModeOnline },
	"paragraphs": func(s string) []string {
		var out []string
		for _, p := range strings.Split(strings.ReplaceAll(s, "\r\n", "\n"), "\n") {
			if strings.TrimSpace(p) != "" {
				out = append(out, p)
			}
		}
		return out
	},
}

const layoutTemplate = `{{define "layout"}}<html><body style="font-family:Arial,sans-serif;line-height:1.5">
{{template "content" .}}
<p>Trân trọng,<br>{{.CompanyName}}</p>
</body></html>{{end}}`

const interviewDetails = `{{define "details"}}<ul>
<li><b>Vị trí:</b> {{.PositionTitle}}</li>
<li><b>Vòng:</b> {{.Round}}</li>
<li><b>Thời gian:</b> {{datetime .StartTime}} - {{datetime .EndTime}}</li>
{{if online .Mode}}<li><b>Hình thức:</b> Trực tuyến</li>{{if .MeetingLink}}<li><b>Link phỏng vấn:</b> <a href="{{.MeetingLink}}">{{.MeetingLink}}</a></li>{{end}}
{{else}}<li><b>Hình thức:</b> Trực tiếp</li><li><b>Địa điểm:</b> {{.Location}}</li>{{end}}
</ul>{{if .Note}}<p>{{.Note}}</p>{{end}}{{end}}`

var templateBodies = map[domain.EmailTemplate]struct{ subject, content string }{
	domain.EmailTemplateInvitation: {
		subject: "Thư mời phỏng vấn - {{.PositionTitle}}",
		content: `{{define "content"}}<p>Chào {{.CandidateName}},</p>
<p>Cảm ơn bạn đã ứng tuyển. Chúng tôi trân trọng mời bạn tham gia buổi phỏng vấn:</p>
{{template "details" .}}
<p>Vui lòng phản hồi email này để xác nhận tham dự.</p>{{end}}`,
	},
	domain.EmailTemplateReminder: {
		subject: "Nhắc lịch phỏng vấn - {{.PositionTitle}}",
		content: `{{define "content"}}<p>Chào {{.RecipientName}},</p>
<p>Nhắc bạn lịch phỏng vấn{{if .CandidateName}} với ứng viên {{.CandidateName}}{{end}} sắp diễn ra:</p>
{{template "details" .}}{{end}}`,
	},
	domain.EmailTemplateOffer: {
		subject: "Thư mời nhận việc - {{.PositionTitle}}",
		content: `{{define "content"}}<p>Chào {{.CandidateName}},</p>
<p>Chúc mừng bạn đã vượt qua các vòng tuyển chọn cho vị trí <b>{{.PositionTitle}}</b>.
Chúng tôi trân trọng gửi tới bạn lời mời làm việc.</p>
{{range paragraphs .Body}}<p>{{.}}</p>{{end}}
<p>Bộ phận nhân sự sẽ liên hệ để trao đổi chi tiết.</p>{{end}}`,
	},
	domain.EmailTemplateRejection: {
		subject: "Kết quả ứng tuyển - {{.PositionTitle}}",
		content: `{{define "content"}}<p>Chào {{.CandidateName}},</p>
<p>Cảm ơn bạn đã quan tâm tới vị trí <b>{{.PositionTitle}}</b>. Sau khi cân nhắc, chúng tôi rất
tiếc chưa thể tiếp tục với hồ sơ của bạn ở thời điểm này.</p>
{{range paragraphs .Body}}<p>{{.}}</p>{{end}}
<p>Chúng tôi sẽ lưu hồ sơ và liên hệ khi có cơ hội phù hợp.</p>{{end}}`,
	},
	domain.EmailTemplateReset: {
		subject: "Đặt lại mật khẩu",
		content: `{{define "content"}}<p>Chào {{.RecipientName}},</p>
<p>Nhấn vào liên kết dưới đây để đặt lại mật khẩu. Liên kết có hiệu lực trong {{minutes .ExpiresIn}} phút.</p>
<p><a href="{{.ResetLink}}">{{.ResetLink}}</a></p>
<p>Nếu bạn không yêu cầu, hãy bỏ qua email này.</p>{{end}}`,
	},
	domain.EmailTemplateCustom: {
		subject: "{{.Subject}}",
		content: `{{define "content"}}{{if .CandidateName}}<p>Chào {{.CandidateName}},</p>{{end}}
{{range paragraphs .Body}}<p>{{.}}</p>{{end}}{{end}}`,
	},
}

var templates = mustParseTemplates()

func mustParseTemplates() map[domain.EmailTemplate]emailTemplate {
	out := make(map[domain.EmailTemplate]emailTemplate, len(templateBodies))
	for name, src := range templateBodies {
		t := template.Must(template.New(string(name)).Funcs(templateFuncs).Parse(layoutTemplate))
		template.Must(t.Parse(interviewDetails))
		template.Must(t.Parse(src.content))
		out[name] = emailTemplate{subject: src.subject, body: t}
	}
	return out
}

// Render produces the subject and HTML body for a named template.
func Render(name domain.EmailTemplate, data TemplateData) (subject, html string, err error) {
	tpl, ok := templates[name]
	if !ok {
		return "", "", fmt.Errorf("unknown email template %q", name)
	}

	subjTpl, err := texttemplate.New("subject").Parse(tpl.subject)
	if err != nil {
		return "", "", err
	}
	var subj bytes.Buffer
	if err := subjTpl.Execute(&subj, data); err != nil {
		return "", "", fmt.Errorf("render subject: %w", err)
	}

	var body bytes.Buffer
	if err := tpl.body.ExecuteTemplate(&body, "layout", data); err != nil {
		return "", "", fmt.Errorf("render %s: %w", name, err)
	}
	return strings.TrimSpace(subj.String()), body.String(), nil
}

// Known reports whether name is a renderable template.
func Known(name domain.EmailTemplate) bool {
	_, ok := templates[name]
	return ok
}
