package handlers

import (
	"github.com/hr-portal/recruitment-service/internal/api/dto"
	"github.com/hr-portal/recruitment-service/internal/domain"
)

func userResponse(u *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		Department: u.Department,
		Phone:      u.Phone,
		Active:     u.Active,
		CreatedAt:  u.CreatedAt,
		UpdatedAt:  u.UpdatedAt,
	}
}

func applicationResponse(a *domain.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:                a.ID,
		Code:              a.Code,
		Title:             a.Title,
		Department:        a.Department,
		Quantity:          a.Quantity,
		Reason:            a.Reason,
		Description:       a.Description,
		Requirements:      a.Requirements,
		SalaryMin:         a.SalaryMin,
		SalaryMax:         a.SalaryMax,
		ExpectedStartDate: a.ExpectedStartDate,
		Status:            a.Status,
		RejectReason:      a.RejectReason,
		CreatedBy:         a.CreatedBy,
		ReviewedBy:        a.ReviewedBy,
		ApprovedBy:        a.ApprovedBy,
		SubmittedAt:       a.SubmittedAt,
		ApprovedAt:        a.ApprovedAt,
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
}

func historyResponses(entries []domain.ApplicationHistory) []dto.HistoryResponse {
	out := make([]dto.HistoryResponse, 0, len(entries))
	for _, h := range entries {
		out = append(out, dto.HistoryResponse{
			ID:        h.ID,
			ChangedBy: h.ChangedBy,
			OldStatus: h.OldStatus,
			NewStatus: h.NewStatus,
			Comment:   h.Comment,
			CreatedAt: h.CreatedAt,
		})
	}
	return out
}

func commentResponse(cm *domain.Comment) dto.CommentResponse {
	return dto.CommentResponse{
		ID:         cm.ID,
		AuthorID:   cm.AuthorID,
		AuthorName: cm.AuthorName,
		Content:    cm.Content,
		CreatedAt:  cm.CreatedAt,
	}
}

func positionResponse(p *domain.Position) dto.PositionResponse {
	return dto.PositionResponse{
		ID:             p.ID,
		ApplicationID:  p.ApplicationID,
		Title:          p.Title,
		Department:     p.Department,
		Level:          p.Level,
		EmploymentType: p.EmploymentType,
		Location:       p.Location,
		Quantity:       p.Quantity,
		HiredCount:     p.HiredCount,
		SalaryRange:    p.SalaryRange,
		Description:    p.Description,
		Requirements:   p.Requirements,
		Benefits:       p.Benefits,
		Deadline:       p.Deadline,
		Status:         p.Status,
		CreatedBy:      p.CreatedBy,
		CreatedAt:      p.CreatedAt,
		UpdatedAt:      p.UpdatedAt,
	}
}

func candidateResponse(cd *domain.Candidate) dto.CandidateResponse {
	return dto.CandidateResponse{
		ID:         cd.ID,
		PositionID: cd.PositionID,
		FullName:   cd.FullName,
		Email:      cd.Email,
		Phone:      cd.Phone,
		Source:     cd.Source,
		CVURL:      cd.CVURL,
		Stage:      cd.Stage,
		Status:     cd.Status,
		Notes:      cd.Notes,
		AppliedAt:  cd.AppliedAt,
		CreatedAt:  cd.CreatedAt,
		UpdatedAt:  cd.UpdatedAt,
	}
}

func interviewResponse(i *domain.Interview) dto.InterviewResponse {
	ids := i.InterviewerIDs
	if ids == nil {
		ids = []string{}
	}
	return dto.InterviewResponse{
		ID:             i.ID,
		CandidateID:    i.CandidateID,
		PositionID:     i.PositionID,
		Round:          i.Round,
		Title:          i.Title,
		StartTime:      i.StartTime,
		EndTime:        i.EndTime,
		Mode:           i.Mode,
		Location:       i.Location,
		MeetingLink:    i.MeetingLink,
		InterviewerIDs: ids,
		Status:         i.Status,
		Note:           i.Note,
		ReminderSent:   i.ReminderSent,
		CreatedBy:      i.CreatedBy,
		CreatedAt:      i.CreatedAt,
		UpdatedAt:      i.UpdatedAt,
	}
}

func evaluationResponses(list []domain.Evaluation) []dto.EvaluationResponse {
	out := make([]dto.EvaluationResponse, 0, len(list))
	for i := range list {
		out = append(out, evaluationResponse(&list[i]))
	}
	return out
}

func evaluationResponse(e *domain.Evaluation) dto.EvaluationResponse {
	return dto.EvaluationResponse{
		ID:           e.ID,
		InterviewID:  e.InterviewID,
		CandidateID:  e.CandidateID,
		EvaluatorID:  e.EvaluatorID,
		Scores:       e.Scores,
		OverallScore: e.OverallScore,
		Result:       e.Result,
		Comment:      e.Comment,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}

func calendarEventResponse(e *domain.CalendarEvent) dto.CalendarEventResponse {
	return dto.CalendarEventResponse{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		StartTime:   e.StartTime,
		EndTime:     e.EndTime,
		Type:        e.Type,
		InterviewID: e.InterviewID,
		Location:    e.Location,
	}
}

func notificationResponse(n *domain.Notification) dto.NotificationResponse {
	return dto.NotificationResponse{
		ID:        n.ID,
		Type:      n.Type,
		Title:     n.Title,
		Message:   n.Message,
		Link:      n.Link,
		RefID:     n.RefID,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

func emailResponse(m *domain.EmailMessage) dto.EmailResponse {
	return dto.EmailResponse{
		ID:          m.ID,
		CandidateID: m.CandidateID,
		To:          m.To,
		Subject:     m.Subject,
		Body:        m.Body,
		Template:    m.Template,
		Status:      m.Status,
		Error:       m.Error,
		SentBy:      m.SentBy,
		SentAt:      m.SentAt,
		CreatedAt:   m.CreatedAt,
	}
}

func inboxResponse(m *domain.InboxMessage, withBody bool) dto.InboxMessageResponse {
	resp := dto.InboxMessageResponse{
		ID:         m.ID,
		ThreadID:   m.ThreadID,
		From:       m.From,
		To:         m.To,
		Subject:    m.Subject,
		Snippet:    m.Snippet,
		ReceivedAt: m.ReceivedAt,
	}
	if withBody {
		resp.Body = m.Body
	}
	return resp
}
