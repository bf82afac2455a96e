package httphandler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/classportal-dev/classportal/internal/domain/model"
	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeUpstreamError translates a backend failure into a local response.
// Backend API errors keep their status and message; anything else (network,
// timeout, malformed shape) becomes a 502.
func writeUpstreamError(w http.ResponseWriter, err error) {
	var apiErr *driven.BackendError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.StatusCode, apiErr.Error())
		return
	}
	writeError(w, http.StatusBadGateway, "backend unavailable")
}

// errorResponse is the standard error response body.
type errorResponse struct {
	Error string `json:"error"`
}

// UserResponse is the JSON representation of the authenticated user.
type UserResponse struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Role        string `json:"role"`
	IsStudent   bool   `json:"is_student"`
	IsTeacher   bool   `json:"is_teacher"`
}

// SessionResponse is the JSON representation of an established session.
type SessionResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// AssignmentResponse is the JSON representation of one assignment list entry.
type AssignmentResponse struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Status   string  `json:"status"`
	MaxScore float64 `json:"max_score"`
	DueDate  string  `json:"due_date,omitempty"`
}

// AssignmentPageResponse is a page of assignments.
type AssignmentPageResponse struct {
	Items      []AssignmentResponse `json:"items"`
	Total      int                  `json:"total"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"page_size"`
	TotalPages int                  `json:"total_pages"`
}

// QuestionResponse is one graded question within a submission result.
type QuestionResponse struct {
	QuestionID     string  `json:"question_id"`
	Content        string  `json:"content"`
	StudentAnswer  string  `json:"student_answer"`
	StandardAnswer string  `json:"standard_answer,omitempty"`
	Score          float64 `json:"score"`
	MaxScore       float64 `json:"max_score"`
	Explanation    string  `json:"explanation,omitempty"`
	VideoURL       string  `json:"video_url,omitempty"`
}

// SubmissionResponse is the JSON representation of a graded submission.
// TeacherCommentHTML carries the teacher's comment rendered from markdown to
// sanitized HTML; the raw text is preserved alongside it.
type SubmissionResponse struct {
	SubmissionID       string             `json:"submission_id"`
	HomeworkID         string             `json:"homework_id"`
	HomeworkTitle      string             `json:"homework_title"`
	StudentID          string             `json:"student_id"`
	StudentName        string             `json:"student_name"`
	TotalScore         float64            `json:"total_score"`
	MaxScore           float64            `json:"max_score"`
	TeacherComment     string             `json:"teacher_comment"`
	TeacherCommentHTML string             `json:"teacher_comment_html,omitempty"`
	TeacherFeedback    string             `json:"teacher_feedback,omitempty"`
	SubmittedAt        string             `json:"submitted_at"`
	GradedAt           string             `json:"graded_at,omitempty"`
	Questions          []QuestionResponse `json:"questions"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

func healthResponse() HealthResponse {
	return HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	}
}

func toUserResponse(u model.User) UserResponse {
	return UserResponse{
		ID:          u.ID,
		Username:    u.Username,
		DisplayName: u.DisplayName,
		Role:        u.Role,
		IsStudent:   u.IsStudent(),
		IsTeacher:   u.IsTeacher(),
	}
}

func toSessionResponse(token string, u model.User) SessionResponse {
	return SessionResponse{
		Token: token,
		User:  toUserResponse(u),
	}
}

func toAssignmentPageResponse(page *model.AssignmentPage) AssignmentPageResponse {
	items := make([]AssignmentResponse, 0, len(page.Items))
	for _, a := range page.Items {
		items = append(items, AssignmentResponse{
			ID:       a.ID,
			Title:    a.Title,
			Status:   a.Status,
			MaxScore: a.MaxScore,
			DueDate:  a.DueDate,
		})
	}

	return AssignmentPageResponse{
		Items:      items,
		Total:      page.Total,
		Page:       page.Page,
		PageSize:   page.PageSize,
		TotalPages: page.TotalPages,
	}
}

func toSubmissionResponse(s *model.SubmissionResult) SubmissionResponse {
	questions := make([]QuestionResponse, 0, len(s.Questions))
	for _, q := range s.Questions {
		questions = append(questions, QuestionResponse{
			QuestionID:     q.QuestionID,
			Content:        q.Content,
			StudentAnswer:  q.StudentAnswer,
			StandardAnswer: q.StandardAnswer,
			Score:          q.Score,
			MaxScore:       q.MaxScore,
			Explanation:    q.Explanation,
			VideoURL:       q.VideoURL,
		})
	}

	return SubmissionResponse{
		SubmissionID:       s.SubmissionID,
		HomeworkID:         s.HomeworkID,
		HomeworkTitle:      s.HomeworkTitle,
		StudentID:          s.StudentID,
		StudentName:        s.StudentName,
		TotalScore:         s.TotalScore,
		MaxScore:           s.MaxScore,
		TeacherComment:     s.TeacherComment,
		TeacherCommentHTML: RenderMarkdown(s.TeacherComment),
		TeacherFeedback:    s.TeacherFeedback,
		SubmittedAt:        s.SubmittedAt,
		GradedAt:           s.GradedAt,
		Questions:          questions,
	}
}
