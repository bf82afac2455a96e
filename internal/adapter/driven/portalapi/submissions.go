package portalapi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/classportal-dev/classportal/internal/domain/model"
	"github.com/classportal-dev/classportal/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.AssignmentClient = (*Client)(nil)

// The assignment/submission backend family names several fields differently
// from the internal model. The renames are declared once, in the map functions
// below, and applied only at this boundary:
//
//	assignmentId     -> HomeworkID
//	assignmentTitle  -> HomeworkTitle
//	studentUsername  -> StudentName
//	score            -> TotalScore
//	feedback         -> TeacherComment
//	id (question)    -> QuestionID
//	submissionStatus -> Status (assignment list)
//	totalScore       -> MaxScore (assignment list)

// submissionResultWire is the wire shape of GET /submissions/{id}/result.
// Ids arrive as JSON numbers or strings depending on backend version, so they
// are carried as json.Number and stringified in the map function.
type submissionResultWire struct {
	SubmissionID    json.Number    `json:"submissionId"`
	AssignmentID    json.Number    `json:"assignmentId"`
	AssignmentTitle string         `json:"assignmentTitle"`
	StudentID       json.Number    `json:"studentId"`
	StudentUsername string         `json:"studentUsername"`
	Score           float64        `json:"score"`
	MaxScore        float64        `json:"maxScore"`
	Feedback        string         `json:"feedback"`
	TeacherFeedback string         `json:"teacherFeedback"`
	SubmittedAt     string         `json:"submittedAt"`
	GradedAt        string         `json:"gradedAt"`
	Questions       []questionWire `json:"questions"`
}

type questionWire struct {
	ID             json.Number `json:"id"`
	Content        string      `json:"content"`
	StudentAnswer  string      `json:"studentAnswer"`
	StandardAnswer string      `json:"standardAnswer"`
	Score          float64     `json:"score"`
	MaxScore       float64     `json:"maxScore"`
	Explanation    string      `json:"explanation"`
	VideoURL       string      `json:"videoUrl"`
}

// assignmentWire is one item of the my-assignments listing.
type assignmentWire struct {
	ID               json.Number `json:"id"`
	Title            string      `json:"title"`
	SubmissionStatus string      `json:"submissionStatus"`
	TotalScore       float64     `json:"totalScore"`
	DueDate          string      `json:"dueDate"`
}

// assignmentPageWire is the paginated variant of the my-assignments response.
type assignmentPageWire struct {
	Items      []assignmentWire `json:"items"`
	Total      int              `json:"total"`
	Page       int              `json:"page"`
	PageSize   int              `json:"pageSize"`
	TotalPages int              `json:"totalPages"`
}

// submissionCreatedWire is the response to submit and draft calls.
type submissionCreatedWire struct {
	SubmissionID json.Number `json:"submissionId"`
}

// submitRequest is the wire shape of submit and draft calls. The write
// surface uses the internal field name.
type submitRequest struct {
	HomeworkID string            `json:"homeworkId"`
	Answers    map[string]string `json:"answers"`
}

// SubmissionResult fetches the graded result for one submission and maps it
// into the internal model.
func (c *Client) SubmissionResult(ctx context.Context, submissionID string) (*model.SubmissionResult, error) {
	var wire submissionResultWire
	path := fmt.Sprintf("/submissions/%s/result", submissionID)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &wire); err != nil {
		return nil, err
	}
	return mapSubmissionResult(wire), nil
}

// MyAssignments lists the current student's assignments. The backend returns
// either a bare array or a paginated object; both are accepted, and the bare
// array is folded into a synthesized single page.
func (c *Client) MyAssignments(ctx context.Context, page, pageSize int) (*model.AssignmentPage, error) {
	var raw json.RawMessage
	path := fmt.Sprintf("/assignments/my-assignments?page=%d&pageSize=%d", page, pageSize)
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &raw); err != nil {
		return nil, err
	}

	var bare []assignmentWire
	if err := json.Unmarshal(raw, &bare); err == nil {
		return mapAssignmentArray(bare, page, pageSize), nil
	}

	var paged assignmentPageWire
	if err := json.Unmarshal(raw, &paged); err == nil && paged.Items != nil {
		return mapAssignmentPage(paged), nil
	}

	return nil, fmt.Errorf("my-assignments response is neither an array nor a page")
}

// Submit submits final answers for an assignment via POST /submissions.
func (c *Client) Submit(ctx context.Context, homeworkID string, answers map[string]string) (string, error) {
	return c.createSubmission(ctx, "/submissions", homeworkID, answers)
}

// SaveDraft stores draft answers via POST /submissions/draft.
func (c *Client) SaveDraft(ctx context.Context, homeworkID string, answers map[string]string) (string, error) {
	return c.createSubmission(ctx, "/submissions/draft", homeworkID, answers)
}

func (c *Client) createSubmission(ctx context.Context, path, homeworkID string, answers map[string]string) (string, error) {
	var wire submissionCreatedWire
	err := c.doJSON(ctx, http.MethodPost, path, submitRequest{
		HomeworkID: homeworkID,
		Answers:    answers,
	}, &wire)
	if err != nil {
		return "", err
	}
	return wire.SubmissionID.String(), nil
}

// mapSubmissionResult converts the wire shape to the internal model. This is
// the declared field map for the submission result shape.
func mapSubmissionResult(w submissionResultWire) *model.SubmissionResult {
	questions := make([]model.QuestionResult, 0, len(w.Questions))
	for _, q := range w.Questions {
		questions = append(questions, model.QuestionResult{
			QuestionID:     q.ID.String(),
			Content:        q.Content,
			StudentAnswer:  q.StudentAnswer,
			StandardAnswer: q.StandardAnswer,
			Score:          q.Score,
			MaxScore:       q.MaxScore,
			Explanation:    q.Explanation,
			VideoURL:       q.VideoURL,
		})
	}

	return &model.SubmissionResult{
		SubmissionID:    w.SubmissionID.String(),
		HomeworkID:      w.AssignmentID.String(),
		HomeworkTitle:   w.AssignmentTitle,
		StudentID:       w.StudentID.String(),
		StudentName:     w.StudentUsername,
		TotalScore:      w.Score,
		MaxScore:        w.MaxScore,
		TeacherComment:  w.Feedback,
		TeacherFeedback: w.TeacherFeedback,
		SubmittedAt:     w.SubmittedAt,
		GradedAt:        w.GradedAt,
		Questions:       questions,
	}
}

// mapAssignment converts one listing item. This is the declared field map for
// the assignment list shape.
func mapAssignment(w assignmentWire) model.Assignment {
	status := w.SubmissionStatus
	if status == "" {
		status = model.AssignmentPublished
	}

	return model.Assignment{
		ID:       w.ID.String(),
		Title:    w.Title,
		Status:   status,
		MaxScore: w.TotalScore,
		DueDate:  w.DueDate,
	}
}

func mapAssignmentArray(items []assignmentWire, page, pageSize int) *model.AssignmentPage {
	mapped := make([]model.Assignment, 0, len(items))
	for _, item := range items {
		mapped = append(mapped, mapAssignment(item))
	}

	totalPages := 0
	if pageSize > 0 {
		totalPages = (len(mapped) + pageSize - 1) / pageSize
	}

	return &model.AssignmentPage{
		Items:      mapped,
		Total:      len(mapped),
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}

func mapAssignmentPage(w assignmentPageWire) *model.AssignmentPage {
	mapped := make([]model.Assignment, 0, len(w.Items))
	for _, item := range w.Items {
		mapped = append(mapped, mapAssignment(item))
	}

	return &model.AssignmentPage{
		Items:      mapped,
		Total:      w.Total,
		Page:       w.Page,
		PageSize:   w.PageSize,
		TotalPages: w.TotalPages,
	}
}
