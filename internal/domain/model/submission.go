package model

// SubmissionResult is a graded submission as the portal models it. Field names
// follow the portal's internal vocabulary (HomeworkID, TotalScore,
// TeacherComment); the backend uses different names for several of these, and
// the portalapi adapter owns the renaming.
type SubmissionResult struct {
	SubmissionID    string
	HomeworkID      string
	HomeworkTitle   string
	StudentID       string
	StudentName     string
	TotalScore      float64
	MaxScore        float64
	TeacherComment  string
	TeacherFeedback string
	SubmittedAt     string
	GradedAt        string
	Questions       []QuestionResult
}

// QuestionResult is one graded question within a submission result.
type QuestionResult struct {
	QuestionID     string
	Content        string
	StudentAnswer  string
	StandardAnswer string
	Score          float64
	MaxScore       float64
	Explanation    string
	VideoURL       string
}

// AssignmentStatus values for a student's view of an assignment.
const (
	AssignmentPublished = "PUBLISHED"
	AssignmentSubmitted = "SUBMITTED"
	AssignmentGraded    = "GRADED"
)

// Assignment is one entry in a student's assignment list.
type Assignment struct {
	ID       string
	Title    string
	Status   string
	MaxScore float64
	DueDate  string
}

// AssignmentPage is a page of a student's assignment list. The backend
// sometimes returns a bare array instead of a page; the adapter synthesizes
// the page fields in that case.
type AssignmentPage struct {
	Items      []Assignment
	Total      int
	Page       int
	PageSize   int
	TotalPages int
}
