package driven

import (
	"context"

	"github.com/classportal-dev/classportal/internal/domain/model"
)

// AssignmentClient is the driven port for the backend's assignment and
// submission surface. This backend family is not schema-consistent with the
// auth family or with the internal model; implementations apply the declared
// field maps at this boundary.
type AssignmentClient interface {
	// SubmissionResult fetches the graded result for one submission.
	SubmissionResult(ctx context.Context, submissionID string) (*model.SubmissionResult, error)

	// MyAssignments lists the current student's assignments, paginated.
	MyAssignments(ctx context.Context, page, pageSize int) (*model.AssignmentPage, error)

	// Submit submits final answers for an assignment and returns the
	// created submission id.
	Submit(ctx context.Context, homeworkID string, answers map[string]string) (string, error)

	// SaveDraft stores draft answers without submitting.
	SaveDraft(ctx context.Context, homeworkID string, answers map[string]string) (string, error)
}
