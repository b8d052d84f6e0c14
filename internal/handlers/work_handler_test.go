package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedWork(t *testing.T, workRepo *fakeWorkRepo, brandID, kolID string) *models.Work {
	t.Helper()

	work := &models.Work{
		CampaignID: "campaign1",
		BrandID:    brandID,
		KolID:      kolID,
		Status:     models.WorkStatusPending,
		Deliverables: []models.Deliverable{
			{ID: "d1", Type: "post", Required: 2, Submissions: []models.Submission{}},
			{ID: "d2", Type: "video", Required: 1, Submissions: []models.Submission{}},
		},
	}
	require.NoError(t, workRepo.CreateWork(context.Background(), work))
	return work
}

func submit(t *testing.T, handler *WorkHandler, work *models.Work, claims *models.JwtCustomClaims, deliverableID string) error {
	t.Helper()

	body := models.SubmitContentRequest{
		DeliverableID: deliverableID,
		URL:           "https://cdn.example.com/clip.mp4",
		Caption:       "first cut",
	}
	c, rec := newTestContext(t, http.MethodPost, "/works/"+work.ID.Hex()+"/submit", body, claims)
	c.SetParamNames("id")
	c.SetParamValues(work.ID.Hex())

	err := handler.SubmitContent(c)
	if err == nil {
		require.Equal(t, http.StatusCreated, rec.Code)
	}
	return err
}

func TestSubmitContentRecomputesProgress(t *testing.T) {
	userRepo := newFakeUserRepo()
	workRepo := newFakeWorkRepo()
	notificationRepo := newFakeNotificationRepo()
	handler := NewWorkHandler(workRepo, newTestNotifier(notificationRepo))

	brand := userRepo.addUser("acme", models.RoleBrand)
	kol := userRepo.addUser("creator", models.RoleKOL)
	work := seedWork(t, workRepo, brand.ID.Hex(), kol.ID.Hex())

	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d1"))

	// One of three required pieces: round(100/3) = 33, pending -> active.
	stored, err := workRepo.GetWorkByID(context.Background(), work.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 33, stored.Progress)
	assert.Equal(t, models.WorkStatusActive, stored.Status)
	assert.Equal(t, 1, stored.Deliverables[0].Submitted)

	notifications := notificationRepo.forRecipient(brand.ID.Hex())
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationTypeSubmission, notifications[0].Type)
}

func TestSubmitContentFullProgressMovesToReview(t *testing.T) {
	userRepo := newFakeUserRepo()
	workRepo := newFakeWorkRepo()
	handler := NewWorkHandler(workRepo, newTestNotifier(newFakeNotificationRepo()))

	brand := userRepo.addUser("acme", models.RoleBrand)
	kol := userRepo.addUser("creator", models.RoleKOL)
	work := seedWork(t, workRepo, brand.ID.Hex(), kol.ID.Hex())

	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d1"))
	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d1"))
	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d2"))

	stored, err := workRepo.GetWorkByID(context.Background(), work.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Progress)
	assert.Equal(t, models.WorkStatusInReview, stored.Status)
}

func TestSubmitContentForbiddenForOtherUsers(t *testing.T) {
	userRepo := newFakeUserRepo()
	workRepo := newFakeWorkRepo()
	handler := NewWorkHandler(workRepo, newTestNotifier(newFakeNotificationRepo()))

	brand := userRepo.addUser("acme", models.RoleBrand)
	kol := userRepo.addUser("creator", models.RoleKOL)
	intruder := userRepo.addUser("intruder", models.RoleKOL)
	work := seedWork(t, workRepo, brand.ID.Hex(), kol.ID.Hex())

	err := submit(t, handler, work, claimsFor(intruder), "d1")
	requireHTTPError(t, err, http.StatusForbidden)
}

func TestSubmitContentUnknownDeliverable(t *testing.T) {
	userRepo := newFakeUserRepo()
	workRepo := newFakeWorkRepo()
	handler := NewWorkHandler(workRepo, newTestNotifier(newFakeNotificationRepo()))

	brand := userRepo.addUser("acme", models.RoleBrand)
	kol := userRepo.addUser("creator", models.RoleKOL)
	work := seedWork(t, workRepo, brand.ID.Hex(), kol.ID.Hex())

	err := submit(t, handler, work, claimsFor(kol), "no-such-deliverable")
	requireHTTPError(t, err, http.StatusNotFound)
}

func review(t *testing.T, handler *WorkHandler, work *models.Work, claims *models.JwtCustomClaims, submissionID, status string) error {
	t.Helper()

	body := models.ReviewSubmissionRequest{Status: status}
	c, _ := newTestContext(t, http.MethodPut, "/works/"+work.ID.Hex()+"/submissions/"+submissionID, body, claims)
	c.SetParamNames("id", "submissionId")
	c.SetParamValues(work.ID.Hex(), submissionID)
	return handler.ReviewSubmission(c)
}

func TestReviewSubmissionApprovalCompletesWork(t *testing.T) {
	userRepo := newFakeUserRepo()
	workRepo := newFakeWorkRepo()
	notificationRepo := newFakeNotificationRepo()
	handler := NewWorkHandler(workRepo, newTestNotifier(notificationRepo))

	brand := userRepo.addUser("acme", models.RoleBrand)
	kol := userRepo.addUser("creator", models.RoleKOL)
	work := seedWork(t, workRepo, brand.ID.Hex(), kol.ID.Hex())

	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d1"))
	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d1"))
	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d2"))

	stored, err := workRepo.GetWorkByID(context.Background(), work.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, models.WorkStatusInReview, stored.Status)

	for _, d := range stored.Deliverables {
		for _, s := range d.Submissions {
			require.NoError(t, review(t, handler, work, claimsFor(brand), s.ID, models.SubmissionStatusApproved))
		}
	}

	stored, err = workRepo.GetWorkByID(context.Background(), work.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusCompleted, stored.Status)
	assert.Equal(t, 100, stored.Progress)

	notifications := notificationRepo.forRecipient(kol.ID.Hex())
	require.NotEmpty(t, notifications)
	assert.Equal(t, models.NotificationTypeWorkUpdate, notifications[0].Type)
}

func TestReviewSubmissionRejectionReopensWork(t *testing.T) {
	userRepo := newFakeUserRepo()
	workRepo := newFakeWorkRepo()
	handler := NewWorkHandler(workRepo, newTestNotifier(newFakeNotificationRepo()))

	brand := userRepo.addUser("acme", models.RoleBrand)
	kol := userRepo.addUser("creator", models.RoleKOL)
	work := seedWork(t, workRepo, brand.ID.Hex(), kol.ID.Hex())

	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d1"))
	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d1"))
	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d2"))

	stored, err := workRepo.GetWorkByID(context.Background(), work.ID.Hex())
	require.NoError(t, err)
	require.Equal(t, models.WorkStatusInReview, stored.Status)

	rejectedID := stored.Deliverables[0].Submissions[0].ID
	require.NoError(t, review(t, handler, work, claimsFor(brand), rejectedID, models.SubmissionStatusRejected))

	stored, err = workRepo.GetWorkByID(context.Background(), work.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.WorkStatusActive, stored.Status)
	assert.Equal(t, 67, stored.Progress)
}

func TestReviewSubmissionBrandOnly(t *testing.T) {
	userRepo := newFakeUserRepo()
	workRepo := newFakeWorkRepo()
	handler := NewWorkHandler(workRepo, newTestNotifier(newFakeNotificationRepo()))

	brand := userRepo.addUser("acme", models.RoleBrand)
	kol := userRepo.addUser("creator", models.RoleKOL)
	work := seedWork(t, workRepo, brand.ID.Hex(), kol.ID.Hex())

	require.NoError(t, submit(t, handler, work, claimsFor(kol), "d1"))
	stored, err := workRepo.GetWorkByID(context.Background(), work.ID.Hex())
	require.NoError(t, err)
	submissionID := stored.Deliverables[0].Submissions[0].ID

	err = review(t, handler, work, claimsFor(kol), submissionID, models.SubmissionStatusApproved)
	requireHTTPError(t, err, http.StatusForbidden)
}

func TestGetWorkParticipantsOnly(t *testing.T) {
	userRepo := newFakeUserRepo()
	workRepo := newFakeWorkRepo()
	handler := NewWorkHandler(workRepo, newTestNotifier(newFakeNotificationRepo()))

	brand := userRepo.addUser("acme", models.RoleBrand)
	kol := userRepo.addUser("creator", models.RoleKOL)
	outsider := userRepo.addUser("outsider", models.RoleKOL)
	work := seedWork(t, workRepo, brand.ID.Hex(), kol.ID.Hex())

	c, rec := newTestContext(t, http.MethodGet, "/works/"+work.ID.Hex(), nil, claimsFor(kol))
	c.SetParamNames("id")
	c.SetParamValues(work.ID.Hex())
	require.NoError(t, handler.GetWork(c))
	require.Equal(t, http.StatusOK, rec.Code)

	c, _ = newTestContext(t, http.MethodGet, "/works/"+work.ID.Hex(), nil, claimsFor(outsider))
	c.SetParamNames("id")
	c.SetParamValues(work.ID.Hex())
	err := handler.GetWork(c)
	requireHTTPError(t, err, http.StatusForbidden)
}
