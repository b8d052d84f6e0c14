package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kollect-app/kollect/backend/internal/engagement"
	"github.com/kollect-app/kollect/backend/internal/models"
	"github.com/kollect-app/kollect/backend/internal/repositories"
	"github.com/kollect-app/kollect/backend/internal/services"
	"github.com/kollect-app/kollect/backend/validators"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory repository fakes implementing the same contracts as the Mongo
// implementations, so handlers can be exercised without a database.

type fakeUserRepo struct {
	users map[string]*models.User // keyed by hex ID
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*models.User{}}
}

func (f *fakeUserRepo) addUser(username, role string) *models.User {
	user := &models.User{
		ID:        primitive.NewObjectID(),
		Username:  username,
		Email:     username + "@example.com",
		Name:      username,
		Role:      role,
		Followers: []string{},
		Following: []string{},
		CreatedAt: time.Now(),
	}
	f.users[user.ID.Hex()] = user
	return user
}

func (f *fakeUserRepo) CreateUser(ctx context.Context, user *models.User) error {
	user.ID = primitive.NewObjectID()
	f.users[user.ID.Hex()] = user
	return nil
}

func (f *fakeUserRepo) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	for _, user := range f.users {
		if user.Username == username {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) GetUserByFirebaseUID(ctx context.Context, firebaseUID string) (*models.User, error) {
	for _, user := range f.users {
		if user.FirebaseUID == firebaseUID {
			return user, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (f *fakeUserRepo) UpdateUser(ctx context.Context, user *models.User) error {
	if _, ok := f.users[user.ID.Hex()]; !ok {
		return repositories.ErrUserNotFound
	}
	f.users[user.ID.Hex()] = user
	return nil
}

func (f *fakeUserRepo) SearchUsers(ctx context.Context, query string, limit int64) ([]models.User, error) {
	return nil, nil
}

func (f *fakeUserRepo) ToggleFollow(ctx context.Context, actorID, targetID string) (bool, int, error) {
	target, ok := f.users[targetID]
	if !ok {
		return false, 0, repositories.ErrUserNotFound
	}
	followers, following := engagement.Toggle(target.Followers, actorID)
	target.Followers = followers

	if actor, ok := f.users[actorID]; ok {
		mirrored, _ := engagement.Toggle(actor.Following, targetID)
		if engagement.Contains(mirrored, targetID) == following {
			actor.Following = mirrored
		}
	}
	return following, len(followers), nil
}

type fakePostRepo struct {
	posts map[string]*models.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: map[string]*models.Post{}}
}

func (f *fakePostRepo) addPost(authorID string) *models.Post {
	post := &models.Post{
		ID:        primitive.NewObjectID(),
		UserID:    authorID,
		Content:   "hello",
		Likes:     []string{},
		Saves:     []string{},
		Comments:  []models.Comment{},
		CreatedAt: time.Now(),
	}
	f.posts[post.ID.Hex()] = post
	return post
}

func (f *fakePostRepo) CreatePost(ctx context.Context, post *models.Post) error {
	post.ID = primitive.NewObjectID()
	f.posts[post.ID.Hex()] = post
	return nil
}

func (f *fakePostRepo) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if post, ok := f.posts[id]; ok {
		return post, nil
	}
	return nil, repositories.ErrPostNotFound
}

func (f *fakePostRepo) DeletePost(ctx context.Context, id string) error {
	if _, ok := f.posts[id]; !ok {
		return repositories.ErrPostNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) GetPostsByUserID(ctx context.Context, userID string, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	for _, post := range f.posts {
		if post.UserID == userID {
			posts = append(posts, *post)
		}
	}
	return posts, nil
}

func (f *fakePostRepo) GetExplorePosts(ctx context.Context, skip, limit int64) ([]models.Post, error) {
	var posts []models.Post
	for _, post := range f.posts {
		posts = append(posts, *post)
	}
	return posts, nil
}

func (f *fakePostRepo) CountPosts(ctx context.Context) (int64, error) {
	return int64(len(f.posts)), nil
}

func (f *fakePostRepo) ToggleReaction(ctx context.Context, postID, field, actorID string) (*models.Post, bool, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, false, repositories.ErrPostNotFound
	}
	set, added := engagement.Toggle(post.ReactorSet(field), actorID)
	if field == models.ReactionSaves {
		post.Saves = set
	} else {
		post.Likes = set
	}
	return post, added, nil
}

func (f *fakePostRepo) RemoveReaction(ctx context.Context, postID, field, actorID string) (*models.Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	if engagement.Contains(post.ReactorSet(field), actorID) {
		set, _ := engagement.Toggle(post.ReactorSet(field), actorID)
		if field == models.ReactionSaves {
			post.Saves = set
		} else {
			post.Likes = set
		}
	}
	return post, nil
}

func (f *fakePostRepo) AddComment(ctx context.Context, postID string, comment models.Comment) (*models.Post, error) {
	post, ok := f.posts[postID]
	if !ok {
		return nil, repositories.ErrPostNotFound
	}
	post.Comments = append(post.Comments, comment)
	return post, nil
}

func (f *fakePostRepo) DeleteComment(ctx context.Context, postID, commentID, userID string) error {
	post, ok := f.posts[postID]
	if !ok {
		return repositories.ErrPostNotFound
	}
	for i, comment := range post.Comments {
		if comment.ID == commentID && comment.UserID == userID {
			post.Comments = append(post.Comments[:i], post.Comments[i+1:]...)
			return nil
		}
	}
	return repositories.ErrCommentNotFound
}

type notificationKey struct {
	recipientID string
	actorID     string
	eventType   string
	targetID    string
}

type fakeNotificationRepo struct {
	records map[notificationKey]*models.Notification
}

func newFakeNotificationRepo() *fakeNotificationRepo {
	return &fakeNotificationRepo{records: map[notificationKey]*models.Notification{}}
}

func (f *fakeNotificationRepo) RecordEvent(ctx context.Context, recipientID, actorID, eventType, targetID, message string) (*models.Notification, error) {
	if recipientID == actorID {
		return nil, nil
	}
	key := notificationKey{recipientID, actorID, eventType, targetID}
	now := time.Now().UTC()
	if existing, ok := f.records[key]; ok && now.Sub(existing.CreatedAt) < 24*time.Hour {
		existing.Message = message
		existing.IsRead = false
		existing.CreatedAt = now
		return existing, nil
	}
	notification := &models.Notification{
		ID:          primitive.NewObjectID(),
		RecipientID: recipientID,
		ActorID:     actorID,
		Type:        eventType,
		TargetID:    targetID,
		Message:     message,
		CreatedAt:   now,
	}
	f.records[key] = notification
	return notification, nil
}

func (f *fakeNotificationRepo) GetByRecipient(ctx context.Context, recipientID string, page, limit int) ([]models.Notification, int64, error) {
	var notifications []models.Notification
	for _, n := range f.records {
		if n.RecipientID == recipientID {
			notifications = append(notifications, *n)
		}
	}
	return notifications, int64(len(notifications)), nil
}

func (f *fakeNotificationRepo) GetUnreadCount(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	for _, n := range f.records {
		if n.RecipientID == recipientID && !n.IsRead {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkAsRead(ctx context.Context, notificationID, recipientID string) error {
	for _, n := range f.records {
		if n.ID.Hex() == notificationID && n.RecipientID == recipientID {
			n.IsRead = true
			return nil
		}
	}
	return repositories.ErrNotificationNotFound
}

func (f *fakeNotificationRepo) MarkAllAsRead(ctx context.Context, recipientID string) error {
	for _, n := range f.records {
		if n.RecipientID == recipientID {
			n.IsRead = true
		}
	}
	return nil
}

func (f *fakeNotificationRepo) forRecipient(recipientID string) []*models.Notification {
	var notifications []*models.Notification
	for _, n := range f.records {
		if n.RecipientID == recipientID {
			notifications = append(notifications, n)
		}
	}
	return notifications
}

type fakeWorkRepo struct {
	works map[string]*models.Work
}

func newFakeWorkRepo() *fakeWorkRepo {
	return &fakeWorkRepo{works: map[string]*models.Work{}}
}

func (f *fakeWorkRepo) CreateWork(ctx context.Context, work *models.Work) error {
	work.ID = primitive.NewObjectID()
	work.CreatedAt = time.Now()
	if work.Status == "" {
		work.Status = models.WorkStatusPending
	}
	f.works[work.ID.Hex()] = work
	return nil
}

func (f *fakeWorkRepo) GetWorkByID(ctx context.Context, id string) (*models.Work, error) {
	if work, ok := f.works[id]; ok {
		return work, nil
	}
	return nil, repositories.ErrWorkNotFound
}

func (f *fakeWorkRepo) GetWorksByKol(ctx context.Context, kolID string) ([]models.Work, error) {
	var works []models.Work
	for _, work := range f.works {
		if work.KolID == kolID {
			works = append(works, *work)
		}
	}
	return works, nil
}

func (f *fakeWorkRepo) GetWorksByBrand(ctx context.Context, brandID string) ([]models.Work, error) {
	var works []models.Work
	for _, work := range f.works {
		if work.BrandID == brandID {
			works = append(works, *work)
		}
	}
	return works, nil
}

func (f *fakeWorkRepo) HasApplied(ctx context.Context, campaignID, kolID string) (bool, error) {
	for _, work := range f.works {
		if work.CampaignID == campaignID && work.KolID == kolID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeWorkRepo) SaveProgress(ctx context.Context, work *models.Work) error {
	if _, ok := f.works[work.ID.Hex()]; !ok {
		return repositories.ErrWorkNotFound
	}
	work.UpdatedAt = time.Now()
	f.works[work.ID.Hex()] = work
	return nil
}

type fakeCampaignRepo struct {
	campaigns map[string]*models.Campaign
}

func newFakeCampaignRepo() *fakeCampaignRepo {
	return &fakeCampaignRepo{campaigns: map[string]*models.Campaign{}}
}

func (f *fakeCampaignRepo) addCampaign(brandID, status string, specs ...models.DeliverableSpec) *models.Campaign {
	campaign := &models.Campaign{
		ID:           primitive.NewObjectID(),
		BrandID:      brandID,
		Title:        "Summer launch",
		Brief:        "Promote the summer collection",
		Status:       status,
		Deliverables: specs,
		CreatedAt:    time.Now(),
	}
	f.campaigns[campaign.ID.Hex()] = campaign
	return campaign
}

func (f *fakeCampaignRepo) CreateCampaign(ctx context.Context, campaign *models.Campaign) error {
	campaign.ID = primitive.NewObjectID()
	campaign.CreatedAt = time.Now()
	f.campaigns[campaign.ID.Hex()] = campaign
	return nil
}

func (f *fakeCampaignRepo) GetCampaignByID(ctx context.Context, id string) (*models.Campaign, error) {
	if campaign, ok := f.campaigns[id]; ok {
		return campaign, nil
	}
	return nil, repositories.ErrCampaignNotFound
}

func (f *fakeCampaignRepo) GetCampaigns(ctx context.Context, status string, skip, limit int64) ([]models.Campaign, error) {
	var campaigns []models.Campaign
	for _, campaign := range f.campaigns {
		if status == "" || campaign.Status == status {
			campaigns = append(campaigns, *campaign)
		}
	}
	return campaigns, nil
}

func (f *fakeCampaignRepo) UpdateStatus(ctx context.Context, id, status string) error {
	campaign, ok := f.campaigns[id]
	if !ok {
		return repositories.ErrCampaignNotFound
	}
	campaign.Status = status
	return nil
}

// --- test harness helpers ---

func claimsFor(user *models.User) *models.JwtCustomClaims {
	return &models.JwtCustomClaims{
		UserID:   user.ID.Hex(),
		Username: user.Username,
		Role:     user.Role,
	}
}

func newTestNotifier(repo repositories.NotificationRepository) *services.Notifier {
	return services.NewNotifier(repo)
}

// newTestContext builds an Echo context with a validator, a JSON body and the
// caller's claims preset, mimicking what the router and auth middleware do
func newTestContext(t *testing.T, method, path string, body interface{}, claims *models.JwtCustomClaims) (echo.Context, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	e.Validator = validators.NewValidator()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if claims != nil {
		c.Set("user", claims)
	}
	return c, rec
}

// decodeData unwraps the {"success": true, "data": ...} envelope
func decodeData(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Success bool                   `json:"success"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	require.True(t, envelope.Success)
	return envelope.Data
}

func requireHTTPError(t *testing.T, err error, code int) *echo.HTTPError {
	t.Helper()

	var httpErr *echo.HTTPError
	require.ErrorAs(t, err, &httpErr)
	require.Equal(t, code, httpErr.Code)
	return httpErr
}
