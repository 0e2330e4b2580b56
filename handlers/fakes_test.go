package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"sort"
	"sync"
	"time"

	"blogify/auth"
	"blogify/handlers"
	"blogify/media"
	"blogify/models"
	"blogify/realtime"
	"blogify/routes"
	"blogify/store"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// In-memory implementations of the store/mailer/media interfaces so
// controller behavior can be exercised without MongoDB or external
// services.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[primitive.ObjectID]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[primitive.ObjectID]models.User)}
}

func (s *fakeUserStore) Create(_ context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == user.Email {
			return store.ErrDuplicateEmail
		}
	}
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	s.users[user.ID] = *user
	return nil
}

func (s *fakeUserStore) ByID(_ context.Context, id primitive.ObjectID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &u, nil
}

func (s *fakeUserStore) ByEmail(_ context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) ByVerificationToken(_ context.Context, token string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.VerificationToken != "" && u.VerificationToken == token {
			u := u
			return &u, nil
		}
	}
	return nil, store.ErrNotFound
}

func (s *fakeUserStore) MarkVerified(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return store.ErrNotFound
	}
	u.Verified = true
	u.VerificationToken = ""
	s.users[id] = u
	return nil
}

func (s *fakeUserStore) Update(_ context.Context, id primitive.ObjectID, patch store.UserPatch) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Name != "" {
		u.Name = patch.Name
	}
	if patch.Password != "" {
		u.Password = patch.Password
	}
	if patch.Avatar != nil {
		u.Avatar = patch.Avatar
	}
	s.users[id] = u
	return &u, nil
}

type fakePostStore struct {
	mu    sync.Mutex
	posts map[primitive.ObjectID]models.Post
}

func newFakePostStore() *fakePostStore {
	return &fakePostStore{posts: make(map[primitive.ObjectID]models.Post)}
}

func (s *fakePostStore) Create(_ context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if post.ID.IsZero() {
		post.ID = primitive.NewObjectID()
	}
	if post.Likes == nil {
		post.Likes = []primitive.ObjectID{}
	}
	s.posts[post.ID] = *post
	return nil
}

func (s *fakePostStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (s *fakePostStore) All(_ context.Context) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Post, 0, len(s.posts))
	for _, p := range s.posts {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *fakePostStore) ByAuthor(_ context.Context, author primitive.ObjectID) ([]models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Post
	for _, p := range s.posts {
		if p.AuthorID == author {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *fakePostStore) Update(_ context.Context, id primitive.ObjectID, patch store.PostPatch) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	if patch.Title != "" {
		p.Title = patch.Title
	}
	if patch.Content != "" {
		p.Content = patch.Content
	}
	if patch.Category != "" {
		p.Category = patch.Category
	}
	if patch.Image != nil {
		p.Image = patch.Image
	}
	s.posts[id] = p
	return &p, nil
}

func (s *fakePostStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.posts, id)
	return nil
}

func (s *fakePostStore) AddLike(_ context.Context, id, user primitive.ObjectID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	for _, l := range p.Likes {
		if l == user {
			return 0, store.ErrAlreadyLiked
		}
	}
	p.Likes = append(p.Likes, user)
	s.posts[id] = p
	return len(p.Likes), nil
}

func (s *fakePostStore) RemoveLike(_ context.Context, id, user primitive.ObjectID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.posts[id]
	if !ok {
		return 0, store.ErrNotFound
	}
	kept := p.Likes[:0]
	for _, l := range p.Likes {
		if l != user {
			kept = append(kept, l)
		}
	}
	p.Likes = kept
	s.posts[id] = p
	return len(p.Likes), nil
}

type fakeCommentStore struct {
	mu       sync.Mutex
	comments map[primitive.ObjectID]models.Comment
}

func newFakeCommentStore() *fakeCommentStore {
	return &fakeCommentStore{comments: make(map[primitive.ObjectID]models.Comment)}
}

func (s *fakeCommentStore) Create(_ context.Context, comment *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if comment.ID.IsZero() {
		comment.ID = primitive.NewObjectID()
	}
	if comment.Likes == nil {
		comment.Likes = []primitive.ObjectID{}
	}
	s.comments[comment.ID] = *comment
	return nil
}

func (s *fakeCommentStore) ByID(_ context.Context, id primitive.ObjectID) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &c, nil
}

func (s *fakeCommentStore) ByPost(_ context.Context, post primitive.ObjectID) ([]models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.PostID == post {
			out = append(out, c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt > out[j].CreatedAt })
	return out, nil
}

func (s *fakeCommentStore) UpdateContent(_ context.Context, id primitive.ObjectID, content string) (*models.Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	c.Content = content
	c.UpdatedAt = time.Now().Unix()
	s.comments[id] = c
	return &c, nil
}

func (s *fakeCommentStore) Delete(_ context.Context, id primitive.ObjectID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

func (s *fakeCommentStore) ToggleLike(_ context.Context, id, user primitive.ObjectID) (bool, int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.comments[id]
	if !ok {
		return false, 0, store.ErrNotFound
	}
	for i, l := range c.Likes {
		if l == user {
			c.Likes = append(c.Likes[:i], c.Likes[i+1:]...)
			s.comments[id] = c
			return false, len(c.Likes), nil
		}
	}
	c.Likes = append(c.Likes, user)
	s.comments[id] = c
	return true, len(c.Likes), nil
}

func (s *fakeCommentStore) CountByAuthor(_ context.Context, author primitive.ObjectID) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var n int64
	for _, c := range s.comments {
		if c.AuthorID == author {
			n++
		}
	}
	return n, nil
}

type fakeMailer struct {
	mu    sync.Mutex
	sent  []string
	fails bool
}

func (m *fakeMailer) Send(to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fails {
		return errors.New("smtp unavailable")
	}
	m.sent = append(m.sent, to)
	return nil
}

type fakeMedia struct {
	mu         sync.Mutex
	uploads    []string
	destroyed  []string
	destroyErr error
}

func (m *fakeMedia) Upload(_ context.Context, _ io.Reader, folder, _ string) (media.Asset, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := fmt.Sprintf("%s/upload-%d", folder, len(m.uploads)+1)
	m.uploads = append(m.uploads, id)
	return media.Asset{URL: "https://media.test/" + id, PublicID: id}, nil
}

func (m *fakeMedia) Destroy(_ context.Context, publicID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.destroyErr != nil {
		return m.destroyErr
	}
	m.destroyed = append(m.destroyed, publicID)
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

type publishedEvent struct {
	topic string
	event realtime.Event
}

func (p *fakePublisher) Publish(topic string, event realtime.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{topic: topic, event: event})
}

func (p *fakePublisher) byType(eventType string) []publishedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []publishedEvent
	for _, e := range p.events {
		if e.event.Type == eventType {
			out = append(out, e)
		}
	}
	return out
}

// env bundles a router wired with fakes plus handles to inspect them.
type env struct {
	router   *gin.Engine
	users    *fakeUserStore
	posts    *fakePostStore
	comments *fakeCommentStore
	mail     *fakeMailer
	media    *fakeMedia
	events   *fakePublisher
	tokens   *auth.Service
}

func newEnv() *env {
	gin.SetMode(gin.TestMode)

	e := &env{
		users:    newFakeUserStore(),
		posts:    newFakePostStore(),
		comments: newFakeCommentStore(),
		mail:     &fakeMailer{},
		media:    &fakeMedia{},
		events:   &fakePublisher{},
		tokens:   auth.NewService("test-secret", time.Hour),
	}

	h := handlers.New(e.users, e.posts, e.comments, e.tokens, e.mail, e.media, e.events, "http://localhost:8080")
	e.router = routes.SetupRouter(h, e.tokens)
	return e
}

// seedUser inserts a verified user and returns its ID plus a valid token.
func (e *env) seedUser(name, email string) (primitive.ObjectID, string) {
	user := &models.User{Name: name, Email: email, Verified: true, CreatedAt: time.Now().Unix()}
	e.users.Create(context.Background(), user)

	token, err := e.tokens.Issue(auth.Identity{ID: user.ID.Hex(), Name: name, Email: email})
	if err != nil {
		panic(err)
	}
	return user.ID, token
}

func (e *env) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader io.Reader
	if body != nil {
		data, _ := json.Marshal(body)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp := httptest.NewRecorder()
	e.router.ServeHTTP(resp, req)
	return resp
}

func decode(resp *httptest.ResponseRecorder) map[string]interface{} {
	var out map[string]interface{}
	json.Unmarshal(resp.Body.Bytes(), &out)
	return out
}
