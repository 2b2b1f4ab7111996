package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/sakif/resource-hub/internal/apperror"
	"github.com/sakif/resource-hub/internal/model"
	"github.com/sakif/resource-hub/internal/repository"
)

// =========================================================================
// IN-MEMORY FAKES
// =========================================================================
//
// Each fake implements one repository interface over a map. The services
// don't know or care whether they're talking to SQLite or these — that's
// the point of the interfaces. The fakes mirror the store's observable
// behaviour (NotFound errors, uniqueness Conflicts, insertion order) without
// any of its machinery.

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

// ---- users ----

type fakeUserRepo struct {
	users  map[string]*model.User
	nextID int
	err    error // when set, every method fails with it
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*model.User)}
}

func (f *fakeUserRepo) Create(_ context.Context, user *model.User) error {
	if f.err != nil {
		return f.err
	}
	for _, u := range f.users {
		if u.Username == user.Username || u.Email == user.Email {
			return apperror.Conflict("username or email already exists")
		}
	}
	f.nextID++
	user.ID = fmt.Sprintf("user-%d", f.nextID)
	stored := *user
	f.users[user.ID] = &stored
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[id]
	if !ok {
		return nil, apperror.NotFoundMsg("User not found")
	}
	result := *user
	return &result, nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFoundMsg("User not found")
}

func (f *fakeUserRepo) GetByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, u := range f.users {
		if u.GitHubID == githubID && githubID != 0 {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFoundMsg("User not found")
}

func (f *fakeUserRepo) ExistsByUsername(_ context.Context, username string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.users {
		if u.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	for _, u := range f.users {
		if u.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	if _, ok := f.users[id]; !ok {
		return apperror.NotFoundMsg("User not found")
	}
	delete(f.users, id)
	return nil
}

// ---- tokens ----

type fakeTokenRepo struct {
	tokens map[string]*model.Token // keyed by token string
	nextID int
}

func newFakeTokenRepo() *fakeTokenRepo {
	return &fakeTokenRepo{tokens: make(map[string]*model.Token)}
}

func (f *fakeTokenRepo) Create(_ context.Context, token *model.Token) error {
	f.nextID++
	token.ID = fmt.Sprintf("token-%d", f.nextID)
	stored := *token
	f.tokens[token.Token] = &stored
	return nil
}

func (f *fakeTokenRepo) GetByToken(_ context.Context, tokenStr string) (*model.Token, error) {
	token, ok := f.tokens[tokenStr]
	if !ok {
		return nil, apperror.NotFoundMsg("token not found")
	}
	result := *token
	return &result, nil
}

// ---- resources ----

type fakeResourceRepo struct {
	resources []*model.Resource // insertion order, oldest first
	nextID    int
}

func newFakeResourceRepo() *fakeResourceRepo {
	return &fakeResourceRepo{}
}

func (f *fakeResourceRepo) Create(_ context.Context, resource *model.Resource) error {
	f.nextID++
	resource.ID = fmt.Sprintf("resource-%d", f.nextID)
	stored := *resource
	f.resources = append(f.resources, &stored)
	return nil
}

func (f *fakeResourceRepo) GetByID(_ context.Context, id string) (*model.Resource, error) {
	for _, r := range f.resources {
		if r.ID == id {
			result := *r
			return &result, nil
		}
	}
	return nil, apperror.NotFoundMsg("Resource not found")
}

func (f *fakeResourceRepo) ListByUser(_ context.Context, userID string) ([]model.Resource, error) {
	var result []model.Resource
	// newest first
	for i := len(f.resources) - 1; i >= 0; i-- {
		if f.resources[i].UserID == userID {
			result = append(result, *f.resources[i])
		}
	}
	return result, nil
}

func (f *fakeResourceRepo) List(_ context.Context, opts repository.ListOptions) ([]model.Resource, error) {
	var all []model.Resource
	for i := len(f.resources) - 1; i >= 0; i-- {
		all = append(all, *f.resources[i])
	}
	if opts.Offset >= len(all) {
		return []model.Resource{}, nil
	}
	all = all[opts.Offset:]
	if opts.Limit > 0 && opts.Limit < len(all) {
		all = all[:opts.Limit]
	}
	return all, nil
}

func (f *fakeResourceRepo) Delete(_ context.Context, id string) error {
	for i, r := range f.resources {
		if r.ID == id {
			f.resources = append(f.resources[:i], f.resources[i+1:]...)
			return nil
		}
	}
	return apperror.NotFoundMsg("Resource not found")
}

// ---- comments ----

type fakeCommentRepo struct {
	comments []*model.Comment
	nextID   int
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{}
}

func (f *fakeCommentRepo) Create(_ context.Context, comment *model.Comment) error {
	f.nextID++
	comment.ID = fmt.Sprintf("comment-%d", f.nextID)
	stored := *comment
	f.comments = append(f.comments, &stored)
	return nil
}

func (f *fakeCommentRepo) GetByID(_ context.Context, id string) (*model.Comment, error) {
	for _, c := range f.comments {
		if c.ID == id {
			result := *c
			return &result, nil
		}
	}
	return nil, apperror.NotFoundMsg("Comment not found")
}

func (f *fakeCommentRepo) ListByResource(_ context.Context, resourceID string) ([]model.Comment, error) {
	result := []model.Comment{}
	for _, c := range f.comments {
		if c.ResourceID == resourceID {
			result = append(result, *c)
		}
	}
	return result, nil
}

func (f *fakeCommentRepo) Delete(_ context.Context, id string) error {
	for i, c := range f.comments {
		if c.ID == id {
			f.comments = append(f.comments[:i], f.comments[i+1:]...)
			return nil
		}
	}
	return apperror.NotFoundMsg("Comment not found")
}

// ---- likes ----

type fakeLikeRepo struct {
	likes  []*model.Like
	nextID int
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{}
}

func (f *fakeLikeRepo) Create(_ context.Context, like *model.Like) error {
	for _, l := range f.likes {
		if l.UserID == like.UserID && l.ResourceID == like.ResourceID {
			return apperror.Conflict("You already liked this resource")
		}
	}
	f.nextID++
	like.ID = fmt.Sprintf("like-%d", f.nextID)
	stored := *like
	f.likes = append(f.likes, &stored)
	return nil
}

func (f *fakeLikeRepo) GetByUserAndResource(_ context.Context, userID, resourceID string) (*model.Like, error) {
	for _, l := range f.likes {
		if l.UserID == userID && l.ResourceID == resourceID {
			result := *l
			return &result, nil
		}
	}
	return nil, apperror.NotFoundMsg("like not found")
}

func (f *fakeLikeRepo) ListByResource(_ context.Context, resourceID string) ([]model.Like, error) {
	result := []model.Like{}
	for _, l := range f.likes {
		if l.ResourceID == resourceID {
			result = append(result, *l)
		}
	}
	return result, nil
}

func (f *fakeLikeRepo) Delete(_ context.Context, id string) error {
	for i, l := range f.likes {
		if l.ID == id {
			f.likes = append(f.likes[:i], f.likes[i+1:]...)
			return nil
		}
	}
	return apperror.NotFoundMsg("like not found")
}

// compile-time checks: the fakes track the real interfaces
var (
	_ repository.UserRepository     = (*fakeUserRepo)(nil)
	_ repository.TokenRepository    = (*fakeTokenRepo)(nil)
	_ repository.ResourceRepository = (*fakeResourceRepo)(nil)
	_ repository.CommentRepository  = (*fakeCommentRepo)(nil)
	_ repository.LikeRepository     = (*fakeLikeRepo)(nil)
)

// seedUser puts a user straight into the fake, bypassing Register.
func seedUser(t *testing.T, repo *fakeUserRepo, username, passwordHash string) *model.User {
	t.Helper()
	user := &model.User{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: passwordHash,
	}
	if err := repo.Create(context.Background(), user); err != nil {
		t.Fatalf("seeding user %q: %v", username, err)
	}
	return user
}
