// internal/database/memory.go
package database

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/partiallymisplaced/so-connect/internal/models"
	"github.com/partiallymisplaced/so-connect/internal/utils"
)

// MemoryStore is the in-memory Store implementation used by tests and by
// local runs without a MongoDB URI. A single mutex makes every operation
// atomic at the aggregate level, matching the conditional-update guarantees
// of the MongoDB implementation.
type MemoryStore struct {
	mu       sync.Mutex
	users    map[uuid.UUID]*models.User
	profiles map[uuid.UUID]*models.Profile // keyed by owning user ID
	posts    map[uuid.UUID]*models.Post
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:    make(map[uuid.UUID]*models.User),
		profiles: make(map[uuid.UUID]*models.Profile),
		posts:    make(map[uuid.UUID]*models.Post),
	}
}

func (s *MemoryStore) Close(ctx context.Context) error {
	return nil
}

func copyUser(u *models.User) *models.User {
	c := *u
	return &c
}

func copyProfile(p *models.Profile) *models.Profile {
	c := *p
	c.Skills = append([]string{}, p.Skills...)
	c.Experience = append([]models.Experience{}, p.Experience...)
	c.Education = append([]models.Education{}, p.Education...)
	return &c
}

func copyPost(p *models.Post) *models.Post {
	c := *p
	c.Likes = append([]models.Like{}, p.Likes...)
	c.Comments = append([]models.Comment{}, p.Comments...)
	return &c
}

func (s *MemoryStore) SaveUser(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Email == user.Email && existing.ID != user.ID {
			return utils.NewAppError(utils.ErrUserAlreadyExists, "Email already registered", nil)
		}
	}
	s.users[user.ID] = copyUser(user)
	return nil
}

func (s *MemoryStore) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, utils.NewUserNotFoundError(id.String())
	}
	return copyUser(user), nil
}

func (s *MemoryStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == email {
			return copyUser(user), nil
		}
	}
	return nil, utils.NewUserNotFoundError(email)
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[id]; !ok {
		return utils.NewUserNotFoundError(id.String())
	}
	delete(s.users, id)
	return nil
}

func (s *MemoryStore) SaveProfile(ctx context.Context, profile *models.Profile) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.profiles {
		if existing.Handle == profile.Handle && existing.User != profile.User {
			return utils.NewFieldError(utils.ErrDuplicate, "handle", "That handle already exists")
		}
	}
	s.profiles[profile.User] = copyProfile(profile)
	return nil
}

func (s *MemoryStore) GetProfileByUser(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.profileByUserLocked(userID)
}

func (s *MemoryStore) profileByUserLocked(userID uuid.UUID) (*models.Profile, error) {
	profile, ok := s.profiles[userID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", nil)
	}
	return copyProfile(profile), nil
}

func (s *MemoryStore) GetProfileByHandle(ctx context.Context, handle string) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, profile := range s.profiles {
		if profile.Handle == handle {
			return copyProfile(profile), nil
		}
	}
	return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", nil)
}

func (s *MemoryStore) GetAllProfiles(ctx context.Context) ([]*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profiles := []*models.Profile{}
	for _, profile := range s.profiles {
		profiles = append(profiles, copyProfile(profile))
	}
	sort.Slice(profiles, func(i, j int) bool {
		return profiles[i].CreatedAt.After(profiles[j].CreatedAt)
	})
	return profiles, nil
}

func (s *MemoryStore) UpdateProfile(ctx context.Context, userID uuid.UUID, update models.ProfileUpdate) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", nil)
	}
	if update.Handle != "" && update.Handle != profile.Handle {
		for _, existing := range s.profiles {
			if existing.Handle == update.Handle {
				return nil, utils.NewFieldError(utils.ErrDuplicate, "handle", "That handle already exists")
			}
		}
	}
	update.Apply(profile)
	return copyProfile(profile), nil
}

func (s *MemoryStore) AddExperience(ctx context.Context, userID uuid.UUID, exp models.Experience) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", nil)
	}
	profile.AddExperience(exp)
	return copyProfile(profile), nil
}

func (s *MemoryStore) RemoveExperience(ctx context.Context, userID, entryID uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", nil)
	}
	if !profile.RemoveExperience(entryID) {
		return nil, utils.NewFieldError(utils.ErrNotFound, "experiencenotfound", "Experience is not found")
	}
	return copyProfile(profile), nil
}

func (s *MemoryStore) AddEducation(ctx context.Context, userID uuid.UUID, edu models.Education) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", nil)
	}
	profile.AddEducation(edu)
	return copyProfile(profile), nil
}

func (s *MemoryStore) RemoveEducation(ctx context.Context, userID, entryID uuid.UUID) (*models.Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	profile, ok := s.profiles[userID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Profile not found", nil)
	}
	if !profile.RemoveEducation(entryID) {
		return nil, utils.NewFieldError(utils.ErrNotFound, "educationnotfound", "Education is not found")
	}
	return copyProfile(profile), nil
}

func (s *MemoryStore) DeleteProfileByUser(ctx context.Context, userID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.profiles, userID)
	return nil
}

func (s *MemoryStore) SavePost(ctx context.Context, post *models.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.posts[post.ID] = copyPost(post)
	return nil
}

func (s *MemoryStore) GetPost(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.postLocked(id)
}

func (s *MemoryStore) postLocked(id uuid.UUID) (*models.Post, error) {
	post, ok := s.posts[id]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	return copyPost(post), nil
}

func (s *MemoryStore) GetAllPosts(ctx context.Context) ([]*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	posts := []*models.Post{}
	for _, post := range s.posts {
		posts = append(posts, copyPost(post))
	}
	sort.Slice(posts, func(i, j int) bool {
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
	return posts, nil
}

func (s *MemoryStore) DeletePost(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.posts[id]; !ok {
		return utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	delete(s.posts, id)
	return nil
}

func (s *MemoryStore) AddLike(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	if !post.AddLike(userID) {
		return nil, utils.NewAppError(utils.ErrAlreadyLiked, "User already liked this post", nil)
	}
	return copyPost(post), nil
}

func (s *MemoryStore) RemoveLike(ctx context.Context, postID, userID uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	if !post.RemoveLike(userID) {
		return nil, utils.NewAppError(utils.ErrNotLiked, "The user has not liked this post yet", nil)
	}
	return copyPost(post), nil
}

func (s *MemoryStore) AddComment(ctx context.Context, postID uuid.UUID, comment models.Comment) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	post.AddComment(comment)
	return copyPost(post), nil
}

func (s *MemoryStore) RemoveComment(ctx context.Context, postID, commentID uuid.UUID) (*models.Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[postID]
	if !ok {
		return nil, utils.NewAppError(utils.ErrNotFound, "Post not found", nil)
	}
	if !post.RemoveComment(commentID) {
		return nil, utils.NewFieldError(utils.ErrNotFound, "notfound", "This comment does not exist")
	}
	return copyPost(post), nil
}
