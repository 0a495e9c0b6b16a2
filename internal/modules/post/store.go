// Package post is the self-contained announcement store. Posts are not part
// of the scholar/publication/keyword graph and live in an in-memory mock
// store for the process lifetime.
package post

import (
	"bytes"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/vietlabour/portal/internal/pkg/apperr"
	"github.com/vietlabour/portal/internal/pkg/pagination"
	"github.com/vietlabour/portal/internal/pkg/response"
	"github.com/vietlabour/portal/internal/pkg/slug"
	"github.com/yuin/goldmark"
)

// Post is a blog/announcement entry. Body is markdown; HTML is rendered on
// write.
type Post struct {
	ID          string    `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Body        string    `json:"body"`
	HTML        string    `json:"html"`
	Tags        []string  `json:"tags"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CreatePostDTO struct {
	Title       string     `json:"title" binding:"required"`
	Body        string     `json:"body" binding:"required"`
	Tags        []string   `json:"tags"`
	PublishedAt *time.Time `json:"publishedAt"`
}

type UpdatePostDTO struct {
	Title *string   `json:"title"`
	Body  *string   `json:"body"`
	Tags  *[]string `json:"tags"`
}

// Store holds posts in memory, guarded by a single mutex.
type Store struct {
	mu    sync.RWMutex
	posts map[string]*Post
	md    goldmark.Markdown
}

func NewStore() *Store {
	return &Store{
		posts: make(map[string]*Post),
		md:    goldmark.New(),
	}
}

func (s *Store) render(body string) (string, error) {
	var buf bytes.Buffer
	if err := s.md.Convert([]byte(body), &buf); err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return buf.String(), nil
}

// resolveSlug derives a unique post slug within the store.
func (s *Store) resolveSlug(title string) string {
	base := slug.Normalize(title)
	if base == "" {
		base = "post"
	}
	taken := make(map[string]struct{}, len(s.posts))
	for _, p := range s.posts {
		taken[p.Slug] = struct{}{}
	}
	if _, ok := taken[base]; !ok {
		return base
	}
	for i := 1; ; i++ {
		try := fmt.Sprintf("%s-%d", base, i)
		if _, ok := taken[try]; !ok {
			return try
		}
	}
}

func (s *Store) Create(dto *CreatePostDTO) (*Post, error) {
	title := strings.TrimSpace(dto.Title)
	if title == "" {
		return nil, apperr.Validationf("title is required")
	}

	html, err := s.render(dto.Body)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	publishedAt := now
	if dto.PublishedAt != nil {
		publishedAt = *dto.PublishedAt
	}
	p := &Post{
		ID:          uuid.New().String(),
		Slug:        s.resolveSlug(title),
		Title:       title,
		Body:        dto.Body,
		HTML:        html,
		Tags:        append([]string{}, dto.Tags...),
		PublishedAt: publishedAt,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	s.posts[p.ID] = p
	return p.clone(), nil
}

func (s *Store) Update(id string, dto *UpdatePostDTO) (*Post, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.posts[id]
	if !ok {
		return nil, apperr.NotFoundf("post %s not found", id)
	}

	if dto.Title != nil {
		title := strings.TrimSpace(*dto.Title)
		if title == "" {
			return nil, apperr.Validationf("title cannot be empty")
		}
		p.Title = title
	}
	if dto.Body != nil {
		html, err := s.render(*dto.Body)
		if err != nil {
			return nil, err
		}
		p.Body = *dto.Body
		p.HTML = html
	}
	if dto.Tags != nil {
		p.Tags = append([]string{}, (*dto.Tags)...)
	}
	p.UpdatedAt = time.Now()
	return p.clone(), nil
}

func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.posts[id]; !ok {
		return apperr.NotFoundf("post %s not found", id)
	}
	delete(s.posts, id)
	return nil
}

func (s *Store) GetBySlug(postSlug string) (*Post, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.posts {
		if p.Slug == postSlug {
			return p.clone(), nil
		}
	}
	return nil, apperr.NotFoundf("post %s not found", postSlug)
}

// List returns posts newest-first, paginated.
func (s *Store) List(q pagination.Query) ([]*Post, response.Pagination) {
	s.mu.RLock()
	all := make([]*Post, 0, len(s.posts))
	for _, p := range s.posts {
		all = append(all, p.clone())
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		return all[i].PublishedAt.After(all[j].PublishedAt)
	})

	total := int64(len(all))
	start := q.Offset()
	if start > len(all) {
		start = len(all)
	}
	end := start + q.Limit
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], q.Meta(total)
}

func (p *Post) clone() *Post {
	cp := *p
	cp.Tags = append([]string{}, p.Tags...)
	return &cp
}
