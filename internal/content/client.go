package content

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

const (
	defaultAuthor   = "Alentejo Bites Team"
	defaultCategory = "Journal"
	defaultDate     = "Jan 01, 2026"
	defaultImage    = "https://images.unsplash.com/photo-1517248135467-4c7edcad34c4?w=800&h=600&fit=crop"
	defaultBody     = "Content coming soon."
)

const postsQuery = `*[_type == "post" && defined(postId)] | order(publishedAt desc){
  postId,
  title,
  excerpt,
  "body": pt::text(body),
  "author": coalesce(author->name, "Alentejo Bites Team"),
  "date": coalesce(date, string(publishedAt)[0..9]),
  "category": coalesce(category->title, "Journal"),
  "image": coalesce(mainImage.asset->url, "")
}`

var ErrPostNotFound = errors.New("post not found")

type ContentUseCase interface {
	Posts(ctx context.Context) []Post
	Post(ctx context.Context, id int) (*Post, error)
}

type postRecord struct {
	PostID   int    `json:"postId"`
	Title    string `json:"title"`
	Excerpt  string `json:"excerpt"`
	Body     string `json:"body"`
	Author   string `json:"author"`
	Date     string `json:"date"`
	Category string `json:"category"`
	Image    string `json:"image"`
}

type queryResponse struct {
	Result []postRecord `json:"result"`
}

// Client reads posts from the headless CMS query API.
type Client struct {
	BaseURL    string
	HttpClient *http.Client
	log        logrus.FieldLogger
}

// NewClient returns a client for cfg. With no project id BaseURL stays empty
// and every call serves StaticPosts.
func NewClient(cfg config.ContentConfig, log logrus.FieldLogger) *Client {
	c := &Client{
		HttpClient: &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second},
		log:        log,
	}
	if cfg.ProjectID != "" {
		c.BaseURL = fmt.Sprintf("https://%s.api.sanity.io/v%s/data/query/%s", cfg.ProjectID, cfg.APIVersion, cfg.Dataset)
	}
	return c
}

// Posts never fails: any problem with the remote source yields StaticPosts.
func (c *Client) Posts(ctx context.Context) []Post {
	if c.BaseURL == "" {
		return StaticPosts()
	}

	records, err := c.fetch(ctx)
	if err != nil {
		c.log.WithError(err).Warn("content api unavailable, serving static posts")
		return StaticPosts()
	}
	if len(records) == 0 {
		return StaticPosts()
	}

	valid := lo.Filter(records, func(r postRecord, _ int) bool {
		return r.PostID != 0 && r.Title != "" && r.Excerpt != ""
	})
	return lo.Map(valid, func(r postRecord, _ int) Post { return r.toPost() })
}

func (c *Client) Post(ctx context.Context, id int) (*Post, error) {
	post, ok := lo.Find(c.Posts(ctx), func(p Post) bool { return p.ID == id })
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrPostNotFound, id)
	}
	return &post, nil
}

func (c *Client) fetch(ctx context.Context) ([]postRecord, error) {
	endpoint := c.BaseURL + "?query=" + url.QueryEscape(postsQuery)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("content api returned %d", resp.StatusCode)
	}

	var payload queryResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}
	return payload.Result, nil
}

func (r postRecord) toPost() Post {
	return Post{
		ID:         r.PostID,
		Title:      r.Title,
		Excerpt:    r.Excerpt,
		Paragraphs: Paragraphs(r.Body),
		Author:     lo.Ternary(r.Author != "", r.Author, defaultAuthor),
		Date:       lo.Ternary(r.Date != "", r.Date, defaultDate),
		Category:   lo.Ternary(r.Category != "", r.Category, defaultCategory),
		Image:      lo.Ternary(r.Image != "", r.Image, defaultImage),
	}
}

// Paragraphs splits body on blank lines, dropping empty pieces.
func Paragraphs(body string) []string {
	if body == "" {
		return []string{defaultBody}
	}
	parts := lo.Map(strings.Split(body, "\n\n"), func(p string, _ int) string { return strings.TrimSpace(p) })
	return lo.Filter(parts, func(p string, _ int) bool { return p != "" })
}

var _ ContentUseCase = (*Client)(nil)
