package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// APIError is returned for every non-2xx response.
type APIError struct {
	Status  int
	Code    int
	Message string
}

func (e *APIError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("api error %d (%d): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Client talks to the feed API and adapts every response into view models.
type Client struct {
	baseURL string
	http    *http.Client
	adapter Adapter
}

// Option customises a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

// WithAdapter replaces the default Adapter, e.g. to pin Now in tests.
func WithAdapter(a Adapter) Option {
	return func(c *Client) { c.adapter = a }
}

// New creates a Client for the API rooted at baseURL (scheme://host[:port]).
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 15 * time.Second},
		adapter: defaultAdapter,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Health returns nil when the API and its database are up.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/api/health", nil, nil)
}

func (c *Client) ListUsers(ctx context.Context) ([]User, error) {
	raw, err := c.list(ctx, "/api/users")
	if err != nil {
		return nil, err
	}
	out := make([]User, 0, len(raw))
	for _, r := range raw {
		out = append(out, c.adapter.User(r))
	}
	return out, nil
}

func (c *Client) CreateUser(ctx context.Context, in NewUser) (User, error) {
	raw, err := c.object(ctx, http.MethodPost, "/api/users", in)
	if err != nil {
		return User{}, err
	}
	return c.adapter.User(raw), nil
}

// ListPosts fetches one page of the feed.
func (c *Client) ListPosts(ctx context.Context, page, limit int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return c.page(ctx, "/api/posts?"+q.Encode())
}

// ListUserPosts fetches one page of a single author's posts.
func (c *Client) ListUserPosts(ctx context.Context, userID string, page, limit int) (Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	return c.page(ctx, "/api/users/"+url.PathEscape(userID)+"/posts?"+q.Encode())
}

func (c *Client) CreatePost(ctx context.Context, in NewPost) (Post, error) {
	raw, err := c.object(ctx, http.MethodPost, "/api/posts", in)
	if err != nil {
		return Post{}, err
	}
	return c.adapter.Post(raw), nil
}

func (c *Client) GetPost(ctx context.Context, id string) (Post, error) {
	raw, err := c.object(ctx, http.MethodGet, "/api/posts/"+url.PathEscape(id), nil)
	if err != nil {
		return Post{}, err
	}
	return c.adapter.Post(raw), nil
}

func (c *Client) ListComments(ctx context.Context, postID string) ([]Comment, error) {
	raw, err := c.list(ctx, "/api/posts/"+url.PathEscape(postID)+"/comments")
	if err != nil {
		return nil, err
	}
	out := make([]Comment, 0, len(raw))
	for _, r := range raw {
		out = append(out, c.adapter.Comment(r))
	}
	return out, nil
}

func (c *Client) CreateComment(ctx context.Context, postID string, in NewComment) (Comment, error) {
	raw, err := c.object(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/comments", in)
	if err != nil {
		return Comment{}, err
	}
	return c.adapter.Comment(raw), nil
}

// LikePost records userID's like and returns the post with the server's counters.
func (c *Client) LikePost(ctx context.Context, postID, userID string) (Post, error) {
	return c.postEngagement(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/like", userID)
}

func (c *Client) UnlikePost(ctx context.Context, postID, userID string) (Post, error) {
	return c.postEngagement(ctx, http.MethodDelete, "/api/posts/"+url.PathEscape(postID)+"/like", userID)
}

func (c *Client) SharePost(ctx context.Context, postID string) (Post, error) {
	raw, err := c.object(ctx, http.MethodPost, "/api/posts/"+url.PathEscape(postID)+"/share", nil)
	if err != nil {
		return Post{}, err
	}
	return c.adapter.Post(raw), nil
}

func (c *Client) LikeComment(ctx context.Context, commentID, userID string) (Comment, error) {
	return c.commentEngagement(ctx, http.MethodPost, "/api/comments/"+url.PathEscape(commentID)+"/like", userID)
}

func (c *Client) UnlikeComment(ctx context.Context, commentID, userID string) (Comment, error) {
	return c.commentEngagement(ctx, http.MethodDelete, "/api/comments/"+url.PathEscape(commentID)+"/like", userID)
}

// Follow makes followerID follow userID and returns userID's account with the
// server's counters. Following twice is not an error.
func (c *Client) Follow(ctx context.Context, userID, followerID string) (User, error) {
	u, _, err := c.follow(ctx, http.MethodPost, userID, followerID)
	return u, err
}

func (c *Client) Unfollow(ctx context.Context, userID, followerID string) (User, error) {
	u, _, err := c.follow(ctx, http.MethodDelete, userID, followerID)
	return u, err
}

// IsFollowing reports whether followerID follows userID.
func (c *Client) IsFollowing(ctx context.Context, userID, followerID string) (bool, error) {
	_, following, err := c.follow(ctx, http.MethodGet, userID, followerID)
	return following, err
}

func (c *Client) follow(ctx context.Context, method, userID, followerID string) (User, bool, error) {
	path := "/api/users/" + url.PathEscape(userID) + "/follow?userId=" + url.QueryEscape(followerID)
	raw, err := c.object(ctx, method, path, nil)
	if err != nil {
		return User{}, false, err
	}
	following := firstBool(raw, "following")
	u, ok := raw["user"].(map[string]any)
	if !ok {
		return User{}, following, nil
	}
	return c.adapter.User(u), following, nil
}

// Search runs the server-side search.
func (c *Client) Search(ctx context.Context, query string) (SearchResult, error) {
	raw, err := c.object(ctx, http.MethodGet, "/api/search?q="+url.QueryEscape(query), nil)
	if err != nil {
		return SearchResult{}, err
	}
	res := SearchResult{Users: []User{}, Posts: []Post{}}
	for _, r := range records(raw["users"]) {
		res.Users = append(res.Users, c.adapter.User(r))
	}
	for _, r := range records(raw["posts"]) {
		res.Posts = append(res.Posts, c.adapter.Post(r))
	}
	return res, nil
}

func (c *Client) postEngagement(ctx context.Context, method, path, userID string) (Post, error) {
	raw, err := c.object(ctx, method, path+"?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return Post{}, err
	}
	p, _ := raw["post"].(map[string]any)
	return c.adapter.Post(p), nil
}

func (c *Client) commentEngagement(ctx context.Context, method, path, userID string) (Comment, error) {
	raw, err := c.object(ctx, method, path+"?userId="+url.QueryEscape(userID), nil)
	if err != nil {
		return Comment{}, err
	}
	cm, _ := raw["comment"].(map[string]any)
	return c.adapter.Comment(cm), nil
}

func (c *Client) page(ctx context.Context, path string) (Page, error) {
	raw, err := c.object(ctx, http.MethodGet, path, nil)
	if err != nil {
		return Page{}, err
	}
	pg := Page{
		Page:  firstCount(raw, "page"),
		Limit: firstCount(raw, "limit"),
		Total: firstCount(raw, "total"),
		Items: []Post{},
	}
	for _, r := range records(raw["items"]) {
		pg.Items = append(pg.Items, c.adapter.Post(r))
	}
	return pg, nil
}

func (c *Client) object(ctx context.Context, method, path string, body any) (map[string]any, error) {
	out := map[string]any{}
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) list(ctx context.Context, path string) ([]map[string]any, error) {
	var out []any
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return records(out), nil
}

// records keeps the JSON objects of an array and drops anything else.
func records(v any) []map[string]any {
	arr, _ := v.([]any)
	out := make([]map[string]any, 0, len(arr))
	for _, e := range arr {
		if m, ok := e.(map[string]any); ok {
			out = append(out, m)
		}
	}
	return out
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	apiErr := &APIError{Status: resp.StatusCode}
	var body struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if json.Unmarshal(b, &body) == nil && body.Message != "" {
		apiErr.Code = body.Code
		apiErr.Message = body.Message
		return apiErr
	}
	apiErr.Message = strings.TrimSpace(string(b))
	if apiErr.Message == "" {
		apiErr.Message = http.StatusText(resp.StatusCode)
	}
	return apiErr
}
