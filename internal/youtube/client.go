// Package youtube fetches videos, comments and caption transcripts from
// YouTube: search and comments through the Data API v3, transcripts from the
// caption track advertised by the watch page.
package youtube

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const (
	DefaultAPIBase   = "https://www.googleapis.com/youtube/v3"
	DefaultWatchBase = "https://www.youtube.com"

	maxSearchPage  = 50
	maxCommentPage = 100
	maxBodyBytes   = 8 << 20
)

// ErrNoAPIKey is returned by Data API calls when no key is configured.
var ErrNoAPIKey = errors.New("youtube: API key not configured")

// APIError is an error object returned by the Data API or a non-2xx status.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("youtube: status %d", e.Status)
	}
	return fmt.Sprintf("youtube: status %d: %s", e.Status, e.Message)
}

// Video is one search result.
type Video struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Channel     string    `json:"channel"`
	Description string    `json:"description,omitempty"`
	PublishedAt time.Time `json:"published_at"`
}

// Comment is a top-level comment of a video, as plain text.
type Comment struct {
	ID          string    `json:"id"`
	Author      string    `json:"author"`
	Text        string    `json:"text"`
	LikeCount   int       `json:"like_count"`
	PublishedAt time.Time `json:"published_at"`
}

// Options configure a Client. Zero values select the public endpoints and
// http.DefaultClient.
type Options struct {
	APIKey string
	// CaptionLang selects the caption track; empty takes the first track.
	CaptionLang string
	APIBase     string
	WatchBase   string
	HTTPClient  *http.Client
	Logger      *zerolog.Logger
}

// Client talks to YouTube.
type Client struct {
	key       string
	lang      string
	apiBase   string
	watchBase string
	hc        *http.Client
	log       zerolog.Logger
}

// New returns a Client.
func New(o Options) *Client {
	c := &Client{
		key:       o.APIKey,
		lang:      o.CaptionLang,
		apiBase:   strings.TrimRight(o.APIBase, "/"),
		watchBase: strings.TrimRight(o.WatchBase, "/"),
		hc:        o.HTTPClient,
		log:       zerolog.Nop(),
	}
	if c.apiBase == "" {
		c.apiBase = DefaultAPIBase
	}
	if c.watchBase == "" {
		c.watchBase = DefaultWatchBase
	}
	if c.hc == nil {
		c.hc = http.DefaultClient
	}
	if o.Logger != nil {
		c.log = *o.Logger
	}
	c.log = c.log.With().Str("component", "youtube").Logger()
	return c
}

type apiErrorBody struct {
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type searchPage struct {
	apiErrorBody
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID struct {
			VideoID string `json:"videoId"`
		} `json:"id"`
		Snippet struct {
			Title        string    `json:"title"`
			Description  string    `json:"description"`
			ChannelTitle string    `json:"channelTitle"`
			PublishedAt  time.Time `json:"publishedAt"`
		} `json:"snippet"`
	} `json:"items"`
}

// Search returns up to max videos matching query, following result pages.
func (c *Client) Search(ctx context.Context, query string, max int) ([]Video, error) {
	if max <= 0 {
		return nil, nil
	}
	var (
		videos []Video
		token  string
	)
	for len(videos) < max {
		q := url.Values{
			"part":       {"snippet"},
			"type":       {"video"},
			"q":          {query},
			"maxResults": {fmt.Sprint(min(max-len(videos), maxSearchPage))},
		}
		if token != "" {
			q.Set("pageToken", token)
		}
		var page searchPage
		if err := c.getAPI(ctx, "/search", q, &page); err != nil {
			return videos, err
		}
		for _, it := range page.Items {
			if it.ID.VideoID == "" {
				continue
			}
			videos = append(videos, Video{
				ID:          it.ID.VideoID,
				Title:       plainText(it.Snippet.Title),
				Channel:     it.Snippet.ChannelTitle,
				Description: plainText(it.Snippet.Description),
				PublishedAt: it.Snippet.PublishedAt,
			})
		}
		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		token = page.NextPageToken
	}
	if len(videos) > max {
		videos = videos[:max]
	}
	c.log.Debug().Str("query", query).Int("videos", len(videos)).Msg("search done")
	return videos, nil
}

type commentPage struct {
	apiErrorBody
	NextPageToken string `json:"nextPageToken"`
	Items         []struct {
		ID      string `json:"id"`
		Snippet struct {
			TopLevelComment struct {
				Snippet struct {
					TextDisplay       string    `json:"textDisplay"`
					AuthorDisplayName string    `json:"authorDisplayName"`
					LikeCount         int       `json:"likeCount"`
					PublishedAt       time.Time `json:"publishedAt"`
				} `json:"snippet"`
			} `json:"topLevelComment"`
		} `json:"snippet"`
	} `json:"items"`
}

// Comments returns up to max top-level comments of videoID, following
// result pages. Empty comments are skipped.
func (c *Client) Comments(ctx context.Context, videoID string, max int) ([]Comment, error) {
	if max <= 0 {
		return nil, nil
	}
	var (
		out   []Comment
		token string
	)
	for len(out) < max {
		q := url.Values{
			"part":       {"snippet"},
			"videoId":    {videoID},
			"textFormat": {"plainText"},
			"maxResults": {fmt.Sprint(min(max-len(out), maxCommentPage))},
		}
		if token != "" {
			q.Set("pageToken", token)
		}
		var page commentPage
		if err := c.getAPI(ctx, "/commentThreads", q, &page); err != nil {
			return out, err
		}
		for _, it := range page.Items {
			s := it.Snippet.TopLevelComment.Snippet
			text := plainText(s.TextDisplay)
			if text == "" {
				continue
			}
			out = append(out, Comment{
				ID:          it.ID,
				Author:      s.AuthorDisplayName,
				Text:        text,
				LikeCount:   s.LikeCount,
				PublishedAt: s.PublishedAt,
			})
		}
		if page.NextPageToken == "" || len(page.Items) == 0 {
			break
		}
		token = page.NextPageToken
	}
	if len(out) > max {
		out = out[:max]
	}
	return out, nil
}

// errorCarrier is implemented by every Data API response body.
type errorCarrier interface{ apiError() *APIError }

func (b apiErrorBody) apiError() *APIError {
	if b.Error == nil {
		return nil
	}
	return &APIError{Status: b.Error.Code, Message: b.Error.Message}
}

func (c *Client) getAPI(ctx context.Context, path string, q url.Values, out errorCarrier) error {
	if c.key == "" {
		return ErrNoAPIKey
	}
	q.Set("key", c.key)
	body, status, err := c.get(ctx, c.apiBase+path+"?"+q.Encode())
	if err != nil {
		return err
	}
	jerr := json.Unmarshal(body, out)
	if jerr == nil {
		if ae := out.apiError(); ae != nil {
			if ae.Status == 0 {
				ae.Status = status
			}
			return ae
		}
	}
	if status < 200 || status > 299 {
		return &APIError{Status: status, Message: strings.TrimSpace(string(body))}
	}
	if jerr != nil {
		return fmt.Errorf("youtube: decode %s: %w", path, jerr)
	}
	return nil
}

// get returns the body and status of a GET request. Non-2xx statuses are
// not errors here.
func (c *Client) get(ctx context.Context, u string) ([]byte, int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, 0, err
	}
	req.Header.Set("Accept-Language", "en-US,en;q=0.8")
	resp, err := c.hc.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("youtube: %w", err)
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("youtube: read body: %w", err)
	}
	return body, resp.StatusCode, nil
}
