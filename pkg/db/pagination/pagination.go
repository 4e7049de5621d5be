// Package pagination implements cursor-based pagination helpers shared by
// repositories and HTTP handlers.
package pagination

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
)

var ErrInvalidPageToken = errors.New("pagination: invalid page token")

// Pagination carries the raw paging inputs bound from a request.
type Pagination struct {
	PageToken string `form:"page_token" json:"page_token"`
	PageSize  int    `form:"page_size" json:"page_size"`
}

// Cursor is the decoded content of a page token.
type Cursor struct {
	ID        string `json:"id"`
	CreatedAt string `json:"created_at"`
}

// PageInfo is returned alongside list responses.
type PageInfo struct {
	NextPageToken string `json:"next_page_token,omitempty"`
	HasMore       bool   `json:"has_more"`
}

func EncodeCursor(c Cursor) (string, error) {
	raw, err := json.Marshal(c)
	if err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw), nil
}

func DecodeCursor(token string) (*Cursor, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, ErrInvalidPageToken
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, ErrInvalidPageToken
	}
	return &c, nil
}

// BuildCursorPageInfo inspects an over-fetched result set (pageSize+1 rows)
// and produces the PageInfo for the page. encode renders the token for the
// last visible item.
func BuildCursorPageInfo[T any](items []T, pageSize int, encode func(T) string) *PageInfo {
	if pageSize <= 0 {
		return nil
	}
	info := &PageInfo{}
	if len(items) > pageSize {
		info.HasMore = true
		info.NextPageToken = encode(items[pageSize-1])
	}
	return info
}
