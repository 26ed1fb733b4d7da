package entity

import "time"

// Asset roles, in the order they are downloaded.
const (
	RoleBackground = "background"
	RoleLogo       = "logo"
	RoleOverlay    = "overlay"
)

var AssetRoles = []string{RoleBackground, RoleLogo, RoleOverlay}

// RenderRequest is the validated parameter set of one render call.
type RenderRequest struct {
	Background string `form:"background"`
	Logo       string `form:"logo"`
	Overlay    string `form:"overlay"`
	Text       string `form:"text"`
	TextColor  string `form:"text-color"`
}

// URL returns the source url of the given asset role.
func (r RenderRequest) URL(role string) string {
	switch role {
	case RoleBackground:
		return r.Background
	case RoleLogo:
		return r.Logo
	case RoleOverlay:
		return r.Overlay
	}
	return ""
}

type RenderResult struct {
	ID     string
	PNG    []byte
	Width  int
	Height int
	Lines  []string
}

// RenderEvent is published after every successful render.
type RenderEvent struct {
	RequestID  string    `json:"request_id"`
	Route      string    `json:"route"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Lines      int       `json:"lines"`
	Bytes      int       `json:"bytes"`
	DurationMs int64     `json:"duration_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

type Quote struct {
	Content string `json:"content"`
	Author  string `json:"author"`
}
