package model

import (
	"time"
)

// PlaylistStatus represents the current status of a playlist expansion
type PlaylistStatus string

const (
	PlaylistStatusParsing PlaylistStatus = "parsing"
	PlaylistStatusReady   PlaylistStatus = "ready"
	PlaylistStatusError   PlaylistStatus = "error"
)

// PlaylistVideo represents a single video in a playlist
type PlaylistVideo struct {
	ID    string
	Title string
	URL   string
}

// Playlist represents a YouTube playlist with its videos
type Playlist struct {
	ID        string
	URL       string
	Videos    []*PlaylistVideo
	Status    PlaylistStatus
	Error     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewPlaylist creates a new playlist instance
func NewPlaylist(url string) *Playlist {
	now := time.Now()
	return &Playlist{
		URL:       url,
		Status:    PlaylistStatusParsing,
		Videos:    make([]*PlaylistVideo, 0),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// AddVideo adds a video to the playlist, skipping entries without a URL
func (p *Playlist) AddVideo(video *PlaylistVideo) {
	if video == nil || video.URL == "" {
		return
	}
	p.Videos = append(p.Videos, video)
	p.UpdatedAt = time.Now()
}

// UpdateStatus updates the playlist status
func (p *Playlist) UpdateStatus(status PlaylistStatus) {
	p.Status = status
	p.UpdatedAt = time.Now()
}

// Fail marks the playlist as failed with the given error
func (p *Playlist) Fail(err error) {
	p.Error = err.Error()
	p.UpdateStatus(PlaylistStatusError)
}

// URLs returns the watch URLs of all videos in order
func (p *Playlist) URLs() []string {
	urls := make([]string, 0, len(p.Videos))
	for _, video := range p.Videos {
		urls = append(urls, video.URL)
	}
	return urls
}
