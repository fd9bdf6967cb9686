package platform

import (
	"context"
	"fmt"
	"time"

	"github.com/ytget/yt-audio/internal/model"
	"github.com/ytget/ytdlp/v2"
)

// Timeout constants
const (
	DefaultParseTimeout = 60 * time.Second
)

// URL templates
const (
	YouTubeVideoURLTemplate = "https://www.youtube.com/watch?v=%s"
)

// playlistFetcher returns the videos of a playlist by its ID
type playlistFetcher func(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error)

// YTDLPParserService resolves playlist contents using the ytdlp library
type YTDLPParserService struct {
	timeout time.Duration
	fetch   playlistFetcher
}

// NewYTDLPParserService creates a new parser service
func NewYTDLPParserService() *YTDLPParserService {
	return &YTDLPParserService{
		timeout: DefaultParseTimeout,
		fetch:   fetchPlaylistItems,
	}
}

// SetTimeout sets the timeout for parsing operations
func (y *YTDLPParserService) SetTimeout(timeout time.Duration) {
	y.timeout = timeout
}

// ParsePlaylist resolves a playlist URL into its videos
func (y *YTDLPParserService) ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error) {
	playlist := model.NewPlaylist(url)

	playlistID, err := ExtractPlaylistID(url)
	if err != nil {
		playlist.Fail(err)
		return playlist, err
	}
	playlist.ID = playlistID

	if y.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, y.timeout)
		defer cancel()
	}

	videos, err := y.fetch(ctx, playlistID)
	if err != nil {
		err = fmt.Errorf("failed to get playlist items: %w", err)
		playlist.Fail(err)
		return playlist, err
	}
	if len(videos) == 0 {
		err = fmt.Errorf("playlist %s has no videos", playlistID)
		playlist.Fail(err)
		return playlist, err
	}

	for _, v := range videos {
		playlist.AddVideo(v)
	}
	playlist.UpdateStatus(model.PlaylistStatusReady)
	return playlist, nil
}

func fetchPlaylistItems(ctx context.Context, playlistID string) ([]*model.PlaylistVideo, error) {
	d := ytdlp.New()
	items, err := d.GetPlaylistItemsAll(ctx, playlistID, 0)
	if err != nil {
		return nil, err
	}

	videos := make([]*model.PlaylistVideo, 0, len(items))
	for _, it := range items {
		if it.VideoID == "" {
			continue
		}
		videos = append(videos, &model.PlaylistVideo{
			ID:    it.VideoID,
			Title: it.Title,
			URL:   fmt.Sprintf(YouTubeVideoURLTemplate, it.VideoID),
		})
	}
	return videos, nil
}
