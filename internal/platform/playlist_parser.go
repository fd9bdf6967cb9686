package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/ytget/yt-audio/internal/logging"
	"github.com/ytget/yt-audio/internal/model"
)

// URL parameters
const (
	PlaylistURLParam       = "list="
	PlaylistParamSeparator = "&"
)

// PlaylistParser resolves a playlist URL into its videos
type PlaylistParser interface {
	ParsePlaylist(ctx context.Context, url string) (*model.Playlist, error)
}

// IsPlaylistURL reports whether the URL carries a playlist parameter
func IsPlaylistURL(url string) bool {
	return strings.Contains(url, PlaylistURLParam)
}

// ExtractPlaylistID extracts the playlist ID from a YouTube URL. Supported forms:
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID&start_radio=1
//   - https://www.youtube.com/watch?v=VIDEO_ID&list=PLAYLIST_ID
//   - https://www.youtube.com/playlist?list=PLAYLIST_ID
func ExtractPlaylistID(url string) (string, error) {
	idx := strings.Index(url, PlaylistURLParam)
	if idx < 0 {
		return "", fmt.Errorf("URL does not contain playlist parameter: %s", url)
	}

	playlistID := url[idx+len(PlaylistURLParam):]
	if sep := strings.Index(playlistID, PlaylistParamSeparator); sep >= 0 {
		playlistID = playlistID[:sep]
	}
	if playlistID == "" {
		return "", fmt.Errorf("empty playlist ID in URL: %s", url)
	}
	return playlistID, nil
}

// ExpandPlaylists replaces every playlist URL with the watch URLs of its
// videos. A playlist that cannot be resolved is kept as-is so that the batch
// reports it like any other failing URL.
func ExpandPlaylists(ctx context.Context, parser PlaylistParser, urls []string) []string {
	logger := logging.FromContext(ctx)
	expanded := make([]string, 0, len(urls))
	for _, url := range urls {
		if !IsPlaylistURL(url) {
			expanded = append(expanded, url)
			continue
		}

		playlist, err := parser.ParsePlaylist(ctx, url)
		if err != nil {
			logger.Warn("playlist expansion failed", logging.KeyURL, url, logging.KeyError, err)
			expanded = append(expanded, url)
			continue
		}

		logger.Debug("playlist expanded", logging.KeyURL, url, "playlistId", playlist.ID, "videos", len(playlist.Videos))
		expanded = append(expanded, playlist.URLs()...)
	}
	return expanded
}
