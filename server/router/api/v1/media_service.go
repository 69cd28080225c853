package v1

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/unv3iled/cortex/plugin/spotify"
	"github.com/unv3iled/cortex/store"
)

type mediaSearchResponse struct {
	Items        []any  `json:"items"`
	TotalResults int    `json:"totalResults"`
	Query        string `json:"query"`
}

// SearchMedia fans out the query to the configured catalogs and merges the
// results. A single failing source is skipped, not fatal.
func (s *APIV1Service) SearchMedia(c echo.Context) error {
	ctx := c.Request().Context()
	userID, _ := currentUserID(c)

	query := c.QueryParam("q")
	if query == "" {
		return replyError(c, http.StatusBadRequest, "q is required")
	}
	source := c.QueryParam("source") // spotify, youtube, google-books, or empty for all

	limit := 20
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return replyError(c, http.StatusBadRequest, "invalid limit")
		}
		limit = parsed
	}
	perSource := limit / 3
	if perSource < 1 {
		perSource = 1
	}

	items := []any{}

	if source == "" || source == "spotify" {
		if spotifyItems, err := s.searchSpotify(c, userID, query, perSource); err != nil {
			slog.Warn("spotify search failed", slog.String("error", err.Error()))
		} else {
			for _, item := range spotifyItems {
				items = append(items, item)
			}
		}
	}

	if (source == "" || source == "youtube") && s.MediaSearch.HasYouTube() {
		if youtubeItems, err := s.MediaSearch.SearchYouTube(ctx, query, perSource); err != nil {
			slog.Warn("youtube search failed", slog.String("error", err.Error()))
		} else {
			for _, item := range youtubeItems {
				items = append(items, item)
			}
		}
	}

	if (source == "" || source == "google-books") && s.MediaSearch.HasGoogleBooks() {
		if bookItems, err := s.MediaSearch.SearchGoogleBooks(ctx, query, perSource); err != nil {
			slog.Warn("google books search failed", slog.String("error", err.Error()))
		} else {
			for _, item := range bookItems {
				items = append(items, item)
			}
		}
	}

	return c.JSON(http.StatusOK, &mediaSearchResponse{
		Items:        items,
		TotalResults: len(items),
		Query:        query,
	})
}

func (s *APIV1Service) searchSpotify(c echo.Context, userID int32, query string, limit int) ([]spotify.SearchItem, error) {
	ctx := c.Request().Context()
	user, err := s.Store.GetUser(ctx, &store.FindUser{ID: &userID})
	if err != nil {
		return nil, err
	}
	if user == nil || user.SpotifyAccessToken == "" {
		return nil, nil
	}
	client := spotify.NewClient(ctx, s.SpotifyConfig, user.SpotifyAccessToken, user.SpotifyRefreshToken)
	return client.Search(ctx, query, limit)
}
