// Package search extracts normalized song records from the player's
// search endpoint. The response is a deeply nested renderer tree in which
// song records sit next to look-alike shapes (albums, artists, playlists);
// telling them apart takes discriminators buried several levels down.
package search

// Discriminator values the player uses for playable items and for the
// pages a run can navigate to.
const (
	MusicVideoTypeATV     = "MUSIC_VIDEO_TYPE_ATV"
	MusicVideoTypeOMV     = "MUSIC_VIDEO_TYPE_OMV"
	MusicVideoTypeUGC     = "MUSIC_VIDEO_TYPE_UGC"
	MusicVideoTypePodcast = "MUSIC_VIDEO_TYPE_PODCAST_EPISODE"
	MusicVideoTypeOther   = "MUSIC_VIDEO_TYPE_OTHER_VIDEO"

	PageTypeArtist      = "MUSIC_PAGE_TYPE_ARTIST"
	PageTypeUserChannel = "MUSIC_PAGE_TYPE_USER_CHANNEL"
)

// Song is one flat record extracted from the document.
type Song struct {
	Title     string `json:"title"`
	Artist    string `json:"artist"`
	VideoID   string `json:"videoId"`
	ImageURL  string `json:"imageUrl"`
	MediaKind string `json:"-"`
	Duration  string `json:"-"`
	Origin    string `json:"-"`
}

// Document is the response of the search endpoint: tabs, each holding a
// section list whose entries are either a pushed highlight card or a shelf
// of plain results.
type Document struct {
	Contents struct {
		TabbedSearchResultsRenderer struct {
			Tabs []Tab `json:"tabs"`
		} `json:"tabbedSearchResultsRenderer"`
	} `json:"contents"`
}

type Tab struct {
	TabRenderer struct {
		Content struct {
			SectionListRenderer struct {
				Contents []Section `json:"contents"`
			} `json:"sectionListRenderer"`
		} `json:"content"`
	} `json:"tabRenderer"`
}

// Section is one entry of a section list. Exactly one of the renderers is
// set; anything else contributes no records.
type Section struct {
	MusicCardShelfRenderer *CardShelf `json:"musicCardShelfRenderer"`
	MusicShelfRenderer     *ListShelf `json:"musicShelfRenderer"`
}

// CardShelf is the single pushed highlight the player promotes above the
// plain results. Not always a song.
type CardShelf struct {
	Thumbnail Thumbnail `json:"thumbnail"`
	Title     RunBlock  `json:"title"`
	Subtitle  RunBlock  `json:"subtitle"`
}

// ListShelf is a shelf of plain result rows.
type ListShelf struct {
	Contents []ShelfEntry `json:"contents"`
}

type ShelfEntry struct {
	MusicResponsiveListItemRenderer ListItem `json:"musicResponsiveListItemRenderer"`
}

type ListItem struct {
	Thumbnail   Thumbnail    `json:"thumbnail"`
	FlexColumns []FlexColumn `json:"flexColumns"`
	Overlay     *Overlay     `json:"overlay"`
}

type FlexColumn struct {
	MusicResponsiveListItemFlexColumnRenderer struct {
		Text RunBlock `json:"text"`
	} `json:"musicResponsiveListItemFlexColumnRenderer"`
}

// RunBlock is a piece of display text split into runs, each optionally
// carrying a navigation target.
type RunBlock struct {
	Runs []Run `json:"runs"`
}

type Run struct {
	Text               string              `json:"text"`
	NavigationEndpoint *NavigationEndpoint `json:"navigationEndpoint"`
}

type NavigationEndpoint struct {
	BrowseEndpoint *BrowseEndpoint `json:"browseEndpoint"`
	WatchEndpoint  *WatchEndpoint  `json:"watchEndpoint"`
}

type BrowseEndpoint struct {
	BrowseEndpointContextSupportedConfigs *struct {
		BrowseEndpointContextMusicConfig *struct {
			PageType string `json:"pageType"`
		} `json:"browseEndpointContextMusicConfig"`
	} `json:"browseEndpointContextSupportedConfigs"`
}

type WatchEndpoint struct {
	VideoID                            string `json:"videoId"`
	WatchEndpointMusicSupportedConfigs *struct {
		WatchEndpointMusicConfig *struct {
			MusicVideoType string `json:"musicVideoType"`
		} `json:"watchEndpointMusicConfig"`
	} `json:"watchEndpointMusicSupportedConfigs"`
}

type Thumbnail struct {
	MusicThumbnailRenderer struct {
		Thumbnail struct {
			Thumbnails []struct {
				URL string `json:"url"`
			} `json:"thumbnails"`
		} `json:"thumbnail"`
	} `json:"musicThumbnailRenderer"`
}

type Overlay struct {
	MusicItemThumbnailOverlayRenderer struct {
		Content struct {
			MusicPlayButtonRenderer struct {
				PlayNavigationEndpoint struct {
					WatchEndpoint *WatchEndpoint `json:"watchEndpoint"`
				} `json:"playNavigationEndpoint"`
			} `json:"musicPlayButtonRenderer"`
		} `json:"content"`
	} `json:"musicItemThumbnailOverlayRenderer"`
}

// watchEndpoint walks the run's navigation target down to a playable-item
// reference. Each hop can be missing; nil means "not playable".
func (r Run) watchEndpoint() *WatchEndpoint {
	if r.NavigationEndpoint == nil {
		return nil
	}
	return r.NavigationEndpoint.WatchEndpoint
}

// musicVideoType resolves the playable-item classifier of a run, if any.
func (r Run) musicVideoType() string {
	return r.watchEndpoint().musicVideoType()
}

// pageType resolves the page-type discriminator of a run's browse target,
// if any.
func (r Run) pageType() string {
	if r.NavigationEndpoint == nil {
		return ""
	}
	browse := r.NavigationEndpoint.BrowseEndpoint
	if browse == nil || browse.BrowseEndpointContextSupportedConfigs == nil {
		return ""
	}
	cfg := browse.BrowseEndpointContextSupportedConfigs.BrowseEndpointContextMusicConfig
	if cfg == nil {
		return ""
	}
	return cfg.PageType
}

func (w *WatchEndpoint) musicVideoType() string {
	if w == nil || w.WatchEndpointMusicSupportedConfigs == nil {
		return ""
	}
	cfg := w.WatchEndpointMusicSupportedConfigs.WatchEndpointMusicConfig
	if cfg == nil {
		return ""
	}
	return cfg.MusicVideoType
}

// overlayMusicVideoType reads the media-kind classifier from the play
// button buried in a row's thumbnail overlay.
func (l ListItem) overlayMusicVideoType() string {
	if l.Overlay == nil {
		return ""
	}
	watch := l.Overlay.MusicItemThumbnailOverlayRenderer.Content.MusicPlayButtonRenderer.PlayNavigationEndpoint.WatchEndpoint
	return watch.musicVideoType()
}

// firstURL returns the first thumbnail URL, or empty when none exist.
func (t Thumbnail) firstURL() string {
	thumbs := t.MusicThumbnailRenderer.Thumbnail.Thumbnails
	if len(thumbs) == 0 {
		return ""
	}
	return thumbs[0].URL
}

// lastRunText returns the trailing run's text, where the player places
// the clock-formatted duration.
func (b RunBlock) lastRunText() string {
	if len(b.Runs) == 0 {
		return ""
	}
	return b.Runs[len(b.Runs)-1].Text
}
