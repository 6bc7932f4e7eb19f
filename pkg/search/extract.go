package search

import "iter"

// Record origins, kept for diagnostics and selection logging.
const (
	originCard  = "musicCardShelfRenderer"
	originShelf = "musicShelfRenderer"
)

// Results walks the document in order and yields one flat record per
// recognized song. Entries whose shape does not match (no playable title
// run, no determinable media kind) contribute nothing; extraction never
// fails as a whole.
func Results(doc *Document) iter.Seq[Song] {
	return func(yield func(Song) bool) {
		if doc == nil {
			return
		}

		for _, tab := range doc.Contents.TabbedSearchResultsRenderer.Tabs {
			for _, section := range tab.TabRenderer.Content.SectionListRenderer.Contents {
				if card := section.MusicCardShelfRenderer; card != nil {
					if song, ok := cardSong(card); ok && !yield(song) {
						return
					}
				}

				if shelf := section.MusicShelfRenderer; shelf != nil {
					for _, entry := range shelf.Contents {
						if song, ok := shelfSong(entry.MusicResponsiveListItemRenderer); ok && !yield(song) {
							return
						}
					}
				}
			}
		}
	}
}

// cardSong extracts the pushed highlight card. The title block can hold
// several runs; only the one with a playable-item reference counts, and
// its watch endpoint carries the video ID.
func cardSong(card *CardShelf) (Song, bool) {
	var titleRun *Run
	for i, run := range card.Title.Runs {
		if run.watchEndpoint() != nil {
			titleRun = &card.Title.Runs[i]
			break
		}
	}
	if titleRun == nil {
		return Song{}, false
	}

	// Attribution is the first subtitle run that navigates to an artist
	// page or a user channel. Absence is fine: some highlights have none.
	artist := ""
	for _, run := range card.Subtitle.Runs {
		if pageType := run.pageType(); pageType == PageTypeArtist || pageType == PageTypeUserChannel {
			artist = run.Text
			break
		}
	}

	return Song{
		Title:    titleRun.Text,
		Artist:   artist,
		VideoID:  titleRun.watchEndpoint().VideoID,
		ImageURL: card.Thumbnail.firstURL(),
		Duration: card.Subtitle.lastRunText(),
		Origin:   originCard,
	}, true
}

// shelfSong extracts one plain result row. The overlay play button decides
// whether the row is a song at all and which kind; rows without a usable
// classifier are skipped entirely.
func shelfSong(item ListItem) (Song, bool) {
	kind := item.overlayMusicVideoType()
	switch kind {
	case MusicVideoTypeATV, MusicVideoTypeOMV, MusicVideoTypeUGC:
	default:
		// Podcasts, other videos and unclassifiable rows are not songs.
		return Song{}, false
	}

	// User-generated content is attributed to a channel, everything else
	// to an artist page. This pairing is what separates the attribution
	// run from same-looking sibling runs.
	wantPageType := PageTypeArtist
	if kind == MusicVideoTypeUGC {
		wantPageType = PageTypeUserChannel
	}

	song := Song{
		MediaKind: kind,
		ImageURL:  item.Thumbnail.firstURL(),
		Origin:    originShelf,
	}

	for _, column := range item.FlexColumns {
		text := column.MusicResponsiveListItemFlexColumnRenderer.Text
		for _, run := range text.Runs {
			switch run.musicVideoType() {
			case MusicVideoTypeATV, MusicVideoTypeOMV, MusicVideoTypeUGC:
				song.Title = run.Text
				song.VideoID = run.watchEndpoint().VideoID
			}

			if run.pageType() == wantPageType {
				song.Artist = run.Text
				song.Duration = text.lastRunText()
			}
		}
	}

	return song, true
}
