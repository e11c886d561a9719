// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"regexp"
	"strings"
)

var (
	youtubeID      = regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([a-zA-Z0-9_-]{11})`)
	youtubeShortID = regexp.MustCompile(`youtube\.com/shorts/([a-zA-Z0-9_-]{11})`)
	vimeoID        = regexp.MustCompile(`vimeo\.com/(?:video/)?(\d+)`)
)

// YouTubeID extracts the 11-character video ID from watch, youtu.be,
// embed and shorts links.
func YouTubeID(rawURL string) (string, bool) {
	if m := youtubeID.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	if m := youtubeShortID.FindStringSubmatch(rawURL); m != nil {
		return m[1], true
	}
	return "", false
}

// EmbedURL returns a player URL for YouTube and Vimeo links, or "" when
// rawURL should be played directly with a <video> element.
func EmbedURL(rawURL string) string {
	if id, ok := YouTubeID(rawURL); ok {
		return "https://www.youtube.com/embed/" + id + "?autoplay=1&rel=0&modestbranding=1"
	}
	if m := vimeoID.FindStringSubmatch(rawURL); m != nil {
		return "https://player.vimeo.com/video/" + m[1] + "?autoplay=1"
	}
	return ""
}

// YouTubeThumbnail returns the poster image for a YouTube link, or "".
func YouTubeThumbnail(rawURL string) string {
	if id, ok := YouTubeID(rawURL); ok {
		return "https://img.youtube.com/vi/" + id + "/hqdefault.jpg"
	}
	return ""
}

// IsVertical reports whether a link points at a portrait format.
func IsVertical(rawURL string) bool {
	return strings.Contains(rawURL, "/shorts/") || strings.Contains(rawURL, "/reel/")
}
