package fetch

import (
	"regexp"

	"github.com/bharatverse/content-pipeline/internal/model"
)

// markdownImageRe matches markdown image syntax: ![alt](url "optional title").
var markdownImageRe = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)(?:\s+"([^"]*)")?\)`)

// imagesFromMarkdown collects image descriptors from markdown image syntax,
// keeping document order and at most limit entries.
func imagesFromMarkdown(markdown string, limit int) []model.Image {
	matches := markdownImageRe.FindAllStringSubmatch(markdown, -1)
	if len(matches) == 0 {
		return nil
	}
	images := make([]model.Image, 0, min(len(matches), limit))
	for _, m := range matches {
		if len(images) >= limit {
			break
		}
		images = append(images, model.Image{
			URL:     m[2],
			AltText: m[1],
			Caption: m[3],
		})
	}
	return images
}
