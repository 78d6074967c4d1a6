package fetch

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bharatverse/content-pipeline/internal/model"
)

func TestImagesFromMarkdown(t *testing.T) {
	markdown := `# Heading

![Taj Mahal at dawn](https://example.com/taj.jpg "The mausoleum")

Some text with ![inline](https://example.com/inline.png) image.

![](https://example.com/no-alt.gif)
`

	images := imagesFromMarkdown(markdown, model.MaxImages)
	require.Len(t, images, 3)

	assert.Equal(t, "https://example.com/taj.jpg", images[0].URL)
	assert.Equal(t, "Taj Mahal at dawn", images[0].AltText)
	assert.Equal(t, "The mausoleum", images[0].Caption)

	assert.Equal(t, "https://example.com/inline.png", images[1].URL)
	assert.Empty(t, images[1].Caption)

	assert.Equal(t, "https://example.com/no-alt.gif", images[2].URL)
	assert.Empty(t, images[2].AltText)
}

func TestImagesFromMarkdown_Limit(t *testing.T) {
	markdown := ""
	for i := 0; i < 15; i++ {
		markdown += "![img](https://example.com/img.png)\n"
	}

	images := imagesFromMarkdown(markdown, model.MaxImages)
	assert.Len(t, images, model.MaxImages)
}

func TestImagesFromMarkdown_None(t *testing.T) {
	assert.Nil(t, imagesFromMarkdown("plain text, [a link](https://example.com) but no images", model.MaxImages))
}
