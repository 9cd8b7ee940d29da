package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGalleryImages(t *testing.T) {
	svc := NewMediaService([]string{"a.jpg", "b.jpg"}, nil)
	picks := []int{1, 0, 1}
	svc.intn = func(n int) int {
		require.Equal(t, 2, n)
		p := picks[0]
		picks = picks[1:]
		return p
	}

	items := svc.GalleryImages()
	require.Len(t, items, GallerySize)
	assert.Equal(t, "b.jpg", items[0].URL)
	assert.Equal(t, "a.jpg", items[1].URL)
	assert.Equal(t, "model 0", items[0].Caption)
	assert.Equal(t, "model 2", items[2].Caption)
}

func TestGalleryImagesDefaultPool(t *testing.T) {
	svc := NewMediaService(nil, nil)
	for _, it := range svc.GalleryImages() {
		assert.Contains(t, DefaultAvatarURLs, it.URL)
	}
}

func TestSelectGalleryItem(t *testing.T) {
	svc := NewMediaService(nil, nil)
	idx, err := svc.SelectGalleryItem(2)
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	_, err = svc.SelectGalleryItem(-1)
	ve, ok := AsValidationError(err)
	require.True(t, ok)
	assert.Equal(t, "index", ve.Field)
	assert.Equal(t, "validation.min.index", ve.MessageKey())
}

func TestReplayVideos(t *testing.T) {
	svc := NewMediaService(nil, []string{"v0.mp4", "v1.mp4", "v2.mp4", "v3.mp4"})
	svc.perm = func(n int) []int { return []int{3, 1, 0, 2} }

	items := svc.ReplayVideos()
	require.Len(t, items, GallerySize)
	assert.Equal(t, "v3.mp4", items[0].URL)
	assert.Equal(t, "v1.mp4", items[1].URL)
	assert.Equal(t, "v0.mp4", items[2].URL)
	assert.Equal(t, "model 1", items[1].Caption)
}

func TestReplayVideosSmallPool(t *testing.T) {
	svc := NewMediaService(nil, []string{"only.mp4"})
	items := svc.ReplayVideos()
	require.Len(t, items, 1)
	assert.Equal(t, "only.mp4", items[0].URL)
}
