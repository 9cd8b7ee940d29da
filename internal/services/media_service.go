package services

import (
	"fmt"
	"math/rand/v2"

	"github.com/soaringjerry/avatar-survey/internal/models"
)

// GallerySize is the number of avatars shown per page load and videos per replay.
const GallerySize = 3

// DefaultAvatarURLs is the pool the survey gallery samples from.
var DefaultAvatarURLs = []string{
	"http://www.marketingtool.online/en/face-generator/img/faces/avatar-1151ce9f4b2043de0d2e3b7826127998.jpg",
	"http://www.marketingtool.online/en/face-generator/img/faces/avatar-116b5e92936b766b7fdfc242649337f7.jpg",
	"http://www.marketingtool.online/en/face-generator/img/faces/avatar-1163530ca19b5cebe1b002b8ec67b6fc.jpg",
	"http://www.marketingtool.online/en/face-generator/img/faces/avatar-1116395d6e6a6581eef8b8038f4c8e55.jpg",
	"http://www.marketingtool.online/en/face-generator/img/faces/avatar-11319be65db395d0e8e6855d18ddcef0.jpg",
}

// DefaultVideoURLs is used when no video pool is configured.
var DefaultVideoURLs = []string{
	"/videos/model_0.mp4",
	"/videos/model_1.mp4",
	"/videos/model_2.mp4",
}

// MediaService picks the avatar images and videos shown to respondents.
type MediaService struct {
	images []string
	videos []string
	intn   func(n int) int
	perm   func(n int) []int
}

func NewMediaService(images, videos []string) *MediaService {
	if len(images) == 0 {
		images = DefaultAvatarURLs
	}
	if len(videos) == 0 {
		videos = DefaultVideoURLs
	}
	return &MediaService{
		images: images,
		videos: videos,
		intn:   rand.IntN,
		perm:   rand.Perm,
	}
}

// GalleryImages returns GallerySize items, each drawn independently from the
// image pool (repeats allowed), captioned "model <i>".
func (s *MediaService) GalleryImages() []models.MediaItem {
	out := make([]models.MediaItem, 0, GallerySize)
	for i := 0; i < GallerySize; i++ {
		out = append(out, models.MediaItem{
			URL:     s.images[s.intn(len(s.images))],
			Caption: caption(i),
		})
	}
	return out
}

// SelectGalleryItem echoes the selected gallery index; the client submits it
// as the survey model.
func (s *MediaService) SelectGalleryItem(index int) (int, error) {
	if index < 0 {
		return 0, &ValidationError{Field: "index", Rule: "min", Param: "0"}
	}
	return index, nil
}

// ReplayVideos returns a freshly shuffled set of up to GallerySize distinct videos.
func (s *MediaService) ReplayVideos() []models.MediaItem {
	order := s.perm(len(s.videos))
	n := min(GallerySize, len(order))
	out := make([]models.MediaItem, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, models.MediaItem{URL: s.videos[order[i]], Caption: caption(i)})
	}
	return out
}

func caption(i int) string { return fmt.Sprintf("model %d", i) }
