package file

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png" // Import for PNG decoding support
	"io"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/dilg-calendar/calendar-backend-go/internal/pkg/storage"
	"github.com/google/uuid"
	"golang.org/x/image/draw"
)

// MaxProfileImageSide bounds the longer edge of stored profile images.
const MaxProfileImageSide = 512

var allowedImageExts = []string{".jpg", ".jpeg", ".png"}

type FileService interface {
	// UploadProfileImage normalizes an uploaded jpg or png to a JPEG no larger
	// than MaxProfileImageSide and returns its storage key.
	UploadProfileImage(ctx context.Context, userID int64, file io.Reader, filename string) (string, error)
	DeleteFile(ctx context.Context, key string) error
	GetFileURL(key string) string
}

type fileServiceImpl struct {
	storage storage.FileStorage
}

func NewFileService(storage storage.FileStorage) FileService {
	return &fileServiceImpl{
		storage: storage,
	}
}

func (s *fileServiceImpl) UploadProfileImage(ctx context.Context, userID int64, file io.Reader, filename string) (string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !isAllowedImage(ext) {
		return "", user.ErrInvalidImageType
	}

	img, _, err := image.Decode(file)
	if err != nil {
		return "", fmt.Errorf("%w: %v", user.ErrInvalidImageType, err)
	}

	buf := new(bytes.Buffer)
	if err := jpeg.Encode(buf, fitWithin(img, MaxProfileImageSide), &jpeg.Options{Quality: 85}); err != nil {
		return "", fmt.Errorf("failed to encode profile image: %w", err)
	}

	owner := strconv.FormatInt(userID, 10)
	key := path.Join("profiles", owner, fmt.Sprintf("%s-%s.jpg", owner, uuid.New().String()))

	uploaded, err := s.storage.Upload(ctx, buf, key, "image/jpeg")
	if err != nil {
		return "", fmt.Errorf("failed to upload profile image: %w", err)
	}
	return uploaded, nil
}

func (s *fileServiceImpl) DeleteFile(ctx context.Context, key string) error {
	return s.storage.Delete(ctx, key)
}

func (s *fileServiceImpl) GetFileURL(key string) string {
	return s.storage.URL(key)
}

func isAllowedImage(ext string) bool {
	for _, allowed := range allowedImageExts {
		if ext == allowed {
			return true
		}
	}
	return false
}

// fitWithin scales img down so neither side exceeds side, keeping the aspect ratio.
func fitWithin(img image.Image, side int) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= side && h <= side {
		return img
	}

	if w >= h {
		h = h * side / w
		w = side
	} else {
		w = w * side / h
		h = side
	}
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	// CatmullRom for high-quality downscaling
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Over, nil)
	return dst
}
