package file

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"strings"
	"testing"

	"github.com/dilg-calendar/calendar-backend-go/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryStorage struct {
	files map[string][]byte
}

func (m *memoryStorage) Upload(ctx context.Context, content io.Reader, key string, contentType string) (string, error) {
	data, err := io.ReadAll(content)
	if err != nil {
		return "", err
	}
	m.files[key] = data
	return key, nil
}

func (m *memoryStorage) Delete(ctx context.Context, key string) error {
	delete(m.files, key)
	return nil
}

func (m *memoryStorage) URL(key string) string {
	return "http://files.local/" + key
}

func pngImage(t *testing.T, w, h int) *bytes.Buffer {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		img.Set(x, 0, color.RGBA{R: 200, A: 255})
	}
	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, img))
	return buf
}

func TestUploadProfileImage_Resizes(t *testing.T) {
	store := &memoryStorage{files: map[string][]byte{}}
	svc := NewFileService(store)

	key, err := svc.UploadProfileImage(context.Background(), 1001, pngImage(t, 1024, 256), "Me.PNG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(key, "profiles/1001/1001-"))
	assert.True(t, strings.HasSuffix(key, ".jpg"))

	stored, err := jpeg.Decode(bytes.NewReader(store.files[key]))
	require.NoError(t, err)
	assert.Equal(t, 512, stored.Bounds().Dx())
	assert.Equal(t, 128, stored.Bounds().Dy())

	assert.Equal(t, "http://files.local/"+key, svc.GetFileURL(key))
	require.NoError(t, svc.DeleteFile(context.Background(), key))
	assert.Empty(t, store.files)
}

func TestUploadProfileImage_SmallImageKeepsSize(t *testing.T) {
	store := &memoryStorage{files: map[string][]byte{}}
	key, err := NewFileService(store).UploadProfileImage(context.Background(), 7, pngImage(t, 100, 300), "avatar.png")
	require.NoError(t, err)

	stored, err := jpeg.Decode(bytes.NewReader(store.files[key]))
	require.NoError(t, err)
	assert.Equal(t, 100, stored.Bounds().Dx())
	assert.Equal(t, 300, stored.Bounds().Dy())
}

func TestUploadProfileImage_Rejects(t *testing.T) {
	svc := NewFileService(&memoryStorage{files: map[string][]byte{}})

	_, err := svc.UploadProfileImage(context.Background(), 1, strings.NewReader("GIF89a"), "anim.gif")
	assert.ErrorIs(t, err, user.ErrInvalidImageType)

	_, err = svc.UploadProfileImage(context.Background(), 1, strings.NewReader("not an image"), "fake.jpg")
	assert.ErrorIs(t, err, user.ErrInvalidImageType)
}
