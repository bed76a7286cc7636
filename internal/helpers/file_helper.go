package helpers

import (
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type UploadConfig struct {
	MaxSizeBytes     int64
	AllowedMimeTypes []string
	UploadBasePath   string
	PublicBasePath   string
}

var DefaultImageUploadConfig = UploadConfig{
	MaxSizeBytes: 5 * 1024 * 1024, // 5MB
	AllowedMimeTypes: []string{
		"image/jpeg",
		"image/png",
		"image/gif",
		"image/webp",
	},
	UploadBasePath: "./uploads/",
	PublicBasePath: "/uploads/",
}

// UploadFile stores a multipart upload under a random name and returns the
// public URL path it will be served from.
func UploadFile(c *gin.Context, fileHeader *multipart.FileHeader, uploadType string, configs ...UploadConfig) (string, error) {
	config := DefaultImageUploadConfig
	if len(configs) > 0 {
		config = configs[0]
	}

	if fileHeader.Size > config.MaxSizeBytes {
		return "", fmt.Errorf("file size exceeds maximum limit of %d MB", config.MaxSizeBytes/(1024*1024))
	}

	src, err := fileHeader.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	buffer := make([]byte, 512)
	if _, err := src.Read(buffer); err != nil {
		return "", err
	}
	mimeType := http.DetectContentType(buffer)

	mimeTypeAllowed := false
	for _, allowedType := range config.AllowedMimeTypes {
		if mimeType == allowedType {
			mimeTypeAllowed = true
			break
		}
	}
	if !mimeTypeAllowed {
		return "", fmt.Errorf("invalid file type. Allowed types: %v", config.AllowedMimeTypes)
	}

	ext := filepath.Ext(fileHeader.Filename)

	uploadDir := filepath.Join(config.UploadBasePath, uploadType)
	if err := os.MkdirAll(uploadDir, os.ModePerm); err != nil {
		return "", err
	}

	filename := fmt.Sprintf("%s%s", uuid.New().String(), ext)
	if err := c.SaveUploadedFile(fileHeader, filepath.Join(uploadDir, filename)); err != nil {
		return "", err
	}

	return path.Join(config.PublicBasePath, uploadType, filename), nil
}

// DeleteUploadedFile removes a previously uploaded file given its public
// URL path. Missing files are not an error.
func DeleteUploadedFile(publicPath string, configs ...UploadConfig) error {
	config := DefaultImageUploadConfig
	if len(configs) > 0 {
		config = configs[0]
	}

	rel, err := filepath.Rel(config.PublicBasePath, publicPath)
	if err != nil {
		return err
	}

	err = os.Remove(filepath.Join(config.UploadBasePath, rel))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
