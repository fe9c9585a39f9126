// Package storage 上传文件的落地，返回可保存到记录里的引用
package storage

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	ErrUnsupportedType = errors.New("unsupported file type")
	ErrTooLarge        = errors.New("file too large")
)

// MaxUploadBytes 单个上传文件上限
const MaxUploadBytes = 5 << 20

type Store interface {
	Save(ctx context.Context, name, contentType string, r io.Reader) (string, error)
}

var allowedExt = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// objectKey 只保留白名单扩展名，文件名本身丢弃，避免路径穿越
func objectKey(name string) (string, error) {
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExt[ext]; !ok {
		return "", ErrUnsupportedType
	}
	d := time.Now()
	return d.Format("2006/01/02") + "/" + uuid.NewString() + ext, nil
}
