package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// LocalImageStore は商品画像をローカルディスクに保存して配信URLを返す。
// CDNへのアップロードはスコープ外なので、/uploads配下をそのままserveする。
type LocalImageStore struct {
	dir     string
	baseURL string
}

func NewLocalImageStore(dir string, baseURL string) (*LocalImageStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	return &LocalImageStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}, nil
}

// Save は衝突しないファイル名で保存してURLを返す。
func (s *LocalImageStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	name := uuid.NewString() + strings.ToLower(filepath.Ext(filename))

	dst, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, r); err != nil {
		return "", err
	}

	return s.baseURL + "/uploads/" + name, nil
}
