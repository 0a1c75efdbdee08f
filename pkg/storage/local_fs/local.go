package local_fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/haierkeys/fridge-board-service/pkg/fileurl"

	"github.com/pkg/errors"
)

type Config struct {
	SavePath       string `yaml:"save-path" default:"storage/uploads"`
	HttpfsIsEnable bool   `yaml:"httpfs-is-enable" default:"true"`
}

type LocalFS struct {
	Config *Config
}

func NewClient(cf *Config) (*LocalFS, error) {
	if cf.SavePath == "" {
		cf.SavePath = "storage/uploads"
	}
	return &LocalFS{
		Config: cf,
	}, nil
}

func (p *LocalFS) getSavePath() string {
	return fileurl.PathSuffixCheckAdd(p.Config.SavePath, "/")
}

// SendFile writes the blob under the save path
// SendFile 将 Blob 写入保存路径下
func (p *LocalFS) SendFile(fileKey string, file io.Reader, contentType string) (string, error) {

	dstFileKey := p.getSavePath() + fileKey

	if err := os.MkdirAll(filepath.Dir(dstFileKey), 0754); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	out, err := os.Create(dstFileKey)
	if err != nil {
		return "", errors.Wrap(err, "local_fs")
	}
	defer out.Close()

	if _, err := io.Copy(out, file); err != nil {
		return "", errors.Wrap(err, "local_fs")
	}

	return fileKey, nil
}

func (p *LocalFS) Delete(fileKey string) error {
	dstFileKey := p.getSavePath() + fileKey
	if fileurl.IsExist(dstFileKey) {
		return os.Remove(dstFileKey)
	}
	return nil
}
