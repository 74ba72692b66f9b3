package transport

import (
	"io"
	"io/fs"
	"os"

	"github.com/melih-ucgun/rigup/internal/core"
	"github.com/pkg/sftp"
)

// SFTPFS implements core.FileSystem over an SFTP connection, so env files
// can be read from and run logs written to the remote side.
type SFTPFS struct {
	client *sftp.Client
}

var _ core.FileSystem = (*SFTPFS)(nil)

func NewSFTPFS(client *sftp.Client) *SFTPFS {
	return &SFTPFS{client: client}
}

func (f *SFTPFS) Stat(name string) (fs.FileInfo, error) {
	return f.client.Stat(name)
}

func (f *SFTPFS) ReadFile(name string) ([]byte, error) {
	file, err := f.client.Open(name)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return io.ReadAll(file)
}

func (f *SFTPFS) WriteFile(name string, data []byte, perm os.FileMode) error {
	file, err := f.client.Create(name)
	if err != nil {
		return err
	}
	if _, err := file.Write(data); err != nil {
		file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return err
	}
	return f.client.Chmod(name, perm)
}

func (f *SFTPFS) MkdirAll(path string, perm os.FileMode) error {
	return f.client.MkdirAll(path)
}
