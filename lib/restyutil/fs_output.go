package restyutil

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// marks a directory as created by NewFilesystemOutput
const dumpMarker = ".http-dump"

var ErrNotDumpDir = errors.New("directory is not empty and holds no earlier dump")

// FilesystemOutput writes every message into its own file under a directory.
type FilesystemOutput struct {
	directory string
}

// NewFilesystemOutput clears dir and recreates it. A directory that is not
// empty is only cleared when an earlier dump was written into it.
func NewFilesystemOutput(dir string) (FilesystemOutput, error) {
	entries, err := os.ReadDir(dir)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return FilesystemOutput{}, err
	case len(entries) > 0:
		_, err = os.Stat(filepath.Join(dir, dumpMarker))
		if err != nil {
			return FilesystemOutput{}, fmt.Errorf("%w: %s", ErrNotDumpDir, dir)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			return FilesystemOutput{}, err
		}
	}

	err = os.MkdirAll(dir, 0777)
	if err != nil {
		return FilesystemOutput{}, err
	}
	err = os.WriteFile(filepath.Join(dir, dumpMarker), nil, 0600)
	if err != nil {
		return FilesystemOutput{}, err
	}
	return FilesystemOutput{directory: dir}, nil
}

func (o FilesystemOutput) Write(id string, contents string) {
	err := os.WriteFile(filepath.Join(o.directory, id), []byte(contents), 0600)
	if err != nil {
		slog.Warn("failed to write message info file", "id", id, "err", err)
	}
}
