package util

import (
	"os"

	"golang.org/x/sys/unix"
)

// FileInfo identifies one version of a file on disk: modification time,
// size, and inode number. Two loads of the same path can be compared to
// decide whether the content could have changed.
type FileInfo struct {
	ModTime int64
	Size    int64
	Inode   uint64
}

// GetFileInfo retrieves file identity information, including the inode.
// Supported on Linux and macOS.
func GetFileInfo(filepath string) (*FileInfo, error) {
	stat, err := os.Stat(filepath)
	if err != nil {
		return nil, err
	}

	var sysStat unix.Stat_t
	if err := unix.Stat(filepath, &sysStat); err != nil {
		return nil, err
	}

	return &FileInfo{
		ModTime: stat.ModTime().Unix(),
		Size:    stat.Size(),
		Inode:   sysStat.Ino,
	}, nil
}

// Equal reports whether two file identities match.
func (fi *FileInfo) Equal(other *FileInfo) bool {
	if fi == nil || other == nil {
		return false
	}
	return fi.ModTime == other.ModTime && fi.Size == other.Size && fi.Inode == other.Inode
}
