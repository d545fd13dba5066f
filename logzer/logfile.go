package logzer

import (
	"fmt"
	"os"
	"sync"
)

// LogFile is a rotating log destination.
// The file is opened on the first write and rotated
// when the next write would exceed MaxSize.
type LogFile struct {
	mu       sync.Mutex
	file     *os.File
	fileSize int64

	FilePath string
	MaxSize  int64
	// Rotate is the count of kept backups: FilePath.1 ... FilePath.N
	// with 0 the file is truncated on rotation
	Rotate int
}

// Close implements io.Closer interface
func (f *LogFile) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.file == nil {
		return nil
	}
	err := f.file.Close()
	f.file, f.fileSize = nil, 0
	return err
}

// Write implements io.Writer interface
func (f *LogFile) Write(p []byte) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.file == nil {
		if err := f.open(); err != nil {
			return 0, err
		}
	}
	if f.MaxSize > 0 && f.fileSize > 0 && f.fileSize+int64(len(p)) > f.MaxSize {
		if err := f.rotate(); err != nil {
			return 0, err
		}
	}

	n, err := f.file.Write(p)
	if err != nil {
		/* the file could be removed or moved outside, reopen once */
		if err := f.open(); err != nil {
			return 0, err
		}
		n, err = f.file.Write(p)
	}
	f.fileSize += int64(n)
	return n, err
}

func (f *LogFile) open() error {
	if f.file != nil {
		_ = f.file.Close()
		f.file = nil
	}
	file, err := os.OpenFile(f.FilePath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	f.file, f.fileSize = file, 0
	if fileInfo, err := file.Stat(); err == nil {
		f.fileSize = fileInfo.Size()
	}
	return nil
}

func (f *LogFile) rotate() error {
	_ = f.file.Close()
	f.file = nil
	if f.Rotate == 0 {
		_ = os.Remove(f.FilePath)
	} else {
		for i := f.Rotate; i > 1; i-- {
			_ = os.Rename(fmt.Sprintf("%s.%d", f.FilePath, i-1), fmt.Sprintf("%s.%d", f.FilePath, i))
		}
		_ = os.Rename(f.FilePath, f.FilePath+".1")
	}
	return f.open()
}
