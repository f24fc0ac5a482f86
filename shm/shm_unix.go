//go:build !windows

package shm

import (
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"simpi/errcode"
)

// unixSegment pairs the cross-process flock with an in-process mutex:
// flock on one file descriptor does not exclude other goroutines of the
// same process, so mu serializes those.
type unixSegment struct {
	mu   sync.Mutex
	file *os.File
	mem  []byte
}

func (s *unixSegment) data() []byte { return s.mem }

func (s *unixSegment) lock() error {
	s.mu.Lock()
	if err := unix.Flock(int(s.file.Fd()), unix.LOCK_EX); err != nil {
		s.mu.Unlock()
		return err
	}
	return nil
}

func (s *unixSegment) unlock() error {
	err := unix.Flock(int(s.file.Fd()), unix.LOCK_UN)
	s.mu.Unlock()
	return err
}

func (s *unixSegment) close() error {
	_ = unix.Munmap(s.mem)
	return s.file.Close()
}

// createOrOpenSegment implements the platform half of spec.md §4.3 steps
// 3-5: create the link-file-backed mapping, or open it if it already
// exists. A truncated or unreadable existing file is reported as
// MapOpenFailed so the caller's one-shot stale-link retry can kick in.
func createOrOpenSegment(path string, size int) (segment, bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o644)
	created := err == nil
	if err != nil {
		if !os.IsExist(err) {
			return nil, false, errcode.LinkDoesNotExist
		}
		f, err = os.OpenFile(path, os.O_RDWR, 0o644)
		if err != nil {
			return nil, false, &errcode.E{C: errcode.MapOpenFailed, Op: "open", Err: err}
		}
	}

	if created {
		if err := f.Truncate(int64(size)); err != nil {
			f.Close()
			return nil, false, &errcode.E{C: errcode.MapOpenFailed, Op: "truncate", Err: err}
		}
	} else {
		fi, statErr := f.Stat()
		if statErr != nil || fi.Size() < int64(size) {
			f.Close()
			return nil, false, &errcode.E{C: errcode.MapOpenFailed, Op: "stat"}
		}
	}

	mem, err := unix.Mmap(int(f.Fd()), 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		f.Close()
		return nil, false, &errcode.E{C: errcode.MapOpenFailed, Op: "mmap", Err: err}
	}

	return &unixSegment{file: f, mem: mem}, created, nil
}
