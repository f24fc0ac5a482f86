//go:build windows

package shm

import (
	"os"
	"unsafe"

	"golang.org/x/sys/windows"

	"simpi/errcode"
)

type windowsSegment struct {
	file   *os.File
	mutex  windows.Handle
	mapObj windows.Handle
	mem    []byte
}

func (s *windowsSegment) data() []byte { return s.mem }

func (s *windowsSegment) lock() error {
	_, err := windows.WaitForSingleObject(s.mutex, windows.INFINITE)
	return err
}

func (s *windowsSegment) unlock() error {
	return windows.ReleaseMutex(s.mutex)
}

func (s *windowsSegment) close() error {
	if len(s.mem) > 0 {
		_ = windows.UnmapViewOfFile(uintptr(unsafe.Pointer(&s.mem[0])))
	}
	windows.CloseHandle(s.mapObj)
	windows.CloseHandle(s.mutex)
	return s.file.Close()
}

// createOrOpenSegment is the Windows half of spec.md §4.3: a file-backed
// CreateFileMapping/MapViewOfFile region guarded by a named kernel mutex
// (lock ID 0), mirroring the Unix flock-based mutex in shm_unix.go.
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
	}

	namePtr, err := windows.UTF16PtrFromString(`Local\simpi_gpioregs_mutex`)
	if err != nil {
		f.Close()
		return nil, false, &errcode.E{C: errcode.MapOpenFailed, Op: "mutex_name", Err: err}
	}
	mutex, err := windows.CreateMutex(nil, false, namePtr)
	if err != nil {
		f.Close()
		return nil, false, &errcode.E{C: errcode.MapOpenFailed, Op: "create_mutex", Err: err}
	}

	mapObj, err := windows.CreateFileMapping(windows.Handle(f.Fd()), nil, windows.PAGE_READWRITE, 0, uint32(size), nil)
	if err != nil {
		windows.CloseHandle(mutex)
		f.Close()
		return nil, false, &errcode.E{C: errcode.MapOpenFailed, Op: "create_file_mapping", Err: err}
	}
	addr, err := windows.MapViewOfFile(mapObj, windows.FILE_MAP_WRITE, 0, 0, uintptr(size))
	if err != nil {
		windows.CloseHandle(mapObj)
		windows.CloseHandle(mutex)
		f.Close()
		return nil, false, &errcode.E{C: errcode.MapOpenFailed, Op: "map_view_of_file", Err: err}
	}

	mem := unsafe.Slice((*byte)(unsafe.Pointer(addr)), size)
	return &windowsSegment{file: f, mutex: mutex, mapObj: mapObj, mem: mem}, created, nil
}
