// Package shm implements the cross-process SharedBank (spec.md §4.3): a
// process-wide singleton wrapping a named shared-memory segment and a
// single named mutex, discovered via a link file under the platform's
// per-user data directory.
//
// Grounded on AlephTX-aleph-tx's feeder/shm/seqlock.go (file-backed mmap
// region under a well-known path) and stianeikeland-go-rpio's Open/Close
// mmap lifecycle; the platform split between shm_unix.go (flock + mmap via
// golang.org/x/sys/unix) and shm_windows.go (CreateFileMapping + a named
// Windows mutex) follows periph-host's host_linux.go / host_arm.go and
// netlink/socket.go / socket_windows.go convention.
package shm

import (
	"os"
	"path/filepath"
	"runtime"
	"unsafe"

	"simpi/errcode"
	"simpi/gpioregs"
	"simpi/internal/wpilog"
)

const (
	linkDirName  = "simpi"
	linkFileName = "~simpi.link"
)

var bankSize = int(unsafe.Sizeof(gpioregs.RegisterBank{}))

// segment is implemented per-platform (shm_unix.go / shm_windows.go): a
// mapped byte region backing one RegisterBank plus the single named mutex
// guarding it. By construction a segment holds exactly one lock (lock ID 0
// of spec.md §6), satisfying invariant I2/the "exactly one lock" assertion
// of spec.md §4.3 step 6 structurally rather than by a runtime count.
type segment interface {
	data() []byte
	lock() error
	unlock() error
	close() error
}

// SharedBank is the process-safe handle to a RegisterBank living in the
// named shared segment.
type SharedBank struct {
	seg   segment
	owner bool
}

// ReadGuard grants read-only access to a point-in-time copy of the bank.
// Because the copy is a value, not a pointer into the mapping, callers
// cannot accidentally write back through it — this is simpi's stand-in for
// Rust's immutable-borrow guarantee.
type ReadGuard struct {
	snapshot gpioregs.RegisterBank
	bank     *SharedBank
	released bool
}

// Bank returns the snapshot taken when the lock was acquired.
func (g *ReadGuard) Bank() gpioregs.RegisterBank { return g.snapshot }

// Release unlocks the segment. Safe to call more than once.
func (g *ReadGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	_ = g.bank.seg.unlock()
}

// WriteGuard grants mutable access to the live mapped bank.
type WriteGuard struct {
	bank     *SharedBank
	released bool
}

// Bank returns a pointer into the mapped segment. Valid only until Release.
func (g *WriteGuard) Bank() *gpioregs.RegisterBank {
	return (*gpioregs.RegisterBank)(unsafe.Pointer(&g.bank.seg.data()[0]))
}

// Release unlocks the segment. Safe to call more than once.
func (g *WriteGuard) Release() {
	if g.released {
		return
	}
	g.released = true
	_ = g.bank.seg.unlock()
}

// ReadLock acquires the segment's mutex and returns a scoped read guard.
// Callers MUST call Release on every exit path.
func (b *SharedBank) ReadLock() (*ReadGuard, error) {
	if err := b.seg.lock(); err != nil {
		return nil, err
	}
	view := (*gpioregs.RegisterBank)(unsafe.Pointer(&b.seg.data()[0]))
	return &ReadGuard{snapshot: *view, bank: b}, nil
}

// WriteLock acquires the segment's mutex and returns a scoped write guard.
// Callers MUST call Release on every exit path.
func (b *SharedBank) WriteLock() (*WriteGuard, error) {
	if err := b.seg.lock(); err != nil {
		return nil, err
	}
	return &WriteGuard{bank: b}, nil
}

// IsOwner reports whether this process created (rather than opened) the
// segment.
func (b *SharedBank) IsOwner() bool { return b.owner }

// Close releases this handle's mapping and file. The link file and the
// register values stored in it are left on disk, also after the last
// participant closes; a later Open finds the existing file, opens it as a
// non-owner, and does not reset it.
func (b *SharedBank) Close() error { return b.seg.close() }

// Open runs the create-or-open protocol of spec.md §4.3: resolve the link
// path, create-or-open the segment, retry once on a stale link, and reset
// the bank if this process is the owner.
func Open() (*SharedBank, error) {
	path, err := linkPath()
	if err != nil {
		return nil, err
	}
	return OpenAt(path)
}

// OpenAt runs the same protocol as Open against an explicit link path,
// bypassing the per-user data directory lookup. Exercised directly by
// tests so they don't depend on $HOME/%APPDATA%.
func OpenAt(path string) (*SharedBank, error) {
	return openAttempt(path, 0)
}

func openAttempt(path string, attempt int) (*SharedBank, error) {
	seg, created, err := createOrOpenSegment(path, bankSize)
	if err != nil {
		if errcode.Of(err) == errcode.MapOpenFailed && attempt == 0 {
			wpilog.Warning("stale link file, recreating: " + path)
			_ = os.Remove(path)
			return openAttempt(path, attempt+1)
		}
		return nil, err
	}

	bank := &SharedBank{seg: seg, owner: created}
	if created {
		wg, err := bank.WriteLock()
		if err != nil {
			return nil, err
		}
		wg.Bank().Reset()
		wg.Release()
		wpilog.Info("created shared gpioregs mapping at " + path)
	} else {
		wpilog.Info("opened existing shared gpioregs mapping at " + path)
	}
	return bank, nil
}

// linkPath resolves the well-known link file location (spec.md §6):
// $HOME/simpi/~simpi.link on Unix-like hosts, %APPDATA%/simpi/~simpi.link
// on Windows.
func linkPath() (string, error) {
	var base string
	if runtime.GOOS == "windows" {
		base = os.Getenv("APPDATA")
		if base == "" {
			return "", errcode.LinkDoesNotExist
		}
	} else {
		var err error
		base, err = os.UserHomeDir()
		if err != nil || base == "" {
			return "", errcode.LinkDoesNotExist
		}
	}
	dir := filepath.Join(base, linkDirName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errcode.LinkDoesNotExist
	}
	return filepath.Join(dir, linkFileName), nil
}
