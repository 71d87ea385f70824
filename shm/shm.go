// Package shm provides helpers for the anonymous shared memory that
// backs wl_shm pools.
package shm

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Create returns an anonymous, sealable shared-memory file of the
// given size.
func Create(size int64) (*os.File, error) {
	fd, err := unix.MemfdCreate("waywin-shm", unix.MFD_CLOEXEC|unix.MFD_ALLOW_SEALING)
	if err != nil {
		return nil, fmt.Errorf("memfd_create: %w", err)
	}

	file := os.NewFile(uintptr(fd), "waywin-shm")
	if err := file.Truncate(size); err != nil {
		file.Close()
		return nil, fmt.Errorf("truncate shm file: %w", err)
	}

	return file, nil
}

// Mmap is a memory mapping of a shared-memory file.
type Mmap []byte

// MapShared maps size bytes of file with the given protection flags.
func MapShared(file *os.File, size int, prot int) (mmap Mmap, err error) {
	sc, err := file.SyscallConn()
	if err != nil {
		return nil, err
	}

	err2 := sc.Control(func(fd uintptr) {
		m, merr := unix.Mmap(int(fd), 0, size, prot, unix.MAP_SHARED)
		mmap, err = Mmap(m), merr
	})
	if err == nil {
		err = err2
	}

	return mmap, err
}

func (mmap Mmap) Unmap() error {
	return unix.Munmap(mmap)
}
