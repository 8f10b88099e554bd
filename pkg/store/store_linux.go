package store

import (
	"os"
	"path/filepath"
	"strconv"

	"golang.org/x/sys/unix"
)

// Store writes p through an unnamed O_TMPFILE, links it under a temporary
// name and renames it over file. Filesystems without O_TMPFILE fall back to
// WriteFile.
func Store(file string, p []byte) error {
	dir := filepath.Dir(file)
	fd, err := unix.Open(dir, unix.O_TMPFILE|unix.O_WRONLY, 0644)
	if err != nil {
		return WriteFile(file, p)
	}
	f := os.NewFile(uintptr(fd), "/proc/self/fd/"+strconv.Itoa(fd))
	defer f.Close()

	if _, err = f.Write(p); err != nil {
		return err
	}
	if err = f.Sync(); err != nil {
		return err
	}

	tmp := filepath.Join(dir, tmpPrefix+strconv.Itoa(os.Getpid())+"."+strconv.Itoa(fd)+"."+filepath.Base(file))
	if err := unix.Linkat(unix.AT_FDCWD, f.Name(), unix.AT_FDCWD, tmp, unix.AT_SYMLINK_FOLLOW); err != nil {
		return err
	}
	if err := os.Rename(tmp, file); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}
