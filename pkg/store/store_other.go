//go:build !linux

package store

func Store(file string, p []byte) error {
	return WriteFile(file, p)
}
