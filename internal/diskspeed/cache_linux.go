//go:build linux

package diskspeed

import (
	"os"

	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// dropPageCache asks the kernel to evict the test file's pages so the read
// phase hits the device instead of memory. Only real files are affected.
func dropPageCache(fs afero.Fs, path string) error {
	f, err := fs.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	osFile, ok := f.(*os.File)
	if !ok {
		return nil
	}
	return unix.Fadvise(int(osFile.Fd()), 0, 0, unix.FADV_DONTNEED)
}
