package utils

import (
	"io"
	"os"
	"path/filepath"
)

// Get directory of the running program, not the working directory.
func GetPrgDir() (string, error) {
	prg, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(prg), nil
}

// Change working directory to the program directory, so that relative
// paths in config (etc/, log/, data/) resolve the same way no matter
// where the program is started from.
func Chdir2PrgPath() error {
	dir, err := GetPrgDir()
	if err != nil {
		return err
	}
	return os.Chdir(dir)
}

// Return true if filename exists. When it does not, try to copy the
// template file to filename, such as etc/aprgen.toml.tpl -> etc/aprgen.toml.
func ExistedOrCopy(filename, tplname string) bool {
	if _, err := os.Stat(filename); err == nil {
		return true
	}
	if _, err := os.Stat(tplname); err != nil {
		return false
	}

	src, err := os.Open(tplname)
	if err != nil {
		return false
	}
	defer src.Close()

	dst, err := os.Create(filename)
	if err != nil {
		return false
	}
	defer dst.Close()

	if _, err = io.Copy(dst, src); err != nil {
		return false
	}
	return true
}
