// File: internal/mcpack/archive.go
// Brief: Deterministic zip writer for resource packs.

package mcpack

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
)

// packEpoch stamps every archive entry. Zip timestamps cannot predate
// 1980, and a fixed stamp keeps repeated runs byte-identical.
var packEpoch = time.Date(1980, time.January, 1, 0, 0, 0, 0, time.UTC)

type packFile struct {
	Name string // slash-separated path inside the archive
	Path string // source file on disk
}

func writeDeterministicZip(dstPath string, files []packFile) error {
	if strings.TrimSpace(dstPath) == "" {
		return fmt.Errorf("pack output path is required")
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })

	if err := os.MkdirAll(filepath.Dir(dstPath), 0o755); err != nil {
		return err
	}
	tmp := dstPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	defer func() {
		_ = f.Close()
	}()

	zw := zip.NewWriter(f)
	defer func() {
		_ = zw.Close()
	}()

	for _, pf := range files {
		name := strings.TrimLeft(strings.TrimSpace(pf.Name), "/")
		if name == "" {
			return fmt.Errorf("empty archive entry name for %s", pf.Path)
		}
		hdr := &zip.FileHeader{
			Name:     name,
			Method:   zip.Deflate,
			Modified: packEpoch,
		}
		hdr.SetMode(0o644)
		w, err := zw.CreateHeader(hdr)
		if err != nil {
			return err
		}
		src, err := os.Open(pf.Path)
		if err != nil {
			return err
		}
		_, copyErr := io.Copy(w, src)
		_ = src.Close()
		if copyErr != nil {
			return copyErr
		}
	}

	if err := zw.Close(); err != nil {
		return err
	}
	if err := f.Sync(); err != nil {
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(tmp, dstPath)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	tmp := dst + ".tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, dst)
}
