// Package archive retires spec folders. A folder is packed into a
// compressed tarball under the state directory, then renamed with the
// z_ prefix so the scorer's exclusion rule hides it. Restore reverses
// both steps.
package archive

import (
	"archive/tar"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/pvaldez/specnav/internal/folder"
)

// ErrExcluded is returned when asked to archive a folder whose name is
// already hidden from scoring.
var ErrExcluded = errors.New("archive: folder already excluded")

// Archive packs root/<id> into archiveDir/<id>.tar.zst and renames the
// live folder to z_<id> so scoring stops seeing it. Returns the archive
// path.
func Archive(root, archiveDir, id string) (string, error) {
	if folder.IsExcludedName(id) {
		return "", ErrExcluded
	}

	src := filepath.Join(root, id)
	info, err := os.Stat(src)
	if err != nil {
		return "", fmt.Errorf("archive: stat %s: %w", id, err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("archive: %s is not a folder", id)
	}

	retired := filepath.Join(root, "z_"+id)
	if _, err := os.Stat(retired); err == nil {
		return "", fmt.Errorf("archive: %s is already retired as z_%s", id, id)
	}

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", fmt.Errorf("archive: create archive dir: %w", err)
	}

	destPath := Path(archiveDir, id)
	if err := pack(src, destPath, id); err != nil {
		_ = os.Remove(destPath)
		return "", err
	}

	if err := os.Rename(src, retired); err != nil {
		return "", fmt.Errorf("archive: retire folder: %w", err)
	}
	return destPath, nil
}

// Restore brings an archived folder back into scoring. The fast path
// renames z_<id> back to <id>; if the retired copy is gone it unpacks
// the tarball instead.
func Restore(root, archiveDir, id string) error {
	live := filepath.Join(root, id)
	if _, err := os.Stat(live); err == nil {
		return fmt.Errorf("archive: %s is already live", id)
	}

	retired := filepath.Join(root, "z_"+id)
	if _, err := os.Stat(retired); err == nil {
		if err := os.Rename(retired, live); err != nil {
			return fmt.Errorf("archive: revive folder: %w", err)
		}
		return nil
	}

	return unpack(Path(archiveDir, id), root)
}

// IsArchived returns true if an archive file exists for the given folder ID.
func IsArchived(archiveDir, id string) bool {
	_, err := os.Stat(Path(archiveDir, id))
	return err == nil
}

// Path returns the deterministic archive path for a folder ID.
func Path(archiveDir, id string) string {
	return filepath.Join(archiveDir, id+".tar.zst")
}

// pack writes the folder tree rooted at dir into a tar.zst file, with
// every entry name prefixed by the folder ID.
func pack(dir, destPath, id string) error {
	dest, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("archive: create archive: %w", err)
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return fmt.Errorf("archive: create zstd encoder: %w", err)
	}
	tw := tar.NewWriter(encoder)

	walkErr := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := id
		if rel != "." {
			name = id + "/" + filepath.ToSlash(rel)
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		header.Name = name

		if d.IsDir() {
			header.Name += "/"
			return tw.WriteHeader(header)
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(tw, f)
		return err
	})
	if walkErr != nil {
		_ = tw.Close()
		_ = encoder.Close()
		return fmt.Errorf("archive: pack %s: %w", id, walkErr)
	}

	if err := tw.Close(); err != nil {
		_ = encoder.Close()
		return fmt.Errorf("archive: finalize tar: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("archive: finalize compression: %w", err)
	}
	return nil
}

// unpack extracts a tar.zst archive into root. Entry names already
// carry the folder ID prefix.
func unpack(archivePath, root string) error {
	src, err := os.Open(archivePath)
	if err != nil {
		return fmt.Errorf("archive: open archive: %w", err)
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return fmt.Errorf("archive: create zstd decoder: %w", err)
	}
	defer decoder.Close()

	tr := tar.NewReader(decoder)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("archive: reading tar: %w", err)
		}

		name := filepath.FromSlash(strings.TrimSuffix(header.Name, "/"))
		if name == "" || !filepath.IsLocal(name) {
			return fmt.Errorf("archive: unsafe path %q in archive", header.Name)
		}
		target := filepath.Join(root, name)

		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, 0o755); err != nil {
				return fmt.Errorf("archive: restore dir: %w", err)
			}
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return fmt.Errorf("archive: restore dir: %w", err)
			}
			f, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
			if err != nil {
				return fmt.Errorf("archive: restore file: %w", err)
			}
			if _, err := io.Copy(f, tr); err != nil {
				f.Close()
				return fmt.Errorf("archive: restore file: %w", err)
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("archive: restore file: %w", err)
			}
		}
	}
	return nil
}
