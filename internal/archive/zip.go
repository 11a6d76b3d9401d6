// Package archive writes the staged layer tree into a zip file with the
// exact internal layout the Lambda layer mechanism consumes.
package archive

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// ZipTree archives srcDir into outPath. Entry names are rooted at topFolder
// (the base name of srcDir's parent entry in the archive), so zipping
// <root>/python produces entries like python/lib/python3.13/site-packages/...
// with forward slashes regardless of platform.
func ZipTree(srcDir, topFolder, outPath string) error {
	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create archive %s: %w", outPath, err)
	}
	defer out.Close()

	zw := zip.NewWriter(out)

	walkErr := filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}

		name := topFolder
		if rel != "." {
			name = topFolder + "/" + filepath.ToSlash(rel)
		}

		if d.IsDir() {
			_, err := zw.Create(name + "/")
			return err
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		header, err := zip.FileInfoHeader(info)
		if err != nil {
			return err
		}
		header.Name = name
		header.Method = zip.Deflate

		entry, err := zw.CreateHeader(header)
		if err != nil {
			return err
		}
		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()
		_, err = io.Copy(entry, src)
		return err
	})
	if walkErr != nil {
		zw.Close()
		return fmt.Errorf("failed to archive %s: %w", srcDir, walkErr)
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finalize archive %s: %w", outPath, err)
	}
	if err := out.Close(); err != nil {
		return fmt.Errorf("failed to flush archive %s: %w", outPath, err)
	}

	// An archiving call that reports success but leaves no file behind is
	// still a failure; the upload step depends on the file existing.
	if _, err := os.Stat(outPath); err != nil {
		return fmt.Errorf("archive file missing after creation: %s", outPath)
	}
	return nil
}
