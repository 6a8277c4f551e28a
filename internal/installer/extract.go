package installer

import (
	"archive/tar"
	"compress/gzip"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// ExtractSingle unpacks the only regular file of a tar.gz archive into
// destDir and returns its path. Directory entries and pax global headers
// are ignored; a nested
// path, an entry escaping destDir, or a second regular file is an error.
func ExtractSingle(archivePath, destDir string) (string, error) {
	fail := func(err error) (string, error) {
		return "", &ArchiveError{Archive: archivePath, Err: err}
	}

	f, err := os.Open(archivePath)
	if err != nil {
		return fail(fmt.Errorf("opening archive: %w", err))
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return fail(fmt.Errorf("creating gzip reader: %w", err))
	}
	defer gz.Close()

	var extracted string
	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			removeIfSet(extracted)
			return fail(fmt.Errorf("reading tar entry: %w", err))
		}

		if hdr.Typeflag == tar.TypeXGlobalHeader {
			continue
		}
		name, err := entryName(hdr.Name)
		if err != nil {
			removeIfSet(extracted)
			return fail(err)
		}
		switch hdr.Typeflag {
		case tar.TypeDir:
			continue
		case tar.TypeReg:
		default:
			removeIfSet(extracted)
			return fail(fmt.Errorf("entry %q is not a regular file", hdr.Name))
		}
		if strings.Contains(name, "/") {
			removeIfSet(extracted)
			return fail(fmt.Errorf("entry %q is not at the top level", hdr.Name))
		}
		if extracted != "" {
			removeIfSet(extracted)
			return fail(fmt.Errorf("archive holds more than one file (%q)", hdr.Name))
		}

		destPath := filepath.Join(destDir, name)
		if err := writeEntry(destPath, tr); err != nil {
			os.Remove(destPath)
			return fail(err)
		}
		extracted = destPath
	}

	if extracted == "" {
		return fail(errors.New("archive holds no file"))
	}
	return extracted, nil
}

// entryName cleans a tar entry name and rejects absolute or escaping paths.
func entryName(raw string) (string, error) {
	clean := path.Clean(strings.TrimPrefix(raw, "./"))
	if path.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", fmt.Errorf("entry %q escapes the destination", raw)
	}
	return clean, nil
}

func writeEntry(destPath string, r io.Reader) error {
	out, err := os.OpenFile(destPath, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0755)
	if err != nil {
		return fmt.Errorf("creating binary file: %w", err)
	}
	if _, err := io.Copy(out, r); err != nil {
		out.Close()
		return fmt.Errorf("extracting binary: %w", err)
	}
	return out.Close()
}

func removeIfSet(p string) {
	if p != "" {
		os.Remove(p)
	}
}
