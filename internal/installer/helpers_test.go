package installer

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"testing"
)

type entry struct {
	name string
	body string
	dir  bool
	link bool
	// global writes a pax global header, as git archive does.
	global bool
}

func tarball(t *testing.T, entries ...entry) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	tw := tar.NewWriter(gz)
	for _, e := range entries {
		hdr := &tar.Header{Name: e.name, Mode: 0644, Size: int64(len(e.body)), Typeflag: tar.TypeReg}
		switch {
		case e.global:
			hdr = &tar.Header{Name: "pax_global_header", Typeflag: tar.TypeXGlobalHeader,
				PAXRecords: map[string]string{"comment": "3f1c2a9"}}
		case e.dir:
			hdr.Typeflag, hdr.Size, hdr.Mode = tar.TypeDir, 0, 0755
		case e.link:
			hdr.Typeflag, hdr.Size, hdr.Linkname = tar.TypeSymlink, 0, "/etc/passwd"
		}
		if err := tw.WriteHeader(hdr); err != nil {
			t.Fatal(err)
		}
		if hdr.Typeflag == tar.TypeReg {
			if _, err := tw.Write([]byte(e.body)); err != nil {
				t.Fatal(err)
			}
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}
