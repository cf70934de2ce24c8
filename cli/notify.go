package cli

import (
	"context"
	"fmt"
	"io"
	"os"
)

// terminalNotifier prints workflow messages. Errors go to stderr.
type terminalNotifier struct {
	out, err io.Writer
}

func (n terminalNotifier) Info(title, message string) {
	fmt.Fprintln(n.out, message)
}

func (n terminalNotifier) Error(title, message string) {
	fmt.Fprintf(n.err, "%s: %s\n", title, message)
}

// filePicker serves a single image path as the media library.
// Permission is refused only when the OS denies reading the file; a missing
// path or a directory is an error.
type filePicker struct {
	path string
}

func (p filePicker) RequestPermission(ctx context.Context) (bool, error) {
	f, err := os.Open(p.path)
	if err != nil {
		if os.IsPermission(err) {
			return false, nil
		}
		return false, err
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return false, err
	}
	if info.IsDir() {
		return false, fmt.Errorf("%s is a directory", p.path)
	}
	return true, nil
}

func (p filePicker) Pick(ctx context.Context) (string, bool, error) {
	return p.path, p.path != "", nil
}

func (p filePicker) Open(ref string) (io.ReadCloser, error) {
	return os.Open(ref)
}
