package protoexport

import (
	"os"
	"path"

	"github.com/jhump/protoreflect/v2/protoprint"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// Render writes fd below outDir at its descriptor path and returns the
// written file's path.
func Render(fd protoreflect.FileDescriptor, outDir string) (string, error) {
	fp := path.Join(outDir, fd.Path())
	if err := os.MkdirAll(path.Dir(fp), 0755); err != nil {
		return "", err
	}
	f, err := os.OpenFile(fp, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pp := protoprint.Printer{}
	if err := pp.PrintProtoFile(fd, f); err != nil {
		return "", err
	}
	return fp, nil
}
