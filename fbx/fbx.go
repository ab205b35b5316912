package fbx

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
)

// parseRaw reads a binary or ASCII file into a raw record tree.
func parseRaw(r io.Reader) (root *Node, ascii bool, err error) {
	br := bufio.NewReader(r)
	head, _ := br.Peek(len(binaryMagic))
	if bytes.Equal(head, []byte(binaryMagic)) {
		p := binaryParser{r: &positionReader{r: br}}
		root, err = p.Parse()
		return root, false, err
	}
	p := textParser{r: br}
	root, err = p.Parse()
	if err == nil && root.FindChild("Objects") == nil && root.FindChild("FBXHeaderExtension") == nil {
		err = ErrUnknownFormat
	}
	return root, true, err
}

func Load(path string, opt *DocumentOption) (*Document, error) {
	r, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Parse(r, opt)
}

func Parse(r io.Reader, opt *DocumentOption) (*Document, error) {
	root, _, err := parseRaw(r)
	if err != nil {
		return nil, err
	}
	return BuildDocument(root, opt)
}

func Write(w io.Writer, doc *Document, ascii bool) error {
	root := doc.ToNode()
	if ascii {
		return writeText(w, root, doc.Creator)
	}
	return writeBinary(w, root)
}

func Save(doc *Document, path string, ascii bool) error {
	w, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(w, doc, ascii); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return w.Close()
}
