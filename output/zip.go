package output

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
)

const contentTypesPart = "[Content_Types].xml"

// canonicalZip rewrites an OOXML package with parts in a fixed order and no
// timestamps, so identical workbooks serialise to identical bytes.
func canonicalZip(data []byte) ([]byte, error) {
	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("open package: %w", err)
	}

	files := append([]*zip.File(nil), reader.File...)
	sort.SliceStable(files, func(i, j int) bool {
		if files[i].Name == contentTypesPart || files[j].Name == contentTypesPart {
			return files[i].Name == contentTypesPart
		}
		return files[i].Name < files[j].Name
	})

	var out bytes.Buffer
	writer := zip.NewWriter(&out)
	for _, file := range files {
		part, err := writer.CreateHeader(&zip.FileHeader{Name: file.Name, Method: zip.Deflate})
		if err != nil {
			return nil, fmt.Errorf("create part %s: %w", file.Name, err)
		}
		src, err := file.Open()
		if err != nil {
			return nil, fmt.Errorf("open part %s: %w", file.Name, err)
		}
		_, err = io.Copy(part, src)
		_ = src.Close()
		if err != nil {
			return nil, fmt.Errorf("copy part %s: %w", file.Name, err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("finish package: %w", err)
	}
	return out.Bytes(), nil
}
