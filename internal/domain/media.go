package domain

import (
	"bytes"
	"fmt"
	"net/http"
	"os"
)

const jpegMimeType = "image/jpeg"

// MediaAttachment is one binary part of a multipart upload.
type MediaAttachment struct {
	Key      string
	Filename string
	MimeType string
	Data     []byte
}

// NewImageAttachment builds the attachment for the index-th photo (1-based),
// named the way the server expects: photo1, photo2, ...
func NewImageAttachment(index int, data []byte) MediaAttachment {
	key := fmt.Sprintf("photo%d", index)
	return MediaAttachment{
		Key:      key,
		Filename: key + ".jpg",
		MimeType: jpegMimeType,
		Data:     data,
	}
}

// AttachmentFromFile reads path and builds the index-th photo attachment.
// The MIME type is sniffed from the content.
func AttachmentFromFile(index int, path string) (MediaAttachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return MediaAttachment{}, fmt.Errorf("failed to read photo %q: %w", path, err)
	}
	if len(data) == 0 {
		return MediaAttachment{}, fmt.Errorf("photo %q is empty", path)
	}
	att := NewImageAttachment(index, data)
	if mime := http.DetectContentType(data); mime != "application/octet-stream" {
		att.MimeType = mime
	}
	return att, nil
}

// Equal compares all fields including the payload bytes.
func (m MediaAttachment) Equal(other MediaAttachment) bool {
	return m.Key == other.Key &&
		m.Filename == other.Filename &&
		m.MimeType == other.MimeType &&
		bytes.Equal(m.Data, other.Data)
}

func attachmentsEqual(a, b []MediaAttachment) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
