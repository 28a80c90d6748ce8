package api

import (
	"bytes"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"net/url"
	"strings"

	"github.com/swparks/sw-cli/internal/domain"
)

// DefaultBoundary is the multipart boundary the server is built against.
const DefaultBoundary = "FFF"

const (
	contentTypeForm = "application/x-www-form-urlencoded"
	contentTypeJSON = "application/json"
)

// EncodeMultipart builds a multipart/form-data body: text parameters first,
// then attachments, each in input order, closed by "--boundary--\r\n".
// It returns nil when there is nothing to send.
func EncodeMultipart(params []Param, media []domain.MediaAttachment, boundary string) ([]byte, error) {
	if len(params) == 0 && len(media) == 0 {
		return nil, nil
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.SetBoundary(boundary); err != nil {
		return nil, fmt.Errorf("invalid multipart boundary %q: %w", boundary, err)
	}

	// Part headers are built by hand: names are sent unescaped and each
	// attachment keeps its own Content-Type.
	for _, p := range params {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"`, p.Key))
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create field %s: %w", p.Key, err)
		}
		if _, err := part.Write([]byte(p.Value)); err != nil {
			return nil, fmt.Errorf("failed to write field %s: %w", p.Key, err)
		}
	}

	for _, m := range media {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="%s"; filename="%s"`, m.Key, m.Filename))
		header.Set("Content-Type", m.MimeType)
		part, err := writer.CreatePart(header)
		if err != nil {
			return nil, fmt.Errorf("failed to create file %s: %w", m.Filename, err)
		}
		if _, err := part.Write(m.Data); err != nil {
			return nil, fmt.Errorf("failed to write file content %s: %w", m.Filename, err)
		}
	}

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close multipart writer: %w", err)
	}
	return body.Bytes(), nil
}

// EncodeURLEncoded joins key=value pairs with "&". Keys and values are
// form-escaped. It returns nil for an empty parameter list.
func EncodeURLEncoded(params []Param) []byte {
	if len(params) == 0 {
		return nil
	}
	pairs := make([]string, 0, len(params))
	for _, p := range params {
		pairs = append(pairs, url.QueryEscape(p.Key)+"="+url.QueryEscape(p.Value))
	}
	return []byte(strings.Join(pairs, "&"))
}

func multipartContentType(boundary string) string {
	return "multipart/form-data; boundary=" + boundary
}
