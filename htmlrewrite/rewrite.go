package htmlrewrite

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/url"
	"strings"

	"golang.org/x/net/html"
)

// ErrRewrite is returned when the document cannot be rewritten. The caller
// is expected to fall back to the unrewritten original.
var ErrRewrite = errors.New("htmlrewrite: rewrite failed")

// IsHTML reports whether contentType denotes an HTML document.
func IsHTML(contentType string) bool {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}

	return mediaType == "text/html"
}

// Rewrite resolves subresource references in an HTML body against base and
// returns the rewritten body together with the list of subresource URLs
// found, in document order. Non-HTML content is returned unchanged with no
// preloads.
//
// Rewrite is a pure single-pass transform: identical inputs produce
// identical outputs, and on error no partial output is returned.
func Rewrite(body []byte, contentType string, base *url.URL) ([]byte, []string, error) {
	if !IsHTML(contentType) {
		return body, nil, nil
	}

	if base == nil {
		return nil, nil, fmt.Errorf("%w: document URL is required", ErrRewrite)
	}

	var (
		out      bytes.Buffer
		preloads []string
	)

	out.Grow(len(body))

	z := html.NewTokenizer(bytes.NewReader(body))

	for {
		tt := z.Next()

		switch tt {
		case html.ErrorToken:
			if err := z.Err(); err != io.EOF {
				return nil, nil, fmt.Errorf("%w: %v", ErrRewrite, err)
			}

			return out.Bytes(), preloads, nil

		case html.StartTagToken, html.SelfClosingTagToken:
			raw := z.Raw()

			tok := z.Token()

			rewritten, subresource, err := rewriteTag(&tok, base)
			if err != nil {
				return nil, nil, err
			}

			if subresource != "" {
				preloads = append(preloads, subresource)
			}

			if rewritten {
				out.WriteString(tok.String())
			} else {
				out.Write(raw)
			}

		default:
			out.Write(z.Raw())
		}
	}
}

// rewriteTag resolves the subresource attribute of a script, img, or link
// tag in place. It reports whether the token was modified and returns the
// absolute subresource URL when the tag references one.
func rewriteTag(tok *html.Token, base *url.URL) (bool, string, error) {
	var attr string

	switch tok.Data {
	case "script", "img":
		attr = "src"
	case "link":
		if !isPreloadableLink(tok) {
			return false, "", nil
		}

		attr = "href"
	default:
		return false, "", nil
	}

	for i := range tok.Attr {
		if tok.Attr[i].Key != attr || tok.Attr[i].Val == "" {
			continue
		}

		ref, err := url.Parse(tok.Attr[i].Val)
		if err != nil {
			return false, "", fmt.Errorf("%w: %s %s=%q: %v", ErrRewrite, tok.Data, attr, tok.Attr[i].Val, err)
		}

		resolved := base.ResolveReference(ref).String()
		if resolved == tok.Attr[i].Val {
			return false, resolved, nil
		}

		tok.Attr[i].Val = resolved

		return true, resolved, nil
	}

	return false, "", nil
}

// isPreloadableLink reports whether a link tag's rel names a subresource
// relation worth rewriting (stylesheet, preload, modulepreload).
func isPreloadableLink(tok *html.Token) bool {
	for _, a := range tok.Attr {
		if a.Key != "rel" {
			continue
		}

		for rel := range strings.FieldsSeq(a.Val) {
			switch strings.ToLower(rel) {
			case "stylesheet", "preload", "modulepreload":
				return true
			}
		}
	}

	return false
}
