package httpapi

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

const defaultBaseName = "mihomo"

func setAttachmentHeaders(w http.ResponseWriter, req convertRequest) error {
	filename, err := outputFileName(req)
	if err != nil {
		return err
	}
	// Both filename and filename* for UTF-8 names.
	w.Header().Set("Content-Disposition", contentDispositionAttachment(filename))
	return nil
}

func outputFileName(req convertRequest) (string, error) {
	base := strings.TrimSpace(req.FileName)
	if base == "" {
		base = defaultBaseName
	}
	if strings.ContainsAny(base, "\r\n\x00") {
		return "", requestError("INVALID_ARGUMENT", "filename 含有非法控制字符", "")
	}
	if strings.Contains(base, "/") || strings.Contains(base, "\\") {
		return "", requestError("INVALID_ARGUMENT", "filename 不允许包含路径分隔符", "")
	}
	if len(base) > 200 {
		return "", requestError("INVALID_ARGUMENT", "filename 过长", "max=200 bytes")
	}

	if !hasExt(base) {
		base += req.Target.Ext()
	}
	return base, nil
}

func hasExt(name string) bool {
	i := strings.LastIndexByte(name, '.')
	return i > 0 && i < len(name)-1
}

func contentDispositionAttachment(filename string) string {
	// RFC 6266 + RFC 5987.
	escaped := strings.ReplaceAll(filename, "\\", "\\\\")
	escaped = strings.ReplaceAll(escaped, "\"", "\\\"")
	return fmt.Sprintf("attachment; filename=\"%s\"; filename*=UTF-8''%s", escaped, pctEncode(filename))
}

func pctEncode(s string) string {
	// QueryEscape writes spaces as '+'; RFC 5987 wants %20.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
