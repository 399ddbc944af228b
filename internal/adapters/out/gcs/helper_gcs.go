// internal/adapters/out/gcs/helper_gcs.go
package gcs

import (
	"net/url"
	"strings"
)

var segmentReplacer = strings.NewReplacer("/", "_", "\\", "_", "\x00", "")

// sanitizePathSegment makes an order id safe to use as one object-name segment.
func sanitizePathSegment(s string) string {
	return strings.Trim(segmentReplacer.Replace(strings.TrimSpace(s)), ". ")
}

// gcsPublicURL returns "" when either part is blank.
func gcsPublicURL(bucket, objectPath string) string {
	bucket = strings.Trim(strings.TrimSpace(bucket), "/")
	objectPath = strings.TrimLeft(strings.TrimSpace(objectPath), "/")
	if bucket == "" || objectPath == "" {
		return ""
	}
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + objectPath}
	return u.String()
}
