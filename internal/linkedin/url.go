// Package linkedin canonicalises LinkedIn job URLs into the identity key
// under which records are stored.
package linkedin

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// ErrNoJobID is returned for a LinkedIn URL that names no job.
var ErrNoJobID = errors.New("no job id in linkedin url")

const viewPrefix = "https://www.linkedin.com/jobs/view/"

var jobIDPattern = regexp.MustCompile(`(?:currentJobId|jobId)=(\d+)`)

// CanonicalURL maps a LinkedIn job URL to https://www.linkedin.com/jobs/view/<id>/.
//
// View URLs lose their query string and gain a trailing slash. Search URLs
// are converted through their currentJobId or jobId parameter. URLs on other
// hosts are returned unchanged.
func CanonicalURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if strings.Contains(raw, "/jobs/view/") {
		base, _, _ := strings.Cut(raw, "?")
		return strings.TrimRight(base, "/") + "/", nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("parse url %q: %w", raw, err)
	}
	if !IsLinkedIn(u.Host) {
		return raw, nil
	}

	q := u.Query()
	id := q.Get("currentJobId")
	if id == "" {
		id = q.Get("jobId")
	}
	if id == "" {
		if m := jobIDPattern.FindStringSubmatch(raw); m != nil {
			id = m[1]
		}
	}
	if id == "" {
		return "", fmt.Errorf("%w: %s", ErrNoJobID, raw)
	}
	return viewPrefix + id + "/", nil
}

// IsLinkedIn reports whether host belongs to linkedin.com.
func IsLinkedIn(host string) bool {
	host = strings.ToLower(host)
	return host == "linkedin.com" || strings.HasSuffix(host, ".linkedin.com")
}
