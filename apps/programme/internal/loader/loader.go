package loader

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	neturl "net/url"
	"os"
	"path"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
	"programme.xdoubleu.com/apps/programme/internal/models"
)

var ErrNotLoaded = errors.New("programme not loaded yet")

// LoadError is returned when the programme document cannot be fetched or is
// not a list of sessions.
type LoadError struct {
	Source string
	Reason string
	Err    error
}

func (e *LoadError) Error() string {
	if e.Err == nil {
		return e.Reason
	}
	return fmt.Sprintf("%s: %v", e.Reason, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

type format int

const (
	formatJSON format = iota
	formatYAML
)

type rawSession struct {
	Day      *string `json:"day"      yaml:"day"`
	Time     *string `json:"time"     yaml:"time"`
	Location *string `json:"location" yaml:"location"`
	Title    *string `json:"title"    yaml:"title"`
	Authors  *string `json:"authors"  yaml:"authors"`
	Details  *string `json:"details"  yaml:"details"`
	URL      *string `json:"url"      yaml:"url"`
}

// Loader reads the programme document from a file path or an http(s) URL.
type Loader struct {
	source string
	client *http.Client
}

func New(source string) *Loader {
	return &Loader{
		source: source,
		client: &http.Client{
			//nolint:mnd //no magic number
			Timeout: 15 * time.Second,
		},
	}
}

func (l *Loader) Source() string {
	return l.source
}

func (l *Loader) Load(ctx context.Context) ([]models.SessionRecord, error) {
	data, docFormat, err := l.fetch(ctx)
	if err != nil {
		return nil, err
	}

	raw, err := decode(data, docFormat)
	if err != nil {
		return nil, &LoadError{
			Source: l.source,
			Reason: "invalid programme document",
			Err:    err,
		}
	}

	sessions := make([]models.SessionRecord, 0, len(raw))
	for _, item := range raw {
		sessions = append(sessions, normalize(item))
	}

	return sessions, nil
}

func (l *Loader) fetch(ctx context.Context) ([]byte, format, error) {
	if isURL(l.source) {
		return l.fetchURL(ctx)
	}

	data, err := os.ReadFile(l.source)
	if err != nil {
		return nil, formatJSON, &LoadError{
			Source: l.source,
			Reason: "failed to read programme",
			Err:    err,
		}
	}

	return data, formatFromPath(l.source), nil
}

func (l *Loader) fetchURL(ctx context.Context) ([]byte, format, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.source, nil)
	if err != nil {
		return nil, formatJSON, &LoadError{
			Source: l.source,
			Reason: "invalid programme url",
			Err:    err,
		}
	}

	req.Header.Set("Accept", "application/json, application/yaml;q=0.9")

	resp, err := l.client.Do(req)
	if err != nil {
		return nil, formatJSON, &LoadError{
			Source: l.source,
			Reason: "failed to fetch programme",
			Err:    err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, formatJSON, &LoadError{
			Source: l.source,
			Reason: resp.Status,
			Err:    nil,
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, formatJSON, &LoadError{
			Source: l.source,
			Reason: "failed to read programme",
			Err:    err,
		}
	}

	docFormat := formatFromContentType(resp.Header.Get("Content-Type"))
	if docFormat == formatJSON {
		docFormat = formatFromPath(req.URL.Path)
	}

	return data, docFormat, nil
}

func decode(data []byte, docFormat format) ([]rawSession, error) {
	var raw []rawSession

	switch docFormat {
	case formatYAML:
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, err
		}
	case formatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		if err := decoder.Decode(&raw); err != nil {
			return nil, err
		}
		if decoder.More() {
			return nil, errors.New("trailing data after programme")
		}
	}

	if raw == nil {
		return nil, errors.New("document is not a list of sessions")
	}

	return raw, nil
}

func normalize(raw rawSession) models.SessionRecord {
	day := value(raw.Day)
	if day == "" {
		day = models.UnknownDay
	}

	sessionTime := strings.TrimSpace(value(raw.Time))
	if sessionTime == "" {
		sessionTime = models.TBATime
	}

	location := strings.TrimSpace(value(raw.Location))
	if location == "" || location == models.NotAvailable {
		location = models.GeneralLocation
	}

	return models.SessionRecord{
		Title:    value(raw.Title),
		Day:      day,
		Time:     sessionTime,
		Location: location,
		Authors:  raw.Authors,
		Details:  raw.Details,
		URL:      raw.URL,
	}
}

func value(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func isURL(source string) bool {
	parsed, err := neturl.Parse(source)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

func formatFromPath(p string) format {
	switch strings.ToLower(path.Ext(p)) {
	case ".yaml", ".yml":
		return formatYAML
	default:
		return formatJSON
	}
}

func formatFromContentType(contentType string) format {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return formatJSON
	}

	switch mediaType {
	case "application/yaml", "application/x-yaml", "text/yaml", "text/x-yaml":
		return formatYAML
	default:
		return formatJSON
	}
}
