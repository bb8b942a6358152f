package models

import (
	"encoding/json"
	"strings"
	"time"
)

// Record represents a single entry of a backend collection (a sermon, an
// event or a gallery image). The backend stores every collection as flat
// JSON records with server-assigned string identifiers; fields that do not
// apply to a given collection are simply empty.
type Record struct {
	// ID is the unique, immutable identifier assigned by the backend on
	// creation. Client-generated provisional identifiers are replaced by
	// the server value once the create is confirmed.
	ID string `json:"id"`

	// CollectionName is the name of the collection the record belongs to
	// (e.g. "sermons", "events", "gallery").
	CollectionName string `json:"collectionName,omitempty"`

	// Date is the ordering key of the record. Collections are presented
	// in strictly descending Date order.
	Date DateTime `json:"date"`

	// Title is the display title (sermon title, event title).
	Title string `json:"title,omitempty"`

	// Preacher references a preacher record by id. The full record is
	// available via Expand when the fetch requested it.
	Preacher string `json:"preacher,omitempty"`

	// Description is the free-form description text.
	Description string `json:"description,omitempty"`

	// Duration is the human-entered duration label (e.g. "42 min").
	Duration string `json:"duration,omitempty"`

	// Location and TimeOfDay are event-only fields.
	Location  string `json:"location,omitempty"`
	TimeOfDay string `json:"time,omitempty"`

	// Category and Caption are gallery-only fields.
	Category string `json:"category,omitempty"`
	Caption  string `json:"caption,omitempty"`

	// Audio and Image hold the stored filenames of the attached files.
	// A filename is only resolvable to a URL together with the record id
	// and collection name (see the gateway's FileURL).
	Audio string `json:"audio,omitempty"`
	Image string `json:"image,omitempty"`

	// DownloadCount tracks how many times the audio file was downloaded.
	DownloadCount int `json:"download_count,omitempty"`

	// Expand holds joined relation records keyed by field name, populated
	// only when the fetch requested an expansion.
	Expand map[string]Record `json:"expand,omitempty"`

	// Created and Updated are server-side bookkeeping timestamps.
	Created DateTime `json:"created,omitempty"`
	Updated DateTime `json:"updated,omitempty"`
}

// FileFields returns the record's non-empty attached-file fields as a
// field-name to stored-filename mapping.
func (r *Record) FileFields() map[string]string {
	files := make(map[string]string, 2)
	if r.Audio != "" {
		files["audio"] = r.Audio
	}
	if r.Image != "" {
		files["image"] = r.Image
	}
	return files
}

// Year returns the calendar year of the record's ordering key.
func (r *Record) Year() int {
	return r.Date.Time().Year()
}

// Month returns the calendar month of the record's ordering key.
func (r *Record) Month() time.Month {
	return r.Date.Time().Month()
}

// ExpandedPreacher returns the joined preacher record and whether it was
// present in the fetch response.
func (r *Record) ExpandedPreacher() (Record, bool) {
	if r.Expand == nil {
		return Record{}, false
	}
	p, ok := r.Expand["preacher"]
	return p, ok
}

// DateTime wraps time.Time to accept both RFC 3339 timestamps and the
// backend's space-separated "2006-01-02 15:04:05.000Z" form, as well as
// bare "2006-01-02" dates typed into forms.
type DateTime time.Time

const backendTimeLayout = "2006-01-02 15:04:05.000Z"

// Time returns the wrapped time.Time value.
func (d DateTime) Time() time.Time {
	return time.Time(d)
}

// IsZero reports whether the wrapped time is the zero instant.
func (d DateTime) IsZero() bool {
	return time.Time(d).IsZero()
}

// String returns the timestamp in the backend's canonical layout.
func (d DateTime) String() string {
	return time.Time(d).UTC().Format(backendTimeLayout)
}

func (d DateTime) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return json.Marshal("")
	}
	return json.Marshal(d.String())
}

func (d *DateTime) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}

	parsed, err := ParseDateTime(raw)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ParseDateTime parses raw in any of the accepted layouts. An empty string
// yields the zero DateTime.
func ParseDateTime(raw string) (DateTime, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DateTime(time.Time{}), nil
	}

	layouts := []string{backendTimeLayout, time.RFC3339Nano, time.RFC3339, "2006-01-02 15:04:05", "2006-01-02"}
	var lastErr error
	for _, layout := range layouts {
		t, err := time.Parse(layout, raw)
		if err == nil {
			return DateTime(t), nil
		}
		lastErr = err
	}

	return DateTime(time.Time{}), lastErr
}
