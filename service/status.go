package services

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	model "github.com/devanshpratap/KycVault/models"
	"gorm.io/datatypes"
)

// Status is the compliance state of one company/document cell on the dashboard.
type Status string

const (
	StatusPending      Status = "Pending"
	StatusValid        Status = "Valid"
	StatusExpiringSoon Status = "Expiring Soon"
	StatusExpired      Status = "Expired"

	// StatusNotApplicable is the expiry display state for one-off documents;
	// the classifier itself never returns it.
	StatusNotApplicable Status = "N/A"

	// StatusUnknown marks a renewal upload whose expiry date could not be
	// resolved from either the extracted details or the expiry_date column.
	// Rendered as "?" on the dashboard; distinct from Pending.
	StatusUnknown Status = "?"
)

// expiringSoonDays is the inclusive renewal warning window: exactly 30 days
// out is Expiring Soon, 31 is Valid.
const expiringSoonDays = 30

// isoLayouts are tried in order before falling back to the day-first split
// parse. Covers the formats the record store and extraction pipeline emit.
var isoLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ResolveDate normalizes a value that may hold a calendar date. It accepts
// time.Time values and strings in ISO form or day/month/year with "/" or "-"
// separators. Anything else, including garbage, yields nil; it never panics.
func ResolveDate(value interface{}) *time.Time {
	switch v := value.(type) {
	case time.Time:
		if v.IsZero() {
			return nil
		}
		return &v
	case *time.Time:
		if v == nil || v.IsZero() {
			return nil
		}
		d := *v
		return &d
	case string:
		return resolveDateString(v)
	default:
		return nil
	}
}

func resolveDateString(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}

	for _, layout := range isoLayouts {
		if d, err := time.Parse(layout, s); err == nil {
			return &d
		}
	}

	// Day-first fallback: D/M/YYYY or D-M-YYYY.
	sep := "/"
	if !strings.Contains(s, sep) {
		sep = "-"
	}
	parts := strings.Split(s, sep)
	if len(parts) != 3 {
		return nil
	}
	day, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return nil
	}
	month, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return nil
	}
	year, err := strconv.Atoi(strings.TrimSpace(parts[2]))
	if err != nil {
		return nil
	}
	if year <= 0 || month < 1 || month > 12 || day < 1 {
		return nil
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date normalizes overflow (31/02 becomes 02/03); a date that moved
	// was not a real calendar date.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return nil
	}
	return &d
}

// dateRole names the extracted-details keys that may carry a date for one
// role. Keys are matched lowercased: substring against contains, whole-key
// against exact.
type dateRole struct {
	contains []string
	exact    []string
}

// Synonym sets for the two date roles the extraction pipeline is known to
// emit. "W.I.F"/"W.I.T" are "with immediate effect from/till" labels seen on
// registration certificates.
var (
	IssueDateRole = dateRole{
		contains: []string{"issue", "start"},
		exact:    []string{"w.i.f", "wif", "date_of_issue", "issue_date", "registration_date"},
	}
	ExpiryDateRole = dateRole{
		contains: []string{"expiry", "expiration", "end"},
		exact:    []string{"w.i.t", "wit", "valid_until", "valid_to", "expiry_date"},
	}
)

func (r dateRole) matches(key string) bool {
	for _, token := range r.exact {
		if key == token {
			return true
		}
	}
	for _, sub := range r.contains {
		if strings.Contains(key, sub) {
			return true
		}
	}
	return false
}

// FindDateField scans an extracted-details blob for the first key matching the
// role whose value resolves to a date. The blob is walked as raw JSON so keys
// are visited in document order, which keeps first-match-wins deterministic.
// Absent, empty or malformed blobs yield nil.
func FindDateField(extracted datatypes.JSON, role dateRole) *time.Time {
	if len(extracted) == 0 {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(extracted))
	tok, err := dec.Token()
	if err != nil {
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil
	}

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil
		}
		key, _ := keyTok.(string)

		var value interface{}
		if err := dec.Decode(&value); err != nil {
			return nil
		}

		if role.matches(strings.ToLower(strings.TrimSpace(key))) {
			if d := ResolveDate(value); d != nil {
				return d
			}
		}
	}
	return nil
}

// ExpiryDateOf resolves an upload's expiry date: extracted details first (the
// extracted value is the downstream-corrected one and wins), then the
// expiry_date column.
func ExpiryDateOf(upload *model.UploadRecord) *time.Time {
	if upload == nil {
		return nil
	}
	if d := FindDateField(upload.ExtractedDetails, ExpiryDateRole); d != nil {
		return d
	}
	return ResolveDate(upload.ExpiryDate)
}

// IssueDateOf resolves an upload's issue date the same two-step way. Display
// only; classification never looks at it.
func IssueDateOf(upload *model.UploadRecord) *time.Time {
	if upload == nil {
		return nil
	}
	if d := FindDateField(upload.ExtractedDetails, IssueDateRole); d != nil {
		return d
	}
	return ResolveDate(upload.IssueDate)
}

// DaysUntil returns the whole-day difference between target and asOf. Both
// sides are truncated to midnight UTC first so time of day never shifts the
// boundary.
func DaysUntil(target, asOf time.Time) int {
	t := time.Date(target.Year(), target.Month(), target.Day(), 0, 0, 0, 0, time.UTC)
	a := time.Date(asOf.Year(), asOf.Month(), asOf.Day(), 0, 0, 0, 0, time.UTC)
	return int(t.Sub(a).Hours() / 24)
}

// ClassifyUpload maps one upload (or its absence) to a compliance status as of
// the given day. Total over its inputs: malformed records degrade to
// StatusUnknown, never an error.
func ClassifyUpload(upload *model.UploadRecord, documentType string, asOf time.Time) Status {
	if upload == nil {
		return StatusPending
	}
	if documentType == model.DocumentTypeOneOff {
		// Expiry concepts never apply to one-off documents.
		return StatusValid
	}

	expiry := ExpiryDateOf(upload)
	if expiry == nil {
		return StatusUnknown
	}

	days := DaysUntil(*expiry, asOf)
	switch {
	case days < 0:
		return StatusExpired
	case days <= expiringSoonDays:
		return StatusExpiringSoon
	default:
		return StatusValid
	}
}

// displayDate renders a resolved date for dashboard cells and reports.
func displayDate(d *time.Time) string {
	if d == nil {
		return string(StatusUnknown)
	}
	return d.Format("02/01/2006")
}
