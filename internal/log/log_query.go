// log_query.go reads audit entries back for the "imgtag log" command.

package log

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// ErrClosed is returned by queries when the logger has not been opened.
var ErrClosed = errors.New("audit log not open")

// Record is a stored audit entry.
type Record struct {
	At       time.Time      `json:"at"`
	Duration time.Duration  `json:"duration"`
	Source   string         `json:"source"`
	Author   string         `json:"author,omitempty"`
	Action   string         `json:"action"`
	Image    string         `json:"image,omitempty"`
	Path     string         `json:"path,omitempty"`
	Success  bool           `json:"success"`
	Error    string         `json:"error,omitempty"`
	Detail   map[string]any `json:"detail,omitempty"`
}

// Filter narrows a Recent query.
type Filter struct {
	Limit   int    // 0 = 50
	Image   string // resolved image ID
	AllRepo bool   // include entries of every catalogue
}

// Recent returns the newest entries for the current catalogue, newest first.
func Recent(f Filter) ([]Record, error) {
	mu.Lock()
	l := global
	mu.Unlock()
	if l == nil {
		return nil, ErrClosed
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}

	q := `SELECT start, end, source, author, action, resolved_image, path, success, error, detail
		FROM log WHERE 1=1`
	var args []any
	if !f.AllRepo {
		q += ` AND project = ?`
		args = append(args, l.project)
	}
	if f.Image != "" {
		q += ` AND (resolved_image = ? OR image = ?)`
		args = append(args, f.Image, f.Image)
	}
	q += ` ORDER BY start DESC, id DESC LIMIT ?`
	args = append(args, f.Limit)

	rows, err := l.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("query log: %w", err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var (
			start, end                       int64
			author, image, path, msg, detail sql.NullString
			success                          int
			r                                Record
		)
		if err := rows.Scan(&start, &end, &r.Source, &author, &r.Action, &image, &path, &success, &msg, &detail); err != nil {
			return nil, fmt.Errorf("scan log: %w", err)
		}
		r.At = time.Unix(0, start)
		r.Duration = time.Duration(end - start)
		r.Author, r.Image, r.Path, r.Error = author.String, image.String, path.String, msg.String
		r.Success = success == 1
		if detail.Valid {
			_ = json.Unmarshal([]byte(detail.String), &r.Detail)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
