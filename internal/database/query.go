package database

import (
	"database/sql"
	"time"
)

const selectColumns = `
	SELECT id, timestamp, action, path, file_name, object_type, size,
	       rounds, passes, duration_ms, error_message
	FROM wipes
`

// GetRecentWipes returns the N most recent wipe events
func (d *WipeDB) GetRecentWipes(limit int) ([]WipeRecord, error) {
	query := selectColumns + `
	ORDER BY timestamp DESC
	LIMIT ?
	`
	return d.queryWipes(query, limit)
}

// GetWipesByAction returns events filtered by action type
func (d *WipeDB) GetWipesByAction(action string) ([]WipeRecord, error) {
	query := selectColumns + `
	WHERE action = ?
	ORDER BY timestamp DESC
	`
	return d.queryWipes(query, action)
}

// GetWipesByPath returns events matching a path pattern (SQL LIKE)
func (d *WipeDB) GetWipesByPath(pathPattern string) ([]WipeRecord, error) {
	query := selectColumns + `
	WHERE path LIKE ?
	ORDER BY timestamp DESC
	`
	return d.queryWipes(query, pathPattern)
}

// GetLargestWipes returns the N largest wiped files by size
func (d *WipeDB) GetLargestWipes(limit int) ([]WipeRecord, error) {
	query := selectColumns + `
	WHERE action = 'WIPE'
	ORDER BY size DESC
	LIMIT ?
	`
	return d.queryWipes(query, limit)
}

// GetTotalBytesWiped returns total bytes of wiped files in a time range
func (d *WipeDB) GetTotalBytesWiped(start, end time.Time) (int64, error) {
	query := `
	SELECT COALESCE(SUM(size), 0)
	FROM wipes
	WHERE action = 'WIPE' AND timestamp BETWEEN ? AND ?
	`

	var total int64
	err := d.db.QueryRow(query, start, end).Scan(&total)
	return total, err
}

// WipeStats holds aggregated statistics for a time period
type WipeStats struct {
	TotalFiles      int
	TotalDirs       int
	TotalErrors     int
	TotalBytesWiped int64
	ByAction        map[string]int
	StartDate       time.Time
	EndDate         time.Time
}

// GetWipeStats returns comprehensive statistics for the last N days
func (d *WipeDB) GetWipeStats(days int) (*WipeStats, error) {
	since := time.Now().AddDate(0, 0, -days)
	now := time.Now()

	stats := &WipeStats{
		StartDate: since,
		EndDate:   now,
	}

	err := d.db.QueryRow(`
		SELECT
			COUNT(CASE WHEN action = 'WIPE' THEN 1 END),
			COUNT(CASE WHEN action = 'RMDIR' THEN 1 END),
			COUNT(CASE WHEN action = 'ERROR' THEN 1 END)
		FROM wipes
		WHERE timestamp >= ?
	`, since).Scan(&stats.TotalFiles, &stats.TotalDirs, &stats.TotalErrors)
	if err != nil {
		return nil, err
	}

	stats.TotalBytesWiped, err = d.GetTotalBytesWiped(since, now)
	if err != nil {
		return nil, err
	}

	stats.ByAction, err = d.getCountByAction()
	if err != nil {
		return nil, err
	}

	return stats, nil
}

func (d *WipeDB) getCountByAction() (map[string]int, error) {
	rows, err := d.db.Query(`
		SELECT action, COUNT(*)
		FROM wipes
		GROUP BY action
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, err
		}
		counts[action] = count
	}

	return counts, rows.Err()
}

// DeleteOldRecords removes history older than the specified days
func (d *WipeDB) DeleteOldRecords(olderThanDays int) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -olderThanDays)

	result, err := d.db.Exec(`
		DELETE FROM wipes WHERE timestamp < ?
	`, cutoff)
	if err != nil {
		return 0, err
	}

	return result.RowsAffected()
}

// queryWipes executes a query and scans the result rows
func (d *WipeDB) queryWipes(query string, args ...interface{}) ([]WipeRecord, error) {
	rows, err := d.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []WipeRecord
	for rows.Next() {
		var r WipeRecord
		var errMsg sql.NullString

		err := rows.Scan(
			&r.ID, &r.Timestamp, &r.Action, &r.Path, &r.FileName,
			&r.ObjectType, &r.Size, &r.Rounds, &r.Passes,
			&r.DurationMs, &errMsg,
		)
		if err != nil {
			return nil, err
		}

		if errMsg.Valid {
			r.ErrorMsg = errMsg.String
		}

		records = append(records, r)
	}

	return records, rows.Err()
}
