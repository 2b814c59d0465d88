package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

const (
	mysqlDuplicateEntry = 1062
	mysqlKeyMarker      = "for key '"
	sqliteUniqueMarker  = "UNIQUE constraint failed: "
)

// uniqueColumns maps unique-indexed shadow columns to the input field they guard.
var uniqueColumns = []struct {
	column string
	field  string
}{
	{column: "nickname_key", field: "nickname"},
	{column: "email_key", field: "email"},
}

// duplicateField reports which input field a storage-level unique violation
// belongs to. Only the index or column name is inspected, never the
// duplicated value.
func duplicateField(err error) (string, bool) {
	if err == nil {
		return "", false
	}

	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) {
		if mysqlErr.Number != mysqlDuplicateEntry {
			return "", false
		}
		return mysqlKeyField(mysqlErr.Message)
	}
	return sqliteColumnField(err.Error())
}

// mysqlKeyField parses "Duplicate entry '<value>' for key '[table.]<index>'".
func mysqlKeyField(msg string) (string, bool) {
	i := strings.LastIndex(msg, mysqlKeyMarker)
	if i < 0 {
		return "", false
	}
	key := strings.TrimSuffix(msg[i+len(mysqlKeyMarker):], "'")
	if dot := strings.LastIndex(key, "."); dot >= 0 {
		key = key[dot+1:]
	}

	for _, c := range uniqueColumns {
		if key == "idx_users_"+c.column {
			return c.field, true
		}
	}
	return "", false
}

// sqliteColumnField parses "UNIQUE constraint failed: users.<column>[ (code)]".
func sqliteColumnField(msg string) (string, bool) {
	i := strings.Index(msg, sqliteUniqueMarker)
	if i < 0 {
		return "", false
	}
	rest := msg[i+len(sqliteUniqueMarker):]
	if code := strings.Index(rest, " ("); code >= 0 {
		rest = rest[:code]
	}

	for _, target := range strings.Split(rest, ", ") {
		column := target[strings.LastIndex(target, ".")+1:]
		for _, c := range uniqueColumns {
			if column == c.column {
				return c.field, true
			}
		}
	}
	return "", false
}
