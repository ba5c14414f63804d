//go:build !cgo_sqlite

package main

import (
	"database/sql"
	"net/url"
	"strings"

	_ "modernc.org/sqlite"
)

// initDB opens the database with the pure Go driver.
func initDB(dataSource string) (*sql.DB, error) {
	dsn, err := nativeDSN(dataSource)
	if err != nil {
		return nil, err
	}
	return sql.Open("sqlite", dsn)
}

// nativeDSN turns the cgo driver's "_journal_mode" and "_busy_timeout" style
// parameters into the "_pragma=name(value)" form modernc.org/sqlite expects.
// Parameters without a leading underscore, such as "mode", are kept as they
// are.
func nativeDSN(dataSource string) (string, error) {
	path, rawQuery, ok := strings.Cut(dataSource, "?")
	if !ok {
		return dataSource, nil
	}
	query, err := url.ParseQuery(rawQuery)
	if err != nil {
		return "", err
	}
	params := url.Values{}
	for key, values := range query {
		name, isPragma := strings.CutPrefix(key, "_")
		for _, v := range values {
			switch {
			case key == "_pragma":
				params.Add("_pragma", v)
			case isPragma:
				params.Add("_pragma", name+"("+v+")")
			default:
				params.Add(key, v)
			}
		}
	}
	return path + "?" + params.Encode(), nil
}
