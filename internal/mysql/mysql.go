// Package mysql executes SQL statements, scripts and queries against a
// MySQL server.
package mysql

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"strings"

	driver "github.com/go-sql-driver/mysql"

	"github.com/axekit/axe/internal/config"
	"github.com/axekit/axe/internal/ini"
	"github.com/axekit/axe/internal/logging"
)

type Connection struct {
	Host     string
	Port     int
	User     string
	Password string
	Charset  string
}

func DefaultConnection() Connection {
	return Connection{Host: "127.0.0.1", Port: 3306, User: "root", Charset: "utf8"}
}

// FromConfig overlays the configured mysql section on the defaults and
// returns the connection and the configured database.
func FromConfig(c *config.MySQL) (Connection, string) {
	conn := DefaultConnection()
	if c == nil {
		return conn, ""
	}
	if c.Host != "" {
		conn.Host = c.Host
	}
	if c.Port != 0 {
		conn.Port = c.Port
	}
	if c.User != "" {
		conn.User = c.User
	}
	conn.Password = c.Password
	if c.Charset != "" {
		conn.Charset = c.Charset
	}
	return conn, c.Database
}

// LoadConnection reads the [mysql] section of an INI file:
//
//	[mysql]
//	host = 127.0.0.1
//	port = 3306
//	user = root
//	password =
//	charset = utf8
//	database = game
func LoadConnection(path string) (Connection, string, error) {
	conn := DefaultConnection()
	var db string
	s := &ini.Schema{}
	ini.BindDefault(s, "mysql", "host", &conn.Host, ini.String(false), conn.Host)
	ini.BindDefault(s, "mysql", "port", &conn.Port, ini.Int(), conn.Port)
	ini.BindDefault(s, "mysql", "user", &conn.User, ini.String(false), conn.User)
	ini.BindDefault(s, "mysql", "password", &conn.Password, ini.String(true), "")
	ini.BindDefault(s, "mysql", "charset", &conn.Charset, ini.Choice(ini.String(false), "utf8", "utf8mb4", "latin1", "gbk"), conn.Charset)
	ini.BindDefault(s, "mysql", "database", &db, ini.String(true), "")
	if err := s.Load(path); err != nil {
		return Connection{}, "", err
	}
	return conn, db, nil
}

// DSN is the driver data source name for database db. Multi statements are
// enabled so whole script files can be executed.
func (c Connection) DSN(db string) string {
	cfg := driver.NewConfig()
	cfg.User = c.User
	cfg.Passwd = c.Password
	cfg.Net = "tcp"
	cfg.Addr = c.Host + ":" + strconv.Itoa(c.Port)
	cfg.DBName = db
	cfg.MultiStatements = true
	if c.Charset != "" {
		cfg.Params = map[string]string{"charset": c.Charset}
	}
	return cfg.FormatDSN()
}

// DB is a handle on one database. Several may be open at once.
type DB struct {
	Name string
	db   *sql.DB
}

func Open(ctx context.Context, conn Connection, name string) (*DB, error) {
	db, err := sql.Open("mysql", conn.DSN(name))
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect to mysql %s:%d: %w", conn.Host, conn.Port, err)
	}
	return &DB{Name: name, db: db}, nil
}

func (d *DB) Close() error { return d.db.Close() }

func terminate(stmt string) string {
	stmt = strings.TrimSpace(stmt)
	if !strings.HasSuffix(stmt, ";") {
		stmt += ";"
	}
	return stmt
}

// Exec runs a single statement.
func (d *DB) Exec(ctx context.Context, stmt string) error {
	stmt = terminate(stmt)
	logging.Debug(">>> " + stmt)
	if _, err := d.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("exec %q: %w", stmt, err)
	}
	return nil
}

// ExecFile runs every statement of a SQL script.
func (d *DB) ExecFile(ctx context.Context, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	logging.Info(">>> source " + path)
	if _, err := d.db.ExecContext(ctx, string(b)); err != nil {
		return fmt.Errorf("exec %s: %w", path, err)
	}
	return nil
}

// Query returns the result set as rows of strings; NULL reads as "".
func (d *DB) Query(ctx context.Context, q string) (columns []string, rows [][]string, err error) {
	q = terminate(q)
	logging.Debug(">>> " + q)
	r, err := d.db.QueryContext(ctx, q)
	if err != nil {
		return nil, nil, fmt.Errorf("query %q: %w", q, err)
	}
	defer r.Close()

	columns, err = r.Columns()
	if err != nil {
		return nil, nil, err
	}
	vals := make([]sql.NullString, len(columns))
	ptrs := make([]any, len(columns))
	for i := range vals {
		ptrs[i] = &vals[i]
	}
	for r.Next() {
		if err := r.Scan(ptrs...); err != nil {
			return nil, nil, err
		}
		row := make([]string, len(vals))
		for i, v := range vals {
			if v.Valid {
				row[i] = v.String
			}
		}
		rows = append(rows, row)
	}
	return columns, rows, r.Err()
}
