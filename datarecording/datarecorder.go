// Package datarecording provides the storage backend that framework
// facilities write their records to. Records are plain structs; each
// struct type maps to one table of a SQLite database.
package datarecording

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/fatih/structs"

	// Need to use SQLite connections.
	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/xid"
	"github.com/tebeka/atexit"
)

// DataRecorder is a backend that can record and store data.
type DataRecorder interface {
	// CreateTable creates a new table that stores entries shaped like
	// sampleEntry.
	CreateTable(tableName string, sampleEntry any)

	// InsertData buffers one entry for a table that already exists.
	InsertData(tableName string, entry any)

	// ListTables returns the names of all created tables.
	ListTables() []string

	// Flush writes all buffered entries to the database.
	Flush()

	// Close flushes and closes the database.
	Close()
}

// New creates a DataRecorder backed by a SQLite database at the given
// path (without the .sqlite3 suffix).
func New(path string) DataRecorder {
	w := &sqliteWriter{
		dbName:    path,
		batchSize: 100000,
		tables:    make(map[string]*table),
	}

	w.init()

	atexit.Register(func() { w.Flush() })

	return w
}

type table struct {
	structType reflect.Type
	entries    []any
}

// sqliteWriter is the writer that writes data into a SQLite database.
type sqliteWriter struct {
	*sql.DB
	statement *sql.Stmt

	dbName     string
	tables     map[string]*table
	batchSize  int
	entryCount int
}

// init establishes the connection to the database.
func (t *sqliteWriter) init() {
	if t.dbName == "" {
		t.dbName = "dsim_data_recording_" + xid.New().String()
	}

	filename := t.dbName + ".sqlite3"

	_, err := os.Stat(filename)
	if err == nil {
		panic(fmt.Errorf("file %s already exists", filename))
	}

	fmt.Fprintf(os.Stderr, "Database created for recording: %s\n", filename)

	db, err := sql.Open("sqlite3", filename)
	if err != nil {
		panic(err)
	}

	t.DB = db
}

func isAllowedType(kind reflect.Kind) bool {
	switch kind {
	case
		reflect.Bool,
		reflect.Int,
		reflect.Int8,
		reflect.Int16,
		reflect.Int32,
		reflect.Int64,
		reflect.Uint,
		reflect.Uint8,
		reflect.Uint16,
		reflect.Uint32,
		reflect.Uint64,
		reflect.Float32,
		reflect.Float64,
		reflect.String:
		return true
	default:
		return false
	}
}

func checkStructFields(entry any) error {
	types := reflect.TypeOf(entry)

	for i := 0; i < types.NumField(); i++ {
		field := types.Field(i)

		if !isAllowedType(field.Type.Kind()) {
			return errors.New(
				"field " + field.Name + " cannot be stored in a table")
		}
	}

	return nil
}

// CreateTable creates a table whose columns are the fields of
// sampleEntry.
func (t *sqliteWriter) CreateTable(tableName string, sampleEntry any) {
	if err := checkStructFields(sampleEntry); err != nil {
		panic(err)
	}

	if _, exists := t.tables[tableName]; exists {
		panic(fmt.Sprintf("table %s already exists", tableName))
	}

	fields := strings.Join(structs.Names(sampleEntry), ", \n\t")

	createTableSQL := `CREATE TABLE ` + tableName +
		` (` + "\n\t" + fields + "\n" + `);`
	t.mustExecute(createTableSQL)

	t.tables[tableName] = &table{
		structType: reflect.TypeOf(sampleEntry),
		entries:    []any{},
	}
}

// InsertData buffers one entry. Buffered entries are written in batches.
func (t *sqliteWriter) InsertData(tableName string, entry any) {
	table, exists := t.tables[tableName]
	if !exists {
		panic(fmt.Sprintf("table %s does not exist", tableName))
	}

	table.entries = append(table.entries, entry)

	t.entryCount++
	if t.entryCount >= t.batchSize {
		t.Flush()
	}
}

// ListTables returns the names of all created tables.
func (t *sqliteWriter) ListTables() []string {
	tables := make([]string, 0, len(t.tables))
	for table := range t.tables {
		tables = append(tables, table)
	}

	return tables
}

// Flush writes all buffered entries in one transaction.
func (t *sqliteWriter) Flush() {
	if t.entryCount == 0 {
		return
	}

	t.mustExecute("BEGIN TRANSACTION")
	defer t.mustExecute("COMMIT TRANSACTION")

	for tableName, table := range t.tables {
		if len(table.entries) == 0 {
			continue
		}

		t.prepareStatement(tableName, table.entries[0])

		for _, entry := range table.entries {
			v := []any{}

			value := reflect.ValueOf(entry)
			for i := 0; i < value.NumField(); i++ {
				v = append(v, value.Field(i).Interface())
			}

			if _, err := t.statement.Exec(v...); err != nil {
				panic(err)
			}
		}

		table.entries = nil

		t.statement.Close()
		t.statement = nil
	}

	t.entryCount = 0
}

// Close flushes the remaining entries and closes the database.
func (t *sqliteWriter) Close() {
	t.Flush()

	if err := t.DB.Close(); err != nil {
		panic(err)
	}
}

func (t *sqliteWriter) mustExecute(query string) sql.Result {
	res, err := t.Exec(query)
	if err != nil {
		fmt.Printf("Failed to execute: %s\n", query)
		panic(err)
	}

	return res
}

func (t *sqliteWriter) prepareStatement(tableName string, sampleEntry any) {
	n := structs.Names(sampleEntry)
	for i := 0; i < len(n); i++ {
		n[i] = "?"
	}

	sqlStr := "INSERT INTO " + tableName +
		" VALUES (" + strings.Join(n, ", ") + ")"

	stmt, err := t.Prepare(sqlStr)
	if err != nil {
		panic(err)
	}

	t.statement = stmt
}
