package builtins

import (
	"database/sql"
	"fmt"
	"sync"
	"sync/atomic"

	_ "github.com/denisenkom/go-mssqldb"
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"

	"github.com/sp-uulm/MiniLua-sub001/internal/allocator"
	"github.com/sp-uulm/MiniLua-sub001/internal/environment"
	"github.com/sp-uulm/MiniLua-sub001/internal/errorsx"
	"github.com/sp-uulm/MiniLua-sub001/internal/value"
)

// dbHandles maps an opaque handle id (returned to MiniLua code) to the open
// *sql.DB, mirroring internal/database/database.go's Connections map but
// keyed by a simple counter rather than a scan-report ID string — this
// extension has no security-scanning surface, just query execution. Keyed
// globally (not per-Interpreter) since a handle is just a DB connection,
// independent of any one interpreter's table arena.
var (
	dbMu      sync.Mutex
	dbHandles = map[int64]*sql.DB{}
	dbNextID  int64
)

func registerDB(env *environment.Environment, arena *allocator.Arena) {
	env.Add("db.open", fn("db.open", func(args value.Vallist) (value.Vallist, error) {
		driver, err := argString(args, 0, "db.open")
		if err != nil {
			return nil, err
		}
		dsn, err := argString(args, 1, "db.open")
		if err != nil {
			return nil, err
		}
		switch driver {
		case "mysql", "postgres", "sqlite3", "sqlserver":
		default:
			return nil, badArg(1, "db.open", fmt.Sprintf("unknown driver %q", driver))
		}
		conn, err := sql.Open(driver, dsn)
		if err != nil {
			return nil, errorsx.New(errorsx.RuntimeAssertion, "db.open: "+err.Error(), err)
		}
		dbMu.Lock()
		id := atomic.AddInt64(&dbNextID, 1)
		dbHandles[id] = conn
		dbMu.Unlock()
		return value.NewVallist(value.Int(id)), nil
	}))

	env.Add("db.query", fn("db.query", func(args value.Vallist) (value.Vallist, error) {
		h := args.Get(0)
		if !h.IsNumber() {
			return nil, badArg(1, "db.query", "expected a handle from db.open")
		}
		q, err := argString(args, 1, "db.query")
		if err != nil {
			return nil, err
		}
		dbMu.Lock()
		conn, ok := dbHandles[h.AsNumber().I]
		dbMu.Unlock()
		if !ok {
			return nil, badArg(1, "db.query", "handle is not open")
		}
		rows, err := conn.Query(q)
		if err != nil {
			return nil, errorsx.New(errorsx.RuntimeAssertion, "db.query: "+err.Error(), err)
		}
		defer rows.Close()
		cols, err := rows.Columns()
		if err != nil {
			return nil, errorsx.New(errorsx.RuntimeAssertion, "db.query: "+err.Error(), err)
		}
		result := value.NewTable(arena)
		var rowIdx int64 = 1
		for rows.Next() {
			scanBuf := make([]sql.NullString, len(cols))
			scanDest := make([]interface{}, len(cols))
			for i := range scanBuf {
				scanDest[i] = &scanBuf[i]
			}
			if err := rows.Scan(scanDest...); err != nil {
				return nil, errorsx.New(errorsx.RuntimeAssertion, "db.query: "+err.Error(), err)
			}
			rowTable := value.NewTable(arena)
			for i, c := range cols {
				if scanBuf[i].Valid {
					rowTable.RawSet(value.String(c), value.String(scanBuf[i].String))
				} else {
					rowTable.RawSet(value.String(c), value.Nil)
				}
			}
			result.RawSet(value.Int(rowIdx), value.TableValue(rowTable))
			rowIdx++
		}
		return value.NewVallist(value.TableValue(result).WithOrigin(value.ExternalFunction{Name: "db.query"})), nil
	}))

	env.Add("db.close", fn("db.close", func(args value.Vallist) (value.Vallist, error) {
		h := args.Get(0)
		if !h.IsNumber() {
			return nil, badArg(1, "db.close", "expected a handle from db.open")
		}
		dbMu.Lock()
		conn, ok := dbHandles[h.AsNumber().I]
		delete(dbHandles, h.AsNumber().I)
		dbMu.Unlock()
		if !ok {
			return value.NewVallist(value.Bool(false)), nil
		}
		_ = conn.Close()
		return value.NewVallist(value.Bool(true)), nil
	}))
}
