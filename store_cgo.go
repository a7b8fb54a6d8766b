//go:build cgo

package gtarray

// If cgo is enabled, we will use the mattn cgo sqlite3 driver. It is faster
// than the modernc sqlite driver.

import (
	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"

	_ "github.com/mattn/go-sqlite3"
)

const whichSQLiteDriver = "sqlite3"

// OpenStore opens or creates the genotype store at path.
func OpenStore(path string, opts ...StoreOption) (*Store, error) {
	db, err := sqlx.Connect(whichSQLiteDriver, storeDSN(path))
	if err != nil {
		return nil, pfx.Err(err)
	}

	return newStore(db, opts...)
}
