package gtarray

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/carbocation/pfx"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// Store keeps named genotype columns in a SQLite database, one row per
// column. Each row carries the variant description next to the encoded
// column block, so columns can be listed without decoding them.
type Store struct {
	DB  *sqlx.DB
	log *zap.Logger
	opt blockOptions
}

// StoreOption configures OpenStore.
type StoreOption func(*Store)

// WithLogger sets the logger used by the store. The default discards
// everything.
func WithLogger(l *zap.Logger) StoreOption {
	return func(s *Store) { s.log = l }
}

// WithStoreCompression selects how column codes are compressed inside the
// database. The default is CompressionZStandard.
func WithStoreCompression(c Compression) StoreOption {
	return func(s *Store) { s.opt.compression = c }
}

// ColumnIndex conforms to the rows of the "GenotypeColumn" table and can be
// parsed with sqlx.
type ColumnIndex struct {
	Name       string
	Chromosome string
	Position   uint32
	RSID       string `db:"rsid"`
	NAlleles   uint16 `db:"number_of_alleles"`
	Ploidy     uint16
	NSamples   uint32 `db:"samples"`
	CreatedAt  Time   `db:"created_at"`
}

const storeSchema = `
CREATE TABLE IF NOT EXISTS GenotypeColumn (
	name TEXT PRIMARY KEY,
	chromosome TEXT NOT NULL,
	position INTEGER NOT NULL,
	rsid TEXT NOT NULL,
	number_of_alleles INTEGER NOT NULL,
	ploidy INTEGER NOT NULL,
	samples INTEGER NOT NULL,
	created_at INTEGER NOT NULL,
	block BLOB NOT NULL
);
CREATE INDEX IF NOT EXISTS column_position ON GenotypeColumn (chromosome, position);
`

const insertColumn = `INSERT OR REPLACE INTO GenotypeColumn
	(name, chromosome, position, rsid, number_of_alleles, ploidy, samples, created_at, block)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`

// storeDSN turns a path into a SQLite URI. URI filenames have to begin with
// 'file:'; see https://www.sqlite.org/c3ref/open.html . It seems that
// sqlite3 permitted URI filenames without the file: prefix, but that is not
// standard.
func storeDSN(path string) string {
	if !strings.HasPrefix(path, "file:") {
		path = "file:" + path
	}
	return path
}

func newStore(db *sqlx.DB, opts ...StoreOption) (*Store, error) {
	s := &Store{
		DB:  db,
		log: zap.NewNop(),
		opt: blockOptions{layout: Layout2, compression: CompressionZStandard},
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := db.Exec(storeSchema); err != nil {
		db.Close()
		return nil, pfx.Err(fmt.Errorf("unable to create schema: %w", err))
	}
	s.log.Debug("opened genotype store", zap.String("driver", whichSQLiteDriver))

	return s, nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}

// Put stores a under name, replacing any column already stored there.
func (s *Store) Put(ctx context.Context, name string, a *Array) error {
	block, err := encodeBlock(name, a, s.opt)
	if err != nil {
		return pfx.Err(err)
	}
	v := a.Variant()
	_, err = s.DB.ExecContext(ctx, insertColumn,
		name, v.Chromosome(), v.Position(), v.ID(), v.NAlleles(), a.Ploidy(), a.Len(),
		Time(time.Now()), block[4:])
	if err != nil {
		return pfx.Err(err)
	}
	s.log.Debug("stored genotype column",
		zap.String("name", name),
		zap.String("variant", v.String()),
		zap.Int("samples", a.Len()),
		zap.Int("bytes", len(block)))
	return nil
}

// Get loads the column stored under name. The error matches
// sql.ErrNoRows when there is none.
func (s *Store) Get(ctx context.Context, name string) (*Array, error) {
	var block []byte
	if err := s.DB.GetContext(ctx, &block, "SELECT block FROM GenotypeColumn WHERE name = ?", name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("no genotype column named %q: %w", name, err)
		}
		return nil, pfx.Err(err)
	}
	_, a, err := decodeBlock(block)
	if err != nil {
		return nil, pfx.Err(fmt.Errorf("column %q: %w", name, err))
	}
	return a, nil
}

// List returns the index of every stored column in genomic order:
// autosomes numerically, then X, Y, XY and MT, each by position and then
// column name.
func (s *Store) List(ctx context.Context) ([]ColumnIndex, error) {
	var out []ColumnIndex
	err := s.DB.SelectContext(ctx, &out, `SELECT name, chromosome, position, rsid,
		number_of_alleles, ploidy, samples, created_at
		FROM GenotypeColumn ORDER BY position ASC, name ASC`)
	if err != nil {
		return nil, pfx.Err(err)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return lessChromosome(out[i].Chromosome, out[j].Chromosome)
	})
	return out, nil
}

// Delete removes the column stored under name. Deleting a missing column
// is not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.DB.ExecContext(ctx, "DELETE FROM GenotypeColumn WHERE name = ?", name); err != nil {
		return pfx.Err(err)
	}
	s.log.Debug("deleted genotype column", zap.String("name", name))
	return nil
}

// PutFrame stores every column of frame in one transaction.
func (s *Store) PutFrame(ctx context.Context, frame *Frame) error {
	tx, err := s.DB.BeginTxx(ctx, nil)
	if err != nil {
		return pfx.Err(err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, insertColumn)
	if err != nil {
		return pfx.Err(err)
	}
	defer stmt.Close()

	now := Time(time.Now())
	for _, name := range frame.names {
		a := frame.columns[name]
		block, err := encodeBlock(name, a, s.opt)
		if err != nil {
			return pfx.Err(fmt.Errorf("column %q: %w", name, err))
		}
		v := a.Variant()
		if _, err := stmt.ExecContext(ctx, name, v.Chromosome(), v.Position(), v.ID(),
			v.NAlleles(), a.Ploidy(), a.Len(), now, block[4:]); err != nil {
			return pfx.Err(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return pfx.Err(err)
	}
	s.log.Info("stored genotype frame",
		zap.Int("columns", len(frame.names)),
		zap.Int("samples", frame.NRows()))
	return nil
}
