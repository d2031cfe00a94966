package dummydb

import (
	"sync"

	"github.com/trezcool/academia/core/course"
)

type (
	DB struct {
		draft *draftTable
	}

	draftTable struct {
		sync.RWMutex
		table map[string]*course.Draft
	}
)

func Open() (*DB, error) {
	db := &DB{
		draft: &draftTable{table: make(map[string]*course.Draft)},
	}
	return db, nil
}

// Reset empties every table.
func (db *DB) Reset() {
	db.draft.Lock()
	defer db.draft.Unlock()
	db.draft.table = make(map[string]*course.Draft)
}
