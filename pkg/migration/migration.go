// Package migration runs registered schema migrations in batches.
//
// Migrations register themselves from init():
//
//	func init() {
//	    migration.Register("20260301000000_create_kv_entries_table", &CreateKVEntries{})
//	}
//
// and run from the CLI:
//
//	souqhup migrate
//	souqhup migrate:rollback
package migration

import (
	"fmt"
	"io"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// Migration is one reversible schema step.
type Migration interface {
	Up(db *gorm.DB) error
	Down(db *gorm.DB) error
}

type record struct {
	ID    uint      `gorm:"primaryKey;autoIncrement"`
	Name  string    `gorm:"uniqueIndex;size:191;not null"`
	Batch int       `gorm:"not null"`
	RunAt time.Time `gorm:"autoCreateTime"`
}

func (record) TableName() string { return "souqhup_migrations" }

type entry struct {
	name string
	m    Migration
}

var registry []entry

// Register adds a migration. Names are timestamp-prefixed and run in
// lexical order.
func Register(name string, m Migration) {
	registry = append(registry, entry{name: name, m: m})
}

// Names lists registered migrations in run order.
func Names() []string {
	out := make([]string, 0, len(registry))
	for _, e := range sorted() {
		out = append(out, e.name)
	}
	return out
}

func sorted() []entry {
	out := make([]entry, len(registry))
	copy(out, registry)
	sort.Slice(out, func(i, j int) bool { return out[i].name < out[j].name })
	return out
}

// Runner executes and tracks migrations against one database.
type Runner struct {
	db  *gorm.DB
	out io.Writer
}

// New creates a Runner that reports progress to out.
func New(db *gorm.DB, out io.Writer) *Runner {
	if out == nil {
		out = io.Discard
	}
	return &Runner{db: db, out: out}
}

func (r *Runner) ensureTable() error {
	return r.db.AutoMigrate(&record{})
}

func (r *Runner) ran() (map[string]record, error) {
	var rows []record
	if err := r.db.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[string]record, len(rows))
	for _, row := range rows {
		out[row.Name] = row
	}
	return out, nil
}

// Run executes every pending migration as one batch and returns how many ran.
func (r *Runner) Run() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}

	done, err := r.ran()
	if err != nil {
		return 0, fmt.Errorf("migration: fetch ran: %w", err)
	}

	batch := r.lastBatch() + 1
	count := 0
	for _, e := range sorted() {
		if _, ok := done[e.name]; ok {
			continue
		}

		logger.Info("migration: running", "name", e.name)
		if err := e.m.Up(r.db); err != nil {
			return count, fmt.Errorf("migration: %s up: %w", e.name, err)
		}
		if err := r.db.Create(&record{Name: e.name, Batch: batch}).Error; err != nil {
			return count, fmt.Errorf("migration: record %s: %w", e.name, err)
		}
		fmt.Fprintf(r.out, "  migrated  %s\n", e.name)
		count++
	}

	if count == 0 {
		fmt.Fprintln(r.out, "Nothing to migrate.")
	}
	logger.Info("migration: done", "ran", count, "batch", batch)
	return count, nil
}

// Rollback reverses the most recent batch and returns how many were undone.
func (r *Runner) Rollback() (int, error) {
	if err := r.ensureTable(); err != nil {
		return 0, fmt.Errorf("migration: ensure table: %w", err)
	}

	last := r.lastBatch()
	if last == 0 {
		fmt.Fprintln(r.out, "Nothing to roll back.")
		return 0, nil
	}

	var rows []record
	if err := r.db.Where("batch = ?", last).Order("id desc").Find(&rows).Error; err != nil {
		return 0, err
	}

	byName := make(map[string]Migration, len(registry))
	for _, e := range registry {
		byName[e.name] = e.m
	}

	count := 0
	for _, row := range rows {
		m, ok := byName[row.Name]
		if !ok {
			return count, fmt.Errorf("migration: %s is recorded but not registered", row.Name)
		}
		if err := m.Down(r.db); err != nil {
			return count, fmt.Errorf("migration: %s down: %w", row.Name, err)
		}
		if err := r.db.Delete(&row).Error; err != nil {
			return count, err
		}
		fmt.Fprintf(r.out, "  rolled back  %s\n", row.Name)
		count++
	}
	return count, nil
}

// Status writes one line per registered migration.
func (r *Runner) Status() error {
	if err := r.ensureTable(); err != nil {
		return err
	}
	done, err := r.ran()
	if err != nil {
		return err
	}

	fmt.Fprintf(r.out, "%-56s  %-8s  %s\n", "Migration", "Status", "Batch")
	for _, e := range sorted() {
		if row, ok := done[e.name]; ok {
			fmt.Fprintf(r.out, "%-56s  %-8s  %d\n", e.name, "Ran", row.Batch)
		} else {
			fmt.Fprintf(r.out, "%-56s  %-8s  -\n", e.name, "Pending")
		}
	}
	return nil
}

func (r *Runner) lastBatch() int {
	var result struct{ Max int }
	r.db.Model(&record{}).Select("COALESCE(MAX(batch), 0) as max").Scan(&result)
	return result.Max
}
