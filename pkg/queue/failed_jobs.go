package queue

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/shashiranjanraj/souqhup/pkg/logger"
)

// FailedJob is a job that exhausted its retries. Rows live in failed_jobs
// when a database is attached with UseDB.
type FailedJob struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobType  string    `gorm:"size:191;not null;index"  json:"job_type"`
	Payload  string    `gorm:"type:text;not null"       json:"payload"`
	Error    string    `gorm:"type:text"                json:"error"`
	Attempts int       `gorm:"not null;default:0"       json:"attempts"`
	FailedAt time.Time `gorm:"autoCreateTime"           json:"failed_at"`
}

func (FailedJob) TableName() string { return "failed_jobs" }

type failures struct {
	mu   sync.Mutex
	list []FailedJob
	db   *gorm.DB
}

func (f *failures) record(ctx context.Context, typ string, payload []byte, err error, attempts int) {
	row := FailedJob{JobType: typ, Payload: string(payload), Attempts: attempts, FailedAt: time.Now()}
	if err != nil {
		row.Error = err.Error()
	}

	f.mu.Lock()
	f.list = append(f.list, row)
	db := f.db
	f.mu.Unlock()

	if db == nil {
		return
	}
	if err := db.WithContext(context.WithoutCancel(ctx)).Create(&row).Error; err != nil {
		logger.Error("queue: persist failed job", "type", typ, "error", err)
	}
}

// UseDB persists failed jobs into the failed_jobs table.
func (m *Manager) UseDB(db *gorm.DB) {
	m.failures.mu.Lock()
	m.failures.db = db
	m.failures.mu.Unlock()
}

// Failed returns a snapshot of the failed jobs recorded by this process.
func (m *Manager) Failed() []FailedJob {
	m.failures.mu.Lock()
	defer m.failures.mu.Unlock()
	out := make([]FailedJob, len(m.failures.list))
	copy(out, m.failures.list)
	return out
}
