package models

import (
	"gorm.io/gorm"
)

// User is the account row. The typing metrics are embedded columns rather
// than a separate table: one record per identity, replaced wholesale.
type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null"`
	PasswordHash string `gorm:"not null"`

	LessonIdx   int `gorm:"column:lesson_idx;not null;default:0"`
	SpeedNew    int `gorm:"column:speed_new;not null;default:0"`
	SpeedOld    int `gorm:"column:speed_old;not null;default:0"`
	AccuracyNew int `gorm:"column:accuracy_new;not null;default:0"`
	AccuracyOld int `gorm:"column:accuracy_old;not null;default:0"`
	ScoreNew    int `gorm:"column:score_new;not null;default:0"`
	ScoreOld    int `gorm:"column:score_old;not null;default:0"`
}

// Record extracts the stored metrics as a value object.
func (u *User) Record() MetricsRecord {
	return MetricsRecord{
		LessonIdx: u.LessonIdx,
		Speed:     MetricPair{New: u.SpeedNew, Old: u.SpeedOld},
		Accuracy:  MetricPair{New: u.AccuracyNew, Old: u.AccuracyOld},
		Score:     MetricPair{New: u.ScoreNew, Old: u.ScoreOld},
	}
}

// SetRecord copies a metrics record into the row's columns.
func (u *User) SetRecord(rec MetricsRecord) {
	u.LessonIdx = rec.LessonIdx
	u.SpeedNew = rec.Speed.New
	u.SpeedOld = rec.Speed.Old
	u.AccuracyNew = rec.Accuracy.New
	u.AccuracyOld = rec.Accuracy.Old
	u.ScoreNew = rec.Score.New
	u.ScoreOld = rec.Score.Old
}
