package services

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
)

func NewMbakTask(text string, now time.Time) (models.MbakTask, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return models.MbakTask{}, apperror.Validation("task mbak tidak boleh kosong")
	}
	return models.MbakTask{ID: uuid.NewString(), Task: text, CreatedAt: stamp(now)}, nil
}

func findMbak(tasks []models.MbakTask, id string) (int, error) {
	for i := range tasks {
		if tasks[i].ID == id {
			return i, nil
		}
	}
	return -1, apperror.NotFound("task mbak %s tidak ditemukan", id)
}

// ToggleMbak membalik status selesai; completedAt dikosongkan saat dibuka lagi.
func ToggleMbak(tasks []models.MbakTask, id string, now time.Time) (models.MbakTask, error) {
	idx, err := findMbak(tasks, id)
	if err != nil {
		return models.MbakTask{}, err
	}
	t := &tasks[idx]
	t.Completed = !t.Completed
	t.CompletedAt = ""
	if t.Completed {
		t.CompletedAt = stamp(now)
	}
	return *t, nil
}
