package services

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
)

// NewAttention membutuhkan teks atau gambar.
func NewAttention(text, image string, now time.Time) (models.Attention, error) {
	text = strings.TrimSpace(text)
	if text == "" && image == "" {
		return models.Attention{}, apperror.Validation("pengumuman harus berisi teks atau gambar")
	}
	return models.Attention{
		ID:        uuid.NewString(),
		Text:      text,
		Image:     image,
		CreatedAt: stamp(now),
		ReadBy:    []int{},
	}, nil
}

// ToggleRead menandai atau membatalkan tanda baca empID. Pengumuman selesai
// bila seluruh karyawan sudah membaca.
func ToggleRead(a *models.Attention, empID int, employees []models.Employee) bool {
	if i := slices.Index(a.ReadBy, empID); i >= 0 {
		a.ReadBy = slices.Delete(a.ReadBy, i, i+1)
	} else {
		a.ReadBy = append(a.ReadBy, empID)
	}
	a.Completed = len(employees) > 0
	for _, e := range employees {
		if !slices.Contains(a.ReadBy, e.ID) {
			a.Completed = false
			break
		}
	}
	return slices.Contains(a.ReadBy, empID)
}
