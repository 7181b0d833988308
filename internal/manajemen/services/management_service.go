package services

import (
	"errors"
	"log"
	"time"

	"github.com/c14220110/absensi-dashboard/internal/common/apperror"
	"github.com/c14220110/absensi-dashboard/internal/common/logbook"
	"github.com/c14220110/absensi-dashboard/internal/common/models"
	"github.com/c14220110/absensi-dashboard/internal/sinkron"
	"github.com/c14220110/absensi-dashboard/pkg/utils"
)

// ErrInvalidCredentials dikembalikan bila password admin tidak cocok.
var ErrInvalidCredentials = errors.New("id karyawan atau password salah")

// ManagementService menangani login dan operasi admin atas state bersama.
type ManagementService struct {
	Session           *sinkron.Session
	Logbook           *logbook.Logbook
	AdminPasswordHash string
}

func NewManagementService(session *sinkron.Session, lb *logbook.Logbook, adminPasswordHash string) *ManagementService {
	return &ManagementService{Session: session, Logbook: lb, AdminPasswordHash: adminPasswordHash}
}

type LoginResult struct {
	ID        int       `json:"id"`
	Nama      string    `json:"nama"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Authenticate menerbitkan token untuk karyawan. Admin wajib memakai password
// admin; karyawan biasa mendapat token perangkat tanpa password.
func (s *ManagementService) Authenticate(employeeID int, password string) (LoginResult, error) {
	var emp models.Employee
	var err error
	s.Session.View(func(st *sinkron.State) {
		var e *models.Employee
		e, err = st.Employee(employeeID)
		if err == nil {
			emp = *e
		}
	})
	if err != nil {
		return LoginResult{}, err
	}

	timings := s.Session.Roster().Timings
	role, ttl := utils.RoleKaryawan, timings.DeviceTokenTTL
	if emp.IsAdmin {
		if err := utils.CheckPassword(s.AdminPasswordHash, password); err != nil {
			log.Printf("Login admin gagal untuk karyawan %d", employeeID)
			return LoginResult{}, ErrInvalidCredentials
		}
		role, ttl = utils.RoleAdmin, timings.AdminTokenTTL
	}

	exp := time.Now().Add(ttl)
	token, err := utils.GenerateJWTToken(emp.ID, emp.Name, role, exp)
	if err != nil {
		return LoginResult{}, err
	}
	s.Logbook.Action(emp.Name, "login sebagai %s", role)
	return LoginResult{ID: emp.ID, Nama: emp.Name, Role: role, Token: token, ExpiresAt: exp}, nil
}

// confirmAdmin dipakai operasi berbahaya seperti hapus semua data.
func (s *ManagementService) confirmAdmin(password string) error {
	if err := utils.CheckPassword(s.AdminPasswordHash, password); err != nil {
		return apperror.Validation("password konfirmasi salah")
	}
	return nil
}

// StateSnapshot mengembalikan seluruh dokumen dalam bentuk yang disimpan.
func (s *ManagementService) StateSnapshot() map[string]any {
	snap := s.Session.Snapshot()
	out := make(map[string]any, len(sinkron.Documents))
	for _, doc := range sinkron.Documents {
		out[doc] = snap.Payload(doc)
	}
	return out
}

func (s *ManagementService) LogbookTail(lines int) ([]string, int) {
	if lines <= 0 {
		lines = 200
	}
	return s.Logbook.Tail(lines)
}
