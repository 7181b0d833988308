package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestKindsSurviveWrapping(t *testing.T) {
	err := fmt.Errorf("check-in: %w", Guard("sudah check-in untuk shift %s", "pagi"))
	if !IsGuard(err) || IsValidation(err) {
		t.Fatalf("expected guard kind, got %v", err)
	}
	if HTTPStatus(err) != http.StatusConflict {
		t.Fatalf("expected 409, got %d", HTTPStatus(err))
	}
	if HTTPStatus(Validation("alasan wajib diisi")) != http.StatusBadRequest {
		t.Fatalf("expected 400 for validation")
	}
	if HTTPStatus(NotFound("karyawan %d tidak ditemukan", 9)) != http.StatusNotFound {
		t.Fatalf("expected 404 for not found")
	}
	if HTTPStatus(errors.New("koneksi putus")) != http.StatusInternalServerError {
		t.Fatalf("expected 500 for plain errors")
	}
}
