package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"admission-partner-portal/internal/models"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxUploadBytes = 10 << 20

// maxProfileBytes caps a whole profile post: three documents plus the form
// fields.
const maxProfileBytes = 3*maxUploadBytes + 1<<20

var allowedUploadExt = map[string]bool{
	".pdf":  true,
	".jpg":  true,
	".jpeg": true,
	".png":  true,
}

// UploadStore keeps partner KYC documents on local disk under dir.
type UploadStore struct {
	dir string
}

func NewUploadStore(dir string) *UploadStore {
	return &UploadStore{dir: dir}
}

func (u *UploadStore) Dir() string {
	return u.dir
}

// Save stores the file posted under field and returns its stored name.
// An absent file yields an empty name.
func (u *UploadStore) Save(r *http.Request, field, prefix string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return "", nil
	}
	if err != nil {
		return "", models.NewValidationError(field, "could not read upload")
	}
	defer file.Close()

	if header.Size == 0 {
		return "", nil
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	if !allowedUploadExt[ext] {
		return "", models.NewValidationError(field, "only PDF, JPG and PNG files are allowed")
	}
	if header.Size > maxUploadBytes {
		return "", models.NewValidationError(field, "file must be 10 MB or smaller")
	}

	if err := os.MkdirAll(u.dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create upload dir: %w", err)
	}
	name := fmt.Sprintf("%s_%s%s", prefix, uuid.NewString(), ext)
	path := filepath.Join(u.dir, name)
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create upload file: %w", err)
	}

	n, err := io.Copy(dst, io.LimitReader(file, maxUploadBytes+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if n > maxUploadBytes {
		_ = os.Remove(path)
		return "", models.NewValidationError(field, "file must be 10 MB or smaller")
	}
	log.WithFields(log.Fields{"field": field, "file": name}).Debug("Stored upload")
	return name, nil
}

// Serve streams a stored document. Names are never joined with directories
// taken from the request.
func (u *UploadStore) Serve(w http.ResponseWriter, r *http.Request, name string) {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		http.NotFound(w, r)
		return
	}
	http.ServeFile(w, r, filepath.Join(u.dir, name))
}
