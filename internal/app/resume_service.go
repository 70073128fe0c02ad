package app

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"jobconnect/internal/common"
	"jobconnect/internal/domain/user"
)

const pdfMIME = "application/pdf"

type FileStore interface {
	Save(ctx context.Context, name string, r io.Reader) error
	Remove(name string) error
}

type ResumeService struct {
	users    user.Repository
	files    FileStore
	maxBytes int64
	logger   Logger
	now      func() time.Time
}

func NewResumeService(users user.Repository, files FileStore, maxBytes int64, logger Logger) *ResumeService {
	return &ResumeService{users: users, files: files, maxBytes: maxBytes, logger: logger, now: time.Now}
}

func (s *ResumeService) MaxBytes() int64 {
	return s.maxBytes
}

type ResumeUpload struct {
	ContentType string
	Data        []byte
}

// Upload stores a PDF resume and points the profile at it. baseURL is the public origin without a trailing slash.
func (s *ResumeService) Upload(ctx context.Context, userID common.UUID, upload ResumeUpload, baseURL string) (string, error) {
	if len(upload.Data) == 0 {
		return "", common.NewError(common.CodeValidation, "Please upload a file", nil)
	}
	if int64(len(upload.Data)) > s.maxBytes {
		return "", common.NewError(common.CodeValidation, "file too large", nil)
	}
	declared := strings.ToLower(strings.TrimSpace(strings.SplitN(upload.ContentType, ";", 2)[0]))
	if declared != pdfMIME || !mimetype.Detect(upload.Data).Is(pdfMIME) {
		return "", common.NewError(common.CodeValidation, "Only PDF files are allowed", nil)
	}

	filename := fmt.Sprintf("resume-%s-%d.pdf", userID.String(), s.now().UnixMilli())
	if err := s.files.Save(ctx, filename, bytes.NewReader(upload.Data)); err != nil {
		return "", common.NewError(common.CodeInternal, "failed to store resume", err)
	}
	resumeURL := strings.TrimRight(baseURL, "/") + "/uploads/" + filename
	if err := s.users.UpdateResumeURL(ctx, userID, resumeURL); err != nil {
		if removeErr := s.files.Remove(filename); removeErr != nil {
			s.logger.Error("failed to remove orphaned resume", "file", filename, "error", removeErr)
		}
		return "", err
	}
	s.logger.Info("resume uploaded", "user_id", userID.String(), "file", filename)
	return resumeURL, nil
}
