package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/dto"
	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

// Document upload errors returned to the handler layer.
var (
	ErrDocumentNotFound    = errors.New("document not found")
	ErrDocumentTooLarge    = errors.New("file exceeds maximum allowed size")
	ErrDocumentTypeInvalid = errors.New("only images and PDF documents are accepted")
	ErrDocumentRequired    = errors.New("file is required")
	ErrUploadsDisabled     = errors.New("document storage is not configured")
)

// FileStorage abstracts the upload destination.
type FileStorage interface {
	Upload(ctx context.Context, name string, reader io.Reader) (string, error)
}

// DocumentService manages the files attached to a student record.
type DocumentService interface {
	Upload(ctx context.Context, studentID uint, title string, file *multipart.FileHeader) (dto.DocumentResponse, error)
	List(ctx context.Context, studentID uint) ([]dto.DocumentResponse, error)
	Delete(ctx context.Context, studentID, documentID uint) error
}

type documentService struct {
	students repository.StudentRepository
	storage  FileStorage
	maxSize  int64
	logger   zerolog.Logger
}

// NewDocumentService constructs the student document service.
func NewDocumentService(students repository.StudentRepository, storage FileStorage, maxSizeMB int, logger zerolog.Logger) DocumentService {
	if maxSizeMB <= 0 {
		maxSizeMB = 10
	}
	return &documentService{
		students: students,
		storage:  storage,
		maxSize:  int64(maxSizeMB) * 1024 * 1024,
		logger:   logger.With().Str("component", "document_service").Logger(),
	}
}

func (s *documentService) Upload(ctx context.Context, studentID uint, title string, file *multipart.FileHeader) (dto.DocumentResponse, error) {
	if s.storage == nil {
		return dto.DocumentResponse{}, ErrUploadsDisabled
	}
	if file == nil {
		return dto.DocumentResponse{}, ErrDocumentRequired
	}
	if file.Size > s.maxSize {
		return dto.DocumentResponse{}, ErrDocumentTooLarge
	}

	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto.DocumentResponse{}, ErrStudentNotFound
		}
		return dto.DocumentResponse{}, err
	}

	handle, err := file.Open()
	if err != nil {
		return dto.DocumentResponse{}, err
	}
	defer handle.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxSize+1)); err != nil {
		return dto.DocumentResponse{}, err
	}
	if int64(buf.Len()) > s.maxSize {
		return dto.DocumentResponse{}, ErrDocumentTooLarge
	}

	mime := mimetype.Detect(buf.Bytes())
	contentType := strings.ToLower(mime.String())
	if !isAllowedDocumentType(contentType) {
		return dto.DocumentResponse{}, ErrDocumentTypeInvalid
	}

	name := sanitizeDocumentName(file.Filename)
	url, err := s.storage.Upload(ctx, name, bytes.NewReader(buf.Bytes()))
	if err != nil {
		return dto.DocumentResponse{}, err
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = name
	}

	document := models.StudentDocument{
		StudentID:   studentID,
		Title:       title,
		FileURL:     url,
		ContentType: contentType,
	}
	if err := s.students.AddDocument(ctx, &document); err != nil {
		return dto.DocumentResponse{}, err
	}

	s.logger.Info().Uint("student_id", studentID).Str("content_type", contentType).Msg("document stored")
	return dto.NewDocumentResponse(document), nil
}

func (s *documentService) List(ctx context.Context, studentID uint) ([]dto.DocumentResponse, error) {
	if _, err := s.students.GetByID(ctx, studentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrStudentNotFound
		}
		return nil, err
	}

	documents, err := s.students.ListDocuments(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return dto.NewDocumentResponseSlice(documents), nil
}

func (s *documentService) Delete(ctx context.Context, studentID, documentID uint) error {
	if err := s.students.DeleteDocument(ctx, studentID, documentID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		return err
	}
	return nil
}

func isAllowedDocumentType(mime string) bool {
	return strings.HasPrefix(mime, "image/") || mime == "application/pdf"
}

func sanitizeDocumentName(name string) string {
	base := strings.TrimSuffix(name, filepath.Ext(name))
	base = strings.ToLower(base)
	base = strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			return r
		}
		return '-'
	}, base)
	base = strings.Trim(base, "-")
	if base == "" {
		base = fmt.Sprintf("document-%d", time.Now().Unix())
	}
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = ".bin"
	}
	return base + ext
}
