package service

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/textproto"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/edumate/sims-api/internal/models"
	"github.com/edumate/sims-api/internal/repository"
)

type storageStub struct {
	uploaded bytes.Buffer
	name     string
}

func (s *storageStub) Upload(ctx context.Context, name string, reader io.Reader) (string, error) {
	s.uploaded.Reset()
	s.name = name
	if _, err := s.uploaded.ReadFrom(reader); err != nil {
		return "", err
	}
	return "https://cdn.example.com/" + name, nil
}

func newDocumentTestService(t *testing.T, storage FileStorage, maxSizeMB int) (DocumentService, *gorm.DB, models.Student) {
	t.Helper()

	db := setupTestDB(t)
	svc := NewDocumentService(repository.NewStudentRepository(db), storage, maxSizeMB, zerolog.Nop())
	student := seedTestStudent(t, db, "Holder", "ADM-950", nil, nil)
	return svc, db, student
}

func TestDocumentUploadStoresImage(t *testing.T) {
	storage := &storageStub{}
	svc, db, student := newDocumentTestService(t, storage, 5)

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "Birth Certificate.PNG", pngHeader)

	document, err := svc.Upload(context.Background(), student.ID, "Birth certificate", file)
	require.NoError(t, err)
	require.Equal(t, "Birth certificate", document.Title)
	require.Equal(t, "image/png", document.ContentType)
	require.Equal(t, "birth-certificate.png", storage.name)
	require.Equal(t, "https://cdn.example.com/birth-certificate.png", document.FileURL)

	var stored int64
	require.NoError(t, db.Model(&models.StudentDocument{}).Where("student_id = ?", student.ID).Count(&stored).Error)
	require.Equal(t, int64(1), stored)
}

func TestDocumentUploadRejectsOversizeFile(t *testing.T) {
	svc, _, student := newDocumentTestService(t, &storageStub{}, 1)

	file := buildFileHeader(t, "huge.pdf", bytes.Repeat([]byte("a"), 2*1024*1024))
	_, err := svc.Upload(context.Background(), student.ID, "", file)
	require.ErrorIs(t, err, ErrDocumentTooLarge)
}

func TestDocumentUploadRejectsDisallowedType(t *testing.T) {
	svc, _, student := newDocumentTestService(t, &storageStub{}, 5)

	file := buildFileHeader(t, "notes.txt", []byte("plain text content"))
	_, err := svc.Upload(context.Background(), student.ID, "", file)
	require.ErrorIs(t, err, ErrDocumentTypeInvalid)
}

func TestDocumentUploadWithoutStorageConfigured(t *testing.T) {
	svc, _, student := newDocumentTestService(t, nil, 5)

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "photo.png", pngHeader)
	_, err := svc.Upload(context.Background(), student.ID, "", file)
	require.ErrorIs(t, err, ErrUploadsDisabled)
}

func TestDocumentUploadUnknownStudent(t *testing.T) {
	svc, _, _ := newDocumentTestService(t, &storageStub{}, 5)

	pngHeader := []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A}
	file := buildFileHeader(t, "photo.png", pngHeader)
	_, err := svc.Upload(context.Background(), 999, "", file)
	require.ErrorIs(t, err, ErrStudentNotFound)
}

func TestDocumentDelete(t *testing.T) {
	svc, db, student := newDocumentTestService(t, &storageStub{}, 5)

	document := models.StudentDocument{StudentID: student.ID, Title: "Report", FileURL: "https://cdn.example.com/report.pdf", ContentType: "application/pdf"}
	require.NoError(t, db.Create(&document).Error)

	require.NoError(t, svc.Delete(context.Background(), student.ID, document.ID))
	require.ErrorIs(t, svc.Delete(context.Background(), student.ID, document.ID), ErrDocumentNotFound)
}

func buildFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreatePart(textproto.MIMEHeader{
		"Content-Disposition": {`form-data; name="file"; filename="` + filename + `"`},
		"Content-Type":        {"application/octet-stream"},
	})
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	reader := multipart.NewReader(body, writer.Boundary())
	form, err := reader.ReadForm(int64(len(content) + 1024))
	require.NoError(t, err)
	files := form.File["file"]
	require.Len(t, files, 1)
	return files[0]
}
