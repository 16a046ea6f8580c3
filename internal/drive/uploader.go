// Package drive pushes export artifacts into a Google Drive folder.
package drive

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"

	"go-sf-exporter/internal/model"
	"go-sf-exporter/pkg/utils"
)

const folderMimeType = "application/vnd.google-apps.folder"

// OperationUpload tags upload attempts in the upload log
const OperationUpload = "Upload Data"

// Uploader wraps an authenticated Drive service bound to one target folder
type Uploader struct {
	svc      *driveapi.Service
	folderID string
	log      *zap.Logger
}

// NewUploader authenticates against Drive using an OAuth client config and
// a previously issued token file.
func NewUploader(ctx context.Context, credentialsFile, tokenFile string, log *zap.Logger) (*Uploader, error) {
	if log == nil {
		log = zap.NewNop()
	}

	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive credentials: %w", err)
	}
	oauthCfg, err := google.ConfigFromJSON(data, driveapi.DriveScope)
	if err != nil {
		return nil, fmt.Errorf("failed to parse drive credentials: %w", err)
	}
	token, err := tokenFromFile(tokenFile)
	if err != nil {
		return nil, err
	}

	svc, err := driveapi.NewService(ctx, option.WithHTTPClient(oauthCfg.Client(ctx, token)))
	if err != nil {
		return nil, fmt.Errorf("failed to create drive service: %w", err)
	}

	log.Info("google drive authentication successful")
	return &Uploader{svc: svc, log: log}, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read drive token: %w", err)
	}
	defer file.Close()

	token := &oauth2.Token{}
	if err := json.NewDecoder(file).Decode(token); err != nil {
		return nil, fmt.Errorf("failed to parse drive token: %w", err)
	}
	return token, nil
}

// EnsureFolder finds the named folder or creates it, remembering its ID
// for subsequent uploads.
func (u *Uploader) EnsureFolder(ctx context.Context, name string) error {
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false", name, folderMimeType)
	list, err := u.svc.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to look up drive folder %q: %w", name, err)
	}
	if len(list.Files) > 0 {
		u.folderID = list.Files[0].Id
		return nil
	}

	folder, err := u.svc.Files.Create(&driveapi.File{Name: name, MimeType: folderMimeType}).
		Fields("id").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("failed to create drive folder %q: %w", name, err)
	}
	u.folderID = folder.Id
	return nil
}

// UploadFile pushes one local file into the target folder, updating the
// remote file when one with the same name already exists. The returned log
// entry records the attempt whether it succeeded or not.
func (u *Uploader) UploadFile(ctx context.Context, path string) model.UploadLogEntry {
	fileName := filepath.Base(path)
	start := time.Now()
	finish := func(success bool, message string) model.UploadLogEntry {
		end := time.Now()
		return model.UploadLogEntry{
			FileName:        fileName,
			Operation:       OperationUpload,
			StartTime:       start,
			EndTime:         end,
			DurationSeconds: end.Sub(start).Seconds(),
			Success:         success,
			Message:         message,
		}
	}

	query := fmt.Sprintf("name='%s' and '%s' in parents and trashed=false", fileName, u.folderID)
	list, err := u.svc.Files.List().Q(query).Fields("files(id)").Context(ctx).Do()
	if err != nil {
		return finish(false, fmt.Sprintf("Error: failed to look up existing file: %v", err))
	}

	file, err := os.Open(path)
	if err != nil {
		return finish(false, fmt.Sprintf("Error: failed to open local file: %v", err))
	}
	defer file.Close()

	if len(list.Files) > 0 {
		_, err = u.svc.Files.Update(list.Files[0].Id, &driveapi.File{}).Media(file).Context(ctx).Do()
	} else {
		_, err = u.svc.Files.Create(&driveapi.File{Name: fileName, Parents: []string{u.folderID}}).
			Media(file).Context(ctx).Do()
	}
	if err != nil {
		return finish(false, fmt.Sprintf("Error: upload failed: %v", err))
	}
	return finish(true, fmt.Sprintf("File '%s' uploaded successfully.", fileName))
}

// UploadDir uploads every exportable artifact in dir and returns one log
// entry per attempt.
func (u *Uploader) UploadDir(ctx context.Context, dir string) []model.UploadLogEntry {
	files, err := os.ReadDir(dir)
	if err != nil {
		u.log.Error("failed to read output folder", zap.String("dir", dir), zap.Error(err))
		return nil
	}

	var entries []model.UploadLogEntry
	for _, f := range files {
		if f.IsDir() || !utils.IsUploadable(f.Name()) {
			continue
		}
		entry := u.UploadFile(ctx, filepath.Join(dir, f.Name()))
		if entry.Success {
			u.log.Info("file uploaded", zap.String("file", entry.FileName),
				zap.Float64("duration_seconds", entry.DurationSeconds))
		} else {
			u.log.Error("file upload failed", zap.String("file", entry.FileName),
				zap.String("message", entry.Message))
		}
		entries = append(entries, entry)
	}
	return entries
}
