// Package pdfbatch implements the PDF batch processor: upload each PDF to a
// deployment, run the fixed prompt sequence against a fresh conversation and
// append the outcome to the cumulative activity log.
package pdfbatch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/satriahrh/convoport/internal/application"
	"github.com/satriahrh/convoport/internal/domain/catalog"
	"github.com/satriahrh/convoport/internal/domain/pdfrun"
)

// Service processes PDFs strictly sequentially: each file is fully handled
// (upload plus all prompts) before the next one starts.
type Service struct {
	Platform catalog.Client
	Activity pdfrun.Recorder
	Clock    application.Clock
	Log      *zap.Logger
}

// Command describes one batch run.
type Command struct {
	DeploymentID catalog.DeploymentID
	SourceDir    string
	Recursive    bool
}

// Summary is the outcome of one batch run.
type Summary struct {
	Total      int `json:"total"`
	Successful int `json:"successful"`
	Failed     int `json:"failed"`
}

// FindPDFs lists PDF files under dir in directory-scan order. The extension
// match is case-insensitive; non-regular files are skipped.
func FindPDFs(dir string, recursive bool) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source directory %s is not a directory", dir)
	}

	var pdfs []string
	if recursive {
		err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && isPDF(path) {
				pdfs = append(pdfs, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
	} else {
		entries, err := os.ReadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("scan %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() && isPDF(e.Name()) {
				pdfs = append(pdfs, filepath.Join(dir, e.Name()))
			}
		}
	}

	sort.Strings(pdfs)
	return pdfs, nil
}

func isPDF(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".pdf")
}

// Process runs the batch over cmd's source directory. Per-file failures are
// logged and recorded; the run continues with the next file. The returned
// error is non-nil only for setup problems or when the activity log itself
// cannot be written.
func (s *Service) Process(ctx context.Context, cmd Command) (*Summary, error) {
	pdfs, err := FindPDFs(cmd.SourceDir, cmd.Recursive)
	if err != nil {
		return nil, err
	}
	if len(pdfs) == 0 {
		return &Summary{}, nil
	}

	sum := &Summary{Total: len(pdfs)}
	for idx, path := range pdfs {
		if err := ctx.Err(); err != nil {
			// Interrupted: the log is consistent up to the last written entry.
			return sum, err
		}

		s.Log.Info("processing pdf",
			zap.Int("file", idx+1),
			zap.Int("total", len(pdfs)),
			zap.String("name", filepath.Base(path)),
		)

		entry := s.processOne(ctx, cmd, idx+1, len(pdfs), path)
		if entry.OverallStatus == pdfrun.StatusSuccess {
			sum.Successful++
		} else {
			sum.Failed++
		}
		if err := s.Activity.Append(entry); err != nil {
			return sum, fmt.Errorf("append activity log: %w", err)
		}
	}
	return sum, nil
}

func (s *Service) processOne(ctx context.Context, cmd Command, num, total int, path string) pdfrun.Entry {
	name := filepath.Base(path)
	entry := pdfrun.Entry{
		ID:           uuid.New().String(),
		Timestamp:    s.Clock.Now().UTC(),
		FileNumber:   num,
		TotalFiles:   total,
		PDFPath:      path,
		PDFName:      name,
		DeploymentID: string(cmd.DeploymentID),
	}

	uploadID, err := s.upload(ctx, cmd.DeploymentID, path, name)
	if err != nil {
		s.Log.Warn("upload failed", zap.String("pdf", name), zap.Error(err))
		entry.Upload = pdfrun.UploadResult{
			Status: pdfrun.StatusFailed, Filename: name, Path: path, Error: err.Error(),
		}
		entry.OverallStatus = pdfrun.StatusUploadFailed
		return entry
	}
	entry.Upload = pdfrun.UploadResult{
		Status: pdfrun.StatusSuccess, Filename: name, Path: path, UploadID: uploadID,
	}

	conv, err := s.Platform.CreateConversation(ctx, cmd.DeploymentID)
	if err != nil {
		s.Log.Warn("create conversation failed", zap.String("pdf", name), zap.Error(err))
		entry.OverallStatus = pdfrun.StatusFailed
		return entry
	}
	entry.ConversationID = string(conv.ID)

	entry.Prompts = make(map[string]pdfrun.PromptResult, len(Prompts))
	for _, p := range Prompts {
		resp, err := s.Platform.SendMessage(ctx, conv.ID, p.Text)
		if err != nil {
			s.Log.Warn("prompt failed",
				zap.String("pdf", name), zap.String("prompt", p.Key), zap.Error(err))
			entry.Prompts[p.Key] = pdfrun.PromptResult{
				Prompt: p.Text, Error: err.Error(), Status: pdfrun.StatusFailed,
			}
			continue
		}
		entry.Prompts[p.Key] = pdfrun.PromptResult{
			Prompt: p.Text, Response: resp, Status: pdfrun.StatusSuccess,
		}
	}

	entry.OverallStatus = pdfrun.StatusSuccess
	return entry
}

func (s *Service) upload(ctx context.Context, dep catalog.DeploymentID, path, name string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return s.Platform.UploadDocument(ctx, dep, name, f)
}
