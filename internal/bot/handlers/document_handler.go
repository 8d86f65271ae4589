package handlers

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// NewDocumentHandler returns a handler for document uploads. The file is
// copied into the configured upload directory under its original filename;
// an existing file with the same name is overwritten.
func NewDocumentHandler(deps HandlerDeps) bot.HandlerFunc {
	return documentHandler{deps}.Handle
}

type documentHandler struct {
	deps HandlerDeps
}

func (h documentHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "document")

	if update.Message == nil || update.Message.Document == nil {
		return
	}

	chatID := update.Message.Chat.ID
	doc := update.Message.Document
	log.InfoContext(ctx, "Handling document upload", "chat_id", chatID, "file_name", doc.FileName, "file_size", doc.FileSize)

	file, err := b.GetFile(ctx, &bot.GetFileParams{FileID: doc.FileID})
	if err != nil {
		log.ErrorContext(ctx, "Failed to get file info from gateway", "error", err, "chat_id", chatID)
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	// filepath.Base strips any path components a client may sneak into the
	// original filename.
	dest := filepath.Join(h.deps.Config.UploadDir, filepath.Base(doc.FileName))
	if err := h.download(ctx, b.FileDownloadLink(file), dest); err != nil {
		log.ErrorContext(ctx, "Failed to store uploaded file", "error", err, "chat_id", chatID, "dest", dest)
		sendReply(ctx, b, log, chatID, h.deps.Config.Messages.GeneralError)
		return
	}

	log.InfoContext(ctx, "Stored uploaded file", "chat_id", chatID, "dest", dest)
	sendReply(ctx, b, log, chatID, fmt.Sprintf(h.deps.Config.Messages.UploadOKFmt, doc.FileName))
}

// download fetches the file bytes from the gateway's download URL and writes
// them to dest, creating the upload directory if needed.
func (h documentHandler) download(ctx context.Context, url, dest string) error {
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return fmt.Errorf("failed to create upload directory: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build download request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected download status: %s", resp.Status)
	}

	out, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create destination file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, resp.Body); err != nil {
		return fmt.Errorf("failed to write destination file: %w", err)
	}

	return out.Close()
}
