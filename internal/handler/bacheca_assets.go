package handler

import (
	"context"
	"fmt"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/storage"
	"github.com/avitale/badgeboard/internal/utils"
)

// saveFor stores an uploaded file for a character under its series
// directory and returns the relative path.
func (h *BachecaHandler) saveFor(series, name, prefix string, fh *multipart.FileHeader) (string, error) {
	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()
	return h.Assets.Save("bacheca", series, prefix+"_"+storage.Sanitize(name), fh.Filename, src)
}

// UploadScript attaches a .docx script document to a character and
// refreshes last_modified.  Only the document extension is enforced; the
// other upload endpoints accept anything.
func (h *BachecaHandler) UploadScript(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	fh, err := c.FormFile("script")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "no file")
	}
	if !strings.HasSuffix(strings.ToLower(fh.Filename), ".docx") {
		return errJSON(c, http.StatusBadRequest, "only .docx files are allowed")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ch, err := h.Characters.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "query failed")
	}

	rel, err := h.saveFor(ch.SeriesTitle, ch.Name, "script", fh)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "store upload failed")
	}
	now := utils.NowStamp()
	if err := h.Characters.SetScript(ctx, id, rel, now); err != nil {
		return repoError(c, err, "update failed")
	}
	h.flushCache(ctx)

	return c.JSON(http.StatusOK, echo.Map{
		"status":        "ok",
		"script_url":    assetURL(h.Cfg.PublicBaseURL, rel, utils.StampEpoch(now)),
		"last_modified": now,
	})
}

// UploadImage replaces a character's image and refreshes last_modified.
func (h *BachecaHandler) UploadImage(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	fh, err := c.FormFile("image_file")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "no file")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	ch, err := h.Characters.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "query failed")
	}

	rel, err := h.saveFor(ch.SeriesTitle, ch.Name, "img", fh)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "store upload failed")
	}
	now := utils.NowStamp()
	if err := h.Characters.SetImage(ctx, id, rel, now); err != nil {
		return repoError(c, err, "update failed")
	}
	h.flushCache(ctx)

	return c.JSON(http.StatusOK, echo.Map{
		"status":        "ok",
		"image_url":     assetURL(h.Cfg.PublicBaseURL, rel, utils.StampEpoch(now)),
		"last_modified": now,
	})
}

// UploadMov replaces a character's video and refreshes last_modified.  The
// uploader form field only feeds the audit trail.
func (h *BachecaHandler) UploadMov(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	fh, err := c.FormFile("mov")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "no file")
	}
	uploader, _ := strconv.ParseInt(c.FormValue("uploader"), 10, 64)

	ctx, cancel := context.WithTimeout(c.Request().Context(), 30*time.Second)
	defer cancel()

	ch, err := h.Characters.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "query failed")
	}

	rel, err := h.saveFor(ch.SeriesTitle, ch.Name, "mov", fh)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "store upload failed")
	}
	now := utils.NowStamp()
	if err := h.Characters.SetMov(ctx, id, rel, now); err != nil {
		return repoError(c, err, "update failed")
	}
	h.flushCache(ctx)

	h.audit(uploader, "bacheca_upload_mov", fmt.Sprintf("character=%d", id))
	return c.JSON(http.StatusOK, echo.Map{
		"status":        "ok",
		"mov_url":       assetURL(h.Cfg.PublicBaseURL, rel, utils.StampEpoch(now)),
		"last_modified": now,
	})
}

// DownloadScript streams the character's script document with a synthetic
// download name derived from the character.
func (h *BachecaHandler) DownloadScript(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	ch, err := h.Characters.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "query failed")
	}
	if ch.ScriptPath == "" {
		return errJSON(c, http.StatusNotFound, "no script available")
	}
	full, err := h.Assets.Resolve(ch.ScriptPath)
	if err != nil {
		return errJSON(c, http.StatusNotFound, "file not found")
	}
	if _, err := os.Stat(full); err != nil {
		return errJSON(c, http.StatusNotFound, "file not found")
	}
	return c.Attachment(full, fmt.Sprintf("Copione_%s.docx", ch.Name))
}

// DownloadMov streams the character's video under its stored basename.
func (h *BachecaHandler) DownloadMov(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	ch, err := h.Characters.GetByID(c.Request().Context(), id)
	if err != nil {
		return repoError(c, err, "query failed")
	}
	if ch.MovPath == "" {
		return errJSON(c, http.StatusNotFound, "no video available")
	}
	full, err := h.Assets.Resolve(ch.MovPath)
	if err != nil {
		return errJSON(c, http.StatusNotFound, "file not found")
	}
	if _, err := os.Stat(full); err != nil {
		return errJSON(c, http.StatusNotFound, "file not found")
	}
	return c.Attachment(full, filepath.Base(full))
}

// ServeAsset streams any stored file by its relative path.  Paths are
// resolved through the store, which rejects anything escaping the asset
// root.
func (h *BachecaHandler) ServeAsset(c echo.Context) error {
	rel := c.Param("*")
	full, err := h.Assets.Resolve(rel)
	if err != nil {
		return errJSON(c, http.StatusNotFound, "not found")
	}
	if _, err := os.Stat(full); err != nil {
		return errJSON(c, http.StatusNotFound, "not found")
	}
	return c.File(full)
}
