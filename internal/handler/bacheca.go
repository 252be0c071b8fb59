package handler

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/config"
	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/queue"
	"github.com/avitale/badgeboard/internal/repository"
	"github.com/avitale/badgeboard/internal/service"
	"github.com/avitale/badgeboard/internal/storage"
	"github.com/avitale/badgeboard/internal/utils"
)

// BachecaHandler serves the noticeboard: character CRUD plus the per-asset
// upload and download endpoints.
type BachecaHandler struct {
	Cfg        config.Config
	Characters *repository.CharacterRepo
	Assets     *storage.AssetStore

	// Invalidate, when set, flushes the cached character list after a
	// successful mutation so pollers never read a pre-edit body.
	Invalidate func(context.Context)
}

func NewBachecaHandler(cfg config.Config, characters *repository.CharacterRepo, assets *storage.AssetStore) *BachecaHandler {
	return &BachecaHandler{Cfg: cfg, Characters: characters, Assets: assets}
}

// characterItem is the list representation: paths resolved to absolute
// URLs carrying the last_modified epoch as a cache-busting token.  Absent
// assets serialize as null.
type characterItem struct {
	ID           int64   `json:"id"`
	SeriesTitle  string  `json:"series_title"`
	Name         string  `json:"character_name"`
	Role         string  `json:"role"`
	ImageURL     *string `json:"image_url"`
	ScriptText   string  `json:"script_text"`
	ScriptURL    *string `json:"script_url"`
	ExpiryDate   string  `json:"expiry_date"`
	MovURL       *string `json:"mov_url"`
	LastModified string  `json:"last_modified"`
}

func (h *BachecaHandler) urlFor(rel string, v int64) *string {
	if rel == "" {
		return nil
	}
	u := assetURL(h.Cfg.PublicBaseURL, rel, v)
	return &u
}

func (h *BachecaHandler) flushCache(ctx context.Context) {
	if h.Invalidate != nil {
		h.Invalidate(ctx)
	}
}

func (h *BachecaHandler) audit(actor int64, action, detail string) {
	if !h.Cfg.AuditEvents {
		return
	}
	ev := queue.AuditEvent{ActorID: actor, Action: action, Detail: detail}
	go func() { _ = service.PublishAudit(context.Background(), ev) }()
}

// Create adds a noticeboard character (multipart form), optionally storing
// an initial image.  Name and role are mandatory; the series defaults to
// the first tab.
func (h *BachecaHandler) Create(c echo.Context) error {
	series := c.FormValue("series_title")
	if series == "" {
		series = model.SeriesAfterSchool
	}
	name := strings.TrimSpace(c.FormValue("character_name"))
	role := strings.TrimSpace(c.FormValue("role"))
	if name == "" || role == "" {
		return errJSON(c, http.StatusBadRequest, "name and role are required")
	}
	createdBy, _ := strconv.ParseInt(c.FormValue("created_by"), 10, 64)

	imagePath := ""
	if fh, err := c.FormFile("image_file"); err == nil {
		src, err := fh.Open()
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "read upload failed")
		}
		defer src.Close()
		rel, err := h.Assets.Save("bacheca", series, "img_"+storage.Sanitize(name), fh.Filename, src)
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "store upload failed")
		}
		imagePath = rel
	}

	now := utils.NowStamp()
	ch := model.Character{
		SeriesTitle:  series,
		Name:         name,
		Role:         role,
		ImagePath:    imagePath,
		ScriptText:   c.FormValue("script_text"),
		ExpiryDate:   c.FormValue("expiry_date"),
		CreatedBy:    createdBy,
		LastModified: now,
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()
	if _, err := h.Characters.Create(ctx, ch); err != nil {
		return errJSON(c, http.StatusInternalServerError, "create failed")
	}
	h.flushCache(ctx)

	h.audit(createdBy, "bacheca_create", fmt.Sprintf("%s:%s", series, name))
	return c.JSON(http.StatusOK, echo.Map{
		"status":        "ok",
		"message":       fmt.Sprintf("character %s created", name),
		"last_modified": now,
	})
}

// List returns all characters ordered by series and name with resolved
// asset URLs.
func (h *BachecaHandler) List(c echo.Context) error {
	chars, err := h.Characters.List(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "query failed")
	}

	out := make([]characterItem, 0, len(chars))
	for _, ch := range chars {
		v := utils.StampEpoch(ch.LastModified)
		out = append(out, characterItem{
			ID:           ch.ID,
			SeriesTitle:  ch.SeriesTitle,
			Name:         ch.Name,
			Role:         ch.Role,
			ImageURL:     h.urlFor(ch.ImagePath, v),
			ScriptText:   ch.ScriptText,
			ScriptURL:    h.urlFor(ch.ScriptPath, v),
			ExpiryDate:   ch.ExpiryDate,
			MovURL:       h.urlFor(ch.MovPath, v),
			LastModified: ch.LastModified,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// LastUpdate returns the board's staleness token: the newest last_modified
// across all rows, empty when the board is empty.  Pollers hit this
// instead of re-downloading the whole list.
func (h *BachecaHandler) LastUpdate(c echo.Context) error {
	last, err := h.Characters.LastUpdate(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "query failed")
	}
	return c.JSON(http.StatusOK, echo.Map{"last_update": last})
}

type updateCharacterReq struct {
	SeriesTitle *string `json:"series_title"`
	Name        *string `json:"character_name"`
	Role        *string `json:"role"`
	ExpiryDate  *string `json:"expiry_date"`
	ScriptText  *string `json:"script_text"`
}

// Update patches the provided subset of editable fields.  Concurrent edits
// are not serialized: the last write wins, which is accepted at office
// scale.
func (h *BachecaHandler) Update(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}
	var req updateCharacterReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	patch := model.CharacterPatch{
		SeriesTitle: req.SeriesTitle,
		Name:        req.Name,
		Role:        req.Role,
		ExpiryDate:  req.ExpiryDate,
		ScriptText:  req.ScriptText,
	}
	if patch.Empty() {
		return errJSON(c, http.StatusBadRequest, "no fields to update")
	}

	now := utils.NowStamp()
	if err := h.Characters.Patch(c.Request().Context(), id, patch, now); err != nil {
		return repoError(c, err, "update failed")
	}
	h.flushCache(c.Request().Context())
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "last_modified": now})
}

// Delete removes a character row and best-effort-deletes its three asset
// files.  A stray or missing file never fails the delete.
func (h *BachecaHandler) Delete(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid id")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	ch, err := h.Characters.GetByID(ctx, id)
	if err != nil {
		return repoError(c, err, "query failed")
	}

	h.Assets.Remove(ch.ImagePath)
	h.Assets.Remove(ch.ScriptPath)
	h.Assets.Remove(ch.MovPath)

	if err := h.Characters.Delete(ctx, id); err != nil {
		return repoError(c, err, "delete failed")
	}
	h.flushCache(ctx)

	h.audit(0, "bacheca_delete", fmt.Sprintf("character=%d", id))
	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "message": "character deleted"})
}
