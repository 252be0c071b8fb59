package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/config"
	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/repository"
	"github.com/avitale/badgeboard/internal/storage"
)

// ProfileHandler serves the per-user nickname/avatar profile.  Avatars are
// kept in the asset store under profiles/ and served through the same
// asset endpoint as noticeboard files.
type ProfileHandler struct {
	Cfg      config.Config
	Profiles *repository.ProfileRepo
	Assets   *storage.AssetStore
}

func NewProfileHandler(cfg config.Config, profiles *repository.ProfileRepo, assets *storage.AssetStore) *ProfileHandler {
	return &ProfileHandler{Cfg: cfg, Profiles: profiles, Assets: assets}
}

// Get returns the stored profile, or an empty object when the user never
// saved one.
func (h *ProfileHandler) Get(c echo.Context) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid user id")
	}

	p, err := h.Profiles.Get(c.Request().Context(), userID)
	if err == repository.ErrNotFound {
		return c.JSON(http.StatusOK, echo.Map{})
	}
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "query failed")
	}

	resp := echo.Map{"user_id": p.UserID, "nickname": p.Nickname}
	if p.ImagePath != "" {
		resp["image_url"] = assetURL(h.Cfg.PublicBaseURL, p.ImagePath, assetVersion(p.ImagePath))
	}
	return c.JSON(http.StatusOK, resp)
}

// Save replaces the whole profile row (multipart: nickname plus optional
// image_file).  An omitted image clears the stored path; the previous
// file, if any, is removed best-effort.
func (h *ProfileHandler) Save(c echo.Context) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid user id")
	}

	nickname := strings.TrimSpace(c.FormValue("nickname"))

	prev, prevErr := h.Profiles.Get(c.Request().Context(), userID)

	imagePath := ""
	if fh, err := c.FormFile("image_file"); err == nil {
		src, err := fh.Open()
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "read upload failed")
		}
		defer src.Close()

		rel, err := h.Assets.Save("profiles", "", fmt.Sprintf("avatar_%d", userID), fh.Filename, src)
		if err != nil {
			return errJSON(c, http.StatusInternalServerError, "store upload failed")
		}
		imagePath = rel
	}

	p := model.UserProfile{UserID: userID, Nickname: nickname, ImagePath: imagePath}
	if err := h.Profiles.Upsert(c.Request().Context(), p); err != nil {
		return errJSON(c, http.StatusInternalServerError, "save failed")
	}

	if prevErr == nil && prev.ImagePath != "" && prev.ImagePath != imagePath {
		h.Assets.Remove(prev.ImagePath)
	}
	return okJSON(c)
}
