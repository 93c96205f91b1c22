package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	musicapp "github.com/movable/backend/internal/application/music"
)

// SongHandler handles the endpoints of single songs.
// Listing and adding go through the owning music entry.
type SongHandler struct {
	BaseHandler
	catalog *musicapp.Catalog
}

// NewSongHandler creates a new SongHandler
func NewSongHandler(catalog *musicapp.Catalog) *SongHandler {
	return &SongHandler{catalog: catalog}
}

// RegisterRoutes registers the song routes under rg
func (h *SongHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/songs")
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Remove)
	g.POST("/:id/duplicate", h.Duplicate)
	g.POST("/:id/up", h.MoveUp)
	g.POST("/:id/down", h.MoveDown)
}

// Get godoc
// @Summary      Get song
// @Tags         songs
// @Produce      json
// @Param        id path int true "Song ID"
// @Success      200 {object} dto.Response{data=musicapp.SongData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /songs/{id} [get]
func (h *SongHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Songs.Get(c.Request.Context(), id)
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Update godoc
// @Summary      Update song
// @Description  Replaces the song's fields; the song keeps its music entry
// @Tags         songs
// @Accept       json
// @Produce      json
// @Param        id path int true "Song ID"
// @Param        request body musicapp.SongData true "Song"
// @Success      200 {object} dto.Response{data=musicapp.SongData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      422 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /songs/{id} [put]
func (h *SongHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var data musicapp.SongData
	if !h.Bind(c, &data) {
		return
	}
	data.ID = &id
	data.Audit = nil
	r, err := h.catalog.Songs.Update(c.Request.Context(), &data)
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Remove godoc
// @Summary      Remove song
// @Tags         songs
// @Produce      json
// @Param        id path int true "Song ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /songs/{id} [delete]
func (h *SongHandler) Remove(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Songs.Remove(c.Request.Context(), &musicapp.SongData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Duplicate godoc
// @Summary      Duplicate song
// @Description  Stores a copy of the song under the same music entry
// @Tags         songs
// @Produce      json
// @Param        id path int true "Song ID"
// @Success      201 {object} dto.Response{data=musicapp.SongData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /songs/{id}/duplicate [post]
func (h *SongHandler) Duplicate(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Songs.Duplicate(c.Request.Context(), &musicapp.SongData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusCreated, r, err)
}

// MoveUp godoc
// @Summary      Move song up
// @Description  Swaps the song with the one before it in its music entry
// @Tags         songs
// @Produce      json
// @Param        id path int true "Song ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      422 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /songs/{id}/up [post]
func (h *SongHandler) MoveUp(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Songs.MoveUp(c.Request.Context(), &musicapp.SongData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// MoveDown godoc
// @Summary      Move song down
// @Description  Swaps the song with the one after it in its music entry
// @Tags         songs
// @Produce      json
// @Param        id path int true "Song ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      422 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /songs/{id}/down [post]
func (h *SongHandler) MoveDown(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Songs.MoveDown(c.Request.Context(), &musicapp.SongData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}
