package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	musicapp "github.com/movable/backend/internal/application/music"
	"github.com/movable/backend/internal/domain/shared/result"
)

// MusicHandler handles the music collection endpoints
type MusicHandler struct {
	BaseHandler
	catalog *musicapp.Catalog
}

// NewMusicHandler creates a new MusicHandler
func NewMusicHandler(catalog *musicapp.Catalog) *MusicHandler {
	return &MusicHandler{catalog: catalog}
}

// RegisterRoutes registers the music routes under rg
func (h *MusicHandler) RegisterRoutes(rg *gin.RouterGroup) {
	g := rg.Group("/music")
	g.GET("", h.GetAll)
	g.POST("", h.Add)
	g.POST("/new", h.NewData)
	g.POST("/positions", h.UpdatePositions)
	g.GET("/statistics", h.Statistics)
	g.GET("/:id", h.Get)
	g.PUT("/:id", h.Update)
	g.DELETE("/:id", h.Remove)
	g.POST("/:id/duplicate", h.Duplicate)
	g.POST("/:id/up", h.MoveUp)
	g.POST("/:id/down", h.MoveDown)
	g.GET("/:id/songs", h.Songs)
	g.POST("/:id/songs", h.AddSong)
}

// GetAll godoc
// @Summary      List music
// @Description  Returns the music visible to the caller ordered by position
// @Tags         music
// @Produce      json
// @Success      200 {object} dto.Response{data=[]musicapp.MusicData}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music [get]
func (h *MusicHandler) GetAll(c *gin.Context) {
	r, err := h.catalog.Music.GetAll(c.Request.Context())
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Get godoc
// @Summary      Get music
// @Tags         music
// @Produce      json
// @Param        id path int true "Music ID"
// @Success      200 {object} dto.Response{data=musicapp.MusicData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/{id} [get]
func (h *MusicHandler) Get(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Music.Get(c.Request.Context(), id)
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Add godoc
// @Summary      Add music
// @Description  Appends a new music entry; id and position must be omitted
// @Tags         music
// @Accept       json
// @Produce      json
// @Param        request body musicapp.MusicData true "Music"
// @Success      201 {object} dto.Response{data=musicapp.MusicData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music [post]
func (h *MusicHandler) Add(c *gin.Context) {
	var data musicapp.MusicData
	if !h.Bind(c, &data) {
		return
	}
	data.Audit = nil
	r, err := h.catalog.Music.Add(c.Request.Context(), &data)
	respond(&h.BaseHandler, c, http.StatusCreated, r, err)
}

// Update godoc
// @Summary      Update music
// @Tags         music
// @Accept       json
// @Produce      json
// @Param        id path int true "Music ID"
// @Param        request body musicapp.MusicData true "Music"
// @Success      200 {object} dto.Response{data=musicapp.MusicData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      422 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/{id} [put]
func (h *MusicHandler) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var data musicapp.MusicData
	if !h.Bind(c, &data) {
		return
	}
	data.ID = &id
	data.Audit = nil
	r, err := h.catalog.Music.Update(c.Request.Context(), &data)
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Remove godoc
// @Summary      Remove music
// @Description  Deletes the music entry and its songs
// @Tags         music
// @Produce      json
// @Param        id path int true "Music ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/{id} [delete]
func (h *MusicHandler) Remove(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Music.Remove(c.Request.Context(), &musicapp.MusicData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Duplicate godoc
// @Summary      Duplicate music
// @Description  Stores a copy of the music entry; songs are not copied
// @Tags         music
// @Produce      json
// @Param        id path int true "Music ID"
// @Success      201 {object} dto.Response{data=musicapp.MusicData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/{id}/duplicate [post]
func (h *MusicHandler) Duplicate(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Music.Duplicate(c.Request.Context(), &musicapp.MusicData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusCreated, r, err)
}

// MoveUp godoc
// @Summary      Move music up
// @Description  Swaps the music entry with the one before it
// @Tags         music
// @Produce      json
// @Param        id path int true "Music ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      422 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/{id}/up [post]
func (h *MusicHandler) MoveUp(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Music.MoveUp(c.Request.Context(), &musicapp.MusicData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// MoveDown godoc
// @Summary      Move music down
// @Description  Swaps the music entry with the one after it
// @Tags         music
// @Produce      json
// @Param        id path int true "Music ID"
// @Success      200 {object} dto.Response
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      422 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/{id}/down [post]
func (h *MusicHandler) MoveDown(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Music.MoveDown(c.Request.Context(), &musicapp.MusicData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Songs godoc
// @Summary      List songs of music
// @Description  Returns the songs of the music entry ordered by position
// @Tags         songs
// @Produce      json
// @Param        id path int true "Music ID"
// @Success      200 {object} dto.Response{data=[]musicapp.SongData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/{id}/songs [get]
func (h *MusicHandler) Songs(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	r, err := h.catalog.Songs.Find(c.Request.Context(), &musicapp.MusicData{ID: &id})
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// AddSong godoc
// @Summary      Add song
// @Description  Appends a song to the music entry; id and position must be omitted
// @Tags         songs
// @Accept       json
// @Produce      json
// @Param        id path int true "Music ID"
// @Param        request body musicapp.SongData true "Song"
// @Success      201 {object} dto.Response{data=musicapp.SongData}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.IssueList
// @Failure      422 {object} dto.IssueList
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/{id}/songs [post]
func (h *MusicHandler) AddSong(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var data musicapp.SongData
	if !h.Bind(c, &data) {
		return
	}
	data.Audit = nil
	r, err := h.catalog.Songs.Add(c.Request.Context(), &musicapp.MusicData{ID: &id}, &data)
	respond(&h.BaseHandler, c, http.StatusCreated, r, err)
}

// NewData godoc
// @Summary      Delete all music and songs
// @Description  Removes every music entry visible to the caller together with its songs
// @Tags         music
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/new [post]
func (h *MusicHandler) NewData(c *gin.Context) {
	r, err := h.catalog.Music.NewData(c.Request.Context())
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// UpdatePositions godoc
// @Summary      Renumber music positions
// @Description  Rewrites the positions of the visible music to 0..n-1 in their current order
// @Tags         music
// @Produce      json
// @Success      200 {object} dto.Response
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/positions [post]
func (h *MusicHandler) UpdatePositions(c *gin.Context) {
	r, err := h.catalog.Music.UpdatePositions(c.Request.Context())
	respond(&h.BaseHandler, c, http.StatusOK, r, err)
}

// Statistics godoc
// @Summary      Catalog statistics
// @Description  Counts music, media and songs and sums the song lengths
// @Tags         music
// @Produce      json
// @Success      200 {object} dto.Response{data=statisticsResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /music/statistics [get]
func (h *MusicHandler) Statistics(c *gin.Context) {
	r, err := h.catalog.Statistics(c.Request.Context())
	if err != nil || r.IsError() {
		respond(&h.BaseHandler, c, http.StatusOK, r, err)
		return
	}
	stats, _ := r.Data()
	out := result.Of(statisticsResponse{Statistics: stats, Length: stats.FormattedLength()})
	out.AddEvents(r.Events()...)
	respond(&h.BaseHandler, c, http.StatusOK, out, nil)
}

type statisticsResponse struct {
	musicapp.Statistics
	Length string `json:"length"`
}
