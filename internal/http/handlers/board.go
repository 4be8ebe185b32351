package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/boardside/kilterboard-backend/internal/domain/board"
	"github.com/boardside/kilterboard-backend/internal/http/response"
)

type BoardHandler struct {
	boards *board.Registry
}

func NewBoardHandler(boards *board.Registry) *BoardHandler {
	return &BoardHandler{boards: boards}
}

// GET /api/boards
func (bh *BoardHandler) List(c *gin.Context) {
	names := bh.boards.Names()
	out := make([]gin.H, 0, len(names))
	for _, name := range names {
		g, ok := bh.boards.Lookup(name)
		if !ok {
			continue
		}
		out = append(out, gin.H{
			"name":         g.Name,
			"display_name": g.DisplayName,
			"columns":      g.Columns,
			"rows":         g.Rows,
			"hold_count":   g.HoldCount(),
		})
	}
	response.RespondOK(c, gin.H{"boards": out})
}

// GET /api/boards/:name
func (bh *BoardHandler) Get(c *gin.Context) {
	g, ok := bh.boards.Lookup(c.Param("name"))
	if !ok {
		response.RespondError(c, http.StatusNotFound, "not_found", fmt.Errorf("unknown board %q", c.Param("name")))
		return
	}
	response.RespondOK(c, gin.H{"board": gin.H{
		"name":         g.Name,
		"display_name": g.DisplayName,
		"columns":      g.Columns,
		"rows":         g.Rows,
		"hold_count":   g.HoldCount(),
	}})
}
