package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/boardside/kilterboard-backend/internal/domain/holds"
	"github.com/boardside/kilterboard-backend/internal/http/response"
	"github.com/boardside/kilterboard-backend/internal/services"
)

type ProblemHandler struct {
	problemService services.ProblemService
	voteService    services.VoteService
	statsService   services.StatsService
	wallService    services.WallService
}

func NewProblemHandler(
	problemService services.ProblemService,
	voteService services.VoteService,
	statsService services.StatsService,
	wallService services.WallService,
) *ProblemHandler {
	return &ProblemHandler{
		problemService: problemService,
		voteService:    voteService,
		statsService:   statsService,
		wallService:    wallService,
	}
}

func parseProblemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_problem_id", err)
		return uuid.Nil, false
	}
	return id, true
}

// decodeHoldsDocument runs raw hold entries through the canonical decoder so
// the strict wire rules apply to API input exactly as they do to storage.
func decodeHoldsDocument(rawHolds json.RawMessage) (holds.Configuration, error) {
	doc, err := json.Marshal(struct {
		Holds json.RawMessage `json:"holds"`
	}{Holds: rawHolds})
	if err != nil {
		return nil, err
	}
	return holds.Decode(doc)
}

// POST /api/problems
// body: { "board_name": "...", "holds": { "<id>": { "Used": "<role>" }, ... } }
func (ph *ProblemHandler) CreateDraft(c *gin.Context) {
	var req struct {
		BoardName string          `json:"board_name"`
		Holds     json.RawMessage `json:"holds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	cfg, err := decodeHoldsDocument(req.Holds)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	problem, err := ph.problemService.CreateDraft(c.Request.Context(), req.BoardName, cfg)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"problem": problem})
}

// GET /api/problems?board=<name>&limit=<n>&offset=<n>
func (ph *ProblemHandler) ListPublished(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	problems, err := ph.problemService.ListPublished(c.Request.Context(), c.Query("board"), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"problems": problems})
}

// GET /api/problems/mine
func (ph *ProblemHandler) ListMine(c *gin.Context) {
	problems, err := ph.problemService.ListMine(c.Request.Context())
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"problems": problems})
}

// GET /api/problems/:id
func (ph *ProblemHandler) Get(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	problem, err := ph.problemService.Get(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"problem": problem})
}

// PUT /api/problems/:id/holds
// body: { "holds": { "<id>": { "Used": "<role>" }, ... } }
func (ph *ProblemHandler) EditHolds(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	var req struct {
		Holds json.RawMessage `json:"holds"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	cfg, err := decodeHoldsDocument(req.Holds)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	problem, err := ph.problemService.EditHolds(c.Request.Context(), id, cfg)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"problem": problem})
}

// POST /api/problems/:id/publish
// body: { "name": "...", "grade": "V<n>", "tags": ["..."] }
func (ph *ProblemHandler) Publish(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	var req struct {
		Name  string   `json:"name"`
		Grade string   `json:"grade"`
		Tags  []string `json:"tags"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	problem, err := ph.problemService.Publish(c.Request.Context(), id, req.Name, req.Grade, req.Tags)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"problem": problem})
}

// DELETE /api/problems/:id
func (ph *ProblemHandler) Archive(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	if err := ph.problemService.Archive(c.Request.Context(), id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"ok": true})
}

// POST /api/problems/:id/vote
// body: { "star_rating": 1..4, "difficulty_grade": "V<n>" }
func (ph *ProblemHandler) Vote(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	var req struct {
		StarRating      int    `json:"star_rating"`
		DifficultyGrade string `json:"difficulty_grade"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	vote, err := ph.voteService.Submit(c.Request.Context(), id, req.StarRating, req.DifficultyGrade)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"vote": vote})
}

// GET /api/problems/:id/rating
func (ph *ProblemHandler) Rating(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	agg, err := ph.voteService.Aggregate(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"rating": agg})
}

// POST /api/problems/:id/attempts
// body: { "grade": "V<n>", "success": true|false }
func (ph *ProblemHandler) RecordAttempt(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	var req struct {
		Grade   string `json:"grade"`
		Success bool   `json:"success"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	attempt, err := ph.statsService.RecordAttempt(c.Request.Context(), id, req.Grade, req.Success)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, gin.H{"attempt": attempt})
}

// GET /api/problems/:id/attempts
func (ph *ProblemHandler) ListAttempts(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	attempts, err := ph.statsService.ListAttempts(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"attempts": attempts})
}

// POST /api/problems/:id/light
func (ph *ProblemHandler) Light(c *gin.Context) {
	id, ok := parseProblemID(c)
	if !ok {
		return
	}
	frame, err := ph.wallService.Light(c.Request.Context(), id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"frame": frame})
}
