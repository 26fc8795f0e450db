package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cartable-app/cartable/app/calendar"
	"github.com/cartable-app/cartable/app/database"
	"github.com/cartable-app/cartable/app/homework"
)

func NewHandler(calendarService *calendar.Service, homeworkService *homework.Service,
	feedRepo *database.FeedRepository, homeworkRepo *database.HomeworkRepository) *Handler {
	return &Handler{
		calendarService: calendarService,
		homeworkService: homeworkService,
		feedRepo:        feedRepo,
		homeworkRepo:    homeworkRepo,
	}
}

func (h *Handler) GetCourses(c *gin.Context) {
	weekStart, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'from' timestamp, expected RFC3339"})
		return
	}
	weekEnd, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid 'to' timestamp, expected RFC3339"})
		return
	}
	if !weekEnd.After(weekStart) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "'to' must be after 'from'"})
		return
	}

	forceRefresh := c.Query("refresh") == "1"

	courses, err := h.calendarService.CoursesForWeek(c.Request.Context(), weekStart, weekEnd, forceRefresh)
	if err != nil {
		slog.Error("Course ingestion failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load courses"})
		return
	}

	response := make([]courseResponse, 0, len(courses))
	for _, course := range courses {
		response = append(response, courseResponse{
			ID:             course.ID,
			Subject:        course.Subject,
			Type:           string(course.Type),
			Start:          course.Start,
			End:            course.End,
			Room:           course.Room,
			Teacher:        course.Teacher,
			Group:          course.Group,
			AdditionalInfo: course.AdditionalInfo,
			Color:          course.Color,
			SourceAccount:  course.SourceAccountID,
		})
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) GetHomework(c *gin.Context) {
	week, err := strconv.Atoi(c.Param("week"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week number"})
		return
	}

	records, err := h.homeworkService.WeekHomework(c.Request.Context(), week)
	if err != nil {
		slog.Error("Homework lookup failed", "week", week, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load homework"})
		return
	}

	response := make([]homeworkResponse, 0, len(records))
	for _, record := range records {
		response = append(response, toHomeworkResponse(record))
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) CreateHomework(c *gin.Context) {
	var req createHomeworkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	record, err := h.homeworkService.CreateCustom(c.Request.Context(),
		req.Subject, req.Content, req.Account, req.DueDate, req.Attachments)
	if err != nil {
		slog.Error("Homework creation failed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create homework"})
		return
	}

	c.JSON(http.StatusCreated, toHomeworkResponse(record))
}

func (h *Handler) SetHomeworkDone(c *gin.Context) {
	var req completionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	err := h.homeworkService.SetDone(c.Request.Context(), id, req.Done)

	var syncErr *homework.CompletionSyncError
	if errors.As(err, &syncErr) {
		// The local write succeeded; tell the caller the remote side may
		// be stale rather than failing the whole action.
		slog.Warn("Completion saved locally but remote sync failed", "id", id, "error", syncErr)
		c.JSON(http.StatusOK, gin.H{"done": req.Done, "remote_synced": false})
		return
	}
	if err != nil {
		slog.Error("Completion update failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update completion"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"done": req.Done, "remote_synced": true})
}

func (h *Handler) DeleteHomework(c *gin.Context) {
	id := c.Param("id")
	if err := h.homeworkService.Delete(c.Request.Context(), id); err != nil {
		slog.Error("Homework deletion failed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete homework"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) ListSources(c *gin.Context) {
	feeds, err := h.feedRepo.ListFeeds(c.Request.Context())
	if err != nil {
		slog.Error("Database error", "operation", "list_feeds", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list sources"})
		return
	}

	response := make([]sourceResponse, 0, len(feeds))
	for _, feed := range feeds {
		response = append(response, toSourceResponse(feed))
	}

	c.JSON(http.StatusOK, response)
}

func (h *Handler) CreateSource(c *gin.Context) {
	var req createSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	feed, err := h.feedRepo.CreateFeed(c.Request.Context(), calendar.Feed{
		URL:                req.URL,
		Title:              req.Title,
		IntelligentParsing: req.IntelligentParsing,
		Color:              req.Color,
	})
	if err != nil {
		slog.Error("Database error", "operation", "create_feed", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create source"})
		return
	}

	c.JSON(http.StatusCreated, toSourceResponse(feed))
}

func (h *Handler) DeleteSource(c *gin.Context) {
	id := c.Param("id")

	if err := h.feedRepo.DeleteFeed(c.Request.Context(), id); err != nil {
		slog.Error("Database error", "operation", "delete_feed", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete source"})
		return
	}
	h.calendarService.Invalidate(id)

	c.Status(http.StatusNoContent)
}

func (h *Handler) GetHealth(c *gin.Context) {
	health := map[string]interface{}{
		"timestamp": time.Now().In(time.Local).Format(time.RFC3339),
	}

	if feedCount, err := h.feedRepo.GetFeedCount(c.Request.Context()); err == nil {
		health["sources"] = feedCount
	}
	if homeworkCount, err := h.homeworkRepo.GetHomeworkCount(c.Request.Context()); err == nil {
		health["homework"] = homeworkCount
	}

	c.JSON(http.StatusOK, health)
}

func toHomeworkResponse(record homework.Homework) homeworkResponse {
	switch rec := record.(type) {
	case homework.CustomHomework:
		return homeworkResponse{
			ID:          rec.ID,
			Subject:     rec.Subject,
			Content:     rec.Content,
			ContentHTML: renderMarkdown(rec.Content),
			DueDate:     rec.DueDate,
			Done:        rec.Done,
			Custom:      true,
			CreatedBy:   rec.CreatedByAccount,
			Attachments: rec.Attachments,
		}
	case homework.SyncedHomework:
		return homeworkResponse{
			ID:          rec.ID,
			Subject:     rec.Subject,
			Content:     rec.Content,
			ContentHTML: policy.Sanitize(rec.Content),
			DueDate:     rec.DueDate,
			Done:        rec.Done,
			Custom:      false,
			CreatedBy:   rec.CreatedByAccount,
			Attachments: rec.Attachments,
		}
	default:
		return homeworkResponse{ID: record.HomeworkID(), DueDate: record.Due(), Done: record.Completed()}
	}
}

func toSourceResponse(feed calendar.Feed) sourceResponse {
	return sourceResponse{
		ID:                 feed.ID,
		URL:                feed.URL,
		Title:              feed.Title,
		Provider:           string(feed.Provider),
		IntelligentParsing: feed.IntelligentParsing,
		Color:              feed.Color,
	}
}
