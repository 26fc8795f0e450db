package api

import (
	"time"

	"github.com/cartable-app/cartable/app/calendar"
	"github.com/cartable-app/cartable/app/database"
	"github.com/cartable-app/cartable/app/homework"
)

type Handler struct {
	calendarService *calendar.Service
	homeworkService *homework.Service
	feedRepo        *database.FeedRepository
	homeworkRepo    *database.HomeworkRepository
}

type courseResponse struct {
	ID             string    `json:"id"`
	Subject        string    `json:"subject"`
	Type           string    `json:"type"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Room           string    `json:"room"`
	Teacher        string    `json:"teacher"`
	Group          string    `json:"group"`
	AdditionalInfo string    `json:"additional_info"`
	Color          string    `json:"color"`
	SourceAccount  string    `json:"source_account"`
}

type homeworkResponse struct {
	ID          string                `json:"id"`
	Subject     string                `json:"subject"`
	Content     string                `json:"content"`
	ContentHTML string                `json:"content_html,omitempty"`
	DueDate     time.Time             `json:"due_date"`
	Done        bool                  `json:"done"`
	Custom      bool                  `json:"custom"`
	CreatedBy   string                `json:"created_by"`
	Attachments []homework.Attachment `json:"attachments"`
}

type createHomeworkRequest struct {
	Subject     string                `json:"subject" binding:"required"`
	Content     string                `json:"content"`
	DueDate     time.Time             `json:"due_date" binding:"required"`
	Account     string                `json:"account"`
	Attachments []homework.Attachment `json:"attachments"`
}

type completionRequest struct {
	Done bool `json:"done"`
}

type createSourceRequest struct {
	URL                string `json:"url" binding:"required"`
	Title              string `json:"title"`
	IntelligentParsing bool   `json:"intelligent_parsing"`
	Color              string `json:"color"`
}

type sourceResponse struct {
	ID                 string `json:"id"`
	URL                string `json:"url"`
	Title              string `json:"title"`
	Provider           string `json:"provider"`
	IntelligentParsing bool   `json:"intelligent_parsing"`
	Color              string `json:"color"`
}
