package transport

import (
	"time"

	"github.com/google/uuid"
)

type PartnerRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	WebsiteURL  string `json:"websiteUrl" validate:"omitempty,url,max=500"`
	Description string `json:"description" validate:"max=2000"`
	Order       int    `json:"order" validate:"min=0"`
}

type PartnerResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	WebsiteURL  string    `json:"websiteUrl"`
	Description string    `json:"description"`
	LogoKey     *string   `json:"logoKey,omitempty"`
	LogoURL     *string   `json:"logoUrl,omitempty"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type PartnerListResponse struct {
	Items []PartnerResponse `json:"items"`
	Total int               `json:"total"`
}

type FAQRequest struct {
	Question    string `json:"question" validate:"required,max=500"`
	Answer      string `json:"answer" validate:"required,max=5000"`
	Category    string `json:"category" validate:"max=100"`
	IsPublished *bool  `json:"isPublished"`
	Order       int    `json:"order" validate:"min=0"`
}

type FAQResponse struct {
	ID          uuid.UUID `json:"id"`
	Question    string    `json:"question"`
	Answer      string    `json:"answer"`
	Category    string    `json:"category"`
	IsPublished bool      `json:"isPublished"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type FAQListResponse struct {
	Items []FAQResponse `json:"items"`
	Total int           `json:"total"`
}

// CaseRequest creates or replaces a customer case. An empty slug is derived from the title.
type CaseRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Slug        string `json:"slug" validate:"omitempty,max=200,slug"`
	ClientName  string `json:"clientName" validate:"required,max=200"`
	Summary     string `json:"summary" validate:"required,max=1000"`
	Body        string `json:"body" validate:"max=20000"`
	IsPublished bool   `json:"isPublished"`
	Order       int    `json:"order" validate:"min=0"`
}

type CaseResponse struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	ClientName  string    `json:"clientName"`
	Summary     string    `json:"summary"`
	Body        string    `json:"body"`
	ImageKey    *string   `json:"imageKey,omitempty"`
	ImageURL    *string   `json:"imageUrl,omitempty"`
	IsPublished bool      `json:"isPublished"`
	Order       int       `json:"order"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

type CaseListResponse struct {
	Items []CaseResponse `json:"items"`
	Total int            `json:"total"`
}

// PresignRequest describes the image the browser is about to upload.
type PresignRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type PresignResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// SetImageRequest records an uploaded object. A null key clears the image.
type SetImageRequest struct {
	FileKey *string `json:"fileKey" validate:"omitempty,max=500"`
}
